package command_test

import (
	"testing"

	"github.com/nikbrunner/sl/internal/command"
	"gotest.tools/v3/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  command.Command
	}{
		{name: "empty input", input: "", want: command.Nothing{}},
		{name: "save plain name", input: "docs", want: command.Save{Name: "docs"}},
		{name: "save normalizes name", input: "my tab, name", want: command.Save{Name: "my_tab_name"}},
		{name: "unknown word falls through to save", input: "invalid", want: command.Save{Name: "invalid"}},
		{name: "delete", input: "delete docs", want: command.Delete{Names: "docs"}},
		{name: "delete short", input: "d docs", want: command.Delete{Names: "docs"}},
		{name: "delete trims remainder", input: "delete   docs  ", want: command.Delete{Names: "docs"}},
		{name: "delete keeps list verbatim", input: "delete a, b;c", want: command.Delete{Names: "a, b;c"}},
		{name: "delete without names", input: "d ", want: command.Delete{Names: ""}},
		{name: "go", input: "go docs", want: command.Go{Names: "docs"}},
		{name: "go short", input: "g docs", want: command.Go{Names: "docs"}},
		{name: "copy", input: "copy docs", want: command.CopyToClipboard{Names: "docs"}},
		{name: "copy multiple", input: "copy docs1 docs2", want: command.CopyToClipboard{Names: "docs1 docs2"}},
		{name: "copy short", input: "c docs", want: command.CopyToClipboard{Names: "docs"}},
		{name: "export", input: "export", want: command.Export{}},
		{name: "export short", input: "e", want: command.Export{}},
		{name: "export to file", input: "export /tmp/sl.json", want: command.Export{Path: "/tmp/sl.json"}},
		{name: "import", input: "import", want: command.Import{}},
		{name: "import short", input: "i", want: command.Import{}},
		{name: "import from file", input: "i backup.json", want: command.Import{Path: "backup.json"}},
		{name: "debug", input: "::debug:: arg", want: command.Debug{Arg: "arg"}},
		{name: "debug keeps spaces", input: "::debug:: arg1 arg2", want: command.Debug{Arg: "arg1 arg2"}},
		{name: "debug add", input: "::debug:: add 5", want: command.Debug{Arg: "add 5"}},
		{name: "keyword without separator is a name", input: "delete", want: command.Save{Name: "delete"}},
		{name: "word starting with e is a name", input: "email", want: command.Save{Name: "email"}},
		{name: "word starting with i is a name", input: "images", want: command.Save{Name: "images"}},
		{name: "word starting with export is a name", input: "exports", want: command.Save{Name: "exports"}},
		{name: "word starting with d is a name", input: "docs2", want: command.Save{Name: "docs2"}},
		{name: "matching is case sensitive", input: "Go docs", want: command.Save{Name: "Go_docs"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := command.Parse(tt.input)
			assert.DeepEqual(t, got, tt.want)
		})
	}
}

func TestParse_KindsMatchVariants(t *testing.T) {
	tests := []struct {
		input string
		want  command.Kind
	}{
		{"", command.KindNothing},
		{"docs", command.KindSave},
		{"delete x", command.KindDelete},
		{"go x", command.KindGo},
		{"copy x", command.KindCopy},
		{"export", command.KindExport},
		{"import", command.KindImport},
		{"::debug:: clear", command.KindDebug},
	}

	for _, tt := range tests {
		assert.Equal(t, command.Parse(tt.input).Kind(), tt.want, "input %q", tt.input)
	}
}

func TestValidateShortlinkName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"docs", "docs"},
		{"my tab, name", "my_tab_name"},
		{"a  ,, b", "a_b"},
		{"a__b", "a_b"},
		{"trailing ", "trailing"},
		{"trailing__", "trailing"},
		{"tab\tand\nnewline", "tab_and_newline"},
		{" leading", "_leading"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, command.ValidateShortlinkName(tt.input), tt.want)
		})
	}
}
