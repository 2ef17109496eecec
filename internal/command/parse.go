package command

import (
	"regexp"
	"strings"
)

// keyword is one entry of the command table. Keywords are stored with
// their trailing separator; bare keywords also match on their own.
type keyword struct {
	text  string
	bare  bool
	build func(arg string) Command
}

// keywords is checked in order; longer keywords come before their
// abbreviations so "d " never shadows "delete ".
var keywords = []keyword{
	{text: "delete ", build: func(arg string) Command { return Delete{Names: arg} }},
	{text: "d ", build: func(arg string) Command { return Delete{Names: arg} }},
	{text: "go ", build: func(arg string) Command { return Go{Names: arg} }},
	{text: "g ", build: func(arg string) Command { return Go{Names: arg} }},
	{text: "copy ", build: func(arg string) Command { return CopyToClipboard{Names: arg} }},
	{text: "c ", build: func(arg string) Command { return CopyToClipboard{Names: arg} }},
	{text: "export", bare: true, build: func(arg string) Command { return Export{Path: arg} }},
	{text: "e", bare: true, build: func(arg string) Command { return Export{Path: arg} }},
	{text: "import", bare: true, build: func(arg string) Command { return Import{Path: arg} }},
	{text: "i", bare: true, build: func(arg string) Command { return Import{Path: arg} }},
	{text: "::debug:: ", build: func(arg string) Command { return Debug{Arg: arg} }},
}

// Parse maps raw input to a command. It never fails: input that matches no
// keyword is a Save of the normalized text.
func Parse(text string) Command {
	if len(text) == 0 {
		return Nothing{}
	}

	for _, kw := range keywords {
		if rest, ok := kw.match(text); ok {
			return kw.build(strings.TrimSpace(rest))
		}
	}

	return Save{Name: ValidateShortlinkName(text)}
}

// match reports whether text starts with the keyword and returns the rest.
// A bare keyword matches the whole input or the keyword followed by a space.
func (kw keyword) match(text string) (string, bool) {
	if !kw.bare {
		return strings.CutPrefix(text, kw.text)
	}
	if text == kw.text {
		return "", true
	}
	return strings.CutPrefix(text, kw.text+" ")
}

var (
	separatorRun  = regexp.MustCompile(`[\s,]+`)
	underscoreRun = regexp.MustCompile(`_+`)
)

// ValidateShortlinkName turns free text into a store key: runs of
// whitespace or commas become "_", repeated "_" collapse, and a single
// trailing "_" is dropped.
func ValidateShortlinkName(name string) string {
	name = separatorRun.ReplaceAllString(name, "_")
	name = underscoreRun.ReplaceAllString(name, "_")
	return strings.TrimSuffix(name, "_")
}
