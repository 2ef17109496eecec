// Package command turns one line of user input into a typed command.
package command

// Kind names a command variant.
type Kind string

const (
	KindNothing Kind = "nothing"
	KindSave    Kind = "save"
	KindDelete  Kind = "delete"
	KindGo      Kind = "go"
	KindCopy    Kind = "copytoclipboard"
	KindExport  Kind = "export"
	KindImport  Kind = "import"
	KindDebug   Kind = "debug"
)

// Command is the closed set of parsed commands. Only types in this package
// implement it; switch on the concrete type to dispatch.
type Command interface {
	Kind() Kind
	command()
}

// Nothing is produced for empty input.
type Nothing struct{}

// Save stores the highlighted tabs under Name.
type Save struct {
	Name string
}

// Delete removes the shortlinks listed in Names.
type Delete struct {
	Names string
}

// Go opens the URLs of the shortlinks listed in Names.
type Go struct {
	Names string
}

// CopyToClipboard copies the URLs of the shortlinks listed in Names.
type CopyToClipboard struct {
	Names string
}

// Export serializes every shortlink. An empty Path targets the clipboard.
type Export struct {
	Path string
}

// Import replaces the store with a serialized snapshot. An empty Path reads
// the payload from the default source.
type Import struct {
	Path string
}

// Debug carries a raw debug sub-command such as "clear" or "add 20".
type Debug struct {
	Arg string
}

func (Nothing) Kind() Kind         { return KindNothing }
func (Save) Kind() Kind            { return KindSave }
func (Delete) Kind() Kind          { return KindDelete }
func (Go) Kind() Kind              { return KindGo }
func (CopyToClipboard) Kind() Kind { return KindCopy }
func (Export) Kind() Kind          { return KindExport }
func (Import) Kind() Kind          { return KindImport }
func (Debug) Kind() Kind           { return KindDebug }

func (Nothing) command()         {}
func (Save) command()            {}
func (Delete) command()          {}
func (Go) command()              {}
func (CopyToClipboard) command() {}
func (Export) command()          {}
func (Import) command()          {}
func (Debug) command()           {}
