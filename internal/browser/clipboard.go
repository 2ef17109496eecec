package browser

import (
	"fmt"
	"io"

	"github.com/atotto/clipboard"
)

// Clipboard writes to the system clipboard. When that is unavailable the
// text is written to the fallback writer instead.
type Clipboard struct {
	fallback io.Writer

	write func(string) error
	read  func() (string, error)
}

func NewClipboard(fallback io.Writer) *Clipboard {
	return &Clipboard{
		fallback: fallback,
		write:    systemWrite,
		read:     systemRead,
	}
}

func systemWrite(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("clipboard unsupported on this system")
	}
	return clipboard.WriteAll(text)
}

func systemRead() (string, error) {
	if clipboard.Unsupported {
		return "", fmt.Errorf("clipboard unsupported on this system")
	}
	return clipboard.ReadAll()
}

func (c *Clipboard) WriteText(text string) error {
	err := c.write(text)
	if err == nil {
		return nil
	}
	if c.fallback == nil {
		return err
	}
	_, werr := fmt.Fprintln(c.fallback, text)
	return werr
}

func (c *Clipboard) ReadText() (string, error) {
	return c.read()
}
