// Package browser provides the tab and clipboard collaborators for a
// terminal: "highlighted tabs" come from stdin or a configured command,
// and URLs are opened with the platform opener.
package browser

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"strings"
	"sync"
)

// ErrNoTabs is returned when no source of tab URLs is configured.
var ErrNoTabs = errors.New("no tab source: pipe URLs on stdin or set tabs_command")

// Opener opens a single URL.
type Opener func(ctx context.Context, url string) error

type TabsParams struct {
	// Stdin is read once when set; one URL per line.
	Stdin io.Reader
	// Command is run through the shell and its stdout parsed like Stdin.
	// It takes precedence over Stdin.
	Command string
	// Open defaults to the platform opener.
	Open Opener
}

// Tabs implements the tab collaborator.
type Tabs struct {
	stdin   io.Reader
	command string
	open    Opener

	once sync.Once
	urls []string
	err  error
}

func NewTabs(params TabsParams) *Tabs {
	if params.Open == nil {
		params.Open = OpenURL
	}
	return &Tabs{
		stdin:   params.Stdin,
		command: params.Command,
		open:    params.Open,
	}
}

// Highlighted returns the URLs of the "highlighted tabs". The source is
// read at most once; later calls return the same result.
func (t *Tabs) Highlighted(ctx context.Context) ([]string, error) {
	t.once.Do(func() {
		t.urls, t.err = t.read(ctx)
	})
	if t.err != nil {
		return nil, t.err
	}
	return append([]string(nil), t.urls...), nil
}

func (t *Tabs) read(ctx context.Context) ([]string, error) {
	switch {
	case t.command != "":
		out, err := exec.CommandContext(ctx, "sh", "-c", t.command).Output()
		if err != nil {
			return nil, fmt.Errorf("tabs command: %w", err)
		}
		return ParseURLs(bytes.NewReader(out))
	case t.stdin != nil:
		return ParseURLs(t.stdin)
	default:
		return nil, ErrNoTabs
	}
}

// Open opens every URL in order and stops at the first failure.
func (t *Tabs) Open(ctx context.Context, urls []string) error {
	for _, u := range urls {
		if err := t.open(ctx, u); err != nil {
			return fmt.Errorf("open %s: %w", u, err)
		}
	}
	return nil
}

// ParseURLs reads one URL per line, trimming whitespace and dropping
// blank lines.
func ParseURLs(r io.Reader) ([]string, error) {
	var urls []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			urls = append(urls, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if urls == nil {
		urls = []string{}
	}
	return urls, nil
}

// OpenURL opens a URL in the default browser.
func OpenURL(_ context.Context, url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("no URL opener for %s", runtime.GOOS)
	}
	return cmd.Start()
}
