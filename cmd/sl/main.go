package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/nikbrunner/sl/internal/command"
	"github.com/nikbrunner/sl/internal/picker"
	"github.com/nikbrunner/sl/internal/prompt"
	"github.com/nikbrunner/sl/internal/search"
	"github.com/nikbrunner/sl/internal/shortlink"
	"github.com/nikbrunner/sl/internal/toast"
	"github.com/nikbrunner/sl/internal/tui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return runTUI(ctx)
	}

	switch args[0] {
	case "help", "--help", "-h":
		printHelp()
		return nil
	case "list", "ls":
		return runList(ctx)
	case "edit":
		if len(args) < 2 {
			return errors.New("usage: sl edit <name>")
		}
		return runEdit(ctx, args[1])
	case "pick":
		return runPick(ctx, strings.Join(args[1:], " "))
	case "export-html":
		var path string
		if len(args) >= 2 {
			path = args[1]
		}
		return runExportHTML(ctx, path)
	case "import-html":
		if len(args) < 2 {
			return errors.New("usage: sl import-html <file.html>")
		}
		return runImportHTML(ctx, args[1])
	case "check":
		return runCheck(ctx, len(args) >= 2 && args[1] == "--prune")
	case "serve":
		return runServe(ctx)
	default:
		return runCommand(ctx, commandFor(args))
	}
}

// commandFor turns command-line arguments into a popup command. "debug"
// is spelled out on the command line; the popup keyword is "::debug:: ".
func commandFor(args []string) command.Command {
	if len(args) > 0 && args[0] == "debug" {
		return command.Debug{Arg: strings.Join(args[1:], " ")}
	}
	return command.Parse(strings.Join(args, " "))
}

func printHelp() {
	help := `sl - named sets of URLs

Usage:
  sl                          Open the command popup
  sl <name>                   Save the current tabs as <name>
  sl go <names>               Open every URL of the named shortlinks
  sl copy <names>             Copy the URLs to the clipboard
  sl delete <names>           Delete shortlinks
  sl export [path]            Export all shortlinks as JSON (clipboard when no path)
  sl import [path]            Replace all shortlinks from JSON (stdin or clipboard when no path)
  sl debug clear|add [n]      Clear the store or add n random shortlinks
  sl edit <name>              Edit the URLs of a shortlink
  sl list                     List shortlinks by priority
  sl pick <query>             Fuzzy pick a shortlink and open it
  sl export-html [path]       Export as a Netscape bookmarks file
  sl import-html <file>       Merge a Netscape bookmarks file
  sl check [--prune]          Find dead URLs; --prune removes them
  sl serve                    Serve /go/<names> and the JSON API
  sl help                     Show this help

Names are separated by commas, semicolons or spaces.
Tabs come from stdin (one URL per line) or tabs_command.

Popup keys:
  tab         Complete the selected name
  enter       Run the command, or open the selection
  ctrl+e      Edit the selected shortlink
  up/down     Move the selection
  esc         Close

Config:
  ~/.config/sl/config.yaml, .env and SL_* variables
`
	fmt.Print(help)
}

// runCommand runs one popup command.
func runCommand(ctx context.Context, cmd command.Command) error {
	var in io.Reader
	if stdinPiped() {
		in = os.Stdin
	}

	// A piped payload takes the place of the clipboard.
	if imp, ok := cmd.(command.Import); ok && imp.Path == "" && in != nil {
		a, err := setup(ctx, setupParams{notifier: toast.NewPrinter(os.Stderr)})
		if err != nil {
			return err
		}
		defer a.Close()
		_, err = a.svc.ImportReader(ctx, in)
		return err
	}

	a, err := setup(ctx, setupParams{
		stdin:    in,
		notifier: toast.NewPrinter(os.Stderr),
		prompter: terminalPrompter(),
	})
	if err != nil {
		return err
	}
	defer a.Close()

	return a.svc.Dispatch(ctx, cmd)
}

// runTUI runs the command popup.
func runTUI(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	bridge := tui.NewBridge()
	a, err := setup(ctx, setupParams{notifier: bridge, prompter: bridge})
	if err != nil {
		return err
	}
	defer a.Close()

	links, err := a.svc.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("loading shortlinks: %w", err)
	}

	app := tui.NewApp(tui.AppParams{Context: ctx, Service: a.svc, Links: links})
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	bridge.Attach(p.Send)

	finalModel, err := p.Run()
	cancel()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running popup: %w", err)
	}

	// The alt screen is gone; repeat the last notice on the terminal.
	if finalApp, ok := finalModel.(tui.App); ok {
		if n, ok := finalApp.Notice(); ok {
			toast.NewPrinter(os.Stderr).Notify(n)
		}
	}
	return nil
}

func runList(ctx context.Context) error {
	a, err := setup(ctx, setupParams{})
	if err != nil {
		return err
	}
	defer a.Close()

	links, err := a.svc.Snapshot(ctx)
	if err != nil {
		return err
	}
	if len(links) == 0 {
		fmt.Println("No shortlinks yet")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, l := range links {
		fmt.Fprintf(w, "%s\t%d\t%s\n", l.Name, l.Priority, strings.Join(l.URLs, " "))
	}
	return w.Flush()
}

func runEdit(ctx context.Context, name string) error {
	a, err := setup(ctx, setupParams{
		notifier: toast.NewPrinter(os.Stderr),
		prompter: terminalPrompter(),
	})
	if err != nil {
		return err
	}
	defer a.Close()

	return a.svc.Edit(ctx, name)
}

// runPick fuzzy searches names and opens the chosen shortlink.
func runPick(ctx context.Context, query string) error {
	a, err := setup(ctx, setupParams{notifier: toast.NewPrinter(os.Stderr)})
	if err != nil {
		return err
	}
	defer a.Close()

	links, err := a.svc.Snapshot(ctx)
	if err != nil {
		return err
	}

	results := search.Shortlinks(links, query)
	if len(results) == 0 {
		fmt.Printf("No shortlinks found for '%s'\n", query)
		return nil
	}

	name := results[0].Link.Name
	if len(results) > 1 {
		finalModel, err := tea.NewProgram(picker.New(results, query), tea.WithContext(ctx)).Run()
		if err != nil {
			return fmt.Errorf("running picker: %w", err)
		}
		finalPicker := finalModel.(picker.Picker)
		selected, ok := finalPicker.Selected()
		if finalPicker.Cancelled() || !ok {
			return nil
		}
		name = selected.Name
	}

	return a.svc.Go(ctx, name)
}

func runExportHTML(ctx context.Context, path string) error {
	a, err := setup(ctx, setupParams{notifier: toast.NewPrinter(os.Stderr)})
	if err != nil {
		return err
	}
	defer a.Close()

	_, err = a.svc.ExportHTML(ctx, path)
	return err
}

func runImportHTML(ctx context.Context, path string) error {
	a, err := setup(ctx, setupParams{notifier: toast.NewPrinter(os.Stderr)})
	if err != nil {
		return err
	}
	defer a.Close()

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, _, err = a.svc.ImportHTML(ctx, f)
	return err
}

func stdinPiped() bool {
	fd := os.Stdin.Fd()
	return !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd)
}

// terminalPrompter prompts on the terminal, or on /dev/tty when stdin
// carries data. Without a terminal every question is declined.
func terminalPrompter() shortlink.Prompter {
	if !stdinPiped() {
		return prompt.NewTerminal(os.Stdin, os.Stderr)
	}
	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return nil
	}
	return prompt.NewTerminal(tty, tty)
}
