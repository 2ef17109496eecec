package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/nikbrunner/sl/internal/culler"
	"github.com/nikbrunner/sl/internal/toast"
)

// runCheck reports dead and unreachable URLs. With prune, dead URLs are
// removed from their shortlinks.
func runCheck(ctx context.Context, prune bool) error {
	a, err := setup(ctx, setupParams{notifier: toast.NewPrinter(os.Stderr)})
	if err != nil {
		return err
	}
	defer a.Close()

	links, err := a.svc.Snapshot(ctx)
	if err != nil {
		return err
	}

	results := culler.CheckShortlinks(ctx, links, culler.Options{
		Concurrency:    a.cfg.Check.Concurrency,
		Timeout:        a.cfg.Check.Timeout,
		ExcludeDomains: a.cfg.Check.ExcludeDomains,
		OnProgress: func(completed, total int) {
			fmt.Fprintf(os.Stderr, "\rChecking URLs %d/%d", completed, total)
		},
	})
	fmt.Fprintln(os.Stderr)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	var healthy int
	for _, r := range results {
		if r.Status == culler.Healthy {
			healthy++
			continue
		}
		detail := r.Error
		if detail == "" {
			detail = fmt.Sprintf("HTTP %d", r.StatusCode)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Name, r.Status, r.URL, detail)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("%d of %d URLs healthy\n", healthy, len(results))

	if !prune {
		return nil
	}

	dead := culler.DeadURLs(results)
	names := make([]string, 0, len(dead))
	for name := range dead {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		link, err := a.svc.Get(ctx, name)
		if err != nil {
			return err
		}
		if err := a.svc.SetURLs(ctx, name, culler.Without(link.URLs, dead[name])); err != nil {
			return err
		}
	}
	return nil
}
