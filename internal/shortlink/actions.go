package shortlink

import (
	"context"
	"fmt"
	"strings"

	"github.com/nikbrunner/sl/internal/command"
	"github.com/nikbrunner/sl/internal/logger"
	"github.com/nikbrunner/sl/internal/model"
	"github.com/nikbrunner/sl/internal/toast"
)

const (
	overwriteQuestion = "The shortlink '%s' with value '%s' already exists. Do you want to overwrite it?"
	renameQuestion    = "Do you want to provide a new name for the shortlink?"
	renamePrompt      = "Enter a new name for the shortlink (or leave empty to keep the same name):"
	editPrompt        = "Edit the URLs for '%s' (separated by spaces):"
)

// Save stores the highlighted tabs under name. An existing shortlink with
// URLs is only replaced after confirmation; declining offers a rename.
func (s *Service) Save(ctx context.Context, name string) error {
	if name == "" {
		s.notice(toast.Warning, "Please provide a name for the shortlink")
		return ErrEmptyName
	}

	urls, err := s.tabs.Highlighted(ctx)
	if err != nil {
		s.notice(toast.Error, "Could not read the highlighted tabs: %v", err)
		return fmt.Errorf("read tabs: %w", err)
	}

	return s.save(ctx, name, urls)
}

func (s *Service) save(ctx context.Context, name string, urls []string) error {
	existing, ok, err := s.store.GetOne(ctx, name)
	if err != nil {
		s.notice(toast.Error, "Could not read shortlink '%s'", name)
		return fmt.Errorf("get %q: %w", name, err)
	}

	if !ok || len(existing.URLs) == 0 {
		if err := s.write(ctx, name, urls); err != nil {
			return err
		}
		s.notice(toast.Success, "Saved shortlink '%s' with %s", name, countURLs(len(urls)))
		return nil
	}

	question := fmt.Sprintf(overwriteQuestion, name, strings.Join(existing.URLs, ", "))
	if s.prompter.Confirm(ctx, question) {
		if err := s.write(ctx, name, urls); err != nil {
			return err
		}
		s.notice(toast.Success, "Replaced shortlink '%s' with %s", name, countURLs(len(urls)))
		return nil
	}

	if !s.prompter.Confirm(ctx, renameQuestion) {
		s.cancelled("Shortlink not saved")
		return nil
	}

	newName, ok := s.prompter.Prompt(ctx, renamePrompt, "")
	newName = command.ValidateShortlinkName(strings.TrimSpace(newName))
	if !ok || newName == "" {
		s.cancelled("Shortlink not saved")
		return nil
	}

	// The new name may exist too; go through the same checks.
	return s.save(ctx, newName, urls)
}

func (s *Service) write(ctx context.Context, name string, urls []string) error {
	if err := s.store.SetOne(ctx, name, model.NewStoredValue(urls, s.now())); err != nil {
		s.notice(toast.Error, "Could not save shortlink '%s': %v", name, err)
		return fmt.Errorf("set %q: %w", name, err)
	}
	return nil
}

// Go opens the URLs of every named shortlink as one batch, bumping each
// found shortlink's priority. Missing names contribute nothing.
func (s *Service) Go(ctx context.Context, arg string) error {
	names := command.ExtractNames(arg)
	if len(names) == 0 {
		s.notice(toast.Warning, "Please provide a shortlink name to open")
		return nil
	}

	res, err := s.collect(ctx, names, true)
	if err != nil {
		s.notice(toast.Error, "Could not update shortlink priority: %v", err)
		return err
	}
	if len(res.urls) == 0 {
		s.notice(toast.Warning, "No URLs to open for %s", strings.Join(names, ", "))
		return nil
	}

	if err := s.tabs.Open(ctx, res.urls); err != nil {
		s.notice(toast.Error, "Could not open URLs: %v", err)
		return fmt.Errorf("open: %w", err)
	}
	s.notice(toast.Success, "Opening %s", countURLs(len(res.urls)))
	return nil
}

// Resolve collects the URLs of the named shortlinks with the same priority
// bump as Go, without opening them. It fails with ErrNotFound when none of
// the names exist.
func (s *Service) Resolve(ctx context.Context, names []string) ([]string, error) {
	res, err := s.collect(ctx, names, true)
	if err != nil {
		return nil, err
	}
	if res.found == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, strings.Join(names, ", "))
	}
	return res.urls, nil
}

// Copy puts the URLs of the named shortlinks on the clipboard, one per
// line. Priorities are left untouched.
func (s *Service) Copy(ctx context.Context, arg string) error {
	names := command.ExtractNames(arg)
	if len(names) == 0 {
		s.notice(toast.Warning, "Please provide a shortlink name to copy")
		return nil
	}

	res, err := s.collect(ctx, names, false)
	if err != nil {
		return err
	}

	if res.found == 0 {
		s.notice(toast.Error, "Shortlink(s) %s not found.%s", quoted(res.missing), s.didYouMean(ctx, res.missing))
		return nil
	}

	if err := s.clipboard.WriteText(strings.Join(res.urls, "\n")); err != nil {
		s.notice(toast.Error, "Could not copy to clipboard: %v", err)
		return fmt.Errorf("clipboard: %w", err)
	}

	if len(res.missing) > 0 {
		s.notice(toast.Warning, "Copied %s to clipboard; %s not found.%s",
			countURLs(len(res.urls)), quoted(res.missing), s.didYouMean(ctx, res.missing))
		return nil
	}
	s.notice(toast.Success, "Copied %s to clipboard", countURLs(len(res.urls)))
	return nil
}

type collected struct {
	urls    []string
	found   int
	missing []string // absent or unreadable names
}

// collect gathers URLs in name order. Read failures are logged and count as
// missing; with bump set, a failed priority write aborts.
func (s *Service) collect(ctx context.Context, names []string, bump bool) (collected, error) {
	res := collected{urls: []string{}}
	for _, name := range names {
		value, ok, err := s.store.GetOne(ctx, name)
		if err != nil {
			s.log.Warn("failed to read shortlink", logger.String("name", name), logger.Error(err))
			res.missing = append(res.missing, name)
			continue
		}
		if !ok {
			s.log.Debug("shortlink not found", logger.String("name", name))
			res.missing = append(res.missing, name)
			continue
		}

		if bump {
			if err := s.store.SetOne(ctx, name, value.Bumped(s.now())); err != nil {
				return collected{}, fmt.Errorf("bump %q: %w", name, err)
			}
		}
		res.found++
		res.urls = append(res.urls, value.URLs...)
	}
	return res, nil
}

// Delete removes every named shortlink. Missing names are not an error.
func (s *Service) Delete(ctx context.Context, arg string) error {
	names := command.ExtractNames(arg)
	if len(names) == 0 {
		s.notice(toast.Warning, "Please provide a shortlink name to delete")
		return nil
	}

	for _, name := range names {
		if err := s.store.RemoveOne(ctx, name); err != nil {
			s.notice(toast.Error, "Could not delete shortlink '%s': %v", name, err)
			return fmt.Errorf("remove %q: %w", name, err)
		}
	}

	s.notice(toast.Success, "Deleted shortlink(s) %s", strings.Join(names, ", "))
	return nil
}

// DeleteOne removes exactly one shortlink; name is not split into a list.
func (s *Service) DeleteOne(ctx context.Context, name string) error {
	if err := s.store.RemoveOne(ctx, name); err != nil {
		s.notice(toast.Error, "Could not delete shortlink '%s': %v", name, err)
		return fmt.Errorf("remove %q: %w", name, err)
	}
	s.notice(toast.Success, "Deleted shortlink(s) %s", name)
	return nil
}

// Edit replaces the URLs of an existing shortlink with the space-separated
// list the user enters. The date is refreshed; priority is kept.
func (s *Service) Edit(ctx context.Context, name string) error {
	value, ok, err := s.store.GetOne(ctx, name)
	if err != nil {
		s.notice(toast.Error, "Could not read shortlink '%s'", name)
		return fmt.Errorf("get %q: %w", name, err)
	}
	if !ok || len(value.URLs) == 0 {
		s.notice(toast.Warning, "Shortlink '%s' not found. Cannot edit.%s", name, s.didYouMean(ctx, []string{name}))
		return nil
	}

	text, ok := s.prompter.Prompt(ctx, fmt.Sprintf(editPrompt, name), strings.Join(value.URLs, "   "))
	if !ok {
		s.cancelled("Edit cancelled")
		return nil
	}

	return s.SetURLs(ctx, name, strings.Fields(text))
}

// SetURLs replaces the URLs of an existing shortlink, keeping its priority.
func (s *Service) SetURLs(ctx context.Context, name string, urls []string) error {
	value, ok, err := s.store.GetOne(ctx, name)
	if err != nil {
		return fmt.Errorf("get %q: %w", name, err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	if err := s.store.SetOne(ctx, name, value.WithURLs(urls, s.now())); err != nil {
		s.notice(toast.Error, "Could not update shortlink '%s': %v", name, err)
		return fmt.Errorf("set %q: %w", name, err)
	}
	s.notice(toast.Success, "Shortlink '%s' updated.", name)
	return nil
}

// Get returns one shortlink without touching its priority.
func (s *Service) Get(ctx context.Context, name string) (model.Shortlink, error) {
	value, ok, err := s.store.GetOne(ctx, name)
	if err != nil {
		return model.Shortlink{}, fmt.Errorf("get %q: %w", name, err)
	}
	if !ok {
		return model.Shortlink{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return value.Shortlink(name), nil
}

func countURLs(n int) string {
	if n == 1 {
		return "1 URL"
	}
	return fmt.Sprintf("%d URLs", n)
}

func quoted(names []string) string {
	q := make([]string, len(names))
	for i, n := range names {
		q[i] = "'" + n + "'"
	}
	return strings.Join(q, ", ")
}
