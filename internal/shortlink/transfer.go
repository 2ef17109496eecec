package shortlink

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nikbrunner/sl/internal/command"
	"github.com/nikbrunner/sl/internal/exporter"
	"github.com/nikbrunner/sl/internal/importer"
	"github.com/nikbrunner/sl/internal/logger"
	"github.com/nikbrunner/sl/internal/model"
	"github.com/nikbrunner/sl/internal/search"
	"github.com/nikbrunner/sl/internal/toast"
)

// ImportReport lists what an import wrote and what it skipped.
type ImportReport struct {
	Imported []string
	Skipped  []importer.InvalidRecordError
}

// Export serializes the sorted snapshot as JSON. With an empty path the
// text goes to the clipboard; a directory path gets the default file name.
func (s *Service) Export(ctx context.Context, path string) error {
	links, err := s.store.GetAll(ctx)
	if err != nil {
		s.notice(toast.Error, "Could not load shortlinks: %v", err)
		return fmt.Errorf("load: %w", err)
	}

	data, err := exporter.ExportJSON(links)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	if path == "" {
		if err := s.clipboard.WriteText(string(data)); err != nil {
			s.notice(toast.Error, "Could not copy to clipboard: %v", err)
			return fmt.Errorf("clipboard: %w", err)
		}
		s.notice(toast.Success, "All shortlinks copied to clipboard")
		return nil
	}

	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, exporter.DefaultJSONName)
	}
	if err := writeFile(path, data); err != nil {
		s.notice(toast.Error, "Could not export shortlinks: %v", err)
		return err
	}
	s.notice(toast.Success, "Exported %d shortlinks to %s", len(links), path)
	return nil
}

// ExportHTML writes the snapshot as a Netscape bookmark file. An empty
// path means the dated default in ~/Downloads. It returns the path written.
func (s *Service) ExportHTML(ctx context.Context, path string) (string, error) {
	links, err := s.store.GetAll(ctx)
	if err != nil {
		s.notice(toast.Error, "Could not load shortlinks: %v", err)
		return "", fmt.Errorf("load: %w", err)
	}

	if path == "" {
		path, err = exporter.DefaultExportPath(s.now())
		if err != nil {
			return "", err
		}
	}

	if err := writeFile(path, []byte(exporter.ExportHTML(links))); err != nil {
		s.notice(toast.Error, "Could not export shortlinks: %v", err)
		return "", err
	}
	s.notice(toast.Success, "Exported %d shortlinks to %s", len(links), path)
	return path, nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Import replaces the whole store with the records in the JSON file at
// path, or on the clipboard when path is empty.
func (s *Service) Import(ctx context.Context, path string) (ImportReport, error) {
	var data []byte
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			s.notice(toast.Error, "Could not read %s: %v", path, err)
			return ImportReport{}, fmt.Errorf("read import file: %w", err)
		}
		data = b
	} else {
		text, err := s.clipboard.ReadText()
		if err != nil {
			s.notice(toast.Error, "Could not read the clipboard: %v", err)
			return ImportReport{}, fmt.Errorf("clipboard: %w", err)
		}
		data = []byte(text)
	}

	return s.ImportPayload(ctx, data)
}

// ImportReader is Import with the payload read from r.
func (s *Service) ImportReader(ctx context.Context, r io.Reader) (ImportReport, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return ImportReport{}, fmt.Errorf("read import payload: %w", err)
	}
	return s.ImportPayload(ctx, data)
}

// ImportPayload clears the store, then writes each valid record as a fresh
// shortlink. Invalid records are skipped and reported; a payload that is
// not a JSON array aborts before anything is cleared.
func (s *Service) ImportPayload(ctx context.Context, data []byte) (ImportReport, error) {
	records, invalid, err := importer.ParseJSON(data)
	if err != nil {
		s.notice(toast.Error, "Invalid JSON format for shortlinks")
		return ImportReport{}, fmt.Errorf("%w: %v", ErrMalformedImport, err)
	}

	report := ImportReport{Imported: []string{}, Skipped: invalid}
	for _, skipped := range invalid {
		s.log.Warn("skipping import record", logger.Int("index", skipped.Index), logger.String("reason", skipped.Reason))
	}

	if err := s.store.Clear(ctx); err != nil {
		s.notice(toast.Error, "Could not clear shortlinks: %v", err)
		return report, fmt.Errorf("clear: %w", err)
	}

	for i, rec := range records {
		if i > 0 {
			if err := s.pause(ctx, s.pacing.Import); err != nil {
				return report, err
			}
		}
		if err := s.store.SetOne(ctx, rec.Name, model.NewStoredValue(rec.URLs, s.now())); err != nil {
			s.notice(toast.Error, "Import stopped at '%s': %v", rec.Name, err)
			return report, fmt.Errorf("set %q: %w", rec.Name, err)
		}
		report.Imported = append(report.Imported, rec.Name)
	}

	if len(invalid) > 0 {
		reasons := make([]string, len(invalid))
		for i, e := range invalid {
			reasons[i] = e.Error()
		}
		s.notice(toast.Warning, "Imported %d shortlinks, skipped %d: %s",
			len(report.Imported), len(invalid), strings.Join(reasons, "; "))
		return report, nil
	}
	s.notice(toast.Success, "Shortlinks imported successfully")
	return report, nil
}

// ImportHTML merges the folders of a Netscape bookmark file into the store.
func (s *Service) ImportHTML(ctx context.Context, r io.Reader) (added, skipped int, err error) {
	records, err := importer.ParseHTML(r)
	if err != nil {
		s.notice(toast.Error, "Could not parse bookmark file: %v", err)
		return 0, 0, fmt.Errorf("parse bookmarks: %w", err)
	}
	return s.Merge(ctx, records)
}

// Merge writes records whose names are not taken yet. Names are
// normalized first; existing shortlinks are never touched.
func (s *Service) Merge(ctx context.Context, records []importer.Record) (added, skipped int, err error) {
	links, err := s.store.GetAll(ctx)
	if err != nil {
		s.notice(toast.Error, "Could not load shortlinks: %v", err)
		return 0, 0, fmt.Errorf("load: %w", err)
	}

	taken := make(map[string]bool, len(links))
	for _, l := range links {
		taken[l.Name] = true
	}

	for _, rec := range records {
		name := command.ValidateShortlinkName(strings.TrimSpace(rec.Name))
		if name == "" || taken[name] {
			skipped++
			continue
		}

		if added > 0 {
			if err := s.pause(ctx, s.pacing.Import); err != nil {
				return added, skipped, err
			}
		}
		if err := s.store.SetOne(ctx, name, model.NewStoredValue(rec.URLs, s.now())); err != nil {
			s.notice(toast.Error, "Import stopped at '%s': %v", name, err)
			return added, skipped, fmt.Errorf("set %q: %w", name, err)
		}
		taken[name] = true
		added++
	}

	s.notice(toast.Success, "Imported %d shortlinks (%d skipped)", added, skipped)
	return added, skipped, nil
}

// didYouMean formats up to three suggestions for the missing names, or
// returns "" when there are none.
func (s *Service) didYouMean(ctx context.Context, missing []string) string {
	links, err := s.store.GetAll(ctx)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			s.log.Debug("no suggestions", logger.Error(err))
		}
		return ""
	}

	names := model.Names(links)
	seen := map[string]bool{}
	var out []string
	for _, m := range missing {
		for _, candidate := range search.Suggest(names, m, 3) {
			if seen[candidate] || len(out) == 3 {
				continue
			}
			seen[candidate] = true
			out = append(out, candidate)
		}
	}

	if len(out) == 0 {
		return ""
	}
	return fmt.Sprintf(" Did you mean %s?", quoted(out))
}
