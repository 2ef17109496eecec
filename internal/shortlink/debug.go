package shortlink

import (
	"context"
	"fmt"
	"strconv"

	"github.com/nikbrunner/sl/internal/command"
	"github.com/nikbrunner/sl/internal/model"
	"github.com/nikbrunner/sl/internal/toast"
)

var (
	adjectives = []string{
		"rebellious", "happy", "silly", "funny", "crazy", "friendly",
		"curious", "clever", "brave", "honest", "kind", "empowered",
	}
	nouns = []string{
		"panda", "unicorn", "dolphin", "koala", "otter",
		"penguin", "giraffe", "elephant", "kitten", "mouse",
	}
)

// Debug runs a maintenance sub-command: "clear" wipes the store and
// "add [N]" writes N generated shortlinks.
func (s *Service) Debug(ctx context.Context, arg string) error {
	action := command.ParseDebug(arg)

	switch action.Op {
	case command.DebugClear:
		if err := s.store.Clear(ctx); err != nil {
			s.notice(toast.Error, "Could not clear shortlinks: %v", err)
			return fmt.Errorf("clear: %w", err)
		}
		s.notice(toast.Success, "All shortlinks cleared")
		return nil

	case command.DebugAdd:
		for i := range action.Count {
			if i > 0 {
				if err := s.pause(ctx, s.pacing.Debug); err != nil {
					return err
				}
			}
			name := s.randomName(i)
			urls := []string{"https://example.com/?q=" + strconv.Itoa(i)}
			if err := s.store.SetOne(ctx, name, model.NewStoredValue(urls, s.now())); err != nil {
				s.notice(toast.Error, "Could not add '%s': %v", name, err)
				return fmt.Errorf("set %q: %w", name, err)
			}
		}
		s.notice(toast.Success, "Added %d random shortlinks", max(action.Count, 0))
		return nil

	default:
		s.notice(toast.Warning, "Unknown debug command '%s'", arg)
		return nil
	}
}

// randomName returns "<adjective>-<noun>-<i>"; the suffix keeps names
// unique within one run.
func (s *Service) randomName(i int) string {
	adj := adjectives[s.rand.IntN(len(adjectives))]
	noun := nouns[s.rand.IntN(len(nouns))]
	return fmt.Sprintf("%s-%s-%d", adj, noun, i)
}
