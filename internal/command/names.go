package command

import (
	"strconv"
	"strings"
)

// ExtractNames splits a delimited argument into shortlink names. Any of
// ";", "," or " " separates names; empty tokens are dropped. Order is kept
// and duplicates are not removed.
func ExtractNames(arg string) []string {
	fields := strings.FieldsFunc(arg, func(r rune) bool {
		return r == ';' || r == ',' || r == ' '
	})

	names := make([]string, 0, len(fields))
	for _, f := range fields {
		if name := strings.TrimSpace(f); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// DefaultDebugAddCount is used by "add" when no count is given.
const DefaultDebugAddCount = 50

// DebugOp names a debug sub-command.
type DebugOp int

const (
	DebugUnknown DebugOp = iota
	DebugClear
	DebugAdd
)

// DebugAction is a parsed Debug argument.
type DebugAction struct {
	Op    DebugOp
	Count int // only for DebugAdd
}

// ParseDebug interprets a Debug argument: "clear" or "add [N]".
// A missing or non-numeric N falls back to DefaultDebugAddCount.
func ParseDebug(arg string) DebugAction {
	if arg == "clear" {
		return DebugAction{Op: DebugClear}
	}

	rest, ok := strings.CutPrefix(arg, "add")
	if !ok {
		return DebugAction{Op: DebugUnknown}
	}

	count := DefaultDebugAddCount
	if n, ok := leadingInt(strings.TrimSpace(rest)); ok {
		count = n
	}
	return DebugAction{Op: DebugAdd, Count: count}
}

// leadingInt parses the integer prefix of s ("12abc" -> 12).
func leadingInt(s string) (int, bool) {
	end := 0
	for end < len(s) {
		c := s[end]
		if (c >= '0' && c <= '9') || (end == 0 && (c == '-' || c == '+')) {
			end++
			continue
		}
		break
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
