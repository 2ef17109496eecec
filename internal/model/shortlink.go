package model

import "time"

// MaxPriority caps the popularity counter.
const MaxPriority = 1000

// StoredValue is the current persisted shape of a shortlink.
// The name is the store key and is not part of the value.
type StoredValue struct {
	URLs     []string `json:"urls"`
	Date     int64    `json:"date"` // epoch milliseconds
	Priority int      `json:"priority"`
}

// Shortlink is a named, ordered set of URLs.
type Shortlink struct {
	Name     string   `json:"name"`
	URLs     []string `json:"urls"`
	Date     int64    `json:"date"`
	Priority int      `json:"priority"`
}

// NewStoredValue creates a fresh value: date is now, priority is zero.
func NewStoredValue(urls []string, now time.Time) StoredValue {
	if urls == nil {
		urls = []string{}
	}
	return StoredValue{
		URLs:     urls,
		Date:     Millis(now),
		Priority: 0,
	}
}

// Bumped returns a copy with priority incremented (capped at MaxPriority)
// and the date refreshed.
func (v StoredValue) Bumped(now time.Time) StoredValue {
	v.Priority = min(v.Priority+1, MaxPriority)
	v.Date = Millis(now)
	return v
}

// WithURLs returns a copy with urls replaced and the date refreshed.
// Priority is left untouched.
func (v StoredValue) WithURLs(urls []string, now time.Time) StoredValue {
	if urls == nil {
		urls = []string{}
	}
	v.URLs = urls
	v.Date = Millis(now)
	return v
}

// Shortlink pairs the value with its name.
func (v StoredValue) Shortlink(name string) Shortlink {
	return Shortlink{
		Name:     name,
		URLs:     v.URLs,
		Date:     v.Date,
		Priority: v.Priority,
	}
}

// Value strips the name off a shortlink.
func (s Shortlink) Value() StoredValue {
	return StoredValue{
		URLs:     s.URLs,
		Date:     s.Date,
		Priority: s.Priority,
	}
}

// Time returns the shortlink date as a time.Time.
func (s Shortlink) Time() time.Time {
	return time.UnixMilli(s.Date)
}

// Millis converts t to epoch milliseconds.
func Millis(t time.Time) int64 {
	return t.UnixMilli()
}
