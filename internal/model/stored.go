package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrMalformedValue is returned when a stored value is neither a legacy
// URL array nor a current-shape object.
var ErrMalformedValue = errors.New("malformed stored value")

// storedObject mirrors StoredValue with optional fields so missing keys can
// be told apart from zero values.
type storedObject struct {
	URLs     []*string `json:"urls"`
	Date     *int64    `json:"date"`
	Priority *int      `json:"priority"`
}

// Normalize decodes a raw stored value into the current shape.
//
// A bare JSON array of strings is the legacy shape: it becomes the urls,
// date defaults to now and priority to 0, and legacy is true so the caller
// can persist the upgrade. An object passes through with missing (or zero)
// date set to now and missing priority set to 0; legacy is false.
func Normalize(raw []byte, now time.Time) (StoredValue, bool, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return StoredValue{}, false, ErrMalformedValue
	}

	switch trimmed[0] {
	case '[':
		var urls []*string
		if err := json.Unmarshal(trimmed, &urls); err != nil {
			return StoredValue{}, false, fmt.Errorf("%w: %v", ErrMalformedValue, err)
		}
		return NewStoredValue(compact(urls), now), true, nil

	case '{':
		var obj storedObject
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return StoredValue{}, false, fmt.Errorf("%w: %v", ErrMalformedValue, err)
		}
		value := StoredValue{
			URLs: compact(obj.URLs),
			Date: Millis(now),
		}
		if obj.Date != nil && *obj.Date != 0 {
			value.Date = *obj.Date
		}
		if obj.Priority != nil {
			value.Priority = min(max(*obj.Priority, 0), MaxPriority)
		}
		return value, false, nil
	}

	return StoredValue{}, false, ErrMalformedValue
}

// Encode serializes a value in the current shape.
func Encode(v StoredValue) ([]byte, error) {
	if v.URLs == nil {
		v.URLs = []string{}
	}
	return json.Marshal(v)
}

// compact drops null entries from a decoded URL array.
func compact(in []*string) []string {
	out := make([]string, 0, len(in))
	for _, u := range in {
		if u != nil {
			out = append(out, *u)
		}
	}
	return out
}
