package importer

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrMalformed is returned when a payload is not a JSON array.
var ErrMalformed = errors.New("payload is not a JSON array")

// Record is one shortlink as exchanged in import payloads.
// An empty urls array is valid; a missing one is not.
type Record struct {
	Name string   `json:"name" validate:"required"`
	URLs []string `json:"urls" validate:"required"`
}

// InvalidRecordError describes a record that was skipped.
type InvalidRecordError struct {
	Index  int
	Reason string
}

func (e InvalidRecordError) Error() string {
	return fmt.Sprintf("record #%d: %s", e.Index, e.Reason)
}

var validate = newValidate()

// newValidate reports fields by their JSON names.
func newValidate() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// ParseJSON decodes an array of {name, urls} objects. Elements that are
// not such objects are returned as invalid, with their zero-based index;
// a payload that is not an array at all fails with ErrMalformed.
func ParseJSON(data []byte) ([]Record, []InvalidRecordError, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if elems == nil {
		return nil, nil, fmt.Errorf("%w: got null", ErrMalformed)
	}

	records := make([]Record, 0, len(elems))
	var invalid []InvalidRecordError
	for i, elem := range elems {
		rec, reason := decodeRecord(elem)
		if reason != "" {
			invalid = append(invalid, InvalidRecordError{Index: i, Reason: reason})
			continue
		}
		records = append(records, rec)
	}

	return records, invalid, nil
}

func decodeRecord(elem json.RawMessage) (Record, string) {
	var rec Record
	if err := json.Unmarshal(elem, &rec); err != nil {
		return Record{}, "not a {name, urls} object"
	}

	if err := validate.Struct(rec); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			missing := make([]string, len(verrs))
			for i, fe := range verrs {
				missing[i] = fe.Field()
			}
			return Record{}, "missing " + strings.Join(missing, ", ")
		}
		return Record{}, err.Error()
	}

	return rec, ""
}
