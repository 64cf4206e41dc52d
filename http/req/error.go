package req

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xy-planning-network/outpost"
)

// A ValidationError names the field whose value broke a rule.
type ValidationError struct {
	Field string `json:"field"`
	Got   any    `json:"got"`
	Rule  string `json:"rule,omitempty"`
}

// ValidationErrors collects every ValidationError found in one payload.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, err := range v {
		msgs[i] = fmt.Sprintf("field=%q rule=%q got=%q", err.Field, err.Rule, fmt.Sprint(err.Got))
	}

	return strings.Join(msgs, "\n")
}

// MarshalJSON nests the errors under "validationErrors",
// omitting the key when there are none.
func (v ValidationErrors) MarshalJSON() ([]byte, error) {
	var errs struct {
		E []ValidationError `json:"validationErrors,omitempty"`
	}
	errs.E = v

	return json.Marshal(errs)
}

func (ValidationErrors) Unwrap() error { return outpost.ErrNotValid }
