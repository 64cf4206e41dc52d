package postgres

import (
	"database/sql/driver"
	"fmt"

	"github.com/xy-planning-network/outpost"
)

// Updates maps the columns an UPDATE sets to their new values.
type Updates map[string]any

func (u Updates) valid() error {
	if len(u) == 0 {
		return fmt.Errorf("%w: nothing to update", outpost.ErrMissingData)
	}

	return nil
}

// StripNils drops the columns that would be set to NULL,
// so a partial update leaves them as they are.
func (u Updates) StripNils() {
	for col, v := range u {
		if isNull(v) {
			delete(u, col)
		}
	}
}

func isNull(v any) bool {
	if v == nil {
		return true
	}

	valuer, ok := v.(driver.Valuer)
	if !ok {
		return false
	}

	val, err := valuer.Value()
	return err != nil || val == nil
}
