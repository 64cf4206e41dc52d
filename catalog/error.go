package catalog

import (
	"fmt"

	"github.com/xy-planning-network/outpost"
)

// ErrInvalidCredentials means no player matches the pseudo and password given.
var ErrInvalidCredentials = fmt.Errorf("%w: wrong pseudo or password", outpost.ErrNotValid)
