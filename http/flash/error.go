package flash

import "errors"

var ErrNoSession = errors.New("no flash session")
