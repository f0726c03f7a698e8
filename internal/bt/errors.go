package bt

import "errors"

// ErrNotPositive is returned by Init for a count or duration literal that
// is zero or negative.
var ErrNotPositive = errors.New("must be greater than zero")
