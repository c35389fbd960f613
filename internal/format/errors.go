package format

import "github.com/cockroachdb/errors"

// ErrMisaligned indicates an address that violates a required alignment.
var ErrMisaligned = errors.New("format: misaligned address")
