package provider

import "errors"

// ErrExhausted is returned when every candidate model in the fallback
// chain has failed for one generation request.
var ErrExhausted = errors.New("provider: all candidate models failed")
