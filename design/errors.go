package design

import "errors"

// ErrDesignFetch marks a reference-image retrieval failure. Non-fatal:
// the comparator absorbs it and reports the reference as absent.
var ErrDesignFetch = errors.New("design: reference fetch failed")
