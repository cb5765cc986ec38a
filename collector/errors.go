package collector

import "errors"

// ErrAudit is returned for any browser-automation error, navigation
// timeout, or capture exception. Fatal to the mission, never retried.
var ErrAudit = errors.New("collector: audit failure")
