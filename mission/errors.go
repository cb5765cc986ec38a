package mission

import "errors"

// ErrSynthesis is returned when the final-stage response cannot be
// parsed as the expected report shape. Fatal to the mission.
var ErrSynthesis = errors.New("mission: synthesis response not parseable as report")
