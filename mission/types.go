// CLAUDE:SUMMARY Mission report types: status set, final report, externally visible result.
package mission

import (
	"github.com/hazyhaar/uxaudit/collector"
	"github.com/hazyhaar/uxaudit/plan"
)

// Status is the overall verdict of a mission. Closed set — any other
// decoded value is a synthesis error.
type Status string

const (
	StatusPass    Status = "pass"
	StatusFail    Status = "fail"
	StatusWarning Status = "warning"
)

// Valid reports whether s belongs to the closed status set.
func (s Status) Valid() bool {
	switch s {
	case StatusPass, StatusFail, StatusWarning:
		return true
	}
	return false
}

// Design-fetch status tags on the externally visible result.
const (
	DesignSkipped = "skipped" // no file key supplied
	DesignFailed  = "failed"  // file key supplied, no image resulted
	DesignSuccess = "success"
)

// FinalReport is the mission's sole terminal artifact. Returned to the
// caller, never retained server-side.
type FinalReport struct {
	Status        Status      `json:"status"`
	Analysis      string      `json:"analysis"`
	Issues        []string    `json:"issues"`
	TestPlan      []plan.Step `json:"test_plan"`
	FigmaAnalysis string      `json:"figma_analysis"`
}

// Result is the externally visible composition of the report plus the
// screenshot preview and design-fetch status.
type Result struct {
	FinalReport
	ScreenshotPreview string `json:"screenshot_preview"`
	DesignFetchStatus string `json:"design_fetch_status"`
}

// MissionConfig describes one audit run for one URL/device combination.
type MissionConfig struct {
	TargetURL      string
	Device         collector.Device
	FigmaToken     string
	FigmaFileKey   string
	PreferredModel string
}
