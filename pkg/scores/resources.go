package scores

import (
	"fmt"
	"net/url"
)

// Resource describes one remote endpoint and how its failures read to a user.
type Resource struct {
	Name string
	// Path is a fmt template; arguments are path-escaped before substitution.
	Path string
	// Enveloped resources answer with {success, data} and yield data.
	Enveloped bool
	NotFound  string
	NoData    string
	Failure   string
}

// PathFor renders the resource path with args.
func (r Resource) PathFor(args ...string) string {
	if len(args) == 0 {
		return r.Path
	}
	escaped := make([]any, len(args))
	for i, a := range args {
		escaped[i] = url.PathEscape(a)
	}
	return fmt.Sprintf(r.Path, escaped...)
}

var (
	ScoreResource = Resource{
		Name:     "score",
		Path:     "/scores/%s",
		NotFound: "No data found for this registration number",
		NoData:   "No data received from server",
		Failure:  "Failed to fetch score data. Please check your registration number.",
	}
	ReportResource = Resource{
		Name:      "score_report",
		Path:      "/score-report",
		Enveloped: true,
		NotFound:  "Report data not found",
		NoData:    "No report data received from server",
		Failure:   "Failed to fetch report data. Please try again.",
	}
	TopStudentsResource = Resource{
		Name:      "top_students",
		Path:      "/top-students/group-a",
		Enveloped: true,
		NotFound:  "Report data not found",
		NoData:    "No report data received from server",
		Failure:   "Failed to fetch report data. Please try again.",
	}
	DashboardSummaryResource = Resource{
		Name:      "dashboard_summary",
		Path:      "/dashboard/summary",
		Enveloped: true,
		NotFound:  "Dashboard data not found",
		NoData:    "No dashboard data received from server",
		Failure:   "Failed to fetch dashboard data. Please try again.",
	}
)
