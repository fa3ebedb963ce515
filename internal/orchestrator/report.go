package orchestrator

import "encoding/json"

// Report status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Report is the caller-facing shape of a PipelineResult. A success report
// carries status, venue_recommendation, logistics_plan and marketing_plan; an
// error report carries status, message and error_type.
type Report struct {
	Status              string `json:"status"`
	VenueRecommendation string `json:"venue_recommendation"`
	LogisticsPlan       string `json:"logistics_plan"`
	MarketingPlan       string `json:"marketing_plan"`
	Message             string `json:"message"`
	ErrorType           string `json:"error_type"`
}

// NewReport maps a terminal PipelineResult to its Report.
func NewReport(r PipelineResult) Report {
	if r.Succeeded() {
		return Report{
			Status:              StatusSuccess,
			VenueRecommendation: r.Venue,
			LogisticsPlan:       r.Logistics,
			MarketingPlan:       r.Marketing,
		}
	}
	return Report{
		Status:    StatusError,
		Message:   r.Message,
		ErrorType: r.ErrorKind,
	}
}

// Succeeded reports whether the report describes a successful run.
func (r Report) Succeeded() bool {
	return r.Status == StatusSuccess
}

// AsMap returns the report as a mapping holding exactly the keys of its
// status.
func (r Report) AsMap() map[string]string {
	if r.Succeeded() {
		return map[string]string{
			"status":               StatusSuccess,
			"venue_recommendation": r.VenueRecommendation,
			"logistics_plan":       r.LogisticsPlan,
			"marketing_plan":       r.MarketingPlan,
		}
	}
	return map[string]string{
		"status":     StatusError,
		"message":    r.Message,
		"error_type": r.ErrorType,
	}
}

// MarshalJSON encodes only the keys belonging to the report's status.
func (r Report) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.AsMap())
}
