package contract

// ReviewRequest is one reviewer decision over a pending measurement.
type ReviewRequest struct {
	MeasurementID string
	ReviewerID    string
	Approve       bool
	Notes         string
}

// ReviewResult reports what a review changed.
type ReviewResult struct {
	MeasurementID   string
	Approved        bool
	ActivityName    string
	AppliedProgress float64 // meaningful only when Approved
	ProjectStatus   string  // project status after cascade
}
