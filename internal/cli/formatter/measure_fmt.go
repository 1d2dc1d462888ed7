package formatter

import (
	"fmt"

	"github.com/mfigueroa/sitework/internal/contract"
	"github.com/mfigueroa/sitework/internal/domain"
)

// FormatPendingMeasurements renders the review queue as a table.
// activityNames maps activity IDs to display names.
func FormatPendingMeasurements(measurements []*domain.Measurement, activityNames map[string]string) string {
	headers := []string{"ID", "ACTIVITY", "PROPOSED", "PREVIOUS", "SUBMITTED"}
	rows := make([][]string, 0, len(measurements))
	for _, m := range measurements {
		name := activityNames[m.ActivityID]
		if name == "" {
			name = m.ActivityID
		}
		rows = append(rows, []string{
			Dim(shortID(m.ID)),
			name,
			fmt.Sprintf("%.1f%%", m.ProposedProgress),
			Dim(fmt.Sprintf("%.1f%%", m.PreviousProgress)),
			Dim(m.CreatedAt.Format("2006-01-02 15:04")),
		})
	}
	return RenderTable(headers, rows)
}

// FormatReviewResult renders the outcome of one review decision.
func FormatReviewResult(result *contract.ReviewResult) string {
	if !result.Approved {
		return StyleRed.Render("Rejected") + fmt.Sprintf(" measurement for %s\n", Bold(result.ActivityName))
	}
	return StyleGreen.Render("Approved") +
		fmt.Sprintf(" measurement for %s — progress now %.1f%% (project %s)\n",
			Bold(result.ActivityName), result.AppliedProgress, StatusBadge(result.ProjectStatus))
}

func shortID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}
