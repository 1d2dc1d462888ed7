package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mfigueroa/sitework/internal/contract"
	"github.com/mfigueroa/sitework/internal/domain"
)

const dateLayout = "2006-01-02"

// FormatProjectList renders projects as an aligned table.
func FormatProjectList(projects []*domain.Project) string {
	headers := []string{"ID", "NAME", "STATUS", "START", "END", "CALENDAR"}
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		end := p.EndDate.Format(dateLayout)
		if p.ActualEndDate != nil {
			end = p.ActualEndDate.Format(dateLayout) + Dim(" (actual)")
		}
		rows = append(rows, []string{
			Bold(p.DisplayID()),
			p.Name,
			StatusBadge(string(p.Status)),
			p.StartDate.Format(dateLayout),
			end,
			Dim(string(p.CalendarMode)),
		})
	}
	return RenderTable(headers, rows)
}

// FormatImportSummary renders the outcome of a plan import.
func FormatImportSummary(summary *contract.ImportSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Imported project %s [%s]: %d phases, %d stages, %d activities, %d units, %d tracking rows\n",
		summary.ProjectName, summary.ProjectShortID,
		summary.Phases, summary.Stages, summary.Activities,
		summary.Units, summary.UnitActivities)
	for _, w := range summary.Warnings {
		b.WriteString(StyleYellow.Render("warning: "+w) + "\n")
	}
	return b.String()
}

// FormatScheduleResult renders the computed schedule as a table.
func FormatScheduleResult(result *contract.ScheduleResult) string {
	headers := []string{"NAME", "LEVEL", "STAGE", "START", "END", "DAYS"}
	rows := make([][]string, 0, len(result.Rows))
	for _, r := range result.Rows {
		name := r.Name
		switch r.Level {
		case "PHASE":
			name = Bold(r.Name)
		case "STAGE":
			name = "  " + r.Name
		case "ACTIVITY":
			name = "    " + Dim(r.Name)
		}
		days := ""
		if r.Days > 0 {
			days = strconv.Itoa(r.Days)
		}
		rows = append(rows, []string{
			name,
			Dim(r.Level),
			r.Stage,
			r.Start.Format(dateLayout),
			r.End.Format(dateLayout),
			days,
		})
	}
	return RenderTable(headers, rows)
}
