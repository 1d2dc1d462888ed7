package formatter

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mfigueroa/sitework/internal/contract"
)

func TestRenderProgress_Bounds(t *testing.T) {
	assert.Contains(t, RenderProgress(0, 10), strings.Repeat(emptyBlock, 10))
	assert.Contains(t, RenderProgress(100, 10), strings.Repeat(filledBlock, 10))
	assert.Contains(t, RenderProgress(150, 10), "100.0%")
	assert.Contains(t, RenderProgress(-5, 10), "0.0%")
}

func TestRenderProgress_PartialFill(t *testing.T) {
	out := RenderProgress(50, 10)
	assert.Contains(t, out, strings.Repeat(filledBlock, 5)+strings.Repeat(emptyBlock, 5))
	assert.Contains(t, out, "50.0%")
}

func TestRenderTable_Alignment(t *testing.T) {
	out := RenderTable(
		[]string{"NAME", "STATUS"},
		[][]string{{"Masonry", "PENDING"}, {"Plaster", "IN_PROGRESS"}},
	)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 4, "header, separator, two rows")
	assert.Contains(t, lines[2], "Masonry")
	assert.Contains(t, lines[3], "Plaster")
}

func TestRenderTree_ConnectorsAndBadges(t *testing.T) {
	out := RenderTree([]TreeItem{
		{Title: "Structure", Level: 0, Status: "IN_PROGRESS"},
		{Title: "Walls", Level: 1, IsLast: true, Status: "IN_PROGRESS"},
		{Title: "Masonry", Level: 2, Status: "COMPLETED", Detail: "100%"},
		{Title: "Plaster", Level: 2, IsLast: true, Status: "PENDING", Detail: "0%"},
	})

	assert.Contains(t, out, treeCorner+"Plaster")
	assert.Contains(t, out, treeBranch)
	assert.Contains(t, out, "✔")
	assert.Contains(t, out, "▶")
	assert.Contains(t, out, "100%")
}

func TestFormatProgressReport(t *testing.T) {
	parent := "p1"
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)
	report := &contract.ProgressReport{
		ProjectName:    "Tower A",
		ProjectShortID: "OBR01",
		ProjectStatus:  "IN_PROGRESS",
		Overall:        25,
		Rows: []contract.ProgressRow{
			{ID: "p1", Name: "Structure", Level: "PHASE", Status: "IN_PROGRESS", Progress: 50},
			{ID: "a1", ParentID: &parent, Name: "Masonry", Level: "ACTIVITY", Status: "IN_PROGRESS", Progress: 50, PlannedStart: &start, PlannedEnd: &end},
		},
	}

	out := FormatProgressReport(report)
	assert.Contains(t, out, "TOWER A [OBR01]")
	assert.Contains(t, out, "Masonry")
	assert.Contains(t, out, "Jan 01")
	assert.Contains(t, out, "25.0%")
}
