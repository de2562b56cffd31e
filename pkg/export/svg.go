// Package export renders a Schedule or a violation Collector to SVG for
// visual inspection: a round/participant grid and a round/constraint
// violation heatmap.
package export

import (
	"fmt"
	"io"
	"sort"

	svg "github.com/ajstarks/svgo"

	"github.com/mission-gaming/tactician-sub000/pkg/model"
	"github.com/mission-gaming/tactician-sub000/pkg/violations"
)

const (
	cellWidth  = 80
	cellHeight = 28
	marginLeft = 140
	marginTop  = 40
)

// RenderScheduleSVG draws a round x participant grid: one row per
// participant, one column per round, a filled cell wherever that
// participant has an event in that round, annotated with the opponent id.
// The role is shown by fill colour only: the first role (index 0) is drawn
// in blue, every other role in grey.
func RenderScheduleSVG(w io.Writer, schedule *model.Schedule) error {
	if schedule == nil {
		return fmt.Errorf("export: schedule must not be nil")
	}

	participantIDs := participantOrder(schedule)
	maxRound := schedule.MaxRound()
	width := marginLeft + maxRound*cellWidth + 40
	height := marginTop + len(participantIDs)*cellHeight + 40

	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:#ffffff")

	for round := 1; round <= maxRound; round++ {
		x := marginLeft + (round-1)*cellWidth + cellWidth/2
		canvas.Text(x, marginTop-10, fmt.Sprintf("R%d", round), "text-anchor:middle;font-size:12px;fill:#333")
	}

	rowIndex := make(map[string]int, len(participantIDs))
	for i, id := range participantIDs {
		rowIndex[id] = i
		y := marginTop + i*cellHeight + cellHeight/2 + 4
		canvas.Text(10, y, id, "font-size:12px;fill:#333")
	}

	byRound := schedule.ByRound()
	for round := 1; round <= maxRound; round++ {
		for _, e := range byRound[round] {
			drawEventCell(canvas, e, round, rowIndex)
		}
	}

	canvas.End()
	return nil
}

func drawEventCell(canvas *svg.SVG, e model.Event, round int, rowIndex map[string]int) {
	participants := e.Participants()
	for role, p := range participants {
		row, ok := rowIndex[p.ID()]
		if !ok {
			continue
		}
		x := marginLeft + (round-1)*cellWidth + 4
		y := marginTop + row*cellHeight + 2
		color := "#cbd5e0"
		if role == 0 {
			color = "#90cdf4"
		}
		canvas.Rect(x, y, cellWidth-8, cellHeight-4, fmt.Sprintf("fill:%s;stroke:#4a5568;stroke-width:1", color))
		opponent := opponentLabel(participants, role)
		canvas.Text(x+6, y+cellHeight/2+2, opponent, "font-size:10px;fill:#1a202c")
	}
}

func opponentLabel(participants []model.Participant, selfIndex int) string {
	for i, p := range participants {
		if i != selfIndex {
			return p.ID()
		}
	}
	return ""
}

func participantOrder(schedule *model.Schedule) []string {
	seen := make(map[string]struct{})
	var order []string
	for _, e := range schedule.Events() {
		for _, p := range e.Participants() {
			if _, ok := seen[p.ID()]; !ok {
				seen[p.ID()] = struct{}{}
				order = append(order, p.ID())
			}
		}
	}
	sort.Strings(order)
	return order
}

// RenderViolationHeatmapSVG draws a round x constraint-name grid where
// each cell's fill intensity reflects how many times that constraint
// rejected a candidate in that round.
func RenderViolationHeatmapSVG(w io.Writer, collector *violations.Collector, totalRounds int) error {
	if collector == nil {
		return fmt.Errorf("export: collector must not be nil")
	}

	byName := collector.ByConstraintName()
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	width := marginLeft + totalRounds*cellWidth + 40
	height := marginTop + len(names)*cellHeight + 40

	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:#ffffff")

	for round := 1; round <= totalRounds; round++ {
		x := marginLeft + (round-1)*cellWidth + cellWidth/2
		canvas.Text(x, marginTop-10, fmt.Sprintf("R%d", round), "text-anchor:middle;font-size:12px;fill:#333")
	}

	affected := collector.AffectedRoundsByConstraint()
	maxCount := 1
	for _, rounds := range affected {
		for _, rc := range rounds {
			if rc.Count > maxCount {
				maxCount = rc.Count
			}
		}
	}

	for row, name := range names {
		y := marginTop + row*cellHeight
		canvas.Text(10, y+cellHeight/2+4, name, "font-size:11px;fill:#333")

		counts := make(map[int]int)
		for _, rc := range affected[name] {
			counts[rc.Round] = rc.Count
		}
		for round := 1; round <= totalRounds; round++ {
			x := marginLeft + (round-1)*cellWidth + 4
			count := counts[round]
			canvas.Rect(x, y+2, cellWidth-8, cellHeight-4, fmt.Sprintf("fill:%s;stroke:#4a5568;stroke-width:1", heatColor(count, maxCount)))
			if count > 0 {
				canvas.Text(x+cellWidth/2-4, y+cellHeight/2+4, fmt.Sprintf("%d", count), "font-size:10px;fill:#1a202c")
			}
		}
	}

	canvas.End()
	return nil
}

// heatColor interpolates a light-to-dark red scale from count=0 (white)
// to count=maxCount (saturated red).
func heatColor(count, maxCount int) string {
	if count == 0 {
		return "#f7fafc"
	}
	intensity := 255 - (200 * count / maxCount)
	if intensity < 55 {
		intensity = 55
	}
	return fmt.Sprintf("rgb(255,%d,%d)", intensity, intensity)
}
