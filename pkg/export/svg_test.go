package export_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mission-gaming/tactician-sub000/pkg/export"
	"github.com/mission-gaming/tactician-sub000/pkg/model"
	"github.com/mission-gaming/tactician-sub000/pkg/violations"
)

func TestRenderScheduleSVGProducesWellFormedDocument(t *testing.T) {
	a, _ := model.NewParticipant("a", "", nil)
	b, _ := model.NewParticipant("b", "", nil)
	c, _ := model.NewParticipant("c", "", nil)
	d, _ := model.NewParticipant("d", "", nil)

	e1, err := model.NewEvent([]model.Participant{a, b}, 1, nil)
	require.NoError(t, err)
	e2, err := model.NewEvent([]model.Participant{c, d}, 1, nil)
	require.NoError(t, err)
	schedule := model.NewSchedule([]model.Event{e1, e2}, nil)

	var buf bytes.Buffer
	err = export.RenderScheduleSVG(&buf, schedule)
	require.NoError(t, err)
	out := buf.String()
	require.Contains(t, out, "<svg")
	require.Contains(t, out, "</svg>")
	require.Contains(t, out, "R1")
}

func TestRenderScheduleSVGRejectsNilSchedule(t *testing.T) {
	var buf bytes.Buffer
	err := export.RenderScheduleSVG(&buf, nil)
	require.Error(t, err)
}

func TestRenderViolationHeatmapSVG(t *testing.T) {
	collector := violations.NewCollector()
	collector.Record(violations.ConstraintViolation{ConstraintName: "NoRepeatPairings", Round: 2, ParticipantIDs: []string{"a", "b"}})

	var buf bytes.Buffer
	err := export.RenderViolationHeatmapSVG(&buf, collector, 3)
	require.NoError(t, err)
	out := buf.String()
	require.Contains(t, out, "<svg")
	require.Contains(t, out, "NoRepeatPairings")
}
