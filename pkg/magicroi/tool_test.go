package magicroi

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingConsumer struct {
	current  *Polygon
	replaced int
	cleared  int
}

func (c *recordingConsumer) Replace(p *Polygon) {
	c.current = p
	c.replaced++
}

func (c *recordingConsumer) Clear() {
	c.current = nil
	c.cleared++
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// gradientGrid has value x+y, so wider windows reach further from the seed.
func gradientGrid(w, h int) *testGrid {
	rows := make([][]float64, h)
	for y := range rows {
		rows[y] = make([]float64, w)
		for x := range rows[y] {
			rows[y][x] = float64(x + y)
		}
	}
	return newTestGrid(rows)
}

func newTestTool(g Grid) (*Tool, *recordingConsumer) {
	c := &recordingConsumer{}
	return NewTool(g, c, DefaultOptions(), quietLogger()), c
}

func TestToolStartPublishesPolygon(t *testing.T) {
	g := gradientGrid(12, 12)
	tool, consumer := newTestTool(g)

	require.NoError(t, tool.Start(context.Background(), g.pointAt(6, 6)))

	assert.True(t, tool.Active())
	assert.Equal(t, DefaultFactor, tool.Factor())
	require.NotNil(t, consumer.current)
	assert.True(t, consumer.current.Closed)
	assert.Equal(t, 1, consumer.replaced)
	assert.Same(t, tool.Result().Polygon, consumer.current)
}

func TestToolDragChangesFactor(t *testing.T) {
	g := gradientGrid(12, 12)
	tool, consumer := newTestTool(g)
	ctx := context.Background()
	require.NoError(t, tool.Start(ctx, g.pointAt(6, 6)))
	before := tool.Result().Mask.Count()

	// pointer moved down by 4: factor 1 - 0.05*4
	require.NoError(t, tool.Drag(ctx, 4))
	assert.InDelta(t, 0.8, tool.Factor(), 1e-12)
	tighter := tool.Result().Mask.Count()
	assert.LessOrEqual(t, tighter, before)

	// pointer moved up by 20: factor 0.8 + 1
	require.NoError(t, tool.Drag(ctx, -20))
	assert.InDelta(t, 1.8, tool.Factor(), 1e-12)
	assert.GreaterOrEqual(t, tool.Result().Mask.Count(), before)
	assert.Equal(t, 3, consumer.replaced)
}

func TestToolDragIgnoresNonPositiveFactor(t *testing.T) {
	g := gradientGrid(8, 8)
	tool, consumer := newTestTool(g)
	ctx := context.Background()
	require.NoError(t, tool.Start(ctx, g.pointAt(3, 3)))

	require.NoError(t, tool.Drag(ctx, 20))
	assert.Equal(t, DefaultFactor, tool.Factor())
	assert.Equal(t, 1, consumer.replaced)
}

func TestToolDragWithoutSession(t *testing.T) {
	g := gradientGrid(8, 8)
	tool, consumer := newTestTool(g)

	require.NoError(t, tool.Drag(context.Background(), -5))
	assert.Equal(t, 0, consumer.replaced)
	assert.Nil(t, tool.Result())
}

func TestToolEndCommitsRegion(t *testing.T) {
	g := gradientGrid(10, 10)
	tool, consumer := newTestTool(g)
	ctx := context.Background()
	require.NoError(t, tool.Start(ctx, g.pointAt(5, 5)))

	roi, err := tool.End(ctx)
	require.NoError(t, err)
	require.NotNil(t, roi)

	_, err = uuid.Parse(roi.ID)
	assert.NoError(t, err)
	assert.False(t, tool.Active())
	assert.Equal(t, Index{5, 5, 0}, roi.Seed)
	assert.Equal(t, tool.Result().Mask.Count(), roi.Stats.Count)
	assert.Same(t, roi.Polygon, consumer.current)
	assert.Equal(t, 0, consumer.cleared)

	_, err = tool.End(ctx)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestToolCancelClearsConsumer(t *testing.T) {
	g := gradientGrid(10, 10)
	tool, consumer := newTestTool(g)
	require.NoError(t, tool.Start(context.Background(), g.pointAt(5, 5)))

	tool.Cancel()
	assert.False(t, tool.Active())
	assert.Nil(t, consumer.current)
	assert.Equal(t, 1, consumer.cleared)
	assert.Nil(t, tool.Result())

	tool.Cancel()
	assert.Equal(t, 1, consumer.cleared)
}

func TestToolFailureKeepsPreviousPolygon(t *testing.T) {
	g := gradientGrid(10, 10)
	tool, consumer := newTestTool(g)
	ctx := context.Background()
	require.NoError(t, tool.Start(ctx, g.pointAt(5, 5)))
	good := consumer.current
	prev := tool.Result()

	g.extent = &Extent{MinX: 1, MaxX: 9, MinY: 0, MaxY: 9}

	err := tool.Drag(ctx, -4)
	require.ErrorIs(t, err, ErrExtentOrigin)
	assert.Same(t, good, consumer.current)
	assert.Same(t, prev, tool.Result())
	assert.Equal(t, DefaultFactor, tool.Factor())
	assert.True(t, tool.Active())

	_, err = tool.End(ctx)
	require.ErrorIs(t, err, ErrExtentOrigin)
	assert.True(t, tool.Active())
}

func TestToolStartFailureLeavesToolIdle(t *testing.T) {
	g := gradientGrid(10, 10)
	tool, consumer := newTestTool(g)

	err := tool.Start(context.Background(), Point{X: 50, Y: 50})
	require.ErrorIs(t, err, ErrSeedOutOfBounds)
	assert.False(t, tool.Active())
	assert.Equal(t, 0, consumer.replaced)
}
