package nasr

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flushSink struct {
	recordSink
	flushed int
	err     error
}

func (f *flushSink) Flush(context.Context) error {
	f.flushed++
	return f.err
}

func TestMultiSink(t *testing.T) {
	a, b := &recordSink{}, &flushSink{}
	m := MultiSink(a, b)
	ctx := context.Background()

	require.NoError(t, m.WriteFacility(ctx, NormalizedFacility{LocID: "JFK"}))
	require.NoError(t, m.WriteRunwayEnd(ctx, RunwayEnd{LocID: "JFK", EndID: `"04L"`}))

	assert.Equal(t, a.order, b.order)
	assert.Len(t, a.order, 2)

	require.NoError(t, Flush(ctx, m))
	assert.Equal(t, 1, b.flushed)
}

func TestMultiSink_StopsOnError(t *testing.T) {
	a, b := &recordSink{failOn: "JFK"}, &recordSink{}
	err := MultiSink(a, b).WriteFacility(context.Background(), NormalizedFacility{LocID: "JFK"})
	require.Error(t, err)
	assert.Empty(t, b.order)
}

func TestFlush(t *testing.T) {
	ctx := context.Background()
	assert.NoError(t, Flush(ctx, &recordSink{}))

	err := Flush(ctx, &flushSink{err: errors.New("copy failed")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "copy failed")
}

func TestSinkFuncs(t *testing.T) {
	var got []string
	s := SinkFuncs{Facility: func(_ context.Context, f NormalizedFacility) error {
		got = append(got, f.LocID)
		return nil
	}}
	ctx := context.Background()
	require.NoError(t, s.WriteFacility(ctx, NormalizedFacility{LocID: "JFK"}))
	require.NoError(t, s.WriteRunwayEnd(ctx, RunwayEnd{}))
	assert.Equal(t, []string{"JFK"}, got)
}
