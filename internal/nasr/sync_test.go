package nasr

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

type facilitySlice struct {
	rows []Facility
	i    int
}

func (s *facilitySlice) Next() (Facility, error) {
	if s.i >= len(s.rows) {
		return Facility{}, io.EOF
	}
	s.i++
	return s.rows[s.i-1], nil
}

type runwaySlice struct {
	rows  []RunwayGroup
	reads int
	err   error
}

func (s *runwaySlice) Next() (RunwayGroup, error) {
	if s.err != nil && s.reads == len(s.rows) {
		return RunwayGroup{}, s.err
	}
	if s.reads >= len(s.rows) {
		return RunwayGroup{}, io.EOF
	}
	s.reads++
	return s.rows[s.reads-1], nil
}

// recordSink keeps every row in write order.
type recordSink struct {
	facilities []NormalizedFacility
	ends       []RunwayEnd
	order      []string
	failOn     string
}

func (r *recordSink) WriteFacility(_ context.Context, f NormalizedFacility) error {
	if r.failOn == f.LocID {
		return errors.New("disk full")
	}
	r.facilities = append(r.facilities, f)
	r.order = append(r.order, "F:"+f.LocID)
	return nil
}

func (r *recordSink) WriteRunwayEnd(_ context.Context, e RunwayEnd) error {
	r.ends = append(r.ends, e)
	r.order = append(r.order, "R:"+e.LocID+":"+e.EndID)
	return nil
}

func pavedRunway(siteID, id string) RunwayGroup {
	g := runway(siteID, id, "5000", "ASPH-G")
	g.Base = EndFields{ID: "09", TrueHeading: "090", Elevation: "10", Latitude: "40-00-00.000N", Longitude: "073-00-00.000W"}
	g.Reciprocal = EndFields{ID: "27", TrueHeading: "270", Elevation: "12", Latitude: "40-00-30.000N", Longitude: "073-00-30.000W"}
	return g
}

func run(t *testing.T, opts Options, facilities []Facility, runways []RunwayGroup) (*recordSink, Stats, error) {
	t.Helper()
	sink := &recordSink{}
	stats, err := NewSynchronizer(opts).Run(context.Background(),
		&facilitySlice{rows: facilities}, &runwaySlice{rows: runways}, sink)
	return sink, stats, err
}

func TestSynchronizer_EndToEnd(t *testing.T) {
	facilities := []Facility{airport("001"), airport("003")}
	runways := []RunwayGroup{
		runway("002", "H1", "60", "CONC"),
		pavedRunway("003", "09/27"),
	}

	sink, stats, err := run(t, Options{}, facilities, runways)
	require.NoError(t, err)

	require.Len(t, sink.facilities, 1)
	assert.Equal(t, "L003", sink.facilities[0].LocID)
	assert.Equal(t, []string{`F:L003`, `R:L003:"09"`, `R:L003:"27"`}, sink.order)

	assert.Equal(t, 2, stats.Facilities)
	assert.Equal(t, 2, stats.Candidates)
	assert.Equal(t, 1, stats.Admitted)
	assert.Equal(t, 1, stats.Rejected[ReasonNoRunways])
	assert.Equal(t, 1, stats.RunwaysSkipped)
	assert.Equal(t, 2, stats.RunwayEnds)
	assert.Equal(t, 2, stats.RunwayRows)
}

func TestSynchronizer_HelipadRowsExcluded(t *testing.T) {
	facilities := []Facility{airport("001")}
	runways := []RunwayGroup{
		runway("001", "H1", "9000", "CONC"),
		runway("001", "18/36", "1500", "TURF"),
		pavedRunway("001", "09/27"),
	}

	sink, stats, err := run(t, Options{}, facilities, runways)
	require.NoError(t, err)

	assert.Equal(t, []string{
		`F:L001`,
		`R:L001:"18"`, `R:L001:"36"`,
		`R:L001:"09"`, `R:L001:"27"`,
	}, sink.order)
	assert.Equal(t, 1, stats.Helipads)
}

func TestSynchronizer_HelipadOnlyFacilityRejected(t *testing.T) {
	facilities := []Facility{airport("001")}
	runways := []RunwayGroup{runway("001", "H1", "9000", "CONC")}

	sink, stats, err := run(t, Options{}, facilities, runways)
	require.NoError(t, err)
	assert.Empty(t, sink.order)
	assert.Equal(t, 1, stats.Rejected[ReasonNoRunways])
}

func TestSynchronizer_RejectedFacilityConsumesItsRunways(t *testing.T) {
	facilities := []Facility{airport("001"), airport("002")}
	runways := []RunwayGroup{
		runway("001", "18/36", "1500", "TURF"),
		pavedRunway("002", "09/27"),
	}

	sink, stats, err := run(t, Options{}, facilities, runways)
	require.NoError(t, err)

	assert.Equal(t, []string{`F:L002`, `R:L002:"09"`, `R:L002:"27"`}, sink.order)
	assert.Equal(t, 1, stats.Rejected[ReasonSurface])
	assert.Zero(t, stats.RunwaysSkipped)
}

func TestSynchronizer_NonCandidateLeavesCursorAlone(t *testing.T) {
	heliport := airport("001")
	heliport.FacilityType = "HELIPORT"
	private := airport("002")
	private.Use = "PR"

	runways := &runwaySlice{rows: []RunwayGroup{pavedRunway("001", "09/27"), pavedRunway("002", "09/27")}}
	sink := &recordSink{}
	stats, err := NewSynchronizer(Options{}).Run(context.Background(),
		&facilitySlice{rows: []Facility{heliport, private}}, runways, sink)
	require.NoError(t, err)

	assert.Zero(t, runways.reads)
	assert.Empty(t, sink.order)
	assert.Equal(t, 1, stats.Rejected[ReasonKind])
	assert.Equal(t, 1, stats.Rejected[ReasonUse])
}

func TestSynchronizer_SkipsRunwaysWithoutFacility(t *testing.T) {
	facilities := []Facility{airport("005")}
	runways := []RunwayGroup{
		pavedRunway("001", "09/27"),
		pavedRunway("003", "09/27"),
		pavedRunway("005", "04/22"),
		pavedRunway("007", "09/27"),
	}

	sink, stats, err := run(t, Options{}, facilities, runways)
	require.NoError(t, err)

	assert.Equal(t, []string{`F:L005`, `R:L005:"04"`, `R:L005:"22"`}, sink.order)
	assert.Equal(t, 2, stats.RunwaysSkipped)
	// 007 is read as lookahead and never attributed.
	assert.Equal(t, 4, stats.RunwayRows)
}

func TestSynchronizer_RunwaysExhaustedEarly(t *testing.T) {
	facilities := []Facility{airport("001"), airport("002"), airport("003")}
	runways := []RunwayGroup{pavedRunway("001", "09/27")}

	sink, stats, err := run(t, Options{}, facilities, runways)
	require.NoError(t, err)

	assert.Len(t, sink.facilities, 1)
	assert.Equal(t, 2, stats.Rejected[ReasonNoRunways])
}

func TestSynchronizer_OrdinalKeyComparison(t *testing.T) {
	// "10" sorts before "9" as strings.
	facilities := []Facility{airport("10"), airport("9")}
	runways := []RunwayGroup{pavedRunway("10", "09/27"), pavedRunway("9", "09/27")}

	sink, _, err := run(t, Options{StrictOrder: true}, facilities, runways)
	require.NoError(t, err)
	assert.Len(t, sink.facilities, 2)
}

func TestSynchronizer_StrictOrder(t *testing.T) {
	t.Run("facilities", func(t *testing.T) {
		_, _, err := run(t, Options{StrictOrder: true},
			[]Facility{airport("002"), airport("001")}, nil)
		assert.ErrorIs(t, err, ErrUnsortedInput)
	})

	t.Run("runways", func(t *testing.T) {
		_, _, err := run(t, Options{StrictOrder: true},
			[]Facility{airport("003")},
			[]RunwayGroup{pavedRunway("002", "09/27"), pavedRunway("001", "09/27")})
		assert.ErrorIs(t, err, ErrUnsortedInput)
	})

	t.Run("lenient by default", func(t *testing.T) {
		_, _, err := run(t, Options{},
			[]Facility{airport("002"), airport("001")},
			[]RunwayGroup{pavedRunway("002", "09/27"), pavedRunway("001", "09/27")})
		assert.NoError(t, err)
	})
}

func TestSynchronizer_Errors(t *testing.T) {
	t.Run("runway read", func(t *testing.T) {
		sink := &recordSink{}
		runways := &runwaySlice{err: errors.New("connection reset")}
		_, err := NewSynchronizer(Options{}).Run(context.Background(),
			&facilitySlice{rows: []Facility{airport("001")}}, runways, sink)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection reset")
	})

	t.Run("sink write", func(t *testing.T) {
		sink := &recordSink{failOn: "L001"}
		_, err := NewSynchronizer(Options{}).Run(context.Background(),
			&facilitySlice{rows: []Facility{airport("001")}},
			&runwaySlice{rows: []RunwayGroup{pavedRunway("001", "09/27")}}, sink)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk full")
	})

	t.Run("invalid elevation", func(t *testing.T) {
		f := airport("001")
		f.Elevation = ""
		_, _, err := run(t, Options{}, []Facility{f}, []RunwayGroup{pavedRunway("001", "09/27")})
		assert.ErrorIs(t, err, ErrInvalidElevation)
	})

	t.Run("canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewSynchronizer(Options{}).Run(ctx,
			&facilitySlice{rows: []Facility{airport("001")}}, &runwaySlice{}, &recordSink{})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestRunwayCursor_Monotonic(t *testing.T) {
	rows := []RunwayGroup{
		runway("001", "09/27", "1", "A"),
		runway("001", "H1", "1", "A"),
		runway("002", "09/27", "1", "A"),
		runway("004", "09/27", "1", "A"),
		runway("004", "18/36", "1", "A"),
		runway("006", "09/27", "1", "A"),
		runway("009", "09/27", "1", "A"),
	}
	src := &runwaySlice{rows: rows}
	stats := newStats()
	cur := newRunwayCursor(src, false, &stats)

	last := cur.position()
	var collected int
	for _, key := range []string{"000", "001", "003", "004", "005", "006", "008", "010", "011"} {
		g, err := cur.group(key)
		require.NoError(t, err)
		collected += len(g)

		assert.GreaterOrEqual(t, cur.position(), last, "key %s", key)
		last = cur.position()
	}

	assert.Equal(t, len(rows), src.reads)
	assert.Equal(t, Done, cur.state)
	// 001 (one non-helipad), 004 (two), 006 (one)
	assert.Equal(t, 4, collected)
	assert.Equal(t, 1, stats.Helipads)
	assert.Equal(t, 2, stats.RunwaysSkipped)
}

func TestRunwayCursor_States(t *testing.T) {
	stats := newStats()
	cur := newRunwayCursor(&runwaySlice{rows: []RunwayGroup{runway("002", "09/27", "1", "A")}}, false, &stats)
	assert.Equal(t, Seeking, cur.state)

	g, err := cur.group("001")
	require.NoError(t, err)
	assert.Empty(t, g)
	assert.Equal(t, Collecting, cur.state)
	assert.NotNil(t, cur.pending)

	g, err = cur.group("002")
	require.NoError(t, err)
	assert.Len(t, g, 1)
	assert.Equal(t, Done, cur.state)

	g, err = cur.group("003")
	require.NoError(t, err)
	assert.Empty(t, g)
	assert.Equal(t, Done, cur.state)
	assert.Equal(t, "done", cur.state.String())
}
