package nasr

import (
	"context"
	"errors"
	"io"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// ErrUnsortedInput is returned in strict mode when a stream's site ids
// decrease.
var ErrUnsortedInput = eris.New("nasr: input not sorted by site id")

// CursorState is the state of the runway cursor.
type CursorState int

const (
	// Seeking discards runway rows below the facility key.
	Seeking CursorState = iota
	// Collecting gathers runway rows equal to the facility key.
	Collecting
	// Done means the runway stream is exhausted. It is terminal.
	Done
)

// String returns the state name.
func (s CursorState) String() string {
	switch s {
	case Seeking:
		return "seeking"
	case Collecting:
		return "collecting"
	case Done:
		return "done"
	default:
		return "unknown"
	}
}

// runwayCursor walks the runway stream forward, holding at most one row of
// lookahead.
type runwayCursor struct {
	src     RunwaySource
	state   CursorState
	pending *RunwayGroup
	lastKey string
	strict  bool
	stats   *Stats
}

func newRunwayCursor(src RunwaySource, strict bool, stats *Stats) *runwayCursor {
	return &runwayCursor{src: src, strict: strict, stats: stats}
}

// position is the number of rows consumed from the stream.
func (c *runwayCursor) position() int {
	return c.stats.RunwayRows
}

// peek returns the lookahead row, reading one if needed. ok is false once
// the stream is exhausted.
func (c *runwayCursor) peek() (g RunwayGroup, ok bool, err error) {
	if c.pending != nil {
		return *c.pending, true, nil
	}
	if c.state == Done {
		return RunwayGroup{}, false, nil
	}

	g, err = c.src.Next()
	if errors.Is(err, io.EOF) {
		c.state = Done
		return RunwayGroup{}, false, nil
	}
	if err != nil {
		return RunwayGroup{}, false, eris.Wrap(err, "nasr: read runway")
	}
	c.stats.RunwayRows++

	if c.strict && c.stats.RunwayRows > 1 && g.SiteID < c.lastKey {
		return RunwayGroup{}, false, eris.Wrapf(ErrUnsortedInput, "runway row %d: site %q after %q", c.stats.RunwayRows, g.SiteID, c.lastKey)
	}
	c.lastKey = g.SiteID
	c.pending = &g
	return g, true, nil
}

func (c *runwayCursor) consume() {
	c.pending = nil
}

// group skips rows below key, then returns the non-helipad rows equal to key.
// The first row above key stays buffered for the next call.
func (c *runwayCursor) group(key string) ([]RunwayGroup, error) {
	if c.state != Done {
		c.state = Seeking
	}

	var out []RunwayGroup
	for {
		g, ok, err := c.peek()
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}

		if c.state == Seeking {
			if g.SiteID < key {
				c.consume()
				c.stats.RunwaysSkipped++
				continue
			}
			c.state = Collecting
		}

		if g.SiteID != key {
			return out, nil
		}
		c.consume()
		if g.IsHelipad() {
			c.stats.Helipads++
			continue
		}
		out = append(out, g)
	}
}

// Options configures a Synchronizer.
type Options struct {
	Criteria Criteria
	// StrictOrder fails the run with ErrUnsortedInput when either stream's
	// site ids decrease. Without it unsorted input silently mis-groups.
	StrictOrder bool
}

// Synchronizer matches the facility and runway streams by site id and writes
// admitted airports with their runway ends.
type Synchronizer struct {
	opts Options
}

// NewSynchronizer creates a Synchronizer. A zero Criteria uses
// DefaultCriteria.
func NewSynchronizer(opts Options) *Synchronizer {
	if opts.Criteria.FacilityKind == "" && opts.Criteria.Use == "" &&
		len(opts.Criteria.SurfacePrefixes) == 0 && opts.Criteria.MinRunwayLength == 0 {
		opts.Criteria = DefaultCriteria()
	}
	return &Synchronizer{opts: opts}
}

// Run reads both streams once and writes every admitted facility followed by
// its runway ends. Stream exhaustion ends the run normally.
func (s *Synchronizer) Run(ctx context.Context, facilities FacilitySource, runways RunwaySource, sink Sink) (Stats, error) {
	log := zap.L().With(zap.String("component", "nasr.sync"))

	stats := newStats()
	cur := newRunwayCursor(runways, s.opts.StrictOrder, &stats)
	crit := s.opts.Criteria
	var lastKey string

	for {
		if err := ctx.Err(); err != nil {
			return stats, eris.Wrap(err, "nasr: sync interrupted")
		}

		f, err := facilities.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return stats, eris.Wrap(err, "nasr: read facility")
		}
		stats.Facilities++

		if s.opts.StrictOrder && stats.Facilities > 1 && f.SiteID < lastKey {
			return stats, eris.Wrapf(ErrUnsortedInput, "airport row %d: site %q after %q", stats.Facilities, f.SiteID, lastKey)
		}
		lastKey = f.SiteID

		if r := crit.Candidate(f); r != ReasonNone {
			stats.reject(r)
			continue
		}
		stats.Candidates++

		group, err := cur.group(f.SiteID)
		if err != nil {
			return stats, err
		}
		if r := crit.RunwaysQualify(group); r != ReasonNone {
			stats.reject(r)
			log.Debug("airport rejected",
				zap.String("site_id", f.SiteID),
				zap.String("loc_id", f.LocID),
				zap.String("reason", string(r)),
			)
			continue
		}

		nf, err := TransformFacility(f)
		if err != nil {
			return stats, err
		}
		if err := sink.WriteFacility(ctx, nf); err != nil {
			return stats, eris.Wrapf(err, "nasr: write airport %s", nf.LocID)
		}
		stats.Admitted++

		for _, g := range group {
			for _, end := range ExpandRunway(nf.LocID, g) {
				if err := sink.WriteRunwayEnd(ctx, end); err != nil {
					return stats, eris.Wrapf(err, "nasr: write runway %s %s", nf.LocID, end.EndID)
				}
				stats.RunwayEnds++
			}
		}
	}

	log.Info("sync complete", zap.Object("stats", stats))
	return stats, nil
}
