package nasr

import (
	"context"

	"github.com/rotisserie/eris"
)

// FacilityWriter accepts admitted airports, one row per call.
type FacilityWriter interface {
	WriteFacility(ctx context.Context, f NormalizedFacility) error
}

// RunwayWriter accepts runway ends, one row per call.
type RunwayWriter interface {
	WriteRunwayEnd(ctx context.Context, e RunwayEnd) error
}

// Sink receives the synchronizer's output. Every runway end is written after
// the facility it belongs to.
type Sink interface {
	FacilityWriter
	RunwayWriter
}

// Flusher is implemented by sinks that buffer rows.
type Flusher interface {
	Flush(ctx context.Context) error
}

// SinkFuncs adapts two functions to a Sink. A nil func discards rows.
type SinkFuncs struct {
	Facility func(ctx context.Context, f NormalizedFacility) error
	Runway   func(ctx context.Context, e RunwayEnd) error
}

// WriteFacility implements FacilityWriter.
func (s SinkFuncs) WriteFacility(ctx context.Context, f NormalizedFacility) error {
	if s.Facility == nil {
		return nil
	}
	return s.Facility(ctx, f)
}

// WriteRunwayEnd implements RunwayWriter.
func (s SinkFuncs) WriteRunwayEnd(ctx context.Context, e RunwayEnd) error {
	if s.Runway == nil {
		return nil
	}
	return s.Runway(ctx, e)
}

type multiSink []Sink

// MultiSink writes every row to each sink in order, stopping at the first
// error.
func MultiSink(sinks ...Sink) Sink {
	return multiSink(sinks)
}

func (m multiSink) WriteFacility(ctx context.Context, f NormalizedFacility) error {
	for _, s := range m {
		if err := s.WriteFacility(ctx, f); err != nil {
			return err
		}
	}
	return nil
}

func (m multiSink) WriteRunwayEnd(ctx context.Context, e RunwayEnd) error {
	for _, s := range m {
		if err := s.WriteRunwayEnd(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes every member that buffers.
func (m multiSink) Flush(ctx context.Context) error {
	for _, s := range m {
		if err := Flush(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes s if it buffers rows.
func Flush(ctx context.Context, s Sink) error {
	f, ok := s.(Flusher)
	if !ok {
		return nil
	}
	return eris.Wrap(f.Flush(ctx), "nasr: flush sink")
}
