package nasr

import "go.uber.org/zap/zapcore"

// Stats counts what a Run read, rejected and wrote.
type Stats struct {
	Facilities     int
	Candidates     int
	Admitted       int
	Rejected       map[Reason]int
	RunwayRows     int // rows consumed from the runway stream
	RunwaysSkipped int // rows below the current facility key
	Helipads       int
	RunwayEnds     int
}

func newStats() Stats {
	return Stats{Rejected: make(map[Reason]int)}
}

func (s *Stats) reject(r Reason) {
	s.Rejected[r]++
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (s Stats) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddInt("facilities", s.Facilities)
	enc.AddInt("candidates", s.Candidates)
	enc.AddInt("admitted", s.Admitted)
	enc.AddInt("runway_rows", s.RunwayRows)
	enc.AddInt("runways_skipped", s.RunwaysSkipped)
	enc.AddInt("helipads", s.Helipads)
	enc.AddInt("runway_ends", s.RunwayEnds)
	for r, n := range s.Rejected {
		enc.AddInt("rejected_"+string(r), n)
	}
	return nil
}
