package store

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/airport-cli/internal/db"
	"github.com/sells-group/airport-cli/internal/nasr"
)

// DefaultBatchSize is the number of rows buffered per table before an upsert.
const DefaultBatchSize = 5000

// PostgresSink buffers airports and runway ends and upserts them in batches.
// Airports are always written before the runway ends that reference them.
type PostgresSink struct {
	pool      db.Pool
	batchSize int
	log       *zap.Logger

	airports [][]any
	ends     [][]any

	airportsWritten int64
	endsWritten     int64
}

// NewPostgresSink creates a sink writing to nasr.airports and
// nasr.runway_ends. A non-positive batchSize uses DefaultBatchSize.
func NewPostgresSink(pool db.Pool, batchSize int) *PostgresSink {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &PostgresSink{
		pool:      pool,
		batchSize: batchSize,
		log:       zap.L().With(zap.String("component", "store.postgres")),
	}
}

// Truncate empties both tables. Call it before a full reload.
func (s *PostgresSink) Truncate(ctx context.Context) error {
	return db.Truncate(ctx, s.pool, RunwayEndsTable, AirportsTable)
}

// WriteFacility implements nasr.FacilityWriter.
func (s *PostgresSink) WriteFacility(ctx context.Context, f nasr.NormalizedFacility) error {
	row, err := airportRow(f)
	if err != nil {
		return eris.Wrapf(err, "store: airport %s", f.LocID)
	}
	s.airports = append(s.airports, row)
	if len(s.airports) >= s.batchSize {
		return s.flushAirports(ctx)
	}
	return nil
}

// WriteRunwayEnd implements nasr.RunwayWriter.
func (s *PostgresSink) WriteRunwayEnd(ctx context.Context, e nasr.RunwayEnd) error {
	row, err := runwayEndRow(e)
	if err != nil {
		return eris.Wrapf(err, "store: runway end %s %s", e.LocID, e.EndID)
	}
	s.ends = append(s.ends, row)
	if len(s.ends) >= s.batchSize {
		return s.Flush(ctx)
	}
	return nil
}

// Flush upserts everything buffered.
func (s *PostgresSink) Flush(ctx context.Context) error {
	if err := s.flushAirports(ctx); err != nil {
		return err
	}
	return s.flushEnds(ctx)
}

// Written reports the rows upserted so far.
func (s *PostgresSink) Written() (airports, runwayEnds int64) {
	return s.airportsWritten, s.endsWritten
}

func (s *PostgresSink) flushAirports(ctx context.Context) error {
	if len(s.airports) == 0 {
		return nil
	}
	n, err := db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        AirportsTable,
		Columns:      airportColumns,
		ConflictKeys: []string{"loc_id"},
	}, s.airports)
	if err != nil {
		return eris.Wrap(err, "store: upsert airports")
	}
	s.log.Debug("airports upserted", zap.Int("rows", len(s.airports)), zap.Int64("affected", n))
	s.airportsWritten += int64(len(s.airports))
	s.airports = s.airports[:0]
	return nil
}

func (s *PostgresSink) flushEnds(ctx context.Context) error {
	if len(s.ends) == 0 {
		return nil
	}
	n, err := db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        RunwayEndsTable,
		Columns:      runwayEndColumns,
		ConflictKeys: []string{"loc_id", "end_id"},
	}, s.ends)
	if err != nil {
		return eris.Wrap(err, "store: upsert runway ends")
	}
	s.log.Debug("runway ends upserted", zap.Int("rows", len(s.ends)), zap.Int64("affected", n))
	s.endsWritten += int64(len(s.ends))
	s.ends = s.ends[:0]
	return nil
}
