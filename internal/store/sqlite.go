package store

import (
	"context"
	"database/sql"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/airport-cli/internal/nasr"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS airports (
	loc_id           TEXT PRIMARY KEY,
	state_id         TEXT NOT NULL DEFAULT '',
	elevation        REAL,
	pattern_altitude REAL,
	latitude         REAL NOT NULL,
	longitude        REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS runway_ends (
	loc_id       TEXT NOT NULL REFERENCES airports(loc_id),
	end_id       TEXT NOT NULL,
	length       INTEGER,
	surface      TEXT NOT NULL DEFAULT '',
	true_heading REAL,
	elevation    REAL,
	latitude     REAL NOT NULL,
	longitude    REAL NOT NULL,
	PRIMARY KEY (loc_id, end_id)
);

CREATE INDEX IF NOT EXISTS idx_airports_state ON airports(state_id);
`

const (
	sqliteInsertAirport = `INSERT OR REPLACE INTO airports
		(loc_id, state_id, elevation, pattern_altitude, latitude, longitude)
		VALUES (?, ?, ?, ?, ?, ?)`
	sqliteInsertRunwayEnd = `INSERT OR REPLACE INTO runway_ends
		(loc_id, end_id, length, surface, true_heading, elevation, latitude, longitude)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
)

// SQLiteSink writes airports and runway ends to a SQLite file. Rows are
// written inside one transaction that Flush commits.
type SQLiteSink struct {
	db *sql.DB
	tx *sql.Tx

	insertAirport   *sql.Stmt
	insertRunwayEnd *sql.Stmt
}

// NewSQLiteSink opens the database at dsn, configures WAL mode and creates
// the schema.
func NewSQLiteSink(ctx context.Context, dsn string) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close() //nolint:errcheck
		return nil, eris.Wrap(err, "sqlite: migrate")
	}
	return &SQLiteSink{db: db}, nil
}

// Truncate deletes every row from both tables.
func (s *SQLiteSink) Truncate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM runway_ends; DELETE FROM airports;"); err != nil {
		return eris.Wrap(err, "sqlite: truncate")
	}
	return nil
}

func (s *SQLiteSink) begin(ctx context.Context) error {
	if s.tx != nil {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin tx")
	}
	airport, err := tx.PrepareContext(ctx, sqliteInsertAirport)
	if err != nil {
		tx.Rollback() //nolint:errcheck
		return eris.Wrap(err, "sqlite: prepare airport insert")
	}
	end, err := tx.PrepareContext(ctx, sqliteInsertRunwayEnd)
	if err != nil {
		tx.Rollback() //nolint:errcheck
		return eris.Wrap(err, "sqlite: prepare runway end insert")
	}
	s.tx, s.insertAirport, s.insertRunwayEnd = tx, airport, end
	return nil
}

// WriteFacility implements nasr.FacilityWriter.
func (s *SQLiteSink) WriteFacility(ctx context.Context, f nasr.NormalizedFacility) error {
	if err := s.begin(ctx); err != nil {
		return err
	}
	_, err := s.insertAirport.ExecContext(ctx,
		f.LocID, f.StateID, numeric(f.Elevation), numeric(f.PatternAltitude), f.Latitude, f.Longitude,
	)
	return eris.Wrapf(err, "sqlite: insert airport %s", f.LocID)
}

// WriteRunwayEnd implements nasr.RunwayWriter.
func (s *SQLiteSink) WriteRunwayEnd(ctx context.Context, e nasr.RunwayEnd) error {
	if err := s.begin(ctx); err != nil {
		return err
	}
	_, err := s.insertRunwayEnd.ExecContext(ctx,
		e.LocID, nasr.UnquoteEndID(e.EndID), integer(e.Length), e.Surface,
		numeric(e.TrueHeading), numeric(e.Elevation), e.Latitude, e.Longitude,
	)
	return eris.Wrapf(err, "sqlite: insert runway end %s %s", e.LocID, e.EndID)
}

// Flush commits the open transaction.
func (s *SQLiteSink) Flush(_ context.Context) error {
	if s.tx == nil {
		return nil
	}
	tx := s.tx
	s.tx, s.insertAirport, s.insertRunwayEnd = nil, nil, nil
	return eris.Wrap(tx.Commit(), "sqlite: commit")
}

// Count returns the number of rows in the airports and runway_ends tables.
func (s *SQLiteSink) Count(ctx context.Context) (airports, runwayEnds int, err error) {
	if err := s.db.QueryRowContext(ctx, "SELECT count(*) FROM airports").Scan(&airports); err != nil {
		return 0, 0, eris.Wrap(err, "sqlite: count airports")
	}
	if err := s.db.QueryRowContext(ctx, "SELECT count(*) FROM runway_ends").Scan(&runwayEnds); err != nil {
		return 0, 0, eris.Wrap(err, "sqlite: count runway ends")
	}
	return airports, runwayEnds, nil
}

// Close rolls back any uncommitted rows and closes the database.
func (s *SQLiteSink) Close() error {
	if s.tx != nil {
		s.tx.Rollback() //nolint:errcheck
		s.tx = nil
	}
	return s.db.Close()
}
