package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
)

// CopyFrom bulk-inserts rows using the COPY protocol. table may be
// schema-qualified ("nasr.airports").
func CopyFrom(ctx context.Context, pool Pool, table string, columns []string, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	n, err := pool.CopyFrom(ctx, identifier(table), columns, pgx.CopyFromRows(rows))
	if err != nil {
		return 0, eris.Wrapf(err, "db: COPY INTO %s", table)
	}
	return n, nil
}

// Truncate empties the given tables in one statement.
func Truncate(ctx context.Context, pool Pool, tables ...string) error {
	if len(tables) == 0 {
		return nil
	}
	names := make([]string, len(tables))
	for i, t := range tables {
		names[i] = sanitizeTable(t)
	}
	if _, err := pool.Exec(ctx, "TRUNCATE "+joinComma(names)); err != nil {
		return eris.Wrapf(err, "db: truncate %v", tables)
	}
	return nil
}
