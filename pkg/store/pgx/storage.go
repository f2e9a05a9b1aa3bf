package pgx

import (
	"context"
	"fmt"

	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBConn abstracts the pgx pool so the storage layer can be exercised
// against pgxmock in tests.
type DBConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, optionsAndArgs ...any) (pgxv5.Rows, error)
	QueryRow(ctx context.Context, sql string, optionsAndArgs ...any) pgxv5.Row
	Begin(ctx context.Context) (pgxv5.Tx, error)
}

// EntityStorage implements the store.Storage contract on PostgreSQL.
type EntityStorage struct {
	conn DBConn
}

// NewEntityStorage wraps an existing database connection.
func NewEntityStorage(conn DBConn) *EntityStorage {
	return &EntityStorage{conn: conn}
}

// knownColumns whitelists the table and column identifiers the merge
// primitives may touch. The primitives interpolate identifiers into
// SQL, so anything outside this map is rejected before a query is
// built.
var knownColumns = map[string]map[string]bool{
	"document_mentions":    {"entity_id": true, "document_id": true},
	"entity_media":         {"entity_id": true, "media_id": true},
	"entity_organizations": {"entity_id": true, "organization_id": true},
	"black_book_entries":   {"entity_id": true, "page_number": true},
	"person_profiles":      {"entity_id": true},
	"profile_aliases":      {"profile_entity_id": true, "alias": true},
	"relationships":        {"source_id": true, "target_id": true},
}

func checkIdentifiers(table string, columns ...string) error {
	cols, ok := knownColumns[table]
	if !ok {
		return fmt.Errorf("unknown table %q", table)
	}
	for _, c := range columns {
		if !cols[c] {
			return fmt.Errorf("unknown column %q on table %q", c, table)
		}
	}
	return nil
}
