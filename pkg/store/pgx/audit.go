package pgx

import (
	"context"
	"fmt"

	"github.com/archive-lab/magpie/pkg/common"
)

// ListAudit returns the most recent merge audit entries, newest first.
func (s *EntityStorage) ListAudit(ctx context.Context, limit int) ([]common.AuditEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.conn.Query(ctx, `
		SELECT id, public_id, source_id, source_name, target_id, target_name,
		       mentions_transferred, confidence, method, created_at
		FROM merge_audit
		ORDER BY id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []common.AuditEntry
	for rows.Next() {
		var e common.AuditEntry
		if err := rows.Scan(
			&e.ID, &e.PublicID, &e.SourceID, &e.SourceName, &e.TargetID, &e.TargetName,
			&e.MentionsTransferred, &e.Confidence, &e.Method, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan audit row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read audit rows: %w", err)
	}
	return entries, nil
}
