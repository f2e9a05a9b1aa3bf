package pgx

import (
	"context"
	"fmt"

	"github.com/archive-lab/magpie/pkg/common"
)

// ListDocuments returns all documents with non-empty text content.
func (s *EntityStorage) ListDocuments(ctx context.Context) ([]common.Document, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT id, title, content
		FROM documents
		WHERE content IS NOT NULL AND content <> ''
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []common.Document
	for rows.Next() {
		var d common.Document
		if err := rows.Scan(&d.ID, &d.Title, &d.Content); err != nil {
			return nil, fmt.Errorf("failed to scan document row: %w", err)
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read document rows: %w", err)
	}
	return docs, nil
}
