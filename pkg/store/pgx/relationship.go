package pgx

import (
	"context"
	"errors"
	"fmt"

	pgxv5 "github.com/jackc/pgx/v5"

	"github.com/archive-lab/magpie/pkg/common"
)

// UpsertRelationship writes one edge, accumulating weight onto an
// existing (source, target, type) row.
func (s *EntityStorage) UpsertRelationship(ctx context.Context, sourceID, targetID int64, relType string, weight int) error {
	_, err := s.conn.Exec(ctx, `
		INSERT INTO relationships (source_id, target_id, rel_type, strength)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (source_id, target_id, rel_type) DO UPDATE SET
			strength = relationships.strength + EXCLUDED.strength
	`, sourceID, targetID, relType, weight)
	if err != nil {
		return fmt.Errorf("failed to upsert relationship: %w", err)
	}
	return nil
}

// ReplaceRelationships swaps the stored edge set of one type for the
// provided edges inside a single transaction.
func (s *EntityStorage) ReplaceRelationships(ctx context.Context, relType string, edges []common.Relationship) error {
	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgxv5.ErrTxClosed) {
			// Rollback after a successful commit is a no-op failure.
			_ = rbErr
		}
	}()

	if _, err := tx.Exec(ctx, `DELETE FROM relationships WHERE rel_type = $1`, relType); err != nil {
		return fmt.Errorf("failed to clear %s relationships: %w", relType, err)
	}

	for _, edge := range edges {
		docIDs := edge.DocumentIDs
		if docIDs == nil {
			docIDs = []int64{}
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO relationships (source_id, target_id, rel_type, strength, confidence, document_ids)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (source_id, target_id, rel_type) DO UPDATE SET
				strength = EXCLUDED.strength,
				confidence = EXCLUDED.confidence,
				document_ids = EXCLUDED.document_ids
		`, edge.SourceID, edge.TargetID, relType, edge.Strength, edge.Confidence, docIDs)
		if err != nil {
			return fmt.Errorf("failed to insert relationship %d-%d: %w", edge.SourceID, edge.TargetID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit relationships: %w", err)
	}
	return nil
}
