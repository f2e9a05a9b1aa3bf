package pgx

import (
	"context"
	"fmt"

	pgxv5 "github.com/jackc/pgx/v5"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/archive-lab/magpie/pkg/common"
	"github.com/archive-lab/magpie/pkg/store"
)

// BeginMerge opens the transaction for one merge.
func (s *EntityStorage) BeginMerge(ctx context.Context) (store.MergeTx, error) {
	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin merge transaction: %w", err)
	}
	return &mergeTx{tx: tx}, nil
}

type mergeTx struct {
	tx pgxv5.Tx
}

func (m *mergeTx) GetEntity(ctx context.Context, id int64) (common.Entity, error) {
	var e common.Entity
	var level string
	err := m.tx.QueryRow(ctx, `
		SELECT id, name, category, mentions, is_vip, rating, risk_level
		FROM entities WHERE id = $1
	`, id).Scan(&e.ID, &e.Name, &e.Category, &e.Mentions, &e.IsVIP, &e.Rating, &level)
	if err != nil {
		return common.Entity{}, fmt.Errorf("failed to get entity %d: %w", id, err)
	}
	e.Level = common.RiskLevel(level)
	return e, nil
}

func (m *mergeTx) RepointRows(ctx context.Context, table, entityColumn string, sourceID, targetID int64) (int64, error) {
	if err := checkIdentifiers(table, entityColumn); err != nil {
		return 0, err
	}
	tag, err := m.tx.Exec(ctx, fmt.Sprintf(
		`UPDATE %s SET %s = $1 WHERE %s = $2`,
		table, entityColumn, entityColumn,
	), targetID, sourceID)
	if err != nil {
		return 0, fmt.Errorf("failed to repoint %s.%s: %w", table, entityColumn, err)
	}
	return tag.RowsAffected(), nil
}

// UpdateOrDeleteOnConflict repoints rows guarded by a compound unique
// key. The update skips rows whose (target, uniqueColumn) combination
// already exists; the trailing delete then drops the source's
// conflicting leftovers instead of aborting the merge.
func (m *mergeTx) UpdateOrDeleteOnConflict(ctx context.Context, table, entityColumn, uniqueColumn string, sourceID, targetID int64) error {
	if err := checkIdentifiers(table, entityColumn, uniqueColumn); err != nil {
		return err
	}

	_, err := m.tx.Exec(ctx, fmt.Sprintf(`
		UPDATE %[1]s SET %[2]s = $1
		WHERE %[2]s = $2
		  AND NOT EXISTS (
			SELECT 1 FROM %[1]s other
			WHERE other.%[2]s = $1 AND other.%[3]s = %[1]s.%[3]s
		  )
	`, table, entityColumn, uniqueColumn), targetID, sourceID)
	if err != nil {
		return fmt.Errorf("failed to repoint %s.%s: %w", table, entityColumn, err)
	}

	_, err = m.tx.Exec(ctx, fmt.Sprintf(
		`DELETE FROM %s WHERE %s = $1`,
		table, entityColumn,
	), sourceID)
	if err != nil {
		return fmt.Errorf("failed to drop conflicting %s rows: %w", table, err)
	}
	return nil
}

// MergeRelationshipEndpoints moves every edge off the source entity in
// one statement: edges touching the source are deleted and re-inserted
// against the target with normalized endpoint ordering. Edges between
// source and target collapse to self-edges and are filtered out, and an
// edge that lands on an existing (source, target, type) row accumulates
// its strength there.
func (m *mergeTx) MergeRelationshipEndpoints(ctx context.Context, sourceID, targetID int64) error {
	_, err := m.tx.Exec(ctx, `
		WITH moved AS (
			DELETE FROM relationships
			WHERE source_id = $1 OR target_id = $1
			RETURNING
				LEAST($2::bigint, CASE WHEN source_id = $1 THEN target_id ELSE source_id END) AS new_source,
				GREATEST($2::bigint, CASE WHEN source_id = $1 THEN target_id ELSE source_id END) AS new_target,
				rel_type, strength, confidence, document_ids
		), surviving AS (
			SELECT new_source, new_target, rel_type,
			       SUM(strength) AS strength,
			       MAX(confidence) AS confidence
			FROM moved
			WHERE new_source <> new_target
			GROUP BY new_source, new_target, rel_type
		), surviving_docs AS (
			SELECT new_source, new_target, rel_type,
			       array_agg(DISTINCT doc ORDER BY doc) AS document_ids
			FROM moved, unnest(document_ids) AS doc
			WHERE new_source <> new_target
			GROUP BY new_source, new_target, rel_type
		)
		INSERT INTO relationships (source_id, target_id, rel_type, strength, confidence, document_ids)
		SELECT s.new_source, s.new_target, s.rel_type, s.strength, s.confidence,
		       COALESCE(d.document_ids, '{}')
		FROM surviving s
		LEFT JOIN surviving_docs d USING (new_source, new_target, rel_type)
		ON CONFLICT (source_id, target_id, rel_type) DO UPDATE SET
			strength = relationships.strength + EXCLUDED.strength,
			confidence = GREATEST(relationships.confidence, EXCLUDED.confidence),
			document_ids = ARRAY(
				SELECT DISTINCT doc
				FROM unnest(relationships.document_ids || EXCLUDED.document_ids) AS doc
				ORDER BY doc
			)
	`, sourceID, targetID)
	if err != nil {
		return fmt.Errorf("failed to merge relationship endpoints of %d into %d: %w", sourceID, targetID, err)
	}
	return nil
}

func (m *mergeTx) HasRow(ctx context.Context, table, entityColumn string, id int64) (bool, error) {
	if err := checkIdentifiers(table, entityColumn); err != nil {
		return false, err
	}
	var exists bool
	err := m.tx.QueryRow(ctx, fmt.Sprintf(
		`SELECT EXISTS(SELECT 1 FROM %s WHERE %s = $1)`,
		table, entityColumn,
	), id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check %s row: %w", table, err)
	}
	return exists, nil
}

func (m *mergeTx) DeleteRows(ctx context.Context, table, entityColumn string, id int64) (int64, error) {
	if err := checkIdentifiers(table, entityColumn); err != nil {
		return 0, err
	}
	tag, err := m.tx.Exec(ctx, fmt.Sprintf(
		`DELETE FROM %s WHERE %s = $1`,
		table, entityColumn,
	), id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete %s rows: %w", table, err)
	}
	return tag.RowsAffected(), nil
}

func (m *mergeTx) AddMentions(ctx context.Context, id int64, delta int) error {
	_, err := m.tx.Exec(ctx, `
		UPDATE entities SET mentions = mentions + $2 WHERE id = $1
	`, id, delta)
	if err != nil {
		return fmt.Errorf("failed to accumulate mentions onto entity %d: %w", id, err)
	}
	return nil
}

func (m *mergeTx) DeleteEntity(ctx context.Context, id int64) error {
	_, err := m.tx.Exec(ctx, `DELETE FROM entities WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete entity %d: %w", id, err)
	}
	return nil
}

func (m *mergeTx) InsertAudit(ctx context.Context, entry common.AuditEntry) error {
	publicID := entry.PublicID
	if publicID == "" {
		generated, err := gonanoid.New()
		if err != nil {
			return fmt.Errorf("failed to generate audit public id: %w", err)
		}
		publicID = generated
	}

	_, err := m.tx.Exec(ctx, `
		INSERT INTO merge_audit
			(public_id, source_id, source_name, target_id, target_name,
			 mentions_transferred, confidence, method)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, publicID, entry.SourceID, entry.SourceName, entry.TargetID, entry.TargetName,
		entry.MentionsTransferred, entry.Confidence, entry.Method)
	if err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}
	return nil
}

func (m *mergeTx) Commit(ctx context.Context) error {
	return m.tx.Commit(ctx)
}

func (m *mergeTx) Rollback(ctx context.Context) error {
	return m.tx.Rollback(ctx)
}
