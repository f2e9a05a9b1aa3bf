package pgx

import (
	"context"
	"fmt"

	"github.com/archive-lab/magpie/pkg/common"
)

// RiskSignals gathers the scoring inputs for every person entity.
// Aggregates are fetched in bulk, one query per signal, and stitched
// together in memory so the scorer only ever sees typed values.
func (s *EntityStorage) RiskSignals(ctx context.Context, anchorIDs []int64, keywords []string) (map[int64]common.RiskSignals, error) {
	entities, err := s.ListPersonEntities(ctx)
	if err != nil {
		return nil, err
	}

	signals := make(map[int64]common.RiskSignals, len(entities))
	for _, e := range entities {
		signals[e.ID] = common.RiskSignals{
			EntityID:     e.ID,
			Name:         e.Name,
			Mentions:     e.Mentions,
			IsVIP:        e.IsVIP,
			StoredRating: e.Rating,
		}
	}

	if len(anchorIDs) > 0 {
		if err := s.collectAnchorEdges(ctx, anchorIDs, signals); err != nil {
			return nil, err
		}
	}
	if err := s.collectMediaCounts(ctx, signals); err != nil {
		return nil, err
	}
	if err := s.collectSignificance(ctx, signals); err != nil {
		return nil, err
	}
	if len(keywords) > 0 {
		if err := s.collectCodewordMentions(ctx, keywords, signals); err != nil {
			return nil, err
		}
	}

	return signals, nil
}

func (s *EntityStorage) collectAnchorEdges(ctx context.Context, anchorIDs []int64, signals map[int64]common.RiskSignals) error {
	rows, err := s.conn.Query(ctx, `
		SELECT entity_id, COUNT(*), COALESCE(SUM(strength), 0)
		FROM (
			SELECT target_id AS entity_id, strength FROM relationships WHERE source_id = ANY($1)
			UNION ALL
			SELECT source_id AS entity_id, strength FROM relationships WHERE target_id = ANY($1)
		) anchor_edges
		GROUP BY entity_id
	`, anchorIDs)
	if err != nil {
		return fmt.Errorf("failed to query anchor edges: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var count, strength int
		if err := rows.Scan(&id, &count, &strength); err != nil {
			return fmt.Errorf("failed to scan anchor edge row: %w", err)
		}
		if sig, ok := signals[id]; ok {
			sig.AnchorEdgeCount = count
			sig.AnchorEdgeStrength = strength
			signals[id] = sig
		}
	}
	return rows.Err()
}

func (s *EntityStorage) collectMediaCounts(ctx context.Context, signals map[int64]common.RiskSignals) error {
	rows, err := s.conn.Query(ctx, `
		SELECT entity_id, COUNT(*) FROM entity_media GROUP BY entity_id
	`)
	if err != nil {
		return fmt.Errorf("failed to query media counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var count int
		if err := rows.Scan(&id, &count); err != nil {
			return fmt.Errorf("failed to scan media count row: %w", err)
		}
		if sig, ok := signals[id]; ok {
			sig.MediaCount = count
			signals[id] = sig
		}
	}
	return rows.Err()
}

func (s *EntityStorage) collectSignificance(ctx context.Context, signals map[int64]common.RiskSignals) error {
	rows, err := s.conn.Query(ctx, `
		SELECT entity_id, COALESCE(AVG(significance), 0)
		FROM document_mentions
		GROUP BY entity_id
	`)
	if err != nil {
		return fmt.Errorf("failed to query mention significance: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var avg float64
		if err := rows.Scan(&id, &avg); err != nil {
			return fmt.Errorf("failed to scan significance row: %w", err)
		}
		if sig, ok := signals[id]; ok {
			sig.AvgSignificance = avg
			signals[id] = sig
		}
	}
	return rows.Err()
}

func (s *EntityStorage) collectCodewordMentions(ctx context.Context, keywords []string, signals map[int64]common.RiskSignals) error {
	patterns := make([]string, len(keywords))
	for i, kw := range keywords {
		patterns[i] = "%" + kw + "%"
	}

	rows, err := s.conn.Query(ctx, `
		SELECT DISTINCT m.entity_id
		FROM document_mentions m
		JOIN documents d ON d.id = m.document_id
		WHERE d.content ILIKE ANY($1)
	`, patterns)
	if err != nil {
		return fmt.Errorf("failed to query codeword mentions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("failed to scan codeword row: %w", err)
		}
		if sig, ok := signals[id]; ok {
			sig.CodewordMention = true
			signals[id] = sig
		}
	}
	return rows.Err()
}
