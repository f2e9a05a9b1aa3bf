package pgx

import (
	"context"
	"fmt"

	"github.com/archive-lab/magpie/pkg/common"
)

const categoryPerson = "person"

// ListPersonEntities returns all live person-category entities ordered
// by id.
func (s *EntityStorage) ListPersonEntities(ctx context.Context) ([]common.Entity, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT id, name, category, mentions, is_vip, rating, risk_level
		FROM entities
		WHERE category = $1
		ORDER BY id
	`, categoryPerson)
	if err != nil {
		return nil, fmt.Errorf("failed to list person entities: %w", err)
	}
	defer rows.Close()

	var entities []common.Entity
	for rows.Next() {
		var e common.Entity
		var level string
		if err := rows.Scan(&e.ID, &e.Name, &e.Category, &e.Mentions, &e.IsVIP, &e.Rating, &level); err != nil {
			return nil, fmt.Errorf("failed to scan entity row: %w", err)
		}
		e.Level = common.RiskLevel(level)
		entities = append(entities, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read entity rows: %w", err)
	}
	return entities, nil
}

// ResolveEntityIDs maps names to live entity ids. Names without a live
// entity are silently absent from the result, which is how missing
// anchors get excluded.
func (s *EntityStorage) ResolveEntityIDs(ctx context.Context, names []string) (map[string]int64, error) {
	if len(names) == 0 {
		return map[string]int64{}, nil
	}
	rows, err := s.conn.Query(ctx, `
		SELECT id, name FROM entities WHERE name = ANY($1)
	`, names)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve entity ids: %w", err)
	}
	defer rows.Close()

	resolved := make(map[string]int64, len(names))
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("failed to scan entity id row: %w", err)
		}
		resolved[name] = id
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read entity id rows: %w", err)
	}
	return resolved, nil
}

// UpdateEntityRisk overwrites an entity's rating, level and risk factor
// description.
func (s *EntityStorage) UpdateEntityRisk(ctx context.Context, id int64, rating int, level common.RiskLevel, description string) error {
	_, err := s.conn.Exec(ctx, `
		UPDATE entities SET rating = $2, risk_level = $3, description = $4 WHERE id = $1
	`, id, rating, string(level), description)
	if err != nil {
		return fmt.Errorf("failed to update entity risk: %w", err)
	}
	return nil
}
