package store

import (
	"context"

	"github.com/archive-lab/magpie/pkg/common"
)

// Storage defines the repository contract the consolidation core needs
// from the relational store. Implementations must be ACID-transactional
// for the merge path; everything else is read-heavy scans and batched
// writes.
type Storage interface {
	// ListPersonEntities returns all live person-category entities.
	ListPersonEntities(ctx context.Context) ([]common.Entity, error)

	// ListDocuments returns the document corpus with text content.
	ListDocuments(ctx context.Context) ([]common.Document, error)

	// ResolveEntityIDs maps entity names to live entity ids. Names with
	// no live entity are absent from the result.
	ResolveEntityIDs(ctx context.Context, names []string) (map[string]int64, error)

	// BeginMerge opens the transaction for one merge. All row surgery
	// for that merge happens through the returned MergeTx and is
	// all-or-nothing.
	BeginMerge(ctx context.Context) (MergeTx, error)

	// ReplaceRelationships replaces the edge set of the given type with
	// the provided edges.
	ReplaceRelationships(ctx context.Context, relType string, edges []common.Relationship) error

	// UpsertRelationship writes one edge, accumulating weight onto an
	// existing (source, target, type) row.
	UpsertRelationship(ctx context.Context, sourceID, targetID int64, relType string, weight int) error

	// RiskSignals gathers scoring inputs for every person entity in one
	// pass, measuring graph proximity against the given anchor ids and
	// co-occurrence against the given sensitive keywords.
	RiskSignals(ctx context.Context, anchorIDs []int64, keywords []string) (map[int64]common.RiskSignals, error)

	// UpdateEntityRisk stores a recomputed rating, level and factor
	// description for one entity.
	UpdateEntityRisk(ctx context.Context, id int64, rating int, level common.RiskLevel, description string) error

	// ListAudit returns the most recent merge audit entries.
	ListAudit(ctx context.Context, limit int) ([]common.AuditEntry, error)
}

// MergeTx exposes the row-surgery primitives for one merge transaction.
// Table and column names are validated against the known schema by the
// implementation; they are not free-form SQL.
type MergeTx interface {
	// GetEntity reads one entity row within the transaction.
	GetEntity(ctx context.Context, id int64) (common.Entity, error)

	// RepointRows rewrites entityColumn from sourceID to targetID for
	// tables without a secondary uniqueness constraint. Returns the
	// number of rows moved.
	RepointRows(ctx context.Context, table, entityColumn string, sourceID, targetID int64) (int64, error)

	// UpdateOrDeleteOnConflict repoints rows in a table with a compound
	// unique key (entityColumn, uniqueColumn). Rows whose update would
	// collide with a row the target already holds are deleted instead,
	// discarding the source's redundant duplicate while preserving the
	// target's data.
	UpdateOrDeleteOnConflict(ctx context.Context, table, entityColumn, uniqueColumn string, sourceID, targetID int64) error

	// MergeRelationshipEndpoints rewrites edges referencing the source
	// onto the target. Edges between source and target are dropped
	// instead of becoming self-edges; rewritten edges keep the
	// source_id < target_id ordering and fold into an existing
	// (source, target, type) row by accumulating strength.
	MergeRelationshipEndpoints(ctx context.Context, sourceID, targetID int64) error

	// HasRow reports whether the table holds a row for the given id.
	HasRow(ctx context.Context, table, entityColumn string, id int64) (bool, error)

	// DeleteRows removes all rows referencing the given id.
	DeleteRows(ctx context.Context, table, entityColumn string, id int64) (int64, error)

	// AddMentions accumulates a mention-count delta onto an entity.
	AddMentions(ctx context.Context, id int64, delta int) error

	// DeleteEntity removes the entity row itself.
	DeleteEntity(ctx context.Context, id int64) error

	// InsertAudit appends one audit entry.
	InsertAudit(ctx context.Context, entry common.AuditEntry) error

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}
