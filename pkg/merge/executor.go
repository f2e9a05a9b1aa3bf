package merge

import (
	"context"
	"errors"
	"fmt"

	"github.com/archive-lab/magpie/pkg/common"
	"github.com/archive-lab/magpie/pkg/store"
)

// ErrAuditWrite marks a failure to append the merge audit entry. The
// batch driver treats it as fatal for the whole run; everything else is
// contained to the single merge.
var ErrAuditWrite = errors.New("audit entry could not be written")

// dependentTable declares one table holding a foreign key to the entity
// id. Tables with an empty uniqueColumn have no secondary uniqueness
// constraint and are repointed wholesale; the rest go through the
// conflict-aware update-or-delete primitive.
type dependentTable struct {
	name         string
	entityColumn string
	uniqueColumn string
}

var dependentTables = []dependentTable{
	{"document_mentions", "entity_id", ""},
	{"entity_media", "entity_id", "media_id"},
	{"entity_organizations", "entity_id", "organization_id"},
	{"black_book_entries", "entity_id", "page_number"},
}

const (
	profileTable       = "person_profiles"
	profileColumn      = "entity_id"
	aliasTable         = "profile_aliases"
	aliasProfileColumn = "profile_entity_id"
	aliasUniqueColumn  = "alias"
)

// Executor applies resolved merge candidates against the store, one
// transaction per candidate.
type Executor struct {
	storage store.Storage
}

func NewExecutor(storage store.Storage) *Executor {
	return &Executor{storage: storage}
}

// Apply executes one resolved candidate atomically: repoint or drop all
// dependent rows referencing the source, merge the one-to-one
// sub-profile, accumulate mentions onto the target, delete the source
// and append the audit entry. With dryRun the transaction is rolled
// back instead of committed, leaving no observable state change.
func (e *Executor) Apply(ctx context.Context, cand common.MergeCandidate, dryRun bool) (common.AuditEntry, error) {
	tx, err := e.storage.BeginMerge(ctx)
	if err != nil {
		return common.AuditEntry{}, err
	}
	committed := false
	defer func() {
		if !committed {
			tx.Rollback(ctx)
		}
	}()

	source, err := tx.GetEntity(ctx, cand.SourceID)
	if err != nil {
		return common.AuditEntry{}, err
	}
	target, err := tx.GetEntity(ctx, cand.TargetID)
	if err != nil {
		return common.AuditEntry{}, err
	}

	for _, table := range dependentTables {
		if table.uniqueColumn == "" {
			if _, err := tx.RepointRows(ctx, table.name, table.entityColumn, source.ID, target.ID); err != nil {
				return common.AuditEntry{}, err
			}
			continue
		}
		if err := tx.UpdateOrDeleteOnConflict(ctx, table.name, table.entityColumn, table.uniqueColumn, source.ID, target.ID); err != nil {
			return common.AuditEntry{}, err
		}
	}

	// Relationship endpoints need their own primitive: a plain repoint
	// would leave self-edges and order-inverted duplicates behind.
	if err := tx.MergeRelationshipEndpoints(ctx, source.ID, target.ID); err != nil {
		return common.AuditEntry{}, err
	}

	if err := e.mergeProfile(ctx, tx, source.ID, target.ID); err != nil {
		return common.AuditEntry{}, err
	}

	if err := tx.AddMentions(ctx, target.ID, source.Mentions); err != nil {
		return common.AuditEntry{}, err
	}

	if err := tx.DeleteEntity(ctx, source.ID); err != nil {
		return common.AuditEntry{}, err
	}

	entry := common.AuditEntry{
		SourceID:            source.ID,
		SourceName:          source.Name,
		TargetID:            target.ID,
		TargetName:          target.Name,
		MentionsTransferred: source.Mentions,
		Confidence:          cand.Confidence,
		Method:              cand.Method,
	}
	if err := tx.InsertAudit(ctx, entry); err != nil {
		return common.AuditEntry{}, fmt.Errorf("%w: %v", ErrAuditWrite, err)
	}

	if dryRun {
		return entry, tx.Rollback(ctx)
	}

	if err := tx.Commit(ctx); err != nil {
		return common.AuditEntry{}, fmt.Errorf("failed to commit merge of %d into %d: %w", source.ID, target.ID, err)
	}
	committed = true
	return entry, nil
}

// mergeProfile handles the one-to-one sub-profile. If only the source
// has one it is repointed in place (alias children follow the key); if
// both have one the source's aliases are folded into the target's via
// the conflict primitive and the source profile is dropped.
func (e *Executor) mergeProfile(ctx context.Context, tx store.MergeTx, sourceID, targetID int64) error {
	hasSource, err := tx.HasRow(ctx, profileTable, profileColumn, sourceID)
	if err != nil {
		return err
	}
	if !hasSource {
		return nil
	}

	hasTarget, err := tx.HasRow(ctx, profileTable, profileColumn, targetID)
	if err != nil {
		return err
	}
	if !hasTarget {
		_, err := tx.RepointRows(ctx, profileTable, profileColumn, sourceID, targetID)
		return err
	}

	if err := tx.UpdateOrDeleteOnConflict(ctx, aliasTable, aliasProfileColumn, aliasUniqueColumn, sourceID, targetID); err != nil {
		return err
	}
	_, err = tx.DeleteRows(ctx, profileTable, profileColumn, sourceID)
	return err
}
