package relate

import (
	"context"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/archive-lab/magpie/pkg/common"
	"github.com/archive-lab/magpie/pkg/logger"
	"github.com/archive-lab/magpie/pkg/store"
)

// Params bounds the rebuild. Zero values fall back to the defaults
// below.
type Params struct {
	MinStrength   int
	MaxEdges      int
	ParallelScans int
}

const (
	defaultMinStrength   = 2
	defaultMaxEdges      = 10000
	defaultParallelScans = 4
)

// Builder recomputes the co-mention relationship graph from scratch
// after deduplication. The substring scan is O(documents x entities)
// and dominates the run, which is why the result set is capped instead
// of maintained incrementally.
type Builder struct {
	storage store.Storage
	params  Params
}

func NewBuilder(storage store.Storage, params Params) *Builder {
	if params.MinStrength <= 0 {
		params.MinStrength = defaultMinStrength
	}
	if params.MaxEdges <= 0 {
		params.MaxEdges = defaultMaxEdges
	}
	if params.ParallelScans <= 0 {
		params.ParallelScans = defaultParallelScans
	}
	return &Builder{storage: storage, params: params}
}

// Rebuild scans the corpus, accumulates pairwise co-mention counts and
// persists the strongest edges as the new co_mention set. Returns the
// number of edges written. With dryRun the computed edges are only
// counted and logged.
func (b *Builder) Rebuild(ctx context.Context, dryRun bool) (int, error) {
	entities, err := b.storage.ListPersonEntities(ctx)
	if err != nil {
		return 0, err
	}
	docs, err := b.storage.ListDocuments(ctx)
	if err != nil {
		return 0, err
	}

	edges, err := BuildEdges(ctx, entities, docs, b.params)
	if err != nil {
		return 0, err
	}

	logger.Info("[Relate] Co-mention scan complete",
		"documents", len(docs),
		"entities", len(entities),
		"edges", len(edges),
		"dry_run", dryRun,
	)

	if dryRun {
		return len(edges), nil
	}

	if err := b.storage.ReplaceRelationships(ctx, common.RelTypeCoMention, edges); err != nil {
		return 0, err
	}
	return len(edges), nil
}

// BuildEdges derives the co-mention edge set in memory. Each document's
// mention set is the subset of entities whose name appears in its text
// (case-insensitive substring); every unordered pair in the subset
// records the document id, and the pair's strength is the number of
// contributing documents. Pairs below params.MinStrength are discarded
// and the survivors are capped at params.MaxEdges strongest.
func BuildEdges(ctx context.Context, entities []common.Entity, docs []common.Document, params Params) ([]common.Relationship, error) {
	type searchEntity struct {
		id      int64
		lowered string
	}
	search := make([]searchEntity, 0, len(entities))
	for _, e := range entities {
		name := strings.ToLower(strings.TrimSpace(e.Name))
		if name == "" {
			continue
		}
		search = append(search, searchEntity{id: e.ID, lowered: name})
	}

	// Per-pair provenance; the co-mention count is the number of
	// contributing documents.
	pairDocs := make(map[[2]int64][]int64)
	var mu sync.Mutex

	eg, gCtx := errgroup.WithContext(ctx)
	eg.SetLimit(params.ParallelScans)

	for _, doc := range docs {
		d := doc
		eg.Go(func() error {
			select {
			case <-gCtx.Done():
				return gCtx.Err()
			default:
			}

			content := strings.ToLower(d.Content)
			var present []int64
			for _, se := range search {
				if strings.Contains(content, se.lowered) {
					present = append(present, se.id)
				}
			}
			if len(present) < 2 {
				return nil
			}

			mu.Lock()
			defer mu.Unlock()
			for i := 0; i < len(present); i++ {
				for j := i + 1; j < len(present); j++ {
					key := pairKey(present[i], present[j])
					pairDocs[key] = append(pairDocs[key], d.ID)
				}
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	edges := make([]common.Relationship, 0, len(pairDocs))
	for pair, docs := range pairDocs {
		if len(docs) < params.MinStrength {
			continue
		}
		sort.Slice(docs, func(i, j int) bool { return docs[i] < docs[j] })
		edges = append(edges, common.Relationship{
			SourceID:    pair[0],
			TargetID:    pair[1],
			Type:        common.RelTypeCoMention,
			Strength:    len(docs),
			DocumentIDs: docs,
		})
	}

	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Strength != edges[j].Strength {
			return edges[i].Strength > edges[j].Strength
		}
		if edges[i].SourceID != edges[j].SourceID {
			return edges[i].SourceID < edges[j].SourceID
		}
		return edges[i].TargetID < edges[j].TargetID
	})

	if len(edges) > params.MaxEdges {
		edges = edges[:params.MaxEdges]
	}
	return edges, nil
}

// pairKey orders the pair so each undirected edge is keyed once with
// source id < target id.
func pairKey(a, b int64) [2]int64 {
	if a < b {
		return [2]int64{a, b}
	}
	return [2]int64{b, a}
}
