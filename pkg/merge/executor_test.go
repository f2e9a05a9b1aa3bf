package merge

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"testing"

	"github.com/archive-lab/magpie/pkg/common"
	"github.com/archive-lab/magpie/pkg/store"
)

// fakeEdge is one undirected relationship row.
type fakeEdge struct {
	source, target int64
	strength       int
}

// fakeState models the dependent-row surface a merge touches. Merge
// transactions work on a deep copy so rollback is a discard.
type fakeState struct {
	entities    map[int64]common.Entity
	docMentions []int64           // entity id per mention row
	media       map[int64][]int64 // entity id -> media ids
	profiles    map[int64]bool
	aliases     map[int64][]string // profile entity id -> aliases
	edges       []fakeEdge
	audits      []common.AuditEntry
}

func (s fakeState) clone() fakeState {
	out := fakeState{
		entities:    make(map[int64]common.Entity, len(s.entities)),
		docMentions: append([]int64(nil), s.docMentions...),
		media:       make(map[int64][]int64, len(s.media)),
		profiles:    make(map[int64]bool, len(s.profiles)),
		aliases:     make(map[int64][]string, len(s.aliases)),
		edges:       append([]fakeEdge(nil), s.edges...),
		audits:      append([]common.AuditEntry(nil), s.audits...),
	}
	for id, e := range s.entities {
		out.entities[id] = e
	}
	for id, m := range s.media {
		out.media[id] = append([]int64(nil), m...)
	}
	for id, ok := range s.profiles {
		out.profiles[id] = ok
	}
	for id, a := range s.aliases {
		out.aliases[id] = append([]string(nil), a...)
	}
	return out
}

type fakeStore struct {
	state     fakeState
	failAudit bool
}

func (f *fakeStore) BeginMerge(ctx context.Context) (store.MergeTx, error) {
	return &fakeTx{store: f, state: f.state.clone()}, nil
}

func (f *fakeStore) ListPersonEntities(ctx context.Context) ([]common.Entity, error) {
	return nil, nil
}
func (f *fakeStore) ListDocuments(ctx context.Context) ([]common.Document, error) { return nil, nil }
func (f *fakeStore) ResolveEntityIDs(ctx context.Context, names []string) (map[string]int64, error) {
	return nil, nil
}
func (f *fakeStore) ReplaceRelationships(ctx context.Context, relType string, edges []common.Relationship) error {
	return nil
}
func (f *fakeStore) UpsertRelationship(ctx context.Context, sourceID, targetID int64, relType string, weight int) error {
	return nil
}
func (f *fakeStore) RiskSignals(ctx context.Context, anchorIDs []int64, keywords []string) (map[int64]common.RiskSignals, error) {
	return nil, nil
}
func (f *fakeStore) UpdateEntityRisk(ctx context.Context, id int64, rating int, level common.RiskLevel, description string) error {
	return nil
}
func (f *fakeStore) ListAudit(ctx context.Context, limit int) ([]common.AuditEntry, error) {
	return nil, nil
}

type fakeTx struct {
	store *fakeStore
	state fakeState
	done  bool
}

func (t *fakeTx) GetEntity(ctx context.Context, id int64) (common.Entity, error) {
	e, ok := t.state.entities[id]
	if !ok {
		return common.Entity{}, fmt.Errorf("entity %d not found", id)
	}
	return e, nil
}

func (t *fakeTx) RepointRows(ctx context.Context, table, entityColumn string, sourceID, targetID int64) (int64, error) {
	switch table {
	case "document_mentions":
		var moved int64
		for i, id := range t.state.docMentions {
			if id == sourceID {
				t.state.docMentions[i] = targetID
				moved++
			}
		}
		return moved, nil
	case "person_profiles":
		if !t.state.profiles[sourceID] {
			return 0, nil
		}
		delete(t.state.profiles, sourceID)
		t.state.profiles[targetID] = true
		// Alias rows follow the repointed profile key.
		t.state.aliases[targetID] = append(t.state.aliases[targetID], t.state.aliases[sourceID]...)
		delete(t.state.aliases, sourceID)
		return 1, nil
	}
	return 0, nil
}

func (t *fakeTx) UpdateOrDeleteOnConflict(ctx context.Context, table, entityColumn, uniqueColumn string, sourceID, targetID int64) error {
	switch table {
	case "entity_media":
		held := make(map[int64]bool)
		for _, m := range t.state.media[targetID] {
			held[m] = true
		}
		for _, m := range t.state.media[sourceID] {
			if !held[m] {
				t.state.media[targetID] = append(t.state.media[targetID], m)
			}
		}
		delete(t.state.media, sourceID)
	case "profile_aliases":
		held := make(map[string]bool)
		for _, a := range t.state.aliases[targetID] {
			held[a] = true
		}
		for _, a := range t.state.aliases[sourceID] {
			if !held[a] {
				t.state.aliases[targetID] = append(t.state.aliases[targetID], a)
			}
		}
		delete(t.state.aliases, sourceID)
	}
	return nil
}

func (t *fakeTx) MergeRelationshipEndpoints(ctx context.Context, sourceID, targetID int64) error {
	folded := make(map[[2]int64]int)
	for _, e := range t.state.edges {
		s, g := e.source, e.target
		if s == sourceID {
			s = targetID
		}
		if g == sourceID {
			g = targetID
		}
		if s == g {
			continue
		}
		if s > g {
			s, g = g, s
		}
		folded[[2]int64{s, g}] += e.strength
	}

	t.state.edges = t.state.edges[:0]
	for pair, strength := range folded {
		t.state.edges = append(t.state.edges, fakeEdge{source: pair[0], target: pair[1], strength: strength})
	}
	return nil
}

func (t *fakeTx) HasRow(ctx context.Context, table, entityColumn string, id int64) (bool, error) {
	if table == "person_profiles" {
		return t.state.profiles[id], nil
	}
	return false, nil
}

func (t *fakeTx) DeleteRows(ctx context.Context, table, entityColumn string, id int64) (int64, error) {
	if table == "person_profiles" && t.state.profiles[id] {
		delete(t.state.profiles, id)
		delete(t.state.aliases, id)
		return 1, nil
	}
	return 0, nil
}

func (t *fakeTx) AddMentions(ctx context.Context, id int64, delta int) error {
	e := t.state.entities[id]
	e.Mentions += delta
	t.state.entities[id] = e
	return nil
}

func (t *fakeTx) DeleteEntity(ctx context.Context, id int64) error {
	delete(t.state.entities, id)
	return nil
}

func (t *fakeTx) InsertAudit(ctx context.Context, entry common.AuditEntry) error {
	if t.store.failAudit {
		return errors.New("audit insert refused")
	}
	t.state.audits = append(t.state.audits, entry)
	return nil
}

func (t *fakeTx) Commit(ctx context.Context) error {
	t.done = true
	t.store.state = t.state
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	t.done = true
	return nil
}

func newFakeStore() *fakeStore {
	return &fakeStore{state: fakeState{
		entities: map[int64]common.Entity{
			1: {ID: 1, Name: "Bill Clinton", Category: "person", Mentions: 4},
			2: {ID: 2, Name: "William Clinton", Category: "person", Mentions: 10},
		},
		docMentions: []int64{1, 1, 2},
		media:       map[int64][]int64{1: {100, 200}, 2: {200}},
		profiles:    map[int64]bool{1: true, 2: true},
		aliases:     map[int64][]string{1: {"bill"}, 2: {"will", "bill"}},
	}}
}

func testCandidate() common.MergeCandidate {
	return common.MergeCandidate{
		SourceID:   1,
		SourceName: "Bill Clinton",
		TargetID:   2,
		TargetName: "William Clinton",
		Confidence: 85,
		Method:     "nickname_match",
	}
}

func TestApplyMergesDependentRows(t *testing.T) {
	fs := newFakeStore()
	exec := NewExecutor(fs)

	entry, err := exec.Apply(context.Background(), testCandidate(), false)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	if _, ok := fs.state.entities[1]; ok {
		t.Fatal("source entity should be deleted")
	}
	target := fs.state.entities[2]
	if target.Mentions != 14 {
		t.Fatalf("expected 14 mentions on target, got %d", target.Mentions)
	}

	for _, id := range fs.state.docMentions {
		if id != 2 {
			t.Fatalf("document mention still references %d", id)
		}
	}

	media := append([]int64(nil), fs.state.media[2]...)
	sort.Slice(media, func(i, j int) bool { return media[i] < media[j] })
	if !reflect.DeepEqual(media, []int64{100, 200}) {
		t.Fatalf("expected target media {100, 200}, got %v", media)
	}
	if _, ok := fs.state.media[1]; ok {
		t.Fatal("source media rows should be gone")
	}

	if fs.state.profiles[1] {
		t.Fatal("source profile should be gone")
	}
	aliases := append([]string(nil), fs.state.aliases[2]...)
	sort.Strings(aliases)
	if !reflect.DeepEqual(aliases, []string{"bill", "will"}) {
		t.Fatalf("expected aliases {bill, will}, got %v", aliases)
	}

	if len(fs.state.audits) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(fs.state.audits))
	}
	if entry.SourceID != 1 || entry.TargetID != 2 || entry.MentionsTransferred != 4 {
		t.Fatalf("unexpected audit entry: %+v", entry)
	}
	if entry.Method != "nickname_match" || entry.Confidence != 85 {
		t.Fatalf("audit entry missing candidate fields: %+v", entry)
	}
}

func TestApplyNormalizesRelationshipEndpoints(t *testing.T) {
	fs := newFakeStore()
	fs.state.edges = []fakeEdge{
		{source: 1, target: 2, strength: 3}, // collapses to a self-edge, dropped
		{source: 3, target: 1, strength: 1}, // must come out as (2, 3)
		{source: 1, target: 5, strength: 2}, // folds into the existing (2, 5)
		{source: 2, target: 5, strength: 4},
	}
	exec := NewExecutor(fs)

	if _, err := exec.Apply(context.Background(), testCandidate(), false); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	byPair := make(map[[2]int64]int)
	for _, e := range fs.state.edges {
		if e.source == e.target {
			t.Fatalf("self-edge survived the merge: %+v", e)
		}
		if e.source > e.target {
			t.Fatalf("edge endpoints out of order: %+v", e)
		}
		byPair[[2]int64{e.source, e.target}] = e.strength
	}

	want := map[[2]int64]int{
		{2, 3}: 1,
		{2, 5}: 6,
	}
	if !reflect.DeepEqual(byPair, want) {
		t.Fatalf("expected edges %v, got %v", want, byPair)
	}
}

func TestApplyRepointsProfileWhenTargetHasNone(t *testing.T) {
	fs := newFakeStore()
	delete(fs.state.profiles, 2)
	delete(fs.state.aliases, 2)
	fs.state.aliases[1] = []string{"bobby"}
	exec := NewExecutor(fs)

	if _, err := exec.Apply(context.Background(), testCandidate(), false); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	if !fs.state.profiles[2] {
		t.Fatal("profile should have been repointed to target")
	}
	if !reflect.DeepEqual(fs.state.aliases[2], []string{"bobby"}) {
		t.Fatalf("aliases should follow the repointed profile, got %v", fs.state.aliases[2])
	}
}

func TestApplyDryRunLeavesStoreUntouched(t *testing.T) {
	fs := newFakeStore()
	before := fs.state.clone()
	exec := NewExecutor(fs)

	entry, err := exec.Apply(context.Background(), testCandidate(), true)
	if err != nil {
		t.Fatalf("dry-run Apply failed: %v", err)
	}
	if entry.MentionsTransferred != 4 {
		t.Fatalf("dry run should still report the would-be entry, got %+v", entry)
	}

	if !reflect.DeepEqual(fs.state, before) {
		t.Fatal("dry run must not change store state")
	}
}

func TestApplyAuditFailureRollsBack(t *testing.T) {
	fs := newFakeStore()
	fs.failAudit = true
	before := fs.state.clone()
	exec := NewExecutor(fs)

	_, err := exec.Apply(context.Background(), testCandidate(), false)
	if !errors.Is(err, ErrAuditWrite) {
		t.Fatalf("expected ErrAuditWrite, got %v", err)
	}
	if !reflect.DeepEqual(fs.state, before) {
		t.Fatal("failed merge must leave no state change")
	}
}

func TestApplyAllContainsSingleFailure(t *testing.T) {
	fs := newFakeStore()
	exec := NewExecutor(fs)

	candidates := []common.MergeCandidate{
		{SourceID: 99, TargetID: 2, Confidence: 85}, // no such source
		testCandidate(),
	}

	result, err := exec.ApplyAll(context.Background(), candidates, false)
	if err != nil {
		t.Fatalf("ApplyAll should contain per-merge failures: %v", err)
	}
	if result.Applied != 1 || result.Failed != 1 {
		t.Fatalf("expected 1 applied and 1 failed, got %+v", result)
	}
	if len(result.Entries) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(result.Entries))
	}
}

func TestApplyAllAbortsOnAuditFailure(t *testing.T) {
	fs := newFakeStore()
	fs.failAudit = true
	exec := NewExecutor(fs)

	result, err := exec.ApplyAll(context.Background(), []common.MergeCandidate{testCandidate()}, false)
	if !errors.Is(err, ErrAuditWrite) {
		t.Fatalf("expected ErrAuditWrite, got %v", err)
	}
	if result.Applied != 0 {
		t.Fatalf("no merge should count as applied, got %d", result.Applied)
	}
}
