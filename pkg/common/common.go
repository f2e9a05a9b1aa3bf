package common

import "time"

// RiskLevel is the coarse classification derived from an entity's rating.
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// LevelForRating maps a 1-5 rating onto a risk level.
// Ratings of 4 and above are HIGH, 2-3 MEDIUM, everything else LOW.
func LevelForRating(rating int) RiskLevel {
	switch {
	case rating >= 4:
		return RiskHigh
	case rating >= 2:
		return RiskMedium
	default:
		return RiskLow
	}
}

// Entity represents one deduplicated real-world referent, mostly persons.
// The id is immutable; mentions and rating are adjusted by merges and
// risk recomputes. An entity row is destroyed only as the source of a
// successfully applied merge.
type Entity struct {
	ID       int64
	Name     string
	Category string
	Mentions int
	IsVIP    bool
	Rating   int
	Level    RiskLevel
}

// Document is one corpus document with its extracted text content.
type Document struct {
	ID      int64
	Title   string
	Content string
}

// MergeCandidate proposes folding the source entity into the target.
// Candidates are transient to one detection run and are consumed by
// chain resolution and execution; they are never persisted.
type MergeCandidate struct {
	SourceID   int64
	SourceName string
	TargetID   int64
	TargetName string
	Confidence int
	Reason     string
	Method     string
}

// AuditEntry records one applied merge. Entries are append-only and
// never mutated or deleted.
type AuditEntry struct {
	ID                  int64
	PublicID            string
	SourceID            int64
	SourceName          string
	TargetID            int64
	TargetName          string
	MentionsTransferred int
	Confidence          int
	Method              string
	CreatedAt           time.Time
}

// Relationship is an undirected edge between two entities. For
// co-mention edges SourceID < TargetID so each pair is stored once.
// DocumentIDs lists the documents whose text produced the edge.
type Relationship struct {
	ID          int64
	SourceID    int64
	TargetID    int64
	Type        string
	Strength    int
	Confidence  float64
	DocumentIDs []int64
}

// RelTypeCoMention tags edges derived from two entities appearing in
// the same document.
const RelTypeCoMention = "co_mention"

// RiskSignals carries the per-entity inputs the risk scorer consumes.
// Gathered by the storage layer in one pass so untyped rows never reach
// the scoring logic.
type RiskSignals struct {
	EntityID           int64
	Name               string
	Mentions           int
	AnchorEdgeCount    int
	AnchorEdgeStrength int
	MediaCount         int
	CodewordMention    bool
	AvgSignificance    float64
	IsVIP              bool
	StoredRating       int
}

// RunSummary aggregates the counters reported at the end of a
// consolidation run.
type RunSummary struct {
	RunID              string
	DryRun             bool
	CandidatesFound    int
	CandidatesResolved int
	MergesApplied      int
	MergesFailed       int
	EdgesWritten       int
	RatingCounts       map[int]int
	Duration           time.Duration
}
