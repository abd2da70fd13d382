package models

import "time"

// Stage names for per-item failures recorded in a RunSummary.
const (
	StageExtract   = "extract"
	StageNormalize = "normalize"
	StageInsert    = "insert"
)

// ItemFailure records why a single listing item did not make it into the
// store. Index is the item's position in page order.
type ItemFailure struct {
	Index int
	Stage string
	Cause string
}

// RunSummary is built incrementally over one pipeline run. It distinguishes
// "could not even load the list" (the run error returned alongside it) from
// per-item losses, which are counted here.
type RunSummary struct {
	RouteName    string
	StartedAt    time.Time
	FinishedAt   time.Time
	Extracted    int
	Rejected     int
	Inserted     int
	InsertFailed int
	Failures     []ItemFailure
}

// RecordFailure counts one per-item failure and keeps its cause.
func (s *RunSummary) RecordFailure(index int, stage string, err error) {
	switch stage {
	case StageNormalize:
		s.Rejected++
	case StageInsert:
		s.InsertFailed++
	}
	s.Failures = append(s.Failures, ItemFailure{
		Index: index,
		Stage: stage,
		Cause: err.Error(),
	})
}

// Normalized reports how many extracted items passed validation.
func (s *RunSummary) Normalized() int {
	return s.Extracted - s.Rejected
}
