package model

import "github.com/competeai/competeai/pkg/domain/types"

// IndexSummary counts the outcome of one indexing run for a content type
type IndexSummary struct {
	ContentType types.ContentType
	Candidates  int
	Processed   int
	Skipped     int
	Errored     int
}
