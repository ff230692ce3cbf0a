package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Maturity status values as stored by the analysis capture flow.
const (
	MaturityMature    = "Matang"
	MaturityNotMature = "Belum Matang"
)

// AnalysisRecord is one stored fruit-ripeness assessment. Records are
// written by the capture flow and never mutated; this service only reads.
type AnalysisRecord struct {
	ID        uuid.UUID
	CreatedAt time.Time
	// Location is a free-text label, may be absent.
	Location *string
	// WatermelonType is a compound "<type>:<variety>" string. Either half
	// may be absent; filtering works on the raw string (see AnalysisFilter).
	WatermelonType *string
	MaturityStatus string
	// Confidence is a percentage 0-100.
	Confidence *float64
	// SweetnessLevel is a 0-10 scale.
	SweetnessLevel *float64
	SkinQuality    *string
}

// AnalysisFilter describes the query issued by the report pipeline.
//
// From/To bound created_at inclusively. Location is an equality filter
// applied only when non-empty. FruitType keeps records whose compound
// type string starts with "<FruitType>:"; FruitVariety keeps records
// whose compound string ends with ":<FruitVariety>". Both may be set
// (logical AND).
type AnalysisFilter struct {
	From         time.Time
	To           time.Time
	Location     string
	FruitType    string
	FruitVariety string
}

// AnalysesStorage is the read interface over stored analyses.
type AnalysesStorage interface {
	// ListAnalyses returns matching records ordered by created_at DESC.
	ListAnalyses(ctx context.Context, filter AnalysisFilter) ([]AnalysisRecord, error)
}

// Storage is the top-level handle owned by the HTTP server.
type Storage interface {
	AnalysesStorage

	// Close releases the underlying connection pool (for Postgres).
	Close() error
}
