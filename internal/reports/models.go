package reports

import "time"

// ReportRequest is the caller's input for one report run
type ReportRequest struct {
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	Location     string `json:"location,omitempty"`
	FruitType    string `json:"fruitType,omitempty"`
	FruitVariety string `json:"fruitVariety,omitempty"`
}

// ReportFilters echoes the applied filters with human-readable
// placeholders for the ones the caller omitted.
type ReportFilters struct {
	Location     string
	FruitType    string
	FruitVariety string
}

// SummaryStats holds the headline aggregates
type SummaryStats struct {
	TotalAnalyses     int
	MaturityRate      int
	AverageSweetness  int
	AverageConfidence int
}

// DistributionEntry is one row of a categorical breakdown
type DistributionEntry struct {
	Key        string
	Count      int
	Percentage int
}

// RecentAnalysis is the display-only projection of a record for the
// detail table.
type RecentAnalysis struct {
	Date           string
	Location       string
	Variety        string
	MaturityStatus string
	Confidence     float64
	SweetnessLevel float64
	SkinQuality    string
}

// ReportData is the aggregated payload handed to the renderer. It
// lives only for the duration of one pipeline run.
type ReportData struct {
	GeneratedAt             time.Time
	Period                  string
	Filters                 ReportFilters
	Summary                 SummaryStats
	TypeDistribution        []DistributionEntry
	SkinQualityDistribution []DistributionEntry
	RecentAnalyses          []RecentAnalysis
}

// SignedLink is the time-limited retrieval URL minted after upload
type SignedLink struct {
	URL       string
	ExpiresIn int
	ExpiresAt time.Time
}

// ReportResult is the success payload returned to the caller
type ReportResult struct {
	DownloadURL string    `json:"downloadUrl"`
	FileName    string    `json:"fileName"`
	ExpiresIn   int       `json:"expiresIn"`
	ExpiresAt   time.Time `json:"expiresAt"`
}
