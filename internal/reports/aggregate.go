package reports

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/feb027/melon-ai-sub001/internal/storage"
)

const (
	allLocations = "Semua lokasi"
	allTypes     = "Semua jenis"
	allVarieties = "Semua varietas"

	unknownKey = "unknown"

	// id-ID short date, day/month/year without leading zeros
	dateLayoutID = "2/1/2006"

	recentLimit = 10
)

// BuildReportData aggregates the fetched records into the payload the
// renderer consumes. Pure transform: no I/O, deterministic for a given
// input ordering. Records are expected in descending createdAt order
// as returned by the store.
func BuildReportData(records []storage.AnalysisRecord, start, end time.Time, filters ReportFilters, now time.Time) (*ReportData, error) {
	if len(records) == 0 {
		return nil, NewError(CodeNoData, "No analysis data found for the selected period and filters")
	}

	total := len(records)

	matureCount := 0
	var sweetnessSum, confidenceSum float64
	for _, rec := range records {
		if rec.MaturityStatus == storage.MaturityMature {
			matureCount++
		}
		if rec.SweetnessLevel != nil {
			sweetnessSum += *rec.SweetnessLevel
		}
		if rec.Confidence != nil {
			confidenceSum += *rec.Confidence
		}
	}

	summary := SummaryStats{
		TotalAnalyses:     total,
		MaturityRate:      roundShare(matureCount, total),
		AverageSweetness:  int(math.Round(sweetnessSum / float64(total))),
		AverageConfidence: int(math.Round(confidenceSum / float64(total))),
	}

	typeDist := buildDistribution(records, func(rec storage.AnalysisRecord) string {
		return derefOr(rec.WatermelonType, unknownKey)
	})
	skinDist := buildDistribution(records, func(rec storage.AnalysisRecord) string {
		return derefOr(rec.SkinQuality, unknownKey)
	})

	recent := make([]RecentAnalysis, 0, recentLimit)
	for _, rec := range records {
		if len(recent) == recentLimit {
			break
		}
		recent = append(recent, RecentAnalysis{
			Date:           rec.CreatedAt.Format(dateLayoutID),
			Location:       derefOr(rec.Location, "-"),
			Variety:        varietyOf(rec.WatermelonType),
			MaturityStatus: rec.MaturityStatus,
			Confidence:     derefOrZero(rec.Confidence),
			SweetnessLevel: derefOrZero(rec.SweetnessLevel),
			SkinQuality:    derefOr(rec.SkinQuality, "-"),
		})
	}

	return &ReportData{
		GeneratedAt:             now,
		Period:                  fmt.Sprintf("%s - %s", start.Format(dateLayoutID), end.Format(dateLayoutID)),
		Filters:                 echoFilters(filters),
		Summary:                 summary,
		TypeDistribution:        typeDist,
		SkinQualityDistribution: skinDist,
		RecentAnalyses:          recent,
	}, nil
}

// buildDistribution counts records per key, preserving first-seen
// order of the keys.
func buildDistribution(records []storage.AnalysisRecord, keyOf func(storage.AnalysisRecord) string) []DistributionEntry {
	counts := make(map[string]int, len(records))
	order := make([]string, 0, len(records))
	for _, rec := range records {
		key := keyOf(rec)
		if _, seen := counts[key]; !seen {
			order = append(order, key)
		}
		counts[key]++
	}

	entries := make([]DistributionEntry, 0, len(order))
	for _, key := range order {
		entries = append(entries, DistributionEntry{
			Key:        key,
			Count:      counts[key],
			Percentage: roundShare(counts[key], len(records)),
		})
	}
	return entries
}

func echoFilters(filters ReportFilters) ReportFilters {
	out := filters
	if strings.TrimSpace(out.Location) == "" {
		out.Location = allLocations
	}
	if strings.TrimSpace(out.FruitType) == "" {
		out.FruitType = allTypes
	}
	if strings.TrimSpace(out.FruitVariety) == "" {
		out.FruitVariety = allVarieties
	}
	return out
}

// varietyOf extracts the variety half of the compound "type:variety"
// field, falling back to the whole string when no separator exists.
func varietyOf(watermelonType *string) string {
	if watermelonType == nil {
		return unknownKey
	}
	parts := strings.SplitN(*watermelonType, ":", 2)
	if len(parts) == 2 {
		return parts[1]
	}
	return *watermelonType
}

func roundShare(count, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(count) / float64(total)))
}

func derefOr(s *string, fallback string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return fallback
	}
	return *s
}

func derefOrZero(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
