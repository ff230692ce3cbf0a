package reports

import (
	"io"
	"strings"
	"testing"
	"time"
)

func TestPDFRendererProducesDocument(t *testing.T) {
	data := &ReportData{
		GeneratedAt: time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC),
		Period:      "1/8/2026 - 31/8/2026",
		Filters: ReportFilters{
			Location:     "Semua lokasi",
			FruitType:    "Semua jenis",
			FruitVariety: "Semua varietas",
		},
		Summary: SummaryStats{
			TotalAnalyses:     25,
			MaturityRate:      60,
			AverageSweetness:  8,
			AverageConfidence: 90,
		},
		TypeDistribution: []DistributionEntry{
			{Key: "seedless:sugar baby", Count: 15, Percentage: 60},
			{Key: "seeded:crimson", Count: 10, Percentage: 40},
		},
		SkinQualityDistribution: []DistributionEntry{
			{Key: "mulus", Count: 25, Percentage: 100},
		},
		RecentAnalyses: []RecentAnalysis{
			{Date: "31/8/2026", Location: "Kebun A", Variety: "sugar baby",
				MaturityStatus: "Matang", Confidence: 90, SweetnessLevel: 8, SkinQuality: "mulus"},
		},
	}

	stream, err := NewPDFRenderer().Render(data)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	defer stream.Close()

	document, err := io.ReadAll(stream)
	if err != nil {
		t.Fatalf("failed to drain render stream: %v", err)
	}
	if !strings.HasPrefix(string(document), "%PDF") {
		t.Fatalf("expected a PDF document, got leading bytes %q", document[:min(8, len(document))])
	}
	if len(document) < 500 {
		t.Fatalf("document suspiciously small: %d bytes", len(document))
	}
}

func TestPDFRendererRejectsNilPayload(t *testing.T) {
	if _, err := NewPDFRenderer().Render(nil); err == nil {
		t.Fatal("expected error for nil payload")
	}
}
