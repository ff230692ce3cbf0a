package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/feb027/melon-ai-sub001/internal/storage"
)

func strPtr(s string) *string { return &s }

func insertRecord(t *testing.T, m *MemoryStorage, createdAt time.Time, location, watermelonType string) storage.AnalysisRecord {
	t.Helper()

	rec := storage.AnalysisRecord{
		ID:             uuid.New(),
		CreatedAt:      createdAt,
		MaturityStatus: storage.MaturityMature,
	}
	if location != "" {
		rec.Location = strPtr(location)
	}
	if watermelonType != "" {
		rec.WatermelonType = strPtr(watermelonType)
	}

	if err := m.InsertAnalysis(context.Background(), rec); err != nil {
		t.Fatalf("insert: %v", err)
	}
	return rec
}

func TestListAnalyses_RangeInclusive(t *testing.T) {
	m := New()
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 23, 59, 59, 0, time.UTC)

	insertRecord(t, m, from, "", "")                       // exactly on the lower bound
	insertRecord(t, m, to, "", "")                         // exactly on the upper bound
	insertRecord(t, m, from.Add(-time.Second), "", "")     // just below
	insertRecord(t, m, to.Add(time.Second), "", "")        // just above
	insertRecord(t, m, from.Add(15*24*time.Hour), "", "")  // inside

	got, err := m.ListAnalyses(context.Background(), storage.AnalysisFilter{From: from, To: to})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 records in inclusive range, got %d", len(got))
	}
}

func TestListAnalyses_OrderedDescending(t *testing.T) {
	m := New()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		insertRecord(t, m, base.Add(time.Duration(i)*time.Hour), "", "")
	}

	got, err := m.ListAnalyses(context.Background(), storage.AnalysisFilter{
		From: base.Add(-time.Hour),
		To:   base.Add(24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	for i := 1; i < len(got); i++ {
		if got[i].CreatedAt.After(got[i-1].CreatedAt) {
			t.Fatalf("records not ordered by created_at DESC at index %d", i)
		}
	}
}

func TestListAnalyses_CompoundTypeFilters(t *testing.T) {
	m := New()
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	filter := storage.AnalysisFilter{From: now.Add(-time.Hour), To: now.Add(time.Hour)}

	seedless := insertRecord(t, m, now, "", "seedless:sugar baby")
	insertRecord(t, m, now.Add(time.Minute), "", "seeded:crimson")

	t.Run("type half matches starts-with", func(t *testing.T) {
		f := filter
		f.FruitType = "seedless"
		got, err := m.ListAnalyses(context.Background(), f)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(got) != 1 || got[0].ID != seedless.ID {
			t.Fatalf("expected only the seedless record, got %d records", len(got))
		}
	})

	t.Run("variety half matches ends-with", func(t *testing.T) {
		f := filter
		f.FruitVariety = "sugar baby"
		got, err := m.ListAnalyses(context.Background(), f)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(got) != 1 || got[0].ID != seedless.ID {
			t.Fatalf("expected only the sugar baby record, got %d records", len(got))
		}
	})

	t.Run("both halves AND together", func(t *testing.T) {
		f := filter
		f.FruitType = "seeded"
		f.FruitVariety = "sugar baby"
		got, err := m.ListAnalyses(context.Background(), f)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(got) != 0 {
			t.Fatalf("expected no records for mismatched type+variety, got %d", len(got))
		}
	})

	t.Run("record without compound key never matches a type filter", func(t *testing.T) {
		insertRecord(t, m, now.Add(2*time.Minute), "", "")
		f := filter
		f.To = now.Add(time.Hour)
		f.FruitType = "seedless"
		got, err := m.ListAnalyses(context.Background(), f)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		for _, rec := range got {
			if rec.WatermelonType == nil {
				t.Fatal("record without watermelon_type matched a fruitType filter")
			}
		}
	})
}

func TestListAnalyses_LocationEquality(t *testing.T) {
	m := New()
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

	kebun := insertRecord(t, m, now, "Kebun A", "")
	insertRecord(t, m, now.Add(time.Minute), "Kebun B", "")
	insertRecord(t, m, now.Add(2*time.Minute), "", "")

	got, err := m.ListAnalyses(context.Background(), storage.AnalysisFilter{
		From:     now.Add(-time.Hour),
		To:       now.Add(time.Hour),
		Location: "Kebun A",
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].ID != kebun.ID {
		t.Fatalf("expected only the Kebun A record, got %d records", len(got))
	}
}
