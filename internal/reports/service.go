package reports

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/feb027/melon-ai-sub001/internal/logger"
	"github.com/feb027/melon-ai-sub001/internal/storage"
)

// AnalysesStore is the narrow read interface the pipeline needs from
// the analysis store.
type AnalysesStore interface {
	ListAnalyses(ctx context.Context, filter storage.AnalysisFilter) ([]storage.AnalysisRecord, error)
}

// Service orchestrates one report run: validate, fetch, aggregate,
// render, publish. Stages run strictly in order; the first failure
// halts the pipeline with a typed error.
type Service struct {
	analyses  AnalysesStore
	renderer  Renderer
	publisher *Publisher
	log       *logger.Logger
	now       func() time.Time
}

// NewService creates a new reports service
func NewService(analyses AnalysesStore, renderer Renderer, publisher *Publisher, log *logger.Logger) *Service {
	return &Service{
		analyses:  analyses,
		renderer:  renderer,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

// Generate runs the full pipeline for one request
func (s *Service) Generate(ctx context.Context, req ReportRequest) (*ReportResult, error) {
	start, end, err := validateDates(req)
	if err != nil {
		return nil, err
	}

	records, err := s.analyses.ListAnalyses(ctx, storage.AnalysisFilter{
		From:         start,
		To:           end,
		Location:     strings.TrimSpace(req.Location),
		FruitType:    strings.TrimSpace(req.FruitType),
		FruitVariety: strings.TrimSpace(req.FruitVariety),
	})
	if err != nil {
		s.logWarn("reports: fetch failed", err)
		return nil, NewError(CodeDatabaseError, "Failed to fetch analysis data").
			WithDetails(err.Error()).
			WithCause(err)
	}

	data, err := BuildReportData(records, start, end, ReportFilters{
		Location:     req.Location,
		FruitType:    req.FruitType,
		FruitVariety: req.FruitVariety,
	}, s.now())
	if err != nil {
		return nil, err
	}

	document, err := s.renderDocument(data)
	if err != nil {
		s.logWarn("reports: render failed", err)
		return nil, AsError(err)
	}

	link, fileName, err := s.publisher.Publish(ctx, document)
	if err != nil {
		s.logWarn("reports: publish failed", err)
		return nil, err
	}

	if s.log != nil {
		s.log.WithFields(logrus.Fields{
			"file":    fileName,
			"records": len(records),
			"bytes":   len(document),
		}).Info("reports: generated")
	}

	return &ReportResult{
		DownloadURL: link.URL,
		FileName:    fileName,
		ExpiresIn:   link.ExpiresIn,
		ExpiresAt:   link.ExpiresAt,
	}, nil
}

// renderDocument drains the renderer's stream into one buffer
func (s *Service) renderDocument(data *ReportData) ([]byte, error) {
	stream, err := s.renderer.Render(data)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	document, err := io.ReadAll(stream)
	if err != nil {
		return nil, err
	}
	return document, nil
}

// validateDates requires both dates present and parseable. Their
// ordering is deliberately not checked; an inverted range matches no
// rows and surfaces as NO_DATA downstream.
func validateDates(req ReportRequest) (time.Time, time.Time, error) {
	startRaw := strings.TrimSpace(req.StartDate)
	endRaw := strings.TrimSpace(req.EndDate)
	if startRaw == "" || endRaw == "" {
		return time.Time{}, time.Time{}, NewError(CodeMissingParameters, "startDate and endDate are required")
	}

	start, _, err := parseDate(startRaw)
	if err != nil {
		return time.Time{}, time.Time{}, NewError(CodeMissingParameters, "startDate is not a valid date").WithDetails(err.Error())
	}
	end, dateOnly, err := parseDate(endRaw)
	if err != nil {
		return time.Time{}, time.Time{}, NewError(CodeMissingParameters, "endDate is not a valid date").WithDetails(err.Error())
	}
	// A date-only end bound covers the whole day.
	if dateOnly {
		end = end.AddDate(0, 0, 1).Add(-time.Millisecond)
	}

	return start, end, nil
}

func parseDate(raw string) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, false, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	return t, true, err
}

func (s *Service) logWarn(msg string, err error) {
	if s.log == nil {
		return
	}
	s.log.WithError(err).Warn(msg)
}
