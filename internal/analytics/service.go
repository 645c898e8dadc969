// Tally - User Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tally

package analytics

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/tomtom215/tally/internal/cache"
	"github.com/tomtom215/tally/internal/events"
	"github.com/tomtom215/tally/internal/logging"
	"github.com/tomtom215/tally/internal/metrics"
	"github.com/tomtom215/tally/internal/models"
)

// Metric names used as Prometheus label values.
const (
	MetricActiveUsers   = "active_users"
	MetricAcquisition   = "acquisition"
	MetricRetention     = "retention"
	MetricRollingActive = "rolling_active"
	MetricCohorts       = "cohorts"
	MetricChurn         = "churn"
	MetricReport        = "report"
)

// DefaultMaxRollingDays bounds a rolling-active series when
// ServiceConfig.MaxRollingDays is not positive.
const DefaultMaxRollingDays = 3660

// ServiceConfig configures the report cache and request limits.
type ServiceConfig struct {
	CacheEnabled bool
	CacheSize    int
	CacheTTL     time.Duration

	// MaxRollingDays is the longest date range RollingActive will compute.
	MaxRollingDays int
}

// Service exposes the metric functions to the HTTP layer with
// instrumentation and a report cache keyed by event log fingerprint.
type Service struct {
	reports        *cache.LRUCache[*models.EngagementReport]
	maxRollingDays int
	now            func() time.Time
}

// NewService creates a Service. A nil report cache is used when caching is disabled.
func NewService(cfg ServiceConfig) *Service {
	s := &Service{maxRollingDays: cfg.MaxRollingDays, now: time.Now}
	if s.maxRollingDays <= 0 {
		s.maxRollingDays = DefaultMaxRollingDays
	}
	if cfg.CacheEnabled {
		s.reports = cache.NewLRUCache[*models.EngagementReport](cfg.CacheSize, cfg.CacheTTL)
	}
	return s
}

// instrument times fn and records its outcome under metric.
func instrument[T any](ctx context.Context, metric string, log *events.Log, fn func() (T, error)) (T, error) {
	start := time.Now()
	result, err := fn()
	elapsed := time.Since(start)
	metrics.RecordComputation(metric, elapsed, err)

	evt := logging.Ctx(ctx).Debug()
	if err != nil {
		evt = logging.Ctx(ctx).Warn().Err(err)
	}
	evt.Str("metric", metric).
		Int("events", log.Len()).
		Dur("duration", elapsed).
		Msg("Metric computed")
	return result, err
}

// ActiveUsers returns distinct active users per period bucket.
func (s *Service) ActiveUsers(ctx context.Context, log *events.Log, period Period) ([]models.ActivityPoint, error) {
	return instrument(ctx, MetricActiveUsers, log, func() ([]models.ActivityPoint, error) {
		return ActiveUsers(log, period), nil
	})
}

// Acquisition returns new users per month of first activity.
func (s *Service) Acquisition(ctx context.Context, log *events.Log) ([]models.ActivityPoint, error) {
	return instrument(ctx, MetricAcquisition, log, func() ([]models.ActivityPoint, error) {
		return NewUsersPerMonth(log), nil
	})
}

// Retention returns both inclusive-window and return retention.
func (s *Service) Retention(ctx context.Context, log *events.Log) (models.RetentionAnalytics, error) {
	return instrument(ctx, MetricRetention, log, func() (models.RetentionAnalytics, error) {
		incl, err := Retention(log)
		if err != nil {
			return models.RetentionAnalytics{}, err
		}
		ret, err := ReturnRetention(log)
		if err != nil {
			return models.RetentionAnalytics{}, err
		}
		return models.RetentionAnalytics{Retention: incl, Return: ret}, nil
	})
}

// RollingActive returns A30 for every date in [start, end]. Zero bounds
// default to the log's own date range. A range longer than the configured
// maximum fails with events.ErrInvalidInput.
func (s *Service) RollingActive(ctx context.Context, log *events.Log, start, end events.Date) ([]models.RollingPoint, error) {
	return instrument(ctx, MetricRollingActive, log, func() ([]models.RollingPoint, error) {
		first, last, ok := log.DateRange()
		if start.IsZero() {
			start = first
		}
		if end.IsZero() {
			end = last
		}
		if !ok && (start.IsZero() || end.IsZero()) {
			return []models.RollingPoint{}, nil
		}
		if end.Before(start) {
			return nil, fmt.Errorf("%w: end %s is before start %s", events.ErrInvalidInput, end, start)
		}
		if days := start.DaysUntil(end) + 1; days > s.maxRollingDays {
			return nil, fmt.Errorf("%w: rolling range of %d days exceeds the maximum of %d",
				events.ErrInvalidInput, days, s.maxRollingDays)
		}
		return RollingActiveSeries(log, DateRange(start, end)), nil
	})
}

// Cohorts returns the retention matrix with its summary and curve.
func (s *Service) Cohorts(ctx context.Context, log *events.Log) (models.CohortAnalytics, error) {
	return instrument(ctx, MetricCohorts, log, func() (models.CohortAnalytics, error) {
		return cohortAnalytics(log), nil
	})
}

// Churn returns the monthly churn series and its average. It fails with
// events.ErrDivisionUndefined when the series is empty.
func (s *Service) Churn(ctx context.Context, log *events.Log) (models.ChurnAnalytics, error) {
	return instrument(ctx, MetricChurn, log, func() (models.ChurnAnalytics, error) {
		series := MonthlyChurn(log)
		avg, err := averageOf(series)
		if err != nil {
			return models.ChurnAnalytics{}, err
		}
		return models.ChurnAnalytics{Series: series, AverageChurn: avg}, nil
	})
}

// Report computes every metric family for log. Results are cached by the
// log's fingerprint; a cached report is returned as a copy marked Cached in
// its metadata, so callers may modify it.
func (s *Service) Report(ctx context.Context, log *events.Log) (*models.EngagementReport, error) {
	key := log.Fingerprint()
	if s.reports != nil {
		if cached, ok := s.reports.Get(key); ok {
			metrics.RecordCacheLookup(true)
			logging.Ctx(ctx).Debug().Str("fingerprint", key).Msg("Report served from cache")
			out := cloneReport(cached)
			out.Metadata.Cached = true
			return out, nil
		}
		metrics.RecordCacheLookup(false)
	}

	report, err := instrument(ctx, MetricReport, log, func() (*models.EngagementReport, error) {
		return s.buildReport(log)
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordEventLog(log.Len(), log.UserCount())
	if s.reports != nil {
		s.reports.Add(key, cloneReport(report))
	}
	return report, nil
}

// InvalidateReports drops every cached report. Called after new events are stored.
func (s *Service) InvalidateReports() {
	if s.reports != nil {
		s.reports.Clear()
	}
}

// CacheStats returns report cache statistics; zero when caching is disabled.
func (s *Service) CacheStats() cache.Stats {
	if s.reports == nil {
		return cache.Stats{}
	}
	return s.reports.Stats()
}

func (s *Service) buildReport(log *events.Log) (*models.EngagementReport, error) {
	start := time.Now()

	retention, err := Retention(log)
	if err != nil {
		return nil, err
	}
	returnRetention, err := ReturnRetention(log)
	if err != nil {
		return nil, err
	}

	first, last, _ := log.DateRange()
	cohorts := cohortAnalytics(log)
	churn := MonthlyChurn(log)

	report := &models.EngagementReport{
		DailyActive:     ActiveUsers(log, PeriodDay),
		WeeklyActive:    ActiveUsers(log, PeriodWeek),
		MonthlyActive:   ActiveUsers(log, PeriodMonth),
		Acquisition:     NewUsersPerMonth(log),
		Retention:       retention,
		ReturnRetention: returnRetention,
		RollingActive:   RollingActiveSeries(log, DateRange(first, last)),
		Cohorts:         cohorts.Matrix,
		CohortSummary:   cohorts.Summary,
		RetentionCurve:  cohorts.Curve,
		Churn:           churn,
	}

	avg, err := averageOf(churn)
	switch {
	case err == nil:
		report.AverageChurn = &avg
	case errors.Is(err, events.ErrDivisionUndefined):
		report.Undefined = append(report.Undefined, "average_churn")
	default:
		return nil, err
	}

	report.Metadata = models.ReportMetadata{
		Fingerprint:    log.Fingerprint(),
		EventCount:     log.Len(),
		UserCount:      log.UserCount(),
		DataRangeStart: first,
		DataRangeEnd:   last,
		GeneratedAt:    s.now().UTC(),
		ComputeTimeMs:  time.Since(start).Milliseconds(),
	}
	return report, nil
}

func cohortAnalytics(log *events.Log) models.CohortAnalytics {
	matrix := CohortRetention(log)
	return models.CohortAnalytics{
		Matrix:  matrix,
		Summary: SummarizeCohorts(matrix),
		Curve:   RetentionCurve(matrix, matrix.MaxOffset()),
	}
}

// cloneReport copies r so the cached entry shares no memory with callers.
func cloneReport(r *models.EngagementReport) *models.EngagementReport {
	out := *r
	out.DailyActive = slices.Clone(r.DailyActive)
	out.WeeklyActive = slices.Clone(r.WeeklyActive)
	out.MonthlyActive = slices.Clone(r.MonthlyActive)
	out.Acquisition = slices.Clone(r.Acquisition)
	out.RollingActive = slices.Clone(r.RollingActive)
	out.RetentionCurve = slices.Clone(r.RetentionCurve)
	out.Churn = slices.Clone(r.Churn)
	out.Undefined = slices.Clone(r.Undefined)

	out.Cohorts.Cohorts = slices.Clone(r.Cohorts.Cohorts)
	for i := range out.Cohorts.Cohorts {
		out.Cohorts.Cohorts[i].Periods = slices.Clone(r.Cohorts.Cohorts[i].Periods)
	}
	if r.AverageChurn != nil {
		avg := *r.AverageChurn
		out.AverageChurn = &avg
	}
	return &out
}
