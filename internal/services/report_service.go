package services

import (
	"context"
	"fmt"
	"time"

	"balcao/internal/analytics"
	"balcao/internal/caching"
	"balcao/internal/repositories"

	"github.com/rs/zerolog"
)

type ReportService interface {
	Build(ctx context.Context, r analytics.DateRange, now time.Time) (*analytics.Report, error)
	// Export builds the report and writes it to object storage, returning
	// the object name.
	Export(ctx context.Context, r analytics.DateRange, now time.Time) (string, error)
}

type reportService struct {
	orders  repositories.OrderRepository
	storage ObjectStorage
	bucket  string
	loc     *time.Location
	view    *caching.View[*analytics.Report]
	logger  zerolog.Logger
}

// NewReportService builds reports with day boundaries in loc. storage may be
// nil, in which case Export fails.
func NewReportService(
	orders repositories.OrderRepository,
	storage ObjectStorage,
	bucket string,
	loc *time.Location,
	registry *caching.Registry,
	cache caching.CacheService,
	cacheTTL time.Duration,
	logger zerolog.Logger,
) ReportService {
	return &reportService{
		orders:  orders,
		storage: storage,
		bucket:  bucket,
		loc:     loc,
		view: caching.NewView[*analytics.Report](registry, cache, "reports", cacheTTL,
			caching.KeyOrders, caching.KeyReports, caching.KeySalesTypes),
		logger: logger.With().Str("component", "reports").Logger(),
	}
}

func (s *reportService) Build(ctx context.Context, r analytics.DateRange, now time.Time) (*analytics.Report, error) {
	now = now.In(s.loc)
	from, to := r.Bounds(now)

	// The variant carries the day so "today" never serves yesterday's figures.
	variant := string(r) + ":" + now.Format("2006-01-02")
	return s.view.Get(ctx, variant, func(ctx context.Context) (*analytics.Report, error) {
		orders, err := s.orders.ListInRange(ctx, from, to)
		if err != nil {
			return nil, fmt.Errorf("failed to list orders for report: %w", err)
		}

		report := analytics.Summarize(orders)
		report.Range = r
		report.From = from
		report.To = to
		report.GeneratedAt = now
		return report, nil
	})
}

func (s *reportService) Export(ctx context.Context, r analytics.DateRange, now time.Time) (string, error) {
	if s.storage == nil {
		return "", fmt.Errorf("object storage is not configured")
	}

	report, err := s.Build(ctx, r, now)
	if err != nil {
		return "", err
	}

	day := now.In(s.loc)
	if r == analytics.RangeYesterday {
		day = day.AddDate(0, 0, -1)
	}
	object := fmt.Sprintf("reports/%s/%s.json", r, day.Format("2006-01-02"))

	if err := s.storage.EnsureBucketExists(ctx, s.bucket); err != nil {
		return "", fmt.Errorf("failed to ensure bucket %s: %w", s.bucket, err)
	}
	if err := s.storage.PutJSON(ctx, s.bucket, object, report); err != nil {
		return "", err
	}

	s.logger.Info().
		Str("bucket", s.bucket).
		Str("object", object).
		Int("orders", report.TotalOrders).
		Str("revenue", report.TotalRevenue.StringFixed(2)).
		Msg("report exported")
	return object, nil
}
