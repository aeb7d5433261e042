package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"mall-backend/internal/cache"
	"mall-backend/internal/models"
	"mall-backend/internal/timeutil"
)

// DashboardService computes the per-mall and platform-wide aggregate
// blocks. Results are cached in Redis for a few minutes; mallID 0 is
// the platform-wide (admin) view.
type DashboardService struct {
	Store Store
	Cache *cache.Cache

	Now func() time.Time
}

func NewDashboardService(store Store, c *cache.Cache) *DashboardService {
	return &DashboardService{Store: store, Cache: c, Now: timeutil.Now}
}

// yearlyWindow is how many years the revenue series covers, current
// year included.
const yearlyWindow = 4

// Stats returns the dashboard block for a mall, or for the whole
// platform when mallID is 0.
func (s *DashboardService) Stats(ctx context.Context, mallID int) (*models.DashboardStats, error) {
	key := fmt.Sprintf(cache.DashboardKeyFmt, mallID)
	if data, ok := s.Cache.Get(ctx, key); ok {
		var stats models.DashboardStats
		if err := json.Unmarshal(data, &stats); err == nil {
			return &stats, nil
		}
	}

	stats, err := s.compute(ctx, mallID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(stats); err == nil {
		s.Cache.Set(ctx, key, data, cache.DashboardTTL)
	}
	return stats, nil
}

// Invalidate drops the cached block for a mall and the platform view.
func (s *DashboardService) Invalidate(ctx context.Context, mallID int) {
	s.Cache.Invalidate(ctx,
		fmt.Sprintf(cache.DashboardKeyFmt, mallID),
		fmt.Sprintf(cache.DashboardKeyFmt, 0),
	)
}

func (s *DashboardService) compute(ctx context.Context, mallID int) (*models.DashboardStats, error) {
	posts, err := s.Store.Posts().CountByMall(ctx, mallID)
	if err != nil {
		return nil, err
	}
	tenants, err := s.Store.Payments().CountTenants(ctx, mallID)
	if err != nil {
		return nil, err
	}

	recurring, err := s.Store.Payments().SumPayments(ctx, mallID)
	if err != nil {
		return nil, err
	}
	first, err := s.Store.Payments().SumFirstpayments(ctx, mallID)
	if err != nil {
		return nil, err
	}

	year := s.Now().Year()
	current, err := s.revenueForYear(ctx, mallID, year)
	if err != nil {
		return nil, err
	}
	previous, err := s.revenueForYear(ctx, mallID, year-1)
	if err != nil {
		return nil, err
	}

	occupied, total, err := s.Store.Rooms().OccupancyByMall(ctx, mallID)
	if err != nil {
		return nil, err
	}
	occupancy := 0.0
	if total > 0 {
		occupancy = float64(occupied) / float64(total) * 100
	}

	series := make([]models.YearlyRevenue, 0, yearlyWindow)
	for y := year - yearlyWindow + 1; y <= year; y++ {
		revenue, err := s.revenueForYear(ctx, mallID, y)
		if err != nil {
			return nil, err
		}
		rents, err := s.Store.Rents().CountByMallAndYear(ctx, mallID, y)
		if err != nil {
			return nil, err
		}
		series = append(series, models.YearlyRevenue{Year: y, Revenue: revenue, Rents: rents})
	}

	return &models.DashboardStats{
		PostCount:        posts,
		TenantCount:      tenants,
		TotalRevenue:     recurring + first,
		GrowthRate:       GrowthRate(current, previous),
		OccupancyPercent: occupancy,
		YearlyRevenue:    series,
	}, nil
}

func (s *DashboardService) revenueForYear(ctx context.Context, mallID, year int) (float64, error) {
	from := timeutil.StartOfYear(year)
	to := timeutil.StartOfYear(year + 1)
	return s.Store.Payments().SumPaymentsBetween(ctx, mallID, from, to)
}

// GrowthRate is the year-over-year revenue change in percent. A zero
// previous year reports exactly 100, so a mall's first earning year
// always shows as full growth.
func GrowthRate(current, previous float64) float64 {
	if previous == 0 {
		return 100
	}
	return (current - previous) / previous * 100
}
