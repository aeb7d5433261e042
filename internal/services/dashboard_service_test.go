package services

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mall-backend/internal/cache"
	"mall-backend/internal/models"
)

func TestGrowthRate(t *testing.T) {
	// A mall's first earning year always reports full growth.
	assert.Equal(t, 100.0, GrowthRate(0, 0))
	assert.Equal(t, 100.0, GrowthRate(5000, 0))

	assert.Equal(t, 50.0, GrowthRate(300, 200))
	assert.InDelta(t, -33.33, GrowthRate(200, 300), 0.01)
	assert.Equal(t, -100.0, GrowthRate(0, 200))
}

func seedDashboard(m *memStore) {
	mallOne, mallTwo := 1, 2

	m.users[10] = &models.User{ID: 10, Role: models.RoleMallOwner, MallID: &mallOne}
	m.users[20] = &models.User{ID: 20, Role: models.RoleTenant, MallID: &mallOne}
	m.users[21] = &models.User{ID: 21, Role: models.RoleTenant, MallID: &mallOne}
	m.users[30] = &models.User{ID: 30, Role: models.RoleTenant, MallID: &mallTwo}

	m.rooms[200] = &models.Room{ID: 200, Status: models.RoomOccupied}
	m.rooms[201] = &models.Room{ID: 201, Status: models.RoomOccupied}
	m.rooms[202] = &models.Room{ID: 202, Status: models.RoomAvailable}
	m.rooms[203] = &models.Room{ID: 203, Status: models.RoomAvailable}
	m.roomMall[200], m.roomMall[201], m.roomMall[202] = mallOne, mallOne, mallOne
	m.roomMall[203] = mallTwo

	m.posts[100] = &models.Post{ID: 100, MallID: mallOne, Status: models.PostApproved}
	m.posts[101] = &models.Post{ID: 101, MallID: mallOne, Status: models.PostPending}
	m.posts[102] = &models.Post{ID: 102, MallID: mallTwo, Status: models.PostApproved}

	m.rents[1] = &models.Rent{ID: 1, UserID: 20, RoomID: 200, MallID: mallOne,
		CreatedAt: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)}
	m.rents[2] = &models.Rent{ID: 2, UserID: 21, RoomID: 201, MallID: mallOne,
		CreatedAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)}

	m.payments = append(m.payments,
		&models.Payment{ID: 1, RentID: 1, Amount: 300, PaymentDate: time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)},
		&models.Payment{ID: 2, RentID: 2, Amount: 200, PaymentDate: time.Date(2025, 7, 15, 12, 0, 0, 0, time.UTC)},
	)

	m.accepted[300] = &models.AcceptedUser{ID: 300, MallID: mallOne, UserID: 20}
	m.firstpays = append(m.firstpays,
		&models.Firstpayment{ID: 3, AcceptedUserID: 300, Amount: 1000,
			PaymentDate: time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)})
}

func newTestDashboardService(store *memStore, c *cache.Cache) *DashboardService {
	svc := NewDashboardService(store, c)
	svc.Now = func() time.Time { return time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC) }
	return svc
}

func TestDashboardStatsComputes(t *testing.T) {
	store := newMemStore()
	seedDashboard(store)
	svc := newTestDashboardService(store, cache.NewWithClient(nil))

	stats, err := svc.Stats(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.PostCount)
	assert.Equal(t, 2, stats.TenantCount)
	assert.Equal(t, 1500.0, stats.TotalRevenue) // 300 + 200 recurring, 1000 activation
	assert.Equal(t, 50.0, stats.GrowthRate)     // 300 this year over 200 last year
	assert.InDelta(t, 66.66, stats.OccupancyPercent, 0.01)

	require.Len(t, stats.YearlyRevenue, 4)
	assert.Equal(t, 2023, stats.YearlyRevenue[0].Year)
	assert.Equal(t, 0.0, stats.YearlyRevenue[0].Revenue)
	assert.Equal(t, models.YearlyRevenue{Year: 2025, Revenue: 200, Rents: 1}, stats.YearlyRevenue[2])
	assert.Equal(t, models.YearlyRevenue{Year: 2026, Revenue: 300, Rents: 1}, stats.YearlyRevenue[3])
}

func TestDashboardStatsPlatformWide(t *testing.T) {
	store := newMemStore()
	seedDashboard(store)
	svc := newTestDashboardService(store, cache.NewWithClient(nil))

	stats, err := svc.Stats(context.Background(), 0)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.PostCount)
	assert.Equal(t, 3, stats.TenantCount)
	assert.Equal(t, 50.0, stats.OccupancyPercent)
}

func TestDashboardStatsCached(t *testing.T) {
	mr := miniredis.RunT(t)
	c := cache.NewWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))

	store := newMemStore()
	seedDashboard(store)
	svc := newTestDashboardService(store, c)
	ctx := context.Background()

	stats, err := svc.Stats(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1500.0, stats.TotalRevenue)

	// A write after the first read is invisible until invalidation.
	store.payments = append(store.payments,
		&models.Payment{ID: 9, RentID: 1, Amount: 500, PaymentDate: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)})

	stats, err = svc.Stats(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1500.0, stats.TotalRevenue)

	svc.Invalidate(ctx, 1)

	stats, err = svc.Stats(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2000.0, stats.TotalRevenue)
}
