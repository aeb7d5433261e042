package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mall-backend/internal/middleware"
	"mall-backend/internal/models"
	"mall-backend/internal/repositories"
	"mall-backend/internal/services"
)

// bidStore is a minimal acceptance-path fake. The accessors the bid
// workflow never touches return nil.
type bidStore struct {
	bid           *models.BidDetail
	accepted      []*models.AcceptedUser
	notifications []*models.Notification
}

func (s *bidStore) Users() services.UserStore         { return nil }
func (s *bidStore) Malls() services.MallStore         { return nil }
func (s *bidStore) Rooms() services.RoomStore         { return nil }
func (s *bidStore) Posts() services.PostStore         { return nil }
func (s *bidStore) Requests() services.RequestStore   { return nil }
func (s *bidStore) Rents() services.RentStore         { return nil }
func (s *bidStore) Payments() services.PaymentStore   { return nil }
func (s *bidStore) Bids() services.BidStore           { return (*bidStoreBids)(s) }
func (s *bidStore) AcceptedUsers() services.AcceptedUserStore {
	return (*bidStoreAccepted)(s)
}
func (s *bidStore) Notifications() services.NotificationStore {
	return (*bidStoreNotifications)(s)
}
func (s *bidStore) Atomic(ctx context.Context, fn func(services.Store) error) error {
	return fn(s)
}

type bidStoreBids bidStore

func (s *bidStoreBids) Create(ctx context.Context, b *models.Bid) error { return nil }

func (s *bidStoreBids) CreateDeposit(ctx context.Context, d *models.Deposit) error { return nil }

func (s *bidStoreBids) HasPendingBid(ctx context.Context, userID, postID int) (bool, error) {
	return false, nil
}

func (s *bidStoreBids) ListByPost(ctx context.Context, postID int) ([]*models.Bid, error) {
	return nil, nil
}

func (s *bidStoreBids) ListByUser(ctx context.Context, userID int) ([]*models.Bid, error) {
	return nil, nil
}

func (s *bidStoreBids) GetDetail(ctx context.Context, id int) (*models.BidDetail, error) {
	if s.bid != nil && s.bid.ID == id {
		return s.bid, nil
	}
	return nil, repositories.ErrNoRows
}

func (s *bidStoreBids) SetStatus(ctx context.Context, bidID int, from, to string) (bool, error) {
	if s.bid == nil || s.bid.Status != from {
		return false, nil
	}
	s.bid.Status = to
	return true, nil
}

func (s *bidStoreBids) DeclineSiblings(ctx context.Context, postID, exceptBidID int) ([]*models.Bid, error) {
	return nil, nil
}

func (s *bidStoreBids) DepositsForBid(ctx context.Context, bidID int) ([]models.Deposit, error) {
	return nil, nil
}

func (s *bidStoreBids) UpsertRefund(ctx context.Context, depositID int, amount float64) error {
	return nil
}

type bidStoreAccepted bidStore

func (s *bidStoreAccepted) Create(ctx context.Context, a *models.AcceptedUser) error {
	a.ID = 300
	a.CreatedAt = time.Now()
	s.accepted = append(s.accepted, a)
	return nil
}

func (s *bidStoreAccepted) GetDetail(ctx context.Context, id int) (*models.AcceptedUserDetail, error) {
	return nil, repositories.ErrNoRows
}

func (s *bidStoreAccepted) ListByMall(ctx context.Context, mallID int) ([]*models.AcceptedUser, error) {
	return nil, nil
}

type bidStoreNotifications bidStore

func (s *bidStoreNotifications) Create(ctx context.Context, n *models.Notification) error {
	s.notifications = append(s.notifications, n)
	return nil
}

func newAcceptBidServer(store *bidStore) *mux.Router {
	h := NewAcceptanceHandler(services.NewAcceptanceService(store, nil))
	r := mux.NewRouter()
	r.HandleFunc("/api/bids/{id}/accept", h.AcceptBid).Methods("PUT")
	return r
}

func pendingBidDetail(ownerID int) *models.BidDetail {
	mallID := 1
	return &models.BidDetail{
		Bid:         models.Bid{ID: 50, PostID: 100, UserID: 20, Status: models.BidPending},
		PostTitle:   "Corner shop",
		PostOwnerID: ownerID,
		MallID:      &mallID,
	}
}

func acceptBid(router *mux.Router, ownerID int, bidID, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPut, "/api/bids/"+bidID+"/accept", strings.NewReader(body))
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, ownerID)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req.WithContext(ctx))
	return rec
}

const acceptBody = `{"visitDate":"2026-09-05","paymentDate":"2026-09-12","ownerName":"Abel","ownerPhone":"+251911000000","firstpayment":15000,"paymentDuration":12}`

func TestAcceptBidEndpoint(t *testing.T) {
	store := &bidStore{bid: pendingBidDetail(10)}
	rec := acceptBid(newAcceptBidServer(store), 10, "50", acceptBody)

	require.Equal(t, http.StatusOK, rec.Code)

	var accepted models.AcceptedUser
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &accepted))
	assert.Equal(t, 20, accepted.UserID)
	assert.Equal(t, 15000.0, accepted.Firstpayment)
	assert.Equal(t, models.BidWinner, store.bid.Status)
	require.Len(t, store.notifications, 1)
	assert.Equal(t, 20, store.notifications[0].UserID)
}

func TestAcceptBidEndpointNotFound(t *testing.T) {
	store := &bidStore{}
	rec := acceptBid(newAcceptBidServer(store), 10, "404", acceptBody)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAcceptBidEndpointConflict(t *testing.T) {
	bd := pendingBidDetail(10)
	bd.Status = models.BidDeclined
	rec := acceptBid(newAcceptBidServer(&bidStore{bid: bd}), 10, "50", acceptBody)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAcceptBidEndpointForbidden(t *testing.T) {
	store := &bidStore{bid: pendingBidDetail(99)}
	rec := acceptBid(newAcceptBidServer(store), 10, "50", acceptBody)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAcceptBidEndpointBadInput(t *testing.T) {
	store := &bidStore{bid: pendingBidDetail(10)}
	router := newAcceptBidServer(store)

	rec := acceptBid(router, 10, "abc", acceptBody)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = acceptBid(router, 10, "50", `{"visitDate":"05-09-2026"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = acceptBid(router, 10, "50", `{`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAcceptBidEndpointUnauthenticated(t *testing.T) {
	router := newAcceptBidServer(&bidStore{bid: pendingBidDetail(10)})
	req := httptest.NewRequest(http.MethodPut, "/api/bids/50/accept", strings.NewReader(acceptBody))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
