package services

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"mall-backend/internal/models"
	"mall-backend/internal/repositories"
)

// memStore is an in-memory Store shared by the workflow service tests.
// Atomic runs fn directly; the tests exercise the guard logic, not
// rollback mechanics.
type memStore struct {
	mu sync.Mutex

	users         map[int]*models.User
	malls         map[int]*models.Mall
	agreements    map[int]*models.Agreement // keyed by mall
	rooms         map[int]*models.Room
	roomMall      map[int]int
	posts         map[int]*models.Post
	bids          map[int]*models.Bid
	deposits      []models.Deposit
	refunds       map[int]float64 // depositID -> amount
	requests      map[int]*models.Request
	accepted      map[int]*models.AcceptedUser
	acceptedRooms map[int]acceptedRoomInfo // acceptedID -> joined room/mall
	notifications []*models.Notification
	rents         map[int]*models.Rent
	payments      []*models.Payment
	firstpays     []*models.Firstpayment

	nextID int
}

type acceptedRoomInfo struct {
	roomID     int
	roomNumber string
	mallName   string
	mallAddr   string
	ownerID    int
}

func newMemStore() *memStore {
	return &memStore{
		users:         map[int]*models.User{},
		malls:         map[int]*models.Mall{},
		agreements:    map[int]*models.Agreement{},
		rooms:         map[int]*models.Room{},
		roomMall:      map[int]int{},
		posts:         map[int]*models.Post{},
		bids:          map[int]*models.Bid{},
		refunds:       map[int]float64{},
		requests:      map[int]*models.Request{},
		accepted:      map[int]*models.AcceptedUser{},
		acceptedRooms: map[int]acceptedRoomInfo{},
		rents:         map[int]*models.Rent{},
		nextID:        1000,
	}
}

func (m *memStore) id() int {
	m.nextID++
	return m.nextID
}

func (m *memStore) Users() UserStore                 { return (*memUsers)(m) }
func (m *memStore) Malls() MallStore                 { return (*memMalls)(m) }
func (m *memStore) Rooms() RoomStore                 { return (*memRooms)(m) }
func (m *memStore) Posts() PostStore                 { return (*memPosts)(m) }
func (m *memStore) Bids() BidStore                   { return (*memBids)(m) }
func (m *memStore) Requests() RequestStore           { return (*memRequests)(m) }
func (m *memStore) AcceptedUsers() AcceptedUserStore { return (*memAccepted)(m) }
func (m *memStore) Notifications() NotificationStore { return (*memNotifications)(m) }
func (m *memStore) Rents() RentStore                 { return (*memRents)(m) }
func (m *memStore) Payments() PaymentStore           { return (*memPayments)(m) }

func (m *memStore) Atomic(ctx context.Context, fn func(Store) error) error {
	return fn(m)
}

type memUsers memStore

func (m *memUsers) Get(ctx context.Context, id int) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, repositories.ErrNoRows
}

func (m *memUsers) PromoteToTenant(ctx context.Context, userID, mallID int) (bool, error) {
	u, ok := m.users[userID]
	if !ok {
		return false, repositories.ErrNoRows
	}
	if u.Role != models.RoleUser {
		return false, nil
	}
	u.Role = models.RoleTenant
	u.MallID = &mallID
	return true, nil
}

type memMalls memStore

func (m *memMalls) Get(ctx context.Context, id int) (*models.Mall, error) {
	if mall, ok := m.malls[id]; ok {
		return mall, nil
	}
	return nil, repositories.ErrNoRows
}

func (m *memMalls) GetByOwner(ctx context.Context, ownerID int) (*models.Mall, error) {
	for _, mall := range m.malls {
		if mall.OwnerID == ownerID {
			return mall, nil
		}
	}
	return nil, repositories.ErrNoRows
}

func (m *memMalls) LatestAgreement(ctx context.Context, mallID int) (*models.Agreement, error) {
	if ag, ok := m.agreements[mallID]; ok {
		return ag, nil
	}
	return nil, repositories.ErrNoRows
}

type memRooms memStore

func (m *memRooms) Get(ctx context.Context, id int) (*models.Room, error) {
	if r, ok := m.rooms[id]; ok {
		return r, nil
	}
	return nil, repositories.ErrNoRows
}

func (m *memRooms) SetStatus(ctx context.Context, roomID int, from, to string) (bool, error) {
	r, ok := m.rooms[roomID]
	if !ok || r.Status != from {
		return false, nil
	}
	r.Status = to
	return true, nil
}

func (m *memRooms) OccupancyByMall(ctx context.Context, mallID int) (int, int, error) {
	occupied, total := 0, 0
	for id, r := range m.rooms {
		if mallID != 0 && m.roomMall[id] != mallID {
			continue
		}
		total++
		if r.Status == models.RoomOccupied {
			occupied++
		}
	}
	return occupied, total, nil
}

type memPosts memStore

func (m *memPosts) Get(ctx context.Context, id int) (*models.Post, error) {
	if p, ok := m.posts[id]; ok {
		return p, nil
	}
	return nil, repositories.ErrNoRows
}

func (m *memPosts) SetStatus(ctx context.Context, postID int, status string) (bool, error) {
	p, ok := m.posts[postID]
	if !ok {
		return false, nil
	}
	p.Status = status
	return true, nil
}

func (m *memPosts) CountByMall(ctx context.Context, mallID int) (int, error) {
	count := 0
	for _, p := range m.posts {
		if mallID == 0 || p.MallID == mallID {
			count++
		}
	}
	return count, nil
}

type memBids memStore

func (m *memBids) Create(ctx context.Context, b *models.Bid) error {
	for _, other := range m.bids {
		if other.UserID == b.UserID && other.PostID == b.PostID && other.Status == models.BidPending {
			return &pgconn.PgError{Code: "23505", ConstraintName: "uq_bids_pending_user_post"}
		}
	}
	b.ID = (*memStore)(m).id()
	b.Status = models.BidPending
	b.CreatedAt = time.Now()
	m.bids[b.ID] = b
	return nil
}

func (m *memBids) CreateDeposit(ctx context.Context, d *models.Deposit) error {
	d.ID = (*memStore)(m).id()
	d.CreatedAt = time.Now()
	m.deposits = append(m.deposits, *d)
	return nil
}

func (m *memBids) HasPendingBid(ctx context.Context, userID, postID int) (bool, error) {
	for _, b := range m.bids {
		if b.UserID == userID && b.PostID == postID && b.Status == models.BidPending {
			return true, nil
		}
	}
	return false, nil
}

func (m *memBids) ListByPost(ctx context.Context, postID int) ([]*models.Bid, error) {
	var out []*models.Bid
	for _, b := range m.bids {
		if b.PostID == postID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memBids) ListByUser(ctx context.Context, userID int) ([]*models.Bid, error) {
	var out []*models.Bid
	for _, b := range m.bids {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memBids) GetDetail(ctx context.Context, id int) (*models.BidDetail, error) {
	b, ok := m.bids[id]
	if !ok {
		return nil, repositories.ErrNoRows
	}
	d := &models.BidDetail{Bid: *b}
	if p, ok := m.posts[b.PostID]; ok {
		d.PostTitle = p.Title
		d.PostOwnerID = p.UserID
		mallID := p.MallID
		if mallID != 0 {
			d.MallID = &mallID
		}
	}
	return d, nil
}

func (m *memBids) SetStatus(ctx context.Context, bidID int, from, to string) (bool, error) {
	b, ok := m.bids[bidID]
	if !ok || b.Status != from {
		return false, nil
	}
	b.Status = to
	return true, nil
}

func (m *memBids) DeclineSiblings(ctx context.Context, postID, exceptBidID int) ([]*models.Bid, error) {
	var declined []*models.Bid
	for _, b := range m.bids {
		if b.PostID == postID && b.ID != exceptBidID && b.Status == models.BidPending {
			b.Status = models.BidDeclined
			declined = append(declined, b)
		}
	}
	return declined, nil
}

func (m *memBids) DepositsForBid(ctx context.Context, bidID int) ([]models.Deposit, error) {
	var out []models.Deposit
	for _, d := range m.deposits {
		if d.BidID == bidID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *memBids) UpsertRefund(ctx context.Context, depositID int, amount float64) error {
	m.refunds[depositID] = amount
	return nil
}

type memRequests memStore

func (m *memRequests) GetDetail(ctx context.Context, id int) (*models.RequestDetail, error) {
	r, ok := m.requests[id]
	if !ok {
		return nil, repositories.ErrNoRows
	}
	d := &models.RequestDetail{Request: *r}
	if p, ok := m.posts[r.PostID]; ok {
		d.PostTitle = p.Title
		d.PostOwnerID = p.UserID
		mallID := p.MallID
		if mallID != 0 {
			d.MallID = &mallID
		}
	}
	return d, nil
}

func (m *memRequests) SetStatus(ctx context.Context, requestID int, from, to string) (bool, error) {
	r, ok := m.requests[requestID]
	if !ok || r.Status != from {
		return false, nil
	}
	r.Status = to
	return true, nil
}

func (m *memRequests) DeclineSiblings(ctx context.Context, postID, exceptRequestID int) ([]*models.Request, error) {
	var declined []*models.Request
	for _, r := range m.requests {
		if r.PostID == postID && r.ID != exceptRequestID && r.Status == models.RequestPending {
			r.Status = models.RequestDeclined
			declined = append(declined, r)
		}
	}
	return declined, nil
}

type memAccepted memStore

func (m *memAccepted) Create(ctx context.Context, a *models.AcceptedUser) error {
	a.ID = (*memStore)(m).id()
	a.CreatedAt = time.Now()
	m.accepted[a.ID] = a
	return nil
}

func (m *memAccepted) GetDetail(ctx context.Context, id int) (*models.AcceptedUserDetail, error) {
	a, ok := m.accepted[id]
	if !ok {
		return nil, repositories.ErrNoRows
	}
	info := m.acceptedRooms[id]
	return &models.AcceptedUserDetail{
		AcceptedUser: *a,
		RoomID:       info.roomID,
		RoomNumber:   info.roomNumber,
		MallName:     info.mallName,
		MallAddr:     info.mallAddr,
		OwnerID:      info.ownerID,
	}, nil
}

func (m *memAccepted) ListByMall(ctx context.Context, mallID int) ([]*models.AcceptedUser, error) {
	var out []*models.AcceptedUser
	for _, a := range m.accepted {
		if a.MallID == mallID {
			out = append(out, a)
		}
	}
	return out, nil
}

type memNotifications memStore

func (m *memNotifications) Create(ctx context.Context, n *models.Notification) error {
	n.ID = (*memStore)(m).id()
	n.Status = models.NotificationUnread
	n.CreatedAt = time.Now()
	m.notifications = append(m.notifications, n)
	return nil
}

type memRents memStore

func (m *memRents) Create(ctx context.Context, rent *models.Rent) error {
	for _, r := range m.rents {
		if r.RoomID == rent.RoomID {
			return &pgconn.PgError{Code: "23505", ConstraintName: "rents_room_id_key"}
		}
	}
	rent.ID = (*memStore)(m).id()
	if rent.CreatedAt.IsZero() {
		rent.CreatedAt = time.Now()
	}
	m.rents[rent.ID] = rent
	return nil
}

func (m *memRents) Get(ctx context.Context, id int) (*models.Rent, error) {
	if r, ok := m.rents[id]; ok {
		return r, nil
	}
	return nil, repositories.ErrNoRows
}

func (m *memRents) GetByUser(ctx context.Context, userID int) (*models.Rent, error) {
	for _, r := range m.rents {
		if r.UserID == userID {
			return r, nil
		}
	}
	return nil, repositories.ErrNoRows
}

func (m *memRents) ListByMall(ctx context.Context, mallID int) ([]*models.Rent, error) {
	var out []*models.Rent
	for _, r := range m.rents {
		if r.MallID == mallID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memRents) CountByMallAndYear(ctx context.Context, mallID, year int) (int, error) {
	count := 0
	for _, r := range m.rents {
		if (mallID == 0 || r.MallID == mallID) && r.CreatedAt.Year() == year {
			count++
		}
	}
	return count, nil
}

type memPayments memStore

func (m *memPayments) CreatePayment(ctx context.Context, p *models.Payment) error {
	p.ID = (*memStore)(m).id()
	p.CreatedAt = time.Now()
	m.payments = append(m.payments, p)
	return nil
}

func (m *memPayments) CreateFirstpayment(ctx context.Context, p *models.Firstpayment) error {
	p.ID = (*memStore)(m).id()
	p.CreatedAt = time.Now()
	m.firstpays = append(m.firstpays, p)
	return nil
}

func (m *memPayments) GetPayment(ctx context.Context, id int) (*models.Payment, error) {
	for _, p := range m.payments {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, repositories.ErrNoRows
}

func (m *memPayments) GetFirstpayment(ctx context.Context, id int) (*models.Firstpayment, error) {
	for _, p := range m.firstpays {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, repositories.ErrNoRows
}

func (m *memPayments) ListPaymentsByMall(ctx context.Context, mallID int) ([]*models.Payment, error) {
	var out []*models.Payment
	for _, p := range m.payments {
		if r, ok := m.rents[p.RentID]; ok && (mallID == 0 || r.MallID == mallID) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memPayments) ListPaymentsByUser(ctx context.Context, userID int) ([]*models.Payment, error) {
	var out []*models.Payment
	for _, p := range m.payments {
		if r, ok := m.rents[p.RentID]; ok && r.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memPayments) ListFirstpaymentsByMall(ctx context.Context, mallID int) ([]*models.Firstpayment, error) {
	var out []*models.Firstpayment
	for _, p := range m.firstpays {
		if a, ok := m.accepted[p.AcceptedUserID]; ok && (mallID == 0 || a.MallID == mallID) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memPayments) SumPayments(ctx context.Context, mallID int) (float64, error) {
	var sum float64
	for _, p := range m.payments {
		if r, ok := m.rents[p.RentID]; ok && (mallID == 0 || r.MallID == mallID) {
			sum += p.Amount
		}
	}
	return sum, nil
}

func (m *memPayments) SumPaymentsBetween(ctx context.Context, mallID int, from, to time.Time) (float64, error) {
	var sum float64
	for _, p := range m.payments {
		r, ok := m.rents[p.RentID]
		if !ok || (mallID != 0 && r.MallID != mallID) {
			continue
		}
		if !p.PaymentDate.Before(from) && p.PaymentDate.Before(to) {
			sum += p.Amount
		}
	}
	return sum, nil
}

func (m *memPayments) SumFirstpayments(ctx context.Context, mallID int) (float64, error) {
	var sum float64
	for _, p := range m.firstpays {
		if a, ok := m.accepted[p.AcceptedUserID]; ok && (mallID == 0 || a.MallID == mallID) {
			sum += p.Amount
		}
	}
	return sum, nil
}

func (m *memPayments) CountTenants(ctx context.Context, mallID int) (int, error) {
	count := 0
	for _, u := range m.users {
		if u.Role != models.RoleTenant {
			continue
		}
		if mallID == 0 || (u.MallID != nil && *u.MallID == mallID) {
			count++
		}
	}
	return count, nil
}

func (m *memPayments) LatestPaymentDate(ctx context.Context, rentID int) (*time.Time, error) {
	var latest *time.Time
	for _, p := range m.payments {
		if p.RentID != rentID {
			continue
		}
		if latest == nil || p.PaymentDate.After(*latest) {
			t := p.PaymentDate
			latest = &t
		}
	}
	return latest, nil
}

// recordingSink captures published events for assertions.
type recordingSink struct {
	mu     sync.Mutex
	events []sinkEvent
	err    error
}

type sinkEvent struct {
	userID  int
	event   string
	payload any
}

func (s *recordingSink) Publish(userID int, event string, payload any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, sinkEvent{userID, event, payload})
	return nil
}

func (s *recordingSink) forUser(userID int) []sinkEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []sinkEvent
	for _, e := range s.events {
		if e.userID == userID {
			out = append(out, e)
		}
	}
	return out
}
