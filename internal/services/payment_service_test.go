package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mall-backend/internal/models"
	"mall-backend/internal/notify"
)

// memLeaseArchive keeps generated leases in memory.
type memLeaseArchive struct {
	templates map[string]string
	saved     map[string]string
}

func (a *memLeaseArchive) LoadTemplate(path string) (string, error) {
	if t, ok := a.templates[path]; ok {
		return t, nil
	}
	return "", ErrNotFound
}

func (a *memLeaseArchive) SaveLease(name string, data []byte) (string, error) {
	if a.saved == nil {
		a.saved = map[string]string{}
	}
	a.saved[name] = string(data)
	return "/uploads/leases/" + name, nil
}

func seedAcceptance(m *memStore) (tenantID, acceptedID int) {
	tenantID, acceptedID = 20, 300
	mallID, ownerID, roomID, postID := 1, 10, 200, 100

	m.users[ownerID] = &models.User{ID: ownerID, FullName: "Abel Tesfaye", Role: models.RoleMallOwner, MallID: &mallID}
	m.users[tenantID] = &models.User{ID: tenantID, FullName: "Sara Bekele", PhoneNumber: "+251922000000", Role: models.RoleUser}
	m.malls[mallID] = &models.Mall{ID: mallID, OwnerID: ownerID, MallName: "Edna Mall", Address: "Bole Road", City: "Addis Ababa"}
	m.rooms[roomID] = &models.Room{ID: roomID, RoomNumber: "G-12", Status: models.RoomAvailable}
	m.roomMall[roomID] = mallID
	m.posts[postID] = &models.Post{ID: postID, MallID: mallID, RoomID: roomID, UserID: ownerID, Title: "Corner shop", Status: models.PostApproved}

	m.accepted[acceptedID] = &models.AcceptedUser{
		ID: acceptedID, MallID: mallID, PostID: postID, UserID: tenantID,
		OwnerName: "Abel Tesfaye", OwnerPhone: "+251911000000",
		Firstpayment: 15000, PaymentDuration: 12,
	}
	m.acceptedRooms[acceptedID] = acceptedRoomInfo{
		roomID: roomID, roomNumber: "G-12", mallName: "Edna Mall",
		mallAddr: "Bole Road", ownerID: ownerID,
	}
	return tenantID, acceptedID
}

func newTestPaymentService(store *memStore, sink notify.Sink) (*PaymentService, *memLeaseArchive) {
	docs := &memLeaseArchive{}
	svc := NewPaymentService(store, sink, docs)
	svc.Now = func() time.Time { return time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC) }
	return svc, docs
}

func TestMakeFirstPaymentActivatesTenancy(t *testing.T) {
	store := newMemStore()
	tenantID, acceptedID := seedAcceptance(store)
	sink := &recordingSink{}
	svc, docs := newTestPaymentService(store, sink)

	rent, err := svc.MakeFirstPayment(context.Background(), tenantID, models.FirstPaymentRequest{
		AcceptedUserID: acceptedID,
		Amount:         15000,
	})
	require.NoError(t, err)
	require.NotNil(t, rent)

	// Payer is promoted, the room flips, the post disappears from the
	// feed and the Rent carries the lease document.
	assert.Equal(t, models.RoleTenant, store.users[tenantID].Role)
	assert.Equal(t, models.RoomOccupied, store.rooms[200].Status)
	assert.Equal(t, models.PostInvisible, store.posts[100].Status)
	assert.Equal(t, 15000.0, rent.Amount)
	assert.Equal(t, 12, rent.PaymentDuration)
	assert.Contains(t, rent.AgreementPath, "/uploads/leases/lease-300-")
	require.Len(t, docs.saved, 1)
	for _, doc := range docs.saved {
		assert.Contains(t, doc, "Sara Bekele")
		assert.Contains(t, doc, "Abel Tesfaye")
	}

	// Activation payment recorded, owner notified in-band and pushed.
	require.Len(t, store.firstpays, 1)
	assert.Equal(t, 15000.0, store.firstpays[0].Amount)
	require.Len(t, store.notifications, 1)
	assert.Equal(t, 10, store.notifications[0].UserID)
	events := sink.forUser(10)
	require.Len(t, events, 1)
	assert.Equal(t, notify.EventFirstPayment, events[0].event)
}

func TestMakeFirstPaymentRejectsUnderpayment(t *testing.T) {
	store := newMemStore()
	tenantID, acceptedID := seedAcceptance(store)
	svc, _ := newTestPaymentService(store, &recordingSink{})

	_, err := svc.MakeFirstPayment(context.Background(), tenantID, models.FirstPaymentRequest{
		AcceptedUserID: acceptedID,
		Amount:         14999,
	})
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Empty(t, store.firstpays)
	assert.Equal(t, models.RoomAvailable, store.rooms[200].Status)
}

func TestMakeFirstPaymentChecksPayer(t *testing.T) {
	store := newMemStore()
	_, acceptedID := seedAcceptance(store)
	svc, _ := newTestPaymentService(store, &recordingSink{})

	_, err := svc.MakeFirstPayment(context.Background(), 999, models.FirstPaymentRequest{
		AcceptedUserID: acceptedID,
		Amount:         15000,
	})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.MakeFirstPayment(context.Background(), 999, models.FirstPaymentRequest{
		AcceptedUserID: 12345,
		Amount:         15000,
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMakeFirstPaymentConflictsOnTakenRoom(t *testing.T) {
	store := newMemStore()
	tenantID, acceptedID := seedAcceptance(store)
	store.rooms[200].Status = models.RoomOccupied
	svc, _ := newTestPaymentService(store, &recordingSink{})

	_, err := svc.MakeFirstPayment(context.Background(), tenantID, models.FirstPaymentRequest{
		AcceptedUserID: acceptedID,
		Amount:         15000,
	})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestMakeFirstPaymentUsesMallTemplate(t *testing.T) {
	store := newMemStore()
	tenantID, acceptedID := seedAcceptance(store)
	store.agreements[1] = &models.Agreement{ID: 1, MallID: 1, AgreementFile: "/uploads/agreement.txt"}

	sink := &recordingSink{}
	svc, docs := newTestPaymentService(store, sink)
	docs.templates = map[string]string{
		"/uploads/agreement.txt": "Custom lease between {landlordName} and {tenantName} for {propertyAddress}.",
	}

	rent, err := svc.MakeFirstPayment(context.Background(), tenantID, models.FirstPaymentRequest{
		AcceptedUserID: acceptedID,
		Amount:         15000,
	})
	require.NoError(t, err)

	doc := docs.saved[strings.TrimPrefix(rent.AgreementPath, "/uploads/leases/")]
	assert.Equal(t, "Custom lease between Abel Tesfaye and Sara Bekele for Edna Mall, Bole Road, room G-12.", doc)
}

func TestRecordPaymentValidates(t *testing.T) {
	store := newMemStore()
	store.rents[1] = &models.Rent{ID: 1, UserID: 20, RoomID: 200, MallID: 1, Amount: 15000}
	svc, _ := newTestPaymentService(store, &recordingSink{})

	_, err := svc.RecordPayment(context.Background(), models.PayRequest{RentID: 1, Amount: 0})
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = svc.RecordPayment(context.Background(), models.PayRequest{RentID: 404, Amount: 100})
	assert.ErrorIs(t, err, ErrNotFound)

	p, err := svc.RecordPayment(context.Background(), models.PayRequest{RentID: 1, Amount: 15000})
	require.NoError(t, err)
	assert.Equal(t, 15000.0, p.Amount)
	require.Len(t, store.payments, 1)
}

func TestNextPaymentDays(t *testing.T) {
	store := newMemStore()
	now := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	store.rents[1] = &models.Rent{ID: 1, UserID: 20, RoomID: 200, MallID: 1, CreatedAt: now.AddDate(0, 0, -10)}
	svc, _ := newTestPaymentService(store, &recordingSink{})

	// No payments yet: due one month after the rent started.
	days, err := svc.NextPaymentDays(context.Background(), 20)
	require.NoError(t, err)
	assert.Equal(t, 21, days)

	// A payment moves the due date forward.
	store.payments = append(store.payments, &models.Payment{ID: 1, RentID: 1, Amount: 100, PaymentDate: now.AddDate(0, 0, -2)})
	days, err = svc.NextPaymentDays(context.Background(), 20)
	require.NoError(t, err)
	assert.Equal(t, 29, days)

	_, err = svc.NextPaymentDays(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound)
}
