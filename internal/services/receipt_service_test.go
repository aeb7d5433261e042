package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mall-backend/internal/models"
)

func TestPaymentReceipt(t *testing.T) {
	store := newMemStore()
	store.users[20] = &models.User{ID: 20, FullName: "Sara Bekele", PhoneNumber: "+251922000000", Role: models.RoleTenant}
	store.malls[1] = &models.Mall{ID: 1, MallName: "Edna Mall", Address: "Bole Road"}
	store.rents[1] = &models.Rent{ID: 1, UserID: 20, MallID: 1, RoomID: 200}
	store.payments = append(store.payments,
		&models.Payment{ID: 5, RentID: 1, Amount: 15000, PaymentDate: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)})

	pdf, err := NewReceiptService(store).PaymentReceipt(context.Background(), 5)
	require.NoError(t, err)
	require.NotEmpty(t, pdf)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}

func TestFirstPaymentReceipt(t *testing.T) {
	store := newMemStore()
	store.users[20] = &models.User{ID: 20, FullName: "Sara Bekele", PhoneNumber: "+251922000000", Role: models.RoleTenant}
	store.accepted[300] = &models.AcceptedUser{ID: 300, MallID: 1, UserID: 20}
	store.acceptedRooms[300] = acceptedRoomInfo{roomID: 200, roomNumber: "G-12", mallName: "Edna Mall", mallAddr: "Bole Road", ownerID: 10}
	store.firstpays = append(store.firstpays,
		&models.Firstpayment{ID: 7, AcceptedUserID: 300, Amount: 15000, PaymentDate: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)})

	pdf, err := NewReceiptService(store).FirstPaymentReceipt(context.Background(), 7)
	require.NoError(t, err)
	require.NotEmpty(t, pdf)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}

func TestReceiptForMissingPayment(t *testing.T) {
	store := newMemStore()
	svc := NewReceiptService(store)

	_, err := svc.PaymentReceipt(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.FirstPaymentReceipt(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)
}
