package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"mall-backend/internal/repositories"
	"mall-backend/internal/timeutil"

	"github.com/jung-kurt/gofpdf/v2"
)

// ReceiptService renders payment receipts as PDF.
type ReceiptService struct {
	Store Store
}

func NewReceiptService(store Store) *ReceiptService {
	return &ReceiptService{Store: store}
}

// PaymentReceipt renders the receipt PDF for a recurring rent payment.
func (s *ReceiptService) PaymentReceipt(ctx context.Context, paymentID int) ([]byte, error) {
	p, err := s.Store.Payments().GetPayment(ctx, paymentID)
	if errors.Is(err, repositories.ErrNoRows) {
		return nil, fmt.Errorf("payment %d: %w", paymentID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	rent, err := s.Store.Rents().Get(ctx, p.RentID)
	if err != nil {
		return nil, err
	}
	tenant, err := s.Store.Users().Get(ctx, rent.UserID)
	if err != nil {
		return nil, err
	}
	mall, err := s.Store.Malls().Get(ctx, rent.MallID)
	if err != nil {
		return nil, err
	}

	return renderReceipt(receiptData{
		Title:    "Rent Payment Receipt",
		Number:   fmt.Sprintf("PAY-%06d", p.ID),
		Payer:    tenant.FullName,
		Phone:    tenant.PhoneNumber,
		MallName: mall.MallName,
		MallAddr: mall.Address,
		Amount:   p.Amount,
		PaidOn:   timeutil.FormatEAT(p.PaymentDate, timeutil.DisplayLayout),
	})
}

// FirstPaymentReceipt renders the receipt PDF for a tenancy activation
// payment.
func (s *ReceiptService) FirstPaymentReceipt(ctx context.Context, firstpaymentID int) ([]byte, error) {
	fp, err := s.Store.Payments().GetFirstpayment(ctx, firstpaymentID)
	if errors.Is(err, repositories.ErrNoRows) {
		return nil, fmt.Errorf("firstpayment %d: %w", firstpaymentID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	ad, err := s.Store.AcceptedUsers().GetDetail(ctx, fp.AcceptedUserID)
	if err != nil {
		return nil, err
	}
	tenant, err := s.Store.Users().Get(ctx, ad.UserID)
	if err != nil {
		return nil, err
	}

	return renderReceipt(receiptData{
		Title:    "First Payment Receipt",
		Number:   fmt.Sprintf("FPAY-%06d", fp.ID),
		Payer:    tenant.FullName,
		Phone:    tenant.PhoneNumber,
		MallName: ad.MallName,
		MallAddr: ad.MallAddr,
		Room:     ad.RoomNumber,
		Amount:   fp.Amount,
		PaidOn:   timeutil.FormatEAT(fp.PaymentDate, timeutil.DisplayLayout),
	})
}

type receiptData struct {
	Title    string
	Number   string
	Payer    string
	Phone    string
	MallName string
	MallAddr string
	Room     string
	Amount   float64
	PaidOn   string
}

func renderReceipt(d receiptData) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, d.Title, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Generated: %s", timeutil.Now().Format(timeutil.DisplayLayout)), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Receipt "+d.Number, "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 7, fmt.Sprintf("Paid by: %s", d.Payer), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Phone: %s", d.Phone), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Mall: %s", d.MallName), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Address: %s", d.MallAddr), "RB", 1, "L", false, 0, "")
	if d.Room != "" {
		pdf.CellFormat(190, 7, fmt.Sprintf("Room: %s", d.Room), "LRB", 1, "L", false, 0, "")
	}
	pdf.Ln(5)

	pdf.SetFont("Arial", "B", 12)
	pdf.SetFillColor(200, 255, 200)
	pdf.CellFormat(95, 10, fmt.Sprintf("Amount: %.2f ETB", d.Amount), "1", 0, "C", true, 0, "")
	pdf.CellFormat(95, 10, fmt.Sprintf("Paid on: %s", d.PaidOn), "1", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
