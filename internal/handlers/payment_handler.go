package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"mall-backend/internal/middleware"
	"mall-backend/internal/models"
	"mall-backend/internal/services"
	"mall-backend/pkg/utils"
)

type PaymentHandler struct {
	Service   *services.PaymentService
	Receipts  *services.ReceiptService
	Dashboard *services.DashboardService
}

func NewPaymentHandler(service *services.PaymentService, receipts *services.ReceiptService, dashboard *services.DashboardService) *PaymentHandler {
	return &PaymentHandler{Service: service, Receipts: receipts, Dashboard: dashboard}
}

// FirstPay completes the acceptance workflow: records the first
// payment, activates the tenancy and generates the lease.
func (h *PaymentHandler) FirstPay(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	var req models.FirstPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	rent, err := h.Service.MakeFirstPayment(r.Context(), userID, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	h.invalidateDashboard(r, rent.MallID)
	utils.JSON(w, http.StatusCreated, rent)
}

// Pay records a recurring rent payment.
func (h *PaymentHandler) Pay(w http.ResponseWriter, r *http.Request) {
	var req models.PayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	payment, err := h.Service.RecordPayment(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if mallID, ok := middleware.GetMallIDFromContext(r.Context()); ok {
		h.invalidateDashboard(r, mallID)
	}
	utils.JSON(w, http.StatusCreated, payment)
}

func (h *PaymentHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	mallID, ok := middleware.GetMallIDFromContext(r.Context())
	if !ok || mallID == 0 {
		utils.Error(w, http.StatusBadRequest, "No mall associated with this account")
		return
	}

	payments, err := h.Service.ListPaymentsByMall(r.Context(), mallID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, payments)
}

func (h *PaymentHandler) ListFirstpayments(w http.ResponseWriter, r *http.Request) {
	mallID, ok := middleware.GetMallIDFromContext(r.Context())
	if !ok || mallID == 0 {
		utils.Error(w, http.StatusBadRequest, "No mall associated with this account")
		return
	}

	payments, err := h.Service.ListFirstpaymentsByMall(r.Context(), mallID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, payments)
}

// History returns the authenticated tenant's own payments.
func (h *PaymentHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	payments, err := h.Service.ListPaymentsByUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, payments)
}

// NextPaymentDays tells the tenant how many days remain until the
// next rent is due. Negative means overdue.
func (h *PaymentHandler) NextPaymentDays(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	days, err := h.Service.NextPaymentDays(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]int{"daysLeft": days})
}

// Receipt streams a PDF receipt for a payment.
func (h *PaymentHandler) Receipt(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid payment ID")
		return
	}

	pdf, err := h.Receipts.PaymentReceipt(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writePDF(w, fmt.Sprintf("receipt-%d.pdf", id), pdf)
}

// FirstpaymentReceipt streams a PDF receipt for a first payment.
func (h *PaymentHandler) FirstpaymentReceipt(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid payment ID")
		return
	}

	pdf, err := h.Receipts.FirstPaymentReceipt(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writePDF(w, fmt.Sprintf("first-payment-receipt-%d.pdf", id), pdf)
}

func writePDF(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *PaymentHandler) invalidateDashboard(r *http.Request, mallID int) {
	if h.Dashboard != nil {
		h.Dashboard.Invalidate(r.Context(), mallID)
	}
}
