package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mall-backend/internal/handlers"
	"mall-backend/internal/middleware"
	"mall-backend/internal/models"
	"mall-backend/internal/notify"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	mallHandler *handlers.MallHandler,
	roomHandler *handlers.RoomHandler,
	postHandler *handlers.PostHandler,
	bidHandler *handlers.BidHandler,
	requestHandler *handlers.RequestHandler,
	acceptanceHandler *handlers.AcceptanceHandler,
	tenantHandler *handlers.TenantHandler,
	rentHandler *handlers.RentHandler,
	paymentHandler *handlers.PaymentHandler,
	notificationHandler *handlers.NotificationHandler,
	dashboardHandler *handlers.DashboardHandler,
	subscriptionHandler *handlers.SubscriptionHandler,
	gatewayHandler *handlers.GatewayHandler,
	totpHandler *handlers.TOTPHandler,
	healthHandler *handlers.HealthHandler,
	hub *notify.Hub,
	authMiddleware *middleware.AuthMiddleware,
	uploadDir string,
) *mux.Router {
	r := mux.NewRouter()

	owner := authMiddleware.RequireRole(models.RoleMallOwner, models.RoleAdmin)
	admin := authMiddleware.RequireRole(models.RoleAdmin)

	// Uploaded files (images, ID documents, lease copies)
	r.PathPrefix("/" + uploadDir + "/").Handler(http.StripPrefix("/"+uploadDir+"/", http.FileServer(http.Dir(uploadDir))))

	// Public API routes - Authentication
	r.HandleFunc("/api/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/api/auth/owner/register", authHandler.RegisterOwner).Methods("POST")
	r.HandleFunc("/api/auth/owner/login", authHandler.OwnerLogin).Methods("POST")
	r.HandleFunc("/api/auth/verify-2fa", authHandler.Verify2FA).Methods("POST")

	// Authenticated profile and 2FA management
	accountAPI := r.PathPrefix("/api/account").Subrouter()
	accountAPI.Use(authMiddleware.Authenticate)
	accountAPI.HandleFunc("/me", authHandler.Me).Methods("GET")
	accountAPI.HandleFunc("/2fa/setup", totpHandler.Setup).Methods("POST")
	accountAPI.HandleFunc("/2fa/enable", totpHandler.Enable).Methods("POST")
	accountAPI.HandleFunc("/2fa/disable", totpHandler.Disable).Methods("POST")

	// Malls
	mallsAPI := r.PathPrefix("/api/malls").Subrouter()
	mallsAPI.Use(authMiddleware.Authenticate)
	mallsAPI.HandleFunc("", mallHandler.List).Methods("GET")
	mallsAPI.HandleFunc("/mine", owner(http.HandlerFunc(mallHandler.MyMall)).ServeHTTP).Methods("GET")
	mallsAPI.HandleFunc("/setup", owner(http.HandlerFunc(mallHandler.SetupInfo)).ServeHTTP).Methods("POST")
	mallsAPI.HandleFunc("/floors", owner(http.HandlerFunc(mallHandler.ListFloors)).ServeHTTP).Methods("GET")
	mallsAPI.HandleFunc("/price-per-care", owner(http.HandlerFunc(mallHandler.ListPricePerCare)).ServeHTTP).Methods("GET")
	mallsAPI.HandleFunc("/price-per-care", owner(http.HandlerFunc(mallHandler.SetPricePerCare)).ServeHTTP).Methods("POST")
	mallsAPI.HandleFunc("/{id}", mallHandler.Get).Methods("GET")

	// Rooms
	roomsAPI := r.PathPrefix("/api/rooms").Subrouter()
	roomsAPI.Use(authMiddleware.Authenticate)
	roomsAPI.HandleFunc("", owner(http.HandlerFunc(roomHandler.Create)).ServeHTTP).Methods("POST")
	roomsAPI.HandleFunc("", owner(http.HandlerFunc(roomHandler.ListMine)).ServeHTTP).Methods("GET")
	roomsAPI.HandleFunc("/categories", roomHandler.ListCategories).Methods("GET")
	roomsAPI.HandleFunc("/{id}", roomHandler.Get).Methods("GET")
	roomsAPI.HandleFunc("/{id}/banner", owner(http.HandlerFunc(roomHandler.SetBanner)).ServeHTTP).Methods("POST")

	// Posts (public feed is open, management is owner/admin)
	r.HandleFunc("/api/posts", postHandler.ListApproved).Methods("GET")
	postsAPI := r.PathPrefix("/api/posts").Subrouter()
	postsAPI.Use(authMiddleware.Authenticate)
	postsAPI.HandleFunc("", owner(http.HandlerFunc(postHandler.Create)).ServeHTTP).Methods("POST")
	postsAPI.HandleFunc("/pending", admin(http.HandlerFunc(postHandler.ListPending)).ServeHTTP).Methods("GET")
	postsAPI.HandleFunc("/mine", owner(http.HandlerFunc(postHandler.ListMine)).ServeHTTP).Methods("GET")
	postsAPI.HandleFunc("/{id}", postHandler.Get).Methods("GET")
	postsAPI.HandleFunc("/{id}/approve", admin(http.HandlerFunc(postHandler.Approve)).ServeHTTP).Methods("PUT")
	postsAPI.HandleFunc("/{postId}/bids", owner(http.HandlerFunc(bidHandler.ListByPost)).ServeHTTP).Methods("GET")
	postsAPI.HandleFunc("/{postId}/requests", owner(http.HandlerFunc(requestHandler.ListByPost)).ServeHTTP).Methods("GET")

	// Bids
	bidsAPI := r.PathPrefix("/api/bids").Subrouter()
	bidsAPI.Use(authMiddleware.Authenticate)
	bidsAPI.HandleFunc("", bidHandler.Place).Methods("POST")
	bidsAPI.HandleFunc("/mine", bidHandler.ListMine).Methods("GET")
	bidsAPI.HandleFunc("/{id}/accept", owner(http.HandlerFunc(acceptanceHandler.AcceptBid)).ServeHTTP).Methods("PUT")
	bidsAPI.HandleFunc("/{id}/decline", owner(http.HandlerFunc(acceptanceHandler.DeclineBid)).ServeHTTP).Methods("PUT")

	// Requests
	requestsAPI := r.PathPrefix("/api/requests").Subrouter()
	requestsAPI.Use(authMiddleware.Authenticate)
	requestsAPI.HandleFunc("", requestHandler.Place).Methods("POST")
	requestsAPI.HandleFunc("/mine", requestHandler.ListMine).Methods("GET")
	requestsAPI.HandleFunc("/{id}/accept", owner(http.HandlerFunc(acceptanceHandler.AcceptRequest)).ServeHTTP).Methods("PUT")
	requestsAPI.HandleFunc("/{id}/decline", owner(http.HandlerFunc(acceptanceHandler.DeclineRequest)).ServeHTTP).Methods("PUT")

	// Accepted users
	acceptedAPI := r.PathPrefix("/api/accepted-users").Subrouter()
	acceptedAPI.Use(authMiddleware.Authenticate)
	acceptedAPI.HandleFunc("", owner(http.HandlerFunc(acceptanceHandler.ListMine)).ServeHTTP).Methods("GET")
	acceptedAPI.HandleFunc("/{id}", acceptanceHandler.Get).Methods("GET")

	// Tenants
	tenantsAPI := r.PathPrefix("/api/tenants").Subrouter()
	tenantsAPI.Use(authMiddleware.Authenticate)
	tenantsAPI.HandleFunc("", owner(http.HandlerFunc(tenantHandler.Register)).ServeHTTP).Methods("POST")
	tenantsAPI.HandleFunc("", owner(http.HandlerFunc(tenantHandler.List)).ServeHTTP).Methods("GET")
	tenantsAPI.HandleFunc("/{id}", owner(http.HandlerFunc(tenantHandler.Update)).ServeHTTP).Methods("PUT")

	// Rents
	rentsAPI := r.PathPrefix("/api/rents").Subrouter()
	rentsAPI.Use(authMiddleware.Authenticate)
	rentsAPI.HandleFunc("", owner(http.HandlerFunc(rentHandler.Assign)).ServeHTTP).Methods("POST")
	rentsAPI.HandleFunc("", owner(http.HandlerFunc(rentHandler.ListMine)).ServeHTTP).Methods("GET")
	rentsAPI.HandleFunc("/mine", rentHandler.MyRent).Methods("GET")
	rentsAPI.HandleFunc("/{id}", rentHandler.Get).Methods("GET")

	// Payments
	paymentsAPI := r.PathPrefix("/api/payments").Subrouter()
	paymentsAPI.Use(authMiddleware.Authenticate)
	paymentsAPI.HandleFunc("/first", paymentHandler.FirstPay).Methods("POST")
	paymentsAPI.HandleFunc("", paymentHandler.Pay).Methods("POST")
	paymentsAPI.HandleFunc("", owner(http.HandlerFunc(paymentHandler.ListMine)).ServeHTTP).Methods("GET")
	paymentsAPI.HandleFunc("/first", owner(http.HandlerFunc(paymentHandler.ListFirstpayments)).ServeHTTP).Methods("GET")
	paymentsAPI.HandleFunc("/history", paymentHandler.History).Methods("GET")
	paymentsAPI.HandleFunc("/next-due", paymentHandler.NextPaymentDays).Methods("GET")
	paymentsAPI.HandleFunc("/{id}/receipt", paymentHandler.Receipt).Methods("GET")
	paymentsAPI.HandleFunc("/first/{id}/receipt", paymentHandler.FirstpaymentReceipt).Methods("GET")
	paymentsAPI.HandleFunc("/initialize", gatewayHandler.Initialize).Methods("POST")

	// Notifications
	notificationsAPI := r.PathPrefix("/api/notifications").Subrouter()
	notificationsAPI.Use(authMiddleware.Authenticate)
	notificationsAPI.HandleFunc("", notificationHandler.ListMine).Methods("GET")
	notificationsAPI.HandleFunc("/{id}/read", notificationHandler.MarkRead).Methods("PUT")

	// Dashboard
	dashboardAPI := r.PathPrefix("/api/dashboard").Subrouter()
	dashboardAPI.Use(authMiddleware.Authenticate)
	dashboardAPI.HandleFunc("", owner(http.HandlerFunc(dashboardHandler.Stats)).ServeHTTP).Methods("GET")
	dashboardAPI.HandleFunc("/admin", admin(http.HandlerFunc(dashboardHandler.AdminStats)).ServeHTTP).Methods("GET")

	// Subscriptions (admin only)
	subscriptionsAPI := r.PathPrefix("/api/subscriptions").Subrouter()
	subscriptionsAPI.Use(authMiddleware.Authenticate)
	subscriptionsAPI.HandleFunc("", admin(http.HandlerFunc(subscriptionHandler.Create)).ServeHTTP).Methods("POST")
	subscriptionsAPI.HandleFunc("", admin(http.HandlerFunc(subscriptionHandler.List)).ServeHTTP).Methods("GET")
	subscriptionsAPI.HandleFunc("/owners", admin(http.HandlerFunc(subscriptionHandler.ListOwners)).ServeHTTP).Methods("GET")
	subscriptionsAPI.HandleFunc("/{mallId}", subscriptionHandler.Get).Methods("GET")

	// Realtime notification socket
	r.HandleFunc("/ws", hub.HandleWS).Methods("GET")

	// Health endpoint (no auth required - for probes)
	r.HandleFunc("/health", healthHandler.Check).Methods("GET")

	// Metrics endpoint (Prometheus format)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
