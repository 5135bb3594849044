package api

import (
	"database/sql"
	"net/http"

	"github.com/rs/cors"

	"github.com/zalaj/garderoba/internal/cart"
	"github.com/zalaj/garderoba/internal/model"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, staging *cart.Staging, jwtSecret string) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	actorsHandler := &ActorsHandler{DB: db}
	itemsHandler := &ItemsHandler{DB: db}
	cartHandler := &CartHandler{DB: db, Staging: staging}
	checkoutHandler := &CheckoutHandler{DB: db, Staging: staging}
	returnsHandler := &ReturnsHandler{DB: db}
	loansHandler := &LoansHandler{DB: db}
	auditHandler := &AuditHandler{DB: db}

	authMW := AuthMiddleware(jwtSecret, db)
	manageCatalog := RequireCapability(model.CapManageCatalog)
	manageActors := RequireCapability(model.CapManageActors)
	review := RequireCapability(model.CapReviewReturns)
	viewAudit := RequireCapability(model.CapViewAudit)

	// Public: login.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Authenticated routes.
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))

	// Actors: read (all roles, borrower picker needs it), write (admin only).
	mux.Handle("GET /api/actors", authMW(http.HandlerFunc(actorsHandler.List)))
	mux.Handle("POST /api/actors", authMW(manageActors(http.HandlerFunc(actorsHandler.Create))))
	mux.Handle("GET /api/actors/{id}", authMW(manageActors(http.HandlerFunc(actorsHandler.Get))))
	mux.Handle("PUT /api/actors/{id}", authMW(manageActors(http.HandlerFunc(actorsHandler.Update))))
	mux.Handle("PUT /api/actors/{id}/password", authMW(manageActors(http.HandlerFunc(actorsHandler.ResetPassword))))
	mux.Handle("DELETE /api/actors/{id}", authMW(manageActors(http.HandlerFunc(actorsHandler.Delete))))

	// Catalog: read (all roles), write (catalog managers).
	mux.Handle("GET /api/items", authMW(http.HandlerFunc(itemsHandler.List)))
	mux.Handle("POST /api/items", authMW(manageCatalog(http.HandlerFunc(itemsHandler.Create))))
	mux.Handle("GET /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Get)))
	mux.Handle("PUT /api/items/{id}", authMW(manageCatalog(http.HandlerFunc(itemsHandler.Update))))
	mux.Handle("DELETE /api/items/{id}", authMW(manageCatalog(http.HandlerFunc(itemsHandler.Delete))))
	mux.Handle("PUT /api/items/{id}/image", authMW(manageCatalog(http.HandlerFunc(itemsHandler.UploadImage))))
	mux.Handle("GET /api/items/{id}/image", authMW(http.HandlerFunc(itemsHandler.GetImage)))
	mux.Handle("POST /api/items/{id}/variants", authMW(manageCatalog(http.HandlerFunc(itemsHandler.CreateVariant))))
	mux.Handle("GET /api/variants/{id}", authMW(http.HandlerFunc(itemsHandler.GetVariant)))
	mux.Handle("PUT /api/variants/{id}", authMW(manageCatalog(http.HandlerFunc(itemsHandler.UpdateVariant))))
	mux.Handle("POST /api/variants/{id}/stock", authMW(manageCatalog(http.HandlerFunc(itemsHandler.AdjustStock))))

	// Reservation staging (all roles).
	mux.Handle("GET /api/cart", authMW(http.HandlerFunc(cartHandler.List)))
	mux.Handle("POST /api/cart", authMW(http.HandlerFunc(cartHandler.Add)))
	mux.Handle("DELETE /api/cart/{variantID}", authMW(http.HandlerFunc(cartHandler.Remove)))
	mux.Handle("DELETE /api/cart", authMW(http.HandlerFunc(cartHandler.Clear)))

	// Checkout (all roles).
	mux.Handle("POST /api/checkout", authMW(http.HandlerFunc(checkoutHandler.Create)))

	// Loans and returns.
	mux.Handle("GET /api/loans", authMW(http.HandlerFunc(loansHandler.List)))
	mux.Handle("GET /api/loans/overdue", authMW(review(http.HandlerFunc(loansHandler.ListOverdue))))
	mux.Handle("GET /api/loans/{id}", authMW(http.HandlerFunc(loansHandler.Get)))
	mux.Handle("POST /api/loans/{id}/return", authMW(http.HandlerFunc(returnsHandler.SubmitEvidence)))
	mux.Handle("POST /api/loans/{id}/approve", authMW(review(http.HandlerFunc(returnsHandler.Approve))))
	mux.Handle("POST /api/loans/{id}/reject", authMW(review(http.HandlerFunc(returnsHandler.Reject))))
	mux.Handle("POST /api/loans/{id}/lost", authMW(manageCatalog(http.HandlerFunc(returnsHandler.MarkLost))))
	mux.Handle("GET /api/returns/pending", authMW(review(http.HandlerFunc(returnsHandler.ListPending))))
	mux.Handle("GET /api/evidence/{ref}", authMW(http.HandlerFunc(returnsHandler.GetEvidence)))

	// History.
	mux.Handle("GET /api/transactions", authMW(http.HandlerFunc(loansHandler.ListTransactions)))
	mux.Handle("GET /api/transactions/{id}", authMW(review(http.HandlerFunc(loansHandler.GetTransaction))))

	// Audit log (admin only).
	mux.Handle("GET /api/audit", authMW(viewAudit(http.HandlerFunc(auditHandler.List))))

	// The frontend is served from a different origin.
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
	})

	return c.Handler(mux)
}
