package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/samudra-erp/samudra-erp/internal/access"
	"github.com/samudra-erp/samudra-erp/internal/company"
	"github.com/samudra-erp/samudra-erp/internal/dashboard"
	"github.com/samudra-erp/samudra-erp/internal/fulfillment"
	"github.com/samudra-erp/samudra-erp/internal/invoicing"
	"github.com/samudra-erp/samudra-erp/internal/orders"
	"github.com/samudra-erp/samudra-erp/internal/returns"
	"github.com/samudra-erp/samudra-erp/internal/shared"
	"github.com/samudra-erp/samudra-erp/internal/terms"
	"github.com/samudra-erp/samudra-erp/internal/users"
	"github.com/samudra-erp/samudra-erp/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger        *slog.Logger
	Config        *Config
	TokenResolver TokenResolver
	Idempotency   *shared.IdempotencyStore

	UsersHandler     *users.Handler
	AccessHandler    *access.Handler
	TermsHandler     *terms.Handler
	CompanyHandler   *company.Handler
	DashboardHandler *dashboard.Handler

	PurchaseOrders *orders.Handler
	SalesOrders    *orders.Handler

	GoodsReceipts  *fulfillment.Handler
	DeliveryOrders *fulfillment.Handler

	PurchaseInvoices *invoicing.Handler
	SalesInvoices    *invoicing.Handler

	PurchaseReturns *returns.Handler
	SalesReturns    *returns.Handler

	JobsHandler *jobs.Handler
}

// NewRouter constructs the chi.Router with application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(api chi.Router) {
		api.Route("/auth", params.UsersHandler.MountAuth)

		api.Group(func(protected chi.Router) {
			protected.Use(RequireAuth(params.Logger, params.TokenResolver))
			if params.Idempotency != nil {
				protected.Use(Idempotency(params.Idempotency))
			}

			protected.Route("/users", params.UsersHandler.MountRoutes)
			protected.Route("/roles", params.AccessHandler.MountRoles)
			protected.Route("/modules", params.AccessHandler.MountModules)
			protected.Route("/role-permissions", params.AccessHandler.MountRolePermissions)
			protected.Route("/user-groups", params.AccessHandler.MountGroups)

			protected.Route("/payment-terms", params.TermsHandler.MountRoutes)
			protected.Route("/company", params.CompanyHandler.MountRoutes)
			protected.Route("/dashboard", params.DashboardHandler.MountRoutes)

			protected.Route("/purchase-orders", params.PurchaseOrders.MountRoutes)
			protected.Route("/sales-orders", params.SalesOrders.MountRoutes)

			protected.Route("/goods-receipts", params.GoodsReceipts.MountRoutes)
			protected.Route("/delivery-orders", params.DeliveryOrders.MountRoutes)

			protected.Route("/purchase-invoices", params.PurchaseInvoices.MountRoutes)
			protected.Route("/sales-invoices", params.SalesInvoices.MountRoutes)

			protected.Route("/purchase-returns", params.PurchaseReturns.MountRoutes)
			protected.Route("/sales-returns", params.SalesReturns.MountRoutes)

			if params.JobsHandler != nil {
				protected.Route("/jobs", params.JobsHandler.MountRoutes)
			}
		})
	})

	return r
}
