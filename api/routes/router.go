package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/glambook/glambook-backend/api/controllers"
	"github.com/glambook/glambook-backend/api/middleware"
	"github.com/glambook/glambook-backend/internal/bookings"
	"github.com/glambook/glambook-backend/internal/cart"
	checkoutsvc "github.com/glambook/glambook-backend/internal/checkout"
	"github.com/glambook/glambook-backend/internal/ledger"
	"github.com/glambook/glambook-backend/internal/notifications"
	"github.com/glambook/glambook-backend/pkg/config"
	"github.com/glambook/glambook-backend/pkg/logger"
	"github.com/glambook/glambook-backend/pkg/redis"
)

// RouterParams carries everything the HTTP surface needs.
type RouterParams struct {
	Config        *config.Config
	Logger        *logger.Logger
	DB            controllers.Pinger
	Redis         *redis.Client
	Cart          cart.Service
	Checkout      checkoutsvc.Service
	Bookings      bookings.Service
	Ledger        ledger.Service
	Notifications notifications.Service
}

func NewRouter(params RouterParams) http.Handler {
	cfg := params.Config
	logg := params.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, params.DB, params.Redis))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Idempotency(params.Redis, logg))

		r.Route("/partner-cart", func(r chi.Router) {
			r.Post("/add-item", controllers.AddCartItem(params.Cart, logg))
			r.Get("/{partnerId}", controllers.FetchCart(params.Cart, logg))
			r.Post("/item/increment", controllers.IncrementCartItem(params.Cart, logg))
			r.Post("/item/decrement", controllers.DecrementCartItem(params.Cart, logg))
			r.Post("/item/remove-item", controllers.RemoveCartItem(params.Cart, logg))
			r.Post("/book", controllers.BookCart(params.Checkout, logg))
		})

		r.Route("/partner-bookings", func(r chi.Router) {
			r.Post("/book", controllers.BookStockItem(params.Bookings, logg))
			r.Get("/{partnerId}", controllers.ListBookings(params.Bookings, logg))
		})

		r.Route("/partner-wallet", func(r chi.Router) {
			r.Post("/recharge", controllers.RechargeWallet(params.Ledger, logg))
			r.Post("/update-transaction-status", controllers.UpdateTransactionStatus(params.Ledger, logg))
			r.Post("/fetch", controllers.FetchWallet(params.Ledger, logg))
			r.Post("/fetch-transactions", controllers.FetchTransactions(params.Ledger, logg))
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/{partnerId}", controllers.ListNotifications(params.Notifications, logg))
			r.Post("/{notificationId}/read", controllers.MarkNotificationRead(params.Notifications, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(params.Notifications, logg))
		})
	})

	return r
}
