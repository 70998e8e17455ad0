package router

import (
	"net/http"

	"storefront/internal/config"
	"storefront/internal/handler"
	"storefront/internal/middleware"

	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers mounted by the router.
type Handlers struct {
	Products *handler.ProductHandler
	Carts    *handler.CartHandler
	Orders   *handler.OrderHandler
	Profiles *handler.ProfileHandler
	Geocode  *handler.GeocodeHandler
	Pages    *handler.PageHandler
	Receipts *handler.ReceiptHandler
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, server config.ServerConfig, auth config.AuthConfig, logger zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Catalogue and ratings
	mux.HandleFunc("GET /api/products", h.Products.List)
	mux.HandleFunc("GET /api/products/{id}", h.Products.GetByID)
	mux.HandleFunc("GET /api/products/{id}/related", h.Products.Related)
	mux.HandleFunc("GET /api/products/{id}/ratings", h.Products.Ratings)
	mux.HandleFunc("POST /api/products/{id}/ratings", h.Products.SubmitRating)

	// Cart
	mux.HandleFunc("GET /api/cart", h.Carts.Get)
	mux.HandleFunc("POST /api/cart/items", h.Carts.AddItem)
	mux.HandleFunc("DELETE /api/cart", h.Carts.Clear)

	// Checkout
	mux.HandleFunc("POST /api/checkout", h.Orders.PlaceOnline)
	mux.HandleFunc("POST /api/checkout/cod", h.Orders.PlaceCOD)
	mux.HandleFunc("POST /api/checkout/payment", h.Orders.PaymentIntent)

	// Order history and receipts
	mux.HandleFunc("GET /api/orders", h.Orders.List)
	mux.HandleFunc("GET /api/orders/{id}", h.Orders.GetByID)
	mux.HandleFunc("GET /api/receipts", h.Receipts.List)
	mux.HandleFunc("GET /api/receipts/{id}/download", h.Receipts.Download)

	// Buyer profile and address lookup
	mux.HandleFunc("GET /api/profile", h.Profiles.Get)
	mux.HandleFunc("PUT /api/profile", h.Profiles.Save)
	mux.HandleFunc("GET /api/geocode", h.Geocode.Forward)
	mux.HandleFunc("GET /api/geocode/reverse", h.Geocode.Reverse)

	// Policy pages
	mux.HandleFunc("GET /api/pages/{slug}", h.Pages.Get)

	// RequestIDs -> Recovery -> Logging -> CORS -> Authenticate
	return middleware.Chain(mux,
		middleware.RequestIDs,
		middleware.Recovery(logger),
		middleware.Logging(logger),
		middleware.CORS(server.AllowedOrigins),
		middleware.Authenticate(auth.JWTSecret, auth.Issuer, logger),
	)
}
