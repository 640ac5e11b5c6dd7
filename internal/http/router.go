package api

import (
	"database/sql"
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	intconfig "github.com/anudeep652/bus-booking-system-sub001/internal/config"
	h "github.com/anudeep652/bus-booking-system-sub001/internal/http/handlers"
	"github.com/anudeep652/bus-booking-system-sub001/internal/http/middleware"
	"github.com/anudeep652/bus-booking-system-sub001/internal/repositories"
	"github.com/anudeep652/bus-booking-system-sub001/internal/services"
)

// NewRouter wires repositories, services and handlers onto a Gin engine.
// The reservation service is shared so per-trip locks live for the process
// lifetime.
func NewRouter(env intconfig.Env, db *sql.DB, rdb *redis.Client) (*gin.Engine, *services.ReservationService) {
	h.ConfigureAuth(env.JWTSecret)

	tripRepo := repositories.TripRepo{DB: db}
	seatRepo := repositories.SeatRepo{DB: db}
	bookingRepo := repositories.BookingRepo{DB: db}
	paymentRepo := repositories.PaymentRepo{DB: db}

	reservations := services.NewReservationService(seatRepo, tripRepo, bookingRepo, paymentRepo, rdb, env.SeatCacheTTL)

	bookingHandler := h.BookingHandler{Reservations: reservations, Bookings: bookingRepo, Trips: tripRepo}
	tripHandler := h.TripHandler{Trips: tripRepo, Reservations: reservations}
	holdHandler := h.HoldHandler{Holds: services.SeatHoldService{Redis: rdb, TTL: env.SeatHoldTTL}}
	paymentHandler := h.PaymentHandler{Payments: paymentRepo, Bookings: bookingRepo, Ledger: seatRepo}

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS(env.CORSOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		panic(err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	auth := middleware.RequireAuth(env.JWTSecret)

	// legacy path consumed by the frontend
	r.POST("/booking/book", auth, bookingHandler.Book)

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)

		authGroup := api.Group("/auth")
		authGroup.POST("/login", h.Login)
		authGroup.POST("/register", h.Register)

		trips := api.Group("/trips")
		trips.GET("", tripHandler.List)
		trips.GET("/:id", tripHandler.GetByID)
		trips.GET("/:id/seats", tripHandler.Seats)
		trips.POST("", auth, tripHandler.Create)
		trips.POST("/:id/holds", auth, holdHandler.Create)
		trips.DELETE("/:id/holds/:token", auth, holdHandler.Release)

		bookings := api.Group("/bookings", auth)
		bookings.POST("", bookingHandler.Book)
		bookings.GET("", bookingHandler.ListMine)
		bookings.GET("/:id", bookingHandler.GetByID)
		bookings.POST("/:id/cancel", bookingHandler.Cancel)
		bookings.GET("/:id/e-ticket", bookingHandler.ETicket)
		bookings.GET("/:id/payment", paymentHandler.GetByBooking)

		payments := api.Group("/payments", auth)
		payments.POST("/:id/confirm", paymentHandler.Confirm)
		payments.POST("/:id/fail", paymentHandler.Fail)
	}

	return r, reservations
}
