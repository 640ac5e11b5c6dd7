package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	intconfig "github.com/anudeep652/bus-booking-system-sub001/internal/config"
	router "github.com/anudeep652/bus-booking-system-sub001/internal/http"
	"github.com/anudeep652/bus-booking-system-sub001/internal/repositories"
	"github.com/anudeep652/bus-booking-system-sub001/internal/services"
)

func main() {
	env := intconfig.LoadEnv()
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	db := intconfig.ConnectDB(env.DBDSN)
	defer intconfig.CloseDB()

	if err := repositories.EnsureSchema(context.Background(), db); err != nil {
		log.Fatalf("schema migration failed: %v", err)
	}

	rdb := intconfig.ConnectRedis(env.RedisAddr)
	defer rdb.Close()

	r, _ := router.NewRouter(env, db, rdb)

	// expiry sweep: bookings unpaid past the window lose their seats
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	expiry := services.PaymentService{
		Payments: repositories.PaymentRepo{DB: db},
		Bookings: repositories.BookingRepo{DB: db},
		Ledger:   repositories.SeatRepo{DB: db},
		Cache:    rdb,
		Window:   env.PaymentWindow,
		Sweep:    env.ExpirySweep,
	}
	go expiry.RunExpirySweep(sweepCtx)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("server listening on %s", env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")
	stopSweep()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server shutdown failed: %v", err)
	}

	log.Println("server stopped cleanly")
}
