package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/anirudhpn/eventbooking/api"
	"github.com/anirudhpn/eventbooking/config"
	"github.com/gin-gonic/gin"
)

// Run starts the HTTP server and blocks until the context is canceled or the
// server fails.
func Run(ctx context.Context, cfg *config.Config, eventHandler *api.EventHandler, bookingHandler *api.BookingHandler, couponHandler *api.CouponHandler) error {
	router := gin.Default()

	v1 := router.Group("/api/v1")
	eventHandler.Register(v1.Group("/events"))
	bookingHandler.Register(v1.Group("/bookings"))
	couponHandler.Register(v1.Group("/coupons"))

	srv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}
