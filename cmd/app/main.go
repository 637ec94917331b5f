package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anirudhpn/eventbooking/api"
	"github.com/anirudhpn/eventbooking/config"
	"github.com/anirudhpn/eventbooking/internal/bootstrap"
	"github.com/anirudhpn/eventbooking/internal/cache"
	"github.com/anirudhpn/eventbooking/internal/kafka"
	"github.com/anirudhpn/eventbooking/internal/repository"
	"github.com/anirudhpn/eventbooking/internal/service/booking"
	"github.com/anirudhpn/eventbooking/internal/service/catalog"
	"github.com/anirudhpn/eventbooking/internal/service/coupon"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.EventsCacheTTLSeconds)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	eventRepo := repository.NewEventRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	couponRepo := repository.NewCouponRepository(pool)
	engagementRepo := repository.NewEngagementRepository(pool)

	catalogService := catalog.NewCatalogService(eventRepo, redisCache)
	couponService := coupon.NewCouponService(couponRepo)
	bookingService := booking.NewBookingService(
		bookingRepo,
		eventRepo,
		engagementRepo,
		couponService,
		redisCache,
		producer,
		cfg.Kafka.BookingTopic,
		time.Duration(cfg.Booking.StorageTimeoutSeconds)*time.Second,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		booking.WithSeatRestoreOnCancel(cfg.Booking.RestoreSeatsOnCancel),
	)

	eventHandler := api.NewEventHandler(catalogService, bookingService)
	bookingHandler := api.NewBookingHandler(bookingService)
	couponHandler := api.NewCouponHandler(couponService)

	if err := bootstrap.Run(ctx, cfg, eventHandler, bookingHandler, couponHandler); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
