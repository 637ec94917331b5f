package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anirudhpn/eventbooking/config"
	"github.com/anirudhpn/eventbooking/internal/email"
	"github.com/anirudhpn/eventbooking/internal/kafka"
	"github.com/anirudhpn/eventbooking/internal/repository"
	"github.com/anirudhpn/eventbooking/internal/service/coupon"
	"github.com/jackc/pgx/v5/pgxpool"
	kafkaGo "github.com/segmentio/kafka-go"
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	couponService := coupon.NewCouponService(repository.NewCouponRepository(pool))

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	emailSender := email.NewSender()

	go func() {
		if err := consumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
			var event kafka.BookingEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				log.Printf("decode event error: %v", err)
				return nil
			}
			return emailSender.Send(ctx, event)
		}); err != nil {
			log.Printf("consumer stopped: %v", err)
		}
	}()

	sweepTicker := time.NewTicker(time.Duration(cfg.Worker.CouponSweepMinutes) * time.Minute)
	defer sweepTicker.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-sweepTicker.C:
			deactivated, err := couponService.DeactivateExpired(ctx)
			if err != nil {
				log.Printf("deactivate expired coupons error: %v", err)
				continue
			}
			if deactivated > 0 {
				log.Printf("deactivated %d expired coupons", deactivated)
			}
		case s := <-sig:
			log.Printf("received signal %v, shutting down", s)
			return
		}
	}
}
