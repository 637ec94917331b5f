package email

import (
	"context"
	"fmt"

	"github.com/anirudhpn/eventbooking/internal/kafka"
)

type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	fmt.Printf("send email to user %s about %s for event %s (booking %s)\n", event.UserID, event.Type, event.EventID, event.BookingID)
	return nil
}
