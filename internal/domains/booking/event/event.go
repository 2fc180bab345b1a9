// Package event publishes booking lifecycle changes to Kafka and audits them on the consumer side.
package event

//go:generate go run go.uber.org/mock/mockgen -source=./event.go -destination=../mocks/event_mock.go -package=mocks

import (
	"context"
	"strconv"
	"time"

	"smashroom/config"
	"smashroom/infras/kafka"
	"smashroom/infras/metrics"
	"smashroom/infras/otel"
	"smashroom/internal/domains/booking/model/dto"
	"smashroom/shared/constant"
	"smashroom/shared/timezone"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
)

const (
	TypeCreated        = "booking.created"
	TypeUpdated        = "booking.updated"
	TypePaymentChanged = "booking.payment_changed"
	TypeDeleted        = "booking.deleted"

	headerEventType = "event-type"
)

type Event struct {
	Type          string  `json:"type"`
	BookingID     int64   `json:"bookingId"`
	RoomID        int64   `json:"roomId"`
	PackageID     int64   `json:"packageId"`
	Date          string  `json:"date"`
	StartTime     string  `json:"startTime"`
	EndTime       string  `json:"endTime"`
	Status        string  `json:"status"`
	PaymentStatus string  `json:"paymentStatus"`
	PaidAmount    float64 `json:"paidAmount"`
	Actor         string  `json:"actor,omitempty"`
	OccurredAt    string  `json:"occurredAt"`
}

func NewEvent(eventType, actor string, booking dto.BookingResponse) Event {
	return Event{
		Type:          eventType,
		BookingID:     booking.ID,
		RoomID:        booking.RoomID,
		PackageID:     booking.PackageID,
		Date:          booking.Date,
		StartTime:     booking.StartTime,
		EndTime:       booking.EndTime,
		Status:        booking.Status,
		PaymentStatus: booking.PaymentStatus,
		PaidAmount:    booking.PaidAmount,
		Actor:         actor,
		OccurredAt:    timezone.Format(timezone.Now(), time.RFC3339),
	}
}

type Publisher interface {
	Publish(ctx context.Context, eventType string, booking dto.BookingResponse)
}

type publisherImpl struct {
	client kafka.Client
	cfg    *config.Config
	otel   otel.Otel
}

// NewPublisher returns a publisher that drops events when Kafka is disabled.
func NewPublisher(client kafka.Client, cfg *config.Config, otel otel.Otel) Publisher {
	return &publisherImpl{
		client: client,
		cfg:    cfg,
		otel:   otel,
	}
}

// Publish sends in the background. Failures are logged and never reach the caller.
func (p *publisherImpl) Publish(ctx context.Context, eventType string, booking dto.BookingResponse) {
	if !p.cfg.Kafka.Enable || p.client == nil {
		return
	}

	actor, _ := ctx.Value(constant.ContextKeyUserID).(string)
	evt := NewEvent(eventType, actor, booking)

	go func() {
		c, scope := p.otel.NewScope(context.WithoutCancel(ctx), constant.OtelEventScopeName, constant.OtelEventScopeName+".Publish")
		defer scope.End()

		scope.SetAttribute("event.type", eventType)

		err := p.client.SendMessages(c, p.cfg.Kafka.Topic.BookingEvents, kafka.Message{
			Key:     strconv.FormatInt(booking.ID, 10),
			Value:   evt,
			Headers: map[string]string{headerEventType: eventType},
		})
		if err != nil {
			scope.TraceError(err)
			log.Error().Err(err).Str("type", eventType).Int64("bookingId", booking.ID).Msg("failed to publish booking event")

			return
		}

		metrics.IncBookingEvent("published", eventType)
	}()
}

type Listener struct {
	client kafka.Client
	cfg    *config.Config
	otel   otel.Otel
}

func NewListener(client kafka.Client, cfg *config.Config, otel otel.Otel) *Listener {
	return &Listener{
		client: client,
		cfg:    cfg,
		otel:   otel,
	}
}

// Listen blocks until ctx is done, writing one audit line per booking event.
func (l *Listener) Listen(ctx context.Context) {
	l.client.Consume(ctx, l.cfg.Kafka.ConsumerGroup, l.cfg.Kafka.Topic.BookingEvents, l.Handle)
}

// Handle audits one message. Undecodable payloads are logged and committed so they do not block the partition.
func (l *Listener) Handle(ctx context.Context, message kafkaGo.Message) error {
	ctx, scope := l.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".Handle")
	defer scope.End()

	key, evt, err := kafka.DecodeKafkaMessage[Event](message)
	if err != nil {
		scope.TraceError(err)
		log.Warn().Err(err).Str("key", string(message.Key)).Msg("skipping malformed booking event")

		return nil
	}

	scope.SetAttribute("event.type", evt.Type)

	log.Info().
		Str("key", key).
		Str("type", evt.Type).
		Int64("bookingId", evt.BookingID).
		Int64("roomId", evt.RoomID).
		Str("date", evt.Date).
		Str("slot", evt.StartTime+"-"+evt.EndTime).
		Str("status", evt.Status).
		Str("paymentStatus", evt.PaymentStatus).
		Str("actor", evt.Actor).
		Msg("booking event")

	metrics.IncBookingEvent("consumed", evt.Type)

	return nil
}
