package di

import (
	"smashroom/infras/kafka"
	"smashroom/infras/otel"
	"smashroom/internal/domains/booking/event"
	"smashroom/transport/http"
)

// Service is everything cmd/app starts and stops.
type Service struct {
	HTTP     *http.HTTP
	Listener *event.Listener
	Kafka    kafka.Client
	Otel     otel.Otel
}
