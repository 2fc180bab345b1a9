package timezone

import (
	"fmt"
	"time"

	"smashroom/config"
	"smashroom/shared/constant"

	"github.com/rs/zerolog/log"
)

var (
	appLocation *time.Location
)

func init() {
	if err := SetLocation(config.Get().App.Timezone); err != nil {
		log.Error().
			Err(err).
			Msg("Failed to load timezone, falling back to UTC. Please use standard timezone names like 'Europe/Warsaw', 'UTC'")
	}
}

// SetLocation switches the application timezone. An empty name means UTC.
func SetLocation(name string) error {
	if name == "" {
		log.Warn().Msg("No timezone configured, using UTC as default")

		appLocation = time.UTC

		return nil
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		appLocation = time.UTC

		return fmt.Errorf("load timezone %q: %w", name, err)
	}

	appLocation = loc

	log.Debug().Str("timezone", name).Msg("Application timezone initialized")

	return nil
}

// Now returns the current time in the application timezone
func Now() time.Time {
	return time.Now().In(GetLocation())
}

// ToAppTime converts a time to the application timezone
func ToAppTime(t time.Time) time.Time {
	return t.In(GetLocation())
}

// GetLocation returns the current application timezone location
func GetLocation() *time.Location {
	if appLocation == nil {
		return time.UTC
	}

	return appLocation
}

// Parse parses a time string in the application timezone
func Parse(layout, value string) (time.Time, error) {
	return time.ParseInLocation(layout, value, GetLocation())
}

// ParseDay parses a strict YYYY-MM-DD calendar date at midnight in the application timezone.
func ParseDay(value string) (time.Time, error) {
	day, err := Parse(constant.DayFormat, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("date must be in YYYY-MM-DD format: %w", err)
	}

	return day, nil
}

// Today returns midnight of the current day in the application timezone.
func Today() time.Time {
	y, m, d := Now().Date()

	return time.Date(y, m, d, 0, 0, 0, 0, GetLocation())
}

// Format formats a time in the application timezone
func Format(t time.Time, layout string) string {
	return ToAppTime(t).Format(layout)
}
