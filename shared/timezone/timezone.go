package timezone

import (
	"sync"
	"time"

	"skybook/config"

	"github.com/rs/zerolog/log"
)

const defaultZone = "UTC"

// location loads APP_TIMEZONE on first use. An empty or unknown zone falls back to UTC.
var location = sync.OnceValue(func() *time.Location {
	zone := config.Get().App.Timezone
	if zone == "" {
		log.Warn().Msg("No timezone configured, using UTC")

		return time.UTC
	}

	loc, err := time.LoadLocation(zone)
	if err != nil {
		log.Error().Err(err).Str("timezone", zone).Msg("Unknown timezone, falling back to " + defaultZone)

		return time.UTC
	}

	log.Info().Str("timezone", loc.String()).Msg("Application timezone initialized")

	return loc
})

// Now returns the current time in the application timezone.
func Now() time.Time {
	return time.Now().In(location())
}

func ToAppTime(t time.Time) time.Time {
	return t.In(location())
}

func GetLocation() *time.Location {
	return location()
}

// Parse reads value as wall-clock time in the application timezone.
func Parse(layout, value string) (time.Time, error) {
	return time.ParseInLocation(layout, value, location()) //nolint:wrapcheck
}

func Format(t time.Time, layout string) string {
	return ToAppTime(t).Format(layout)
}
