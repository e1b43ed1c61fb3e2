// Package timezone pins every timestamp the service produces or parses to one IANA zone,
// read from APP_TIMEZONE the first time any function is called. Flight departure windows,
// refund cutoffs and statistics periods are all computed in this zone.
//
//	departs, err := timezone.Parse(time.DateTime, "2025-01-31 06:45:00")
//	label := timezone.Format(departs, time.RFC3339)
package timezone
