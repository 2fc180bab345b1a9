// Package timezone pins every wall-clock computation to the application timezone.
//
// The zone comes from APP_TIMEZONE and is loaded when the package is imported:
//
//	now := timezone.Now()
//	day, err := timezone.ParseDay("2024-07-16")
//
// Use IANA names such as "Europe/Warsaw" or "UTC".
package timezone
