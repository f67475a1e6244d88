package calendar

import "time"

// Client devices report their own zone name and get it wrong often enough
// (and maliciously enough) that anything suspicious degrades to UTC rather
// than failing the request.
const maxZoneNameLen = 64

// NormalizeTimezone returns a valid IANA zone name for any input.
// Empty, overlong, or unknown names all come back as "UTC".
func NormalizeTimezone(name string) string {
	if name == "" || name == "Local" || len(name) > maxZoneNameLen {
		return "UTC"
	}
	if _, err := time.LoadLocation(name); err != nil {
		return "UTC"
	}
	return name
}
