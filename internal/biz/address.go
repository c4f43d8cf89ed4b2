package biz

import "regexp"

// The detail address is free text; the building ("동") and unit ("호") tokens
// are the first digit run directly followed by each marker. The two scans are
// independent: a missing building token does not prevent finding a unit token.
var (
	buildingPattern = regexp.MustCompile(`(\d+)동`)
	unitPattern     = regexp.MustCompile(`(\d+)호`)
)

// ParseUnitAddress extracts the building and unit tokens from a free-text
// detail address. Returned tokens keep their marker suffix ("101동", "202호").
// Absent tokens yield empty strings; malformed input never produces an error.
func ParseUnitAddress(addr string) (building, unit string) {
	if addr == "" {
		return "", ""
	}

	if m := buildingPattern.FindStringSubmatch(addr); m != nil {
		building = m[1] + "동"
	}
	if m := unitPattern.FindStringSubmatch(addr); m != nil {
		unit = m[1] + "호"
	}

	return building, unit
}
