package doc

import (
	"strconv"
	"strings"
)

// This file defines unit conversion helpers. The engine works in
// millimeters; fonts are specified in points at the API boundary.

// Conversion constants between pt and mm.
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
)

// ParseLength parses a DSL length like "12pt", "4mm", "1.5cm" or "0.5in"
// and returns the value in millimeters. A bare number is taken as mm.
// Invalid input yields 0.
func ParseLength(value string) float64 {
	if value == "" {
		return 0
	}
	unit := ""
	for _, suffix := range []string{"mm", "cm", "in", "pt"} {
		if strings.HasSuffix(value, suffix) {
			unit = suffix
			break
		}
	}
	num := trimUnit(value)
	val, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	switch unit {
	case "cm":
		return val * 10
	case "in":
		return val * 25.4
	case "pt":
		return val * PtToMm
	default: // "mm" or bare number
		return val
	}
}

// ParseDimension parses a length that may also be a percentage of a
// reference size, e.g. "50%" of the usable width.
func ParseDimension(value string, reference float64) float64 {
	if value == "" {
		return 0
	}
	if strings.HasSuffix(value, "%") {
		num := strings.TrimSuffix(value, "%")
		if f, err := strconv.ParseFloat(num, 64); err == nil {
			return reference * f / 100
		}
		return 0
	}
	return ParseLength(value)
}

func trimUnit(value string) string {
	for _, suffix := range []string{"pt", "mm", "cm", "in", "%"} {
		if strings.HasSuffix(value, suffix) {
			return strings.TrimSuffix(value, suffix)
		}
	}
	return value
}

func normalizePreset(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}
