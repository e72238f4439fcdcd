package sapling

import (
	"strings"

	"github.com/tdewolff/parse/v2/strconv"
)

// Absolute unit factors relative to one user-space pixel.
// See https://www.w3.org/TR/css3-values/#absolute-lengths.
var absoluteUnits = map[string]float64{
	"px": 1,
	"pt": 1.25,
	"pc": 15,
	"mm": 3.543307,
	"cm": 35.43307,
	"in": 90,
}

// ResolveLength converts a declarative length expression into a device-space
// scalar.
//
// An empty expression yields defaultValue. A percentage multiplies reference
// and is not scaled. "em" and "rem" multiply fontSize; absolute units use the
// CSS factors; unit-less numbers and unknown units are taken as user-space
// pixels. Everything but percentages is then multiplied by scale. Input with
// no leading number yields defaultValue.
func ResolveLength(expr string, reference, defaultValue, scale, fontSize float64) float64 {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return defaultValue
	}
	num, n := strconv.ParseFloat([]byte(expr))
	if n == 0 || !finite(num) {
		return defaultValue
	}
	unit := strings.TrimSpace(expr[n:])
	switch unit {
	case "%":
		return num / 100 * reference
	case "em", "rem":
		return num * fontSize * scale
	}
	if f, ok := absoluteUnits[unit]; ok {
		return num * f * scale
	}
	return num * scale
}
