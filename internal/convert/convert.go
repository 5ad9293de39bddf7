// Package convert implements the unit converter: three categories of units
// converted through a common base unit per category, results rounded to four
// decimals.
package convert

import (
	"errors"
	"fmt"
	"math"
)

// Category groups units that convert among each other.
type Category string

const (
	Length      Category = "length"
	Weight      Category = "weight"
	Temperature Category = "temperature"
)

// ErrUnsupported is returned for an unknown category or unit pair. The
// original silently kept the previous result in this case; an explicit error
// replaces that.
var ErrUnsupported = errors.New("unsupported conversion")

// Linear categories convert via a factor to the category's base unit
// (metre, gram), so every pair is derivable without a pairwise table.
var linearFactors = map[Category]map[string]float64{
	Length: {
		"m":    1,
		"km":   1000,
		"mile": 1609.344,
		"inch": 0.0254,
		"ft":   0.3048,
		"cm":   0.01,
	},
	Weight: {
		"kg": 1000,
		"g":  1,
		"lb": 453.592,
		"oz": 28.3495,
	},
}

// Temperature is affine, not linear; each unit maps to and from celsius.
type affine struct {
	toCelsius   func(float64) float64
	fromCelsius func(float64) float64
}

var temperatureUnits = map[string]affine{
	"celsius": {
		toCelsius:   func(v float64) float64 { return v },
		fromCelsius: func(v float64) float64 { return v },
	},
	"fahrenheit": {
		toCelsius:   func(v float64) float64 { return (v - 32) * 5 / 9 },
		fromCelsius: func(v float64) float64 { return v*9/5 + 32 },
	},
	"kelvin": {
		toCelsius:   func(v float64) float64 { return v - 273.15 },
		fromCelsius: func(v float64) float64 { return v + 273.15 },
	},
}

// Convert translates value between two units of the same category, rounded
// to four decimal places. An identity pair short-circuits to the rounded
// input.
func Convert(value float64, from, to string, category Category) (float64, error) {
	if from == to {
		if !knownUnit(from, category) {
			return 0, fmt.Errorf("%w: %s %q", ErrUnsupported, category, from)
		}
		return round4(value), nil
	}

	switch category {
	case Length, Weight:
		factors := linearFactors[category]
		fromFactor, okFrom := factors[from]
		toFactor, okTo := factors[to]
		if !okFrom || !okTo {
			return 0, fmt.Errorf("%w: %s %q to %q", ErrUnsupported, category, from, to)
		}
		return round4(value * fromFactor / toFactor), nil
	case Temperature:
		fromUnit, okFrom := temperatureUnits[from]
		toUnit, okTo := temperatureUnits[to]
		if !okFrom || !okTo {
			return 0, fmt.Errorf("%w: %s %q to %q", ErrUnsupported, category, from, to)
		}
		return round4(toUnit.fromCelsius(fromUnit.toCelsius(value))), nil
	}
	return 0, fmt.Errorf("%w: unknown category %q", ErrUnsupported, category)
}

// Units lists the units of a category, for building selection UIs.
func Units(category Category) []string {
	switch category {
	case Length:
		return []string{"m", "km", "mile", "inch", "ft", "cm"}
	case Weight:
		return []string{"kg", "g", "lb", "oz"}
	case Temperature:
		return []string{"celsius", "fahrenheit", "kelvin"}
	}
	return nil
}

func knownUnit(unit string, category Category) bool {
	switch category {
	case Length, Weight:
		_, ok := linearFactors[category][unit]
		return ok
	case Temperature:
		_, ok := temperatureUnits[unit]
		return ok
	}
	return false
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
