// Package bodymetrics derives BMI, BMR and the daily calorie target from body
// measurements. Everything here is pure.
package bodymetrics

import (
	"math"
	"strings"

	"fitness-insights-go/internal/types"
)

// Activity levels in increasing order of energy expenditure.
const (
	Sedentary  = "sedentary"
	Light      = "light"
	Moderate   = "moderate"
	Active     = "active"
	VeryActive = "very_active"
)

const defaultMultiplier = 1.2

var activityMultipliers = map[string]float64{
	Sedentary:  1.2,
	Light:      1.375,
	Moderate:   1.55,
	Active:     1.725,
	VeryActive: 1.9,
}

// Input holds the measurements the engine needs.
type Input struct {
	Age           int
	HeightCm      float64
	WeightKg      float64
	Gender        string
	ActivityLevel string
}

// Multiplier returns the TDEE coefficient for an activity level, 1.2 when the
// level is empty or unknown.
func Multiplier(level string) float64 {
	if m, ok := activityMultipliers[strings.ToLower(strings.TrimSpace(level))]; ok {
		return m
	}
	return defaultMultiplier
}

// Compute returns the metrics for in. ok is false when age, height, weight or
// gender is missing.
//
// BMR uses Mifflin-St Jeor. Only "male" takes the male constant; every other
// gender, "other" included, takes the female one.
func Compute(in Input) (types.ProfileMetrics, bool) {
	gender := strings.ToLower(strings.TrimSpace(in.Gender))
	if in.Age <= 0 || in.HeightCm <= 0 || in.WeightKg <= 0 || gender == "" {
		return types.ProfileMetrics{}, false
	}

	heightM := in.HeightCm / 100
	bmi := in.WeightKg / (heightM * heightM)

	bmr := 10*in.WeightKg + 6.25*in.HeightCm - 5*float64(in.Age)
	if gender == "male" {
		bmr += 5
	} else {
		bmr -= 161
	}
	bmr = math.Max(bmr, 0)

	daily := bmr * Multiplier(in.ActivityLevel)

	return types.ProfileMetrics{
		BMI:           math.Round(bmi*10) / 10,
		BMR:           int(math.Round(bmr)),
		DailyCalories: int(math.Round(daily)),
	}, true
}

// FromSnapshot runs Compute on the measurements of a stored profile.
func FromSnapshot(p types.ProfileSnapshot) (types.ProfileMetrics, bool) {
	return Compute(Input{
		Age:           p.Age,
		HeightCm:      p.HeightCm,
		WeightKg:      p.WeightKg,
		Gender:        p.Gender,
		ActivityLevel: p.ActivityLevel,
	})
}
