// Package extraction turns meal descriptions and profiles into typed nutrition
// estimates and workout plans through forced tool calls.
package extraction

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fitness-insights-go/internal/bodymetrics"
	"fitness-insights-go/internal/gateway"
	"fitness-insights-go/internal/logger"
	"fitness-insights-go/internal/prompt"
	"fitness-insights-go/internal/types"
)

// ErrInvalidInput wraps every rejection of caller input.
var ErrInvalidInput = errors.New("invalid input")

// Completer runs one structured completion. *gateway.Client implements it.
type Completer interface {
	Call(ctx context.Context, p prompt.Prompt) (*gateway.ToolCall, error)
}

type Service struct {
	gw  Completer
	log *logger.Logger
}

func NewService(gw Completer, log *logger.Logger) *Service {
	return &Service{gw: gw, log: log.WithComponent("extraction")}
}

// AnalyzeNutrition estimates calories and macros for a free-text meal.
func (s *Service) AnalyzeNutrition(ctx context.Context, req types.NutritionRequest) (types.NutritionEstimate, error) {
	description := strings.TrimSpace(req.FoodDescription)
	if description == "" {
		return types.NutritionEstimate{}, fmt.Errorf("%w: food_description is required", ErrInvalidInput)
	}
	mealType, err := normalizeMealType(req.MealType)
	if err != nil {
		return types.NutritionEstimate{}, err
	}

	call, err := s.gw.Call(ctx, prompt.Nutrition(description, mealType))
	if err != nil {
		return types.NutritionEstimate{}, fmt.Errorf("analyze nutrition: %w", err)
	}

	est, err := decodeNutrition(call.Arguments)
	if err != nil {
		return types.NutritionEstimate{}, fmt.Errorf("analyze nutrition: %w", err)
	}
	s.log.WithField("meal_type", mealType).WithField("calories", est.Calories).Info("nutrition analyzed")
	return est, nil
}

// GenerateWorkout builds today's plan. A nil profile yields a generic
// beginner workout.
func (s *Service) GenerateWorkout(ctx context.Context, profile *types.ProfileSnapshot) (types.WorkoutPlan, error) {
	call, err := s.gw.Call(ctx, prompt.Workout(withDerivedMetrics(profile)))
	if err != nil {
		return types.WorkoutPlan{}, fmt.Errorf("generate workout: %w", err)
	}

	plan, err := decodeWorkout(call.Arguments)
	if err != nil {
		return types.WorkoutPlan{}, fmt.Errorf("generate workout: %w", err)
	}
	s.log.WithField("difficulty", plan.Difficulty).WithField("exercises", len(plan.Exercises)).Info("workout generated")
	return plan, nil
}

// withDerivedMetrics fills BMI and daily target from the measurements when
// the stored profile lacks them. The caller's value is never modified.
func withDerivedMetrics(p *types.ProfileSnapshot) *types.ProfileSnapshot {
	if p == nil || (p.BMI != 0 && p.DailyCalories != 0) {
		return p
	}
	m, ok := bodymetrics.FromSnapshot(*p)
	if !ok {
		return p
	}
	out := *p
	if out.BMI == 0 {
		out.BMI = m.BMI
	}
	if out.DailyCalories == 0 {
		out.DailyCalories = float64(m.DailyCalories)
	}
	return &out
}

func normalizeMealType(mealType string) (string, error) {
	switch m := strings.ToLower(strings.TrimSpace(mealType)); m {
	case types.MealBreakfast, types.MealLunch, types.MealDinner, types.MealSnack:
		return m, nil
	case "":
		return "", fmt.Errorf("%w: meal_type is required", ErrInvalidInput)
	default:
		return "", fmt.Errorf("%w: unsupported meal_type %q", ErrInvalidInput, mealType)
	}
}
