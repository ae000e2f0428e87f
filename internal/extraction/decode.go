package extraction

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"fitness-insights-go/internal/types"
)

// DecodeError names the first required field of a tool result that was
// missing or had the wrong type.
type DecodeError struct {
	Field  string
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode structured result: field %q %s", e.Field, e.Reason)
}

func decodeNutrition(args map[string]any) (types.NutritionEstimate, error) {
	var (
		out types.NutritionEstimate
		err error
	)
	if out.Calories, err = number(args, "calories"); err != nil {
		return types.NutritionEstimate{}, err
	}
	if out.ProteinG, err = number(args, "protein_g"); err != nil {
		return types.NutritionEstimate{}, err
	}
	if out.CarbsG, err = number(args, "carbs_g"); err != nil {
		return types.NutritionEstimate{}, err
	}
	if out.FatG, err = number(args, "fat_g"); err != nil {
		return types.NutritionEstimate{}, err
	}
	if out.Analysis, err = text(args, "analysis"); err != nil {
		return types.NutritionEstimate{}, err
	}
	return out, nil
}

func decodeWorkout(args map[string]any) (types.WorkoutPlan, error) {
	var (
		out types.WorkoutPlan
		err error
	)
	if out.Title, err = text(args, "title"); err != nil {
		return types.WorkoutPlan{}, err
	}
	if out.Description, err = text(args, "description"); err != nil {
		return types.WorkoutPlan{}, err
	}
	if out.Difficulty, err = difficulty(args, "difficulty"); err != nil {
		return types.WorkoutPlan{}, err
	}
	if out.DurationMinutes, err = integer(args, "duration_minutes"); err != nil {
		return types.WorkoutPlan{}, err
	}

	// A missing or non-array exercises field yields an empty plan body, never
	// invented exercises.
	out.Exercises = []types.Exercise{}
	items, _ := args["exercises"].([]any)
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return types.WorkoutPlan{}, &DecodeError{Field: fmt.Sprintf("exercises[%d]", i), Reason: "is not an object"}
		}
		ex, err := decodeExercise(obj, fmt.Sprintf("exercises[%d].", i))
		if err != nil {
			return types.WorkoutPlan{}, err
		}
		out.Exercises = append(out.Exercises, ex)
	}
	return out, nil
}

func decodeExercise(obj map[string]any, prefix string) (types.Exercise, error) {
	var (
		ex  types.Exercise
		err error
	)
	if ex.Name, err = text(obj, "name"); err != nil {
		return types.Exercise{}, withPrefix(err, prefix)
	}
	if ex.Sets, err = integer(obj, "sets"); err != nil {
		return types.Exercise{}, withPrefix(err, prefix)
	}
	if ex.Reps, err = reps(obj, "reps"); err != nil {
		return types.Exercise{}, withPrefix(err, prefix)
	}
	if ex.RestSeconds, err = integer(obj, "rest_seconds"); err != nil {
		return types.Exercise{}, withPrefix(err, prefix)
	}
	return ex, nil
}

func number(obj map[string]any, key string) (float64, error) {
	v, ok := obj[key]
	if !ok || v == nil {
		return 0, &DecodeError{Field: key, Reason: "is missing"}
	}
	f, ok := v.(float64)
	if !ok {
		return 0, &DecodeError{Field: key, Reason: fmt.Sprintf("is %T, want number", v)}
	}
	return f, nil
}

func integer(obj map[string]any, key string) (int, error) {
	f, err := number(obj, key)
	if err != nil {
		return 0, err
	}
	return int(math.Round(f)), nil
}

func text(obj map[string]any, key string) (string, error) {
	v, ok := obj[key]
	if !ok || v == nil {
		return "", &DecodeError{Field: key, Reason: "is missing"}
	}
	s, ok := v.(string)
	if !ok {
		return "", &DecodeError{Field: key, Reason: fmt.Sprintf("is %T, want string", v)}
	}
	return s, nil
}

// reps is free text ("12", "30 seconds") but models sometimes send a bare number.
func reps(obj map[string]any, key string) (string, error) {
	if f, ok := obj[key].(float64); ok {
		return strconv.FormatFloat(f, 'f', -1, 64), nil
	}
	return text(obj, key)
}

func difficulty(obj map[string]any, key string) (string, error) {
	s, err := text(obj, key)
	if err != nil {
		return "", err
	}
	switch d := strings.ToLower(strings.TrimSpace(s)); d {
	case types.DifficultyBeginner, types.DifficultyIntermediate, types.DifficultyAdvanced:
		return d, nil
	default:
		return "", &DecodeError{Field: key, Reason: fmt.Sprintf("has unsupported value %q", s)}
	}
}

func withPrefix(err error, prefix string) error {
	if de, ok := err.(*DecodeError); ok {
		return &DecodeError{Field: prefix + de.Field, Reason: de.Reason}
	}
	return err
}
