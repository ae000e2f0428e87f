// Package prompt builds the instruction text and tool schema for each
// extraction task. Output depends only on the input.
package prompt

import (
	"fmt"
	"strconv"

	"fitness-insights-go/internal/schema"
	"fitness-insights-go/internal/types"
)

const (
	NutritionTool = "log_nutrition"
	WorkoutTool   = "create_workout"

	// NoProfileContext replaces the profile summary when the caller has no profile.
	NoProfileContext = "No profile data available. Create a general beginner workout."

	unknown = "unknown"
)

// Tool is a function the model is forced to call.
type Tool struct {
	Name        string
	Description string
	Parameters  *schema.Schema
}

// Prompt is everything the gateway needs for one structured completion.
type Prompt struct {
	System      string
	Instruction string
	Tool        Tool
}

// Nutrition builds the prompt that estimates calories and macros for a meal.
func Nutrition(description, mealType string) Prompt {
	return Prompt{
		System: "You are a nutrition analyzer. Given a food description, estimate calories and macronutrients. " +
			"You must call the " + NutritionTool + " function with your estimates.",
		Instruction: fmt.Sprintf("Analyze this %s meal: \"%s\". Estimate the total calories and macronutrients.",
			mealType, description),
		Tool: Tool{
			Name:        NutritionTool,
			Description: "Log the estimated nutrition information for the food",
			Parameters:  nutritionSchema(),
		},
	}
}

// Workout builds the prompt that creates today's workout for profile, which
// may be nil.
func Workout(profile *types.ProfileSnapshot) Prompt {
	return Prompt{
		System: "You are a professional fitness trainer AI. Generate a personalized workout plan based on user profile. " +
			"You must call the " + WorkoutTool + " function.",
		Instruction: "Create a workout plan for today. " + ProfileContext(profile),
		Tool: Tool{
			Name:        WorkoutTool,
			Description: "Create a structured workout plan",
			Parameters:  workoutSchema(),
		},
	}
}

// ProfileContext summarises a profile for the workout prompt.
func ProfileContext(p *types.ProfileSnapshot) string {
	if p == nil {
		return NoProfileContext
	}
	return fmt.Sprintf(
		"User profile: Age %s, Gender %s, Weight %skg, Height %scm, Activity level: %s, Goal: %s, BMI: %s, Daily calorie target: %s",
		orUnknownInt(p.Age),
		orUnknown(p.Gender),
		orUnknownFloat(p.WeightKg),
		orUnknownFloat(p.HeightCm),
		orUnknown(p.ActivityLevel),
		orUnknown(p.FitnessGoal),
		orUnknownFloat(p.BMI),
		orUnknownFloat(p.DailyCalories),
	)
}

func nutritionSchema() *schema.Schema {
	return schema.Object(map[string]*schema.Schema{
		"calories":  schema.Number("Estimated total calories"),
		"protein_g": schema.Number("Estimated protein in grams"),
		"carbs_g":   schema.Number("Estimated carbs in grams"),
		"fat_g":     schema.Number("Estimated fat in grams"),
		"analysis":  schema.String("Brief health analysis and suggestions (1-2 sentences)"),
	})
}

func workoutSchema() *schema.Schema {
	exercise := schema.Object(map[string]*schema.Schema{
		"name":         schema.String(""),
		"sets":         schema.Number(""),
		"reps":         schema.String("e.g. '12' or '30 seconds'"),
		"rest_seconds": schema.Number(""),
	})
	return schema.Object(map[string]*schema.Schema{
		"title":       schema.String("Workout title, e.g. 'Upper Body Power'"),
		"description": schema.String("Brief description of the workout goals (1 sentence)"),
		"difficulty": schema.Enum("",
			types.DifficultyBeginner, types.DifficultyIntermediate, types.DifficultyAdvanced),
		"duration_minutes": schema.Number("Estimated duration in minutes"),
		"exercises":        schema.Array("Exercises in the order they are performed", exercise),
	})
}

func orUnknown(s string) string {
	if s == "" {
		return unknown
	}
	return s
}

func orUnknownInt(v int) string {
	if v == 0 {
		return unknown
	}
	return strconv.Itoa(v)
}

func orUnknownFloat(v float64) string {
	if v == 0 {
		return unknown
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
