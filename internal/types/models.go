package types

// Meal type tags accepted by the nutrition endpoint.
const (
	MealBreakfast = "breakfast"
	MealLunch     = "lunch"
	MealDinner    = "dinner"
	MealSnack     = "snack"
)

// Workout difficulty levels.
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// ProfileSnapshot is the profile row as stored by the record store.
// Zero values mean the field was not filled in.
type ProfileSnapshot struct {
	Age           int     `json:"age,omitempty"`
	Gender        string  `json:"gender,omitempty"`
	WeightKg      float64 `json:"weight_kg,omitempty"`
	HeightCm      float64 `json:"height_cm,omitempty"`
	ActivityLevel string  `json:"activity_level,omitempty"`
	FitnessGoal   string  `json:"fitness_goal,omitempty"`
	BMI           float64 `json:"bmi,omitempty"`
	DailyCalories float64 `json:"daily_calories,omitempty"`
}

type ProfileMetrics struct {
	BMI           float64 `json:"bmi"`
	BMR           int     `json:"bmr"`
	DailyCalories int     `json:"daily_calories"`
}

type NutritionRequest struct {
	FoodDescription string `json:"food_description"`
	MealType        string `json:"meal_type"`
}

type NutritionEstimate struct {
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
	Analysis string  `json:"analysis"`
}

// WorkoutRequest carries a nil Profile when the caller sent null or nothing.
type WorkoutRequest struct {
	Profile *ProfileSnapshot `json:"profile"`
}

type Exercise struct {
	Name        string `json:"name"`
	Sets        int    `json:"sets"`
	Reps        string `json:"reps"`
	RestSeconds int    `json:"rest_seconds"`
}

// WorkoutPlan keeps exercises in execution order.
type WorkoutPlan struct {
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Difficulty      string     `json:"difficulty"`
	DurationMinutes int        `json:"duration_minutes"`
	Exercises       []Exercise `json:"exercises"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
