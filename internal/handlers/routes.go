package handlers

import (
	"github.com/gorilla/mux"

	"fitness-insights-go/internal/logger"
	"fitness-insights-go/internal/telemetry"
)

// NewRouter mounts every endpoint. The AI and metrics endpoints are also
// reachable under /functions/v1 so Supabase clients can call them unchanged.
func NewRouter(h *HTTPHandler, log *logger.Logger) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", h.Health).Methods("GET")
	r.Handle("/metrics", telemetry.Handler()).Methods("GET")

	for _, prefix := range []string{"", "/functions/v1"} {
		r.HandleFunc(prefix+"/analyze-nutrition", h.AnalyzeNutrition)
		r.HandleFunc(prefix+"/generate-workout", h.GenerateWorkout)
		r.HandleFunc(prefix+"/profile-metrics", h.ProfileMetrics)
	}

	r.Use(loggingMiddleware(log))
	return r
}
