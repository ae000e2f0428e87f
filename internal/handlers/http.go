package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"

	"fitness-insights-go/internal/bodymetrics"
	"fitness-insights-go/internal/extraction"
	"fitness-insights-go/internal/gateway"
	"fitness-insights-go/internal/logger"
	"fitness-insights-go/internal/types"
)

const maxBodyBytes = 1 << 20

// corsAllowHeaders lists the headers the Supabase JS client sends.
const corsAllowHeaders = "authorization, x-client-info, apikey, content-type, x-supabase-client-platform, " +
	"x-supabase-client-platform-version, x-supabase-client-runtime, x-supabase-client-runtime-version"

// Extractor is the business logic behind the AI endpoints.
type Extractor interface {
	AnalyzeNutrition(ctx context.Context, req types.NutritionRequest) (types.NutritionEstimate, error)
	GenerateWorkout(ctx context.Context, profile *types.ProfileSnapshot) (types.WorkoutPlan, error)
}

type HTTPHandler struct {
	service Extractor
	log     *logger.Logger
}

func NewHTTPHandler(s Extractor, log *logger.Logger) *HTTPHandler {
	return &HTTPHandler{service: s, log: log.WithComponent("handlers")}
}

// AnalyzeNutrition serves POST {food_description, meal_type}.
func (h *HTTPHandler) AnalyzeNutrition(w http.ResponseWriter, r *http.Request) {
	if !h.begin(w, r) {
		return
	}
	reqLog := h.requestLog(r, "analyze-nutrition")

	var req types.NutritionRequest
	if err := decodeBody(r, &req); err != nil {
		h.fail(w, reqLog, err, "No analysis returned")
		return
	}

	est, err := h.service.AnalyzeNutrition(r.Context(), req)
	if err != nil {
		h.fail(w, reqLog, err, "No analysis returned")
		return
	}
	writeJSON(w, http.StatusOK, est)
}

// GenerateWorkout serves POST {profile: {...} | null}.
func (h *HTTPHandler) GenerateWorkout(w http.ResponseWriter, r *http.Request) {
	if !h.begin(w, r) {
		return
	}
	reqLog := h.requestLog(r, "generate-workout")

	var req types.WorkoutRequest
	if err := decodeBody(r, &req); err != nil {
		h.fail(w, reqLog, err, "No workout plan returned")
		return
	}

	plan, err := h.service.GenerateWorkout(r.Context(), req.Profile)
	if err != nil {
		h.fail(w, reqLog, err, "No workout plan returned")
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// ProfileMetrics serves POST with a profile snapshot and returns its BMI, BMR
// and daily calorie target.
func (h *HTTPHandler) ProfileMetrics(w http.ResponseWriter, r *http.Request) {
	if !h.begin(w, r) {
		return
	}
	reqLog := h.requestLog(r, "profile-metrics")

	var profile types.ProfileSnapshot
	if err := decodeBody(r, &profile); err != nil {
		h.fail(w, reqLog, err, "")
		return
	}

	m, ok := bodymetrics.FromSnapshot(profile)
	if !ok {
		reqLog.Info("insufficient profile data")
		writeJSON(w, http.StatusUnprocessableEntity, types.ErrorResponse{Error: "Insufficient profile data"})
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *HTTPHandler) Health(w http.ResponseWriter, r *http.Request) {
	fmt.Fprint(w, "ok")
}

// begin sets the CORS headers and handles preflight and method filtering.
// It reports whether the caller should go on to read the body.
func (h *HTTPHandler) begin(w http.ResponseWriter, r *http.Request) bool {
	setCORS(w.Header())
	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
		return false
	case http.MethodPost:
		return true
	default:
		w.Header().Set("Allow", "POST, OPTIONS")
		writeJSON(w, http.StatusMethodNotAllowed, types.ErrorResponse{Error: "Method not allowed"})
		return false
	}
}

func (h *HTTPHandler) requestLog(r *http.Request, handler string) *logrus.Entry {
	return h.log.WithRequest(r, RequestIDFrom(r.Context())).WithField("handler", handler)
}

// fail logs err and writes the mapped status. noResult is the message for a
// reply without a structured result.
func (h *HTTPHandler) fail(w http.ResponseWriter, reqLog *logrus.Entry, err error, noResult string) {
	status, msg := statusFor(err, noResult)
	entry := reqLog.WithField("status", status).WithField("error", err.Error())
	if status >= 500 {
		entry.Error("request failed")
	} else {
		entry.Warn("request rejected")
	}
	writeJSON(w, status, types.ErrorResponse{Error: msg})
}

// errBadBody marks a request body that is not the expected JSON.
var errBadBody = errors.New("invalid JSON body")

func statusFor(err error, noResult string) (int, string) {
	var decodeErr *extraction.DecodeError
	switch {
	case errors.Is(err, gateway.ErrRateLimited):
		return http.StatusTooManyRequests, "Rate limited, try again shortly"
	case errors.Is(err, gateway.ErrQuotaExhausted):
		return http.StatusPaymentRequired, "AI credits exhausted"
	case errors.Is(err, gateway.ErrNotConfigured):
		return http.StatusInternalServerError, "API key not configured"
	case errors.Is(err, gateway.ErrNoToolCall):
		return http.StatusInternalServerError, noResult
	case errors.Is(err, gateway.ErrMalformedResult), errors.As(err, &decodeErr):
		return http.StatusInternalServerError, "Malformed structured result"
	case errors.Is(err, gateway.ErrGateway):
		return http.StatusInternalServerError, "AI gateway error"
	case errors.Is(err, errBadBody):
		return http.StatusBadRequest, "Invalid JSON body"
	case errors.Is(err, extraction.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, "Internal error"
	}
}

func decodeBody(r *http.Request, v any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return fmt.Errorf("%w: %v", errBadBody, err)
	}
	if len(body) > maxBodyBytes {
		return fmt.Errorf("%w: body exceeds %d bytes", errBadBody, maxBodyBytes)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: %v", errBadBody, err)
	}
	return nil
}

func setCORS(h http.Header) {
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
