package gateway_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitness-insights-go/internal/gateway"
	"fitness-insights-go/internal/logger"
	"fitness-insights-go/internal/prompt"
)

// toolReply builds a chat completion body carrying one tool call.
func toolReply(name, args string) string {
	body, _ := json.Marshal(map[string]any{
		"choices": []any{map[string]any{
			"message": map[string]any{
				"role": "assistant",
				"tool_calls": []any{map[string]any{
					"id":   "call_1",
					"type": "function",
					"function": map[string]any{
						"name":      name,
						"arguments": args,
					},
				}},
			},
		}},
	})
	return string(body)
}

func newClient(url string, retries uint64) *gateway.Client {
	return gateway.NewClient(gateway.Config{
		URL:        url,
		APIKey:     "test-key",
		Model:      "test-model",
		Timeout:    2 * time.Second,
		MaxRetries: retries,
	}, logger.Discard())
}

func TestCall_ForcesToolAndAuthenticates(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		raw, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(raw, &got))
		io.WriteString(w, toolReply(prompt.NutritionTool, `{"calories":350,"protein_g":15,"carbs_g":40,"fat_g":14,"analysis":"ok"}`))
	}))
	defer srv.Close()

	p := prompt.Nutrition("2 eggs", "breakfast")
	call, err := newClient(srv.URL, 0).Call(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, prompt.NutritionTool, call.Name)
	assert.Equal(t, float64(350), call.Arguments["calories"])

	assert.Equal(t, "test-model", got["model"])
	assert.Equal(t, map[string]any{
		"type":     "function",
		"function": map[string]any{"name": prompt.NutritionTool},
	}, got["tool_choice"])

	messages := got["messages"].([]any)
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].(map[string]any)["role"])
	assert.Equal(t, p.Instruction, messages[1].(map[string]any)["content"])

	tools := got["tools"].([]any)
	require.Len(t, tools, 1)
	fn := tools[0].(map[string]any)["function"].(map[string]any)
	assert.Equal(t, prompt.NutritionTool, fn["name"])
	assert.Equal(t, false, fn["parameters"].(map[string]any)["additionalProperties"])
}

func TestCall_NotConfiguredSkipsNetwork(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer srv.Close()

	c := gateway.NewClient(gateway.Config{URL: srv.URL}, logger.Discard())
	_, err := c.Call(context.Background(), prompt.Workout(nil))

	assert.ErrorIs(t, err, gateway.ErrNotConfigured)
	assert.Zero(t, atomic.LoadInt32(&hits))
}

func TestCall_StatusMapping(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusTooManyRequests, gateway.ErrRateLimited},
		{http.StatusPaymentRequired, gateway.ErrQuotaExhausted},
		{http.StatusUnauthorized, gateway.ErrGateway},
		{http.StatusBadGateway, gateway.ErrGateway},
	}
	for _, tc := range cases {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				io.WriteString(w, `{"error":"nope"}`)
			}))
			defer srv.Close()

			_, err := newClient(srv.URL, 0).Call(context.Background(), prompt.Workout(nil))
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.want)

			var statusErr *gateway.StatusError
			require.True(t, errors.As(err, &statusErr))
			assert.Equal(t, tc.status, statusErr.StatusCode)
		})
	}
}

func TestCall_NoToolCall(t *testing.T) {
	replies := map[string]string{
		"no choices": `{"choices":[]}`,
		"text only":  `{"choices":[{"message":{"role":"assistant","content":"here you go"}}]}`,
		"other tool": toolReply("something_else", `{}`),
	}
	for name, reply := range replies {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, reply)
			}))
			defer srv.Close()

			_, err := newClient(srv.URL, 0).Call(context.Background(), prompt.Workout(nil))
			assert.ErrorIs(t, err, gateway.ErrNoToolCall)
		})
	}
}

func TestCall_MalformedArguments(t *testing.T) {
	for _, args := range []string{`{"title": "Leg day"`, `[1,2,3]`, `null`, ``} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, toolReply(prompt.WorkoutTool, args))
		}))

		_, err := newClient(srv.URL, 0).Call(context.Background(), prompt.Workout(nil))
		assert.ErrorIs(t, err, gateway.ErrMalformedResult, "args %q", args)
		srv.Close()
	}
}

func TestCall_UndecodableEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "<html>bad gateway</html>")
	}))
	defer srv.Close()

	_, err := newClient(srv.URL, 0).Call(context.Background(), prompt.Workout(nil))
	assert.ErrorIs(t, err, gateway.ErrGateway)
}

func TestCall_SingleAttemptByDefault(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newClient(srv.URL, 0).Call(context.Background(), prompt.Workout(nil))
	assert.ErrorIs(t, err, gateway.ErrGateway)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestCall_RetriesServerErrorsWhenEnabled(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		io.WriteString(w, toolReply(prompt.WorkoutTool, `{"title":"t"}`))
	}))
	defer srv.Close()

	call, err := newClient(srv.URL, 2).Call(context.Background(), prompt.Workout(nil))
	require.NoError(t, err)
	assert.Equal(t, "t", call.Arguments["title"])
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestCall_NeverRetriesRateLimit(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newClient(srv.URL, 3).Call(context.Background(), prompt.Workout(nil))
	assert.ErrorIs(t, err, gateway.ErrRateLimited)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "ok", gateway.Outcome(nil))
	assert.Equal(t, "rate_limited", gateway.Outcome(&gateway.StatusError{StatusCode: 429}))
	assert.Equal(t, "quota_exhausted", gateway.Outcome(&gateway.StatusError{StatusCode: 402}))
	assert.Equal(t, "error", gateway.Outcome(&gateway.StatusError{StatusCode: 500}))
	assert.Equal(t, "not_configured", gateway.Outcome(gateway.ErrNotConfigured))
}
