package gateway

import (
	"encoding/json"
	"fmt"

	"fitness-insights-go/internal/prompt"
	"fitness-insights-go/internal/schema"
)

// Wire types for the OpenAI-compatible chat completions API. Nothing outside
// this file knows the provider's request shape.

type chatRequest struct {
	Model      string        `json:"model"`
	Messages   []chatMessage `json:"messages"`
	Tools      []chatTool    `json:"tools"`
	ToolChoice toolChoice    `json:"tool_choice"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatTool struct {
	Type     string       `json:"type"`
	Function functionSpec `json:"function"`
}

type functionSpec struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  *schema.Schema `json:"parameters"`
}

type toolChoice struct {
	Type     string       `json:"type"`
	Function functionName `json:"function"`
}

type functionName struct {
	Name string `json:"name"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			ToolCalls []struct {
				ID       string `json:"id"`
				Type     string `json:"type"`
				Function struct {
					Name      string `json:"name"`
					Arguments string `json:"arguments"`
				} `json:"function"`
			} `json:"tool_calls"`
		} `json:"message"`
	} `json:"choices"`
}

func buildChatRequest(model string, p prompt.Prompt) chatRequest {
	return chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: p.System},
			{Role: "user", Content: p.Instruction},
		},
		Tools: []chatTool{{
			Type: "function",
			Function: functionSpec{
				Name:        p.Tool.Name,
				Description: p.Tool.Description,
				Parameters:  p.Tool.Parameters,
			},
		}},
		ToolChoice: toolChoice{
			Type:     "function",
			Function: functionName{Name: p.Tool.Name},
		},
	}
}

// parseToolCall pulls the invocation of tool out of a chat completion body.
func parseToolCall(body []byte, tool string) (*ToolCall, error) {
	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrGateway, err)
	}
	if len(resp.Choices) == 0 {
		return nil, ErrNoToolCall
	}

	for _, tc := range resp.Choices[0].Message.ToolCalls {
		if tc.Function.Name != tool {
			continue
		}
		var args map[string]any
		if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResult, err)
		}
		if args == nil {
			return nil, fmt.Errorf("%w: arguments are not an object", ErrMalformedResult)
		}
		return &ToolCall{ID: tc.ID, Name: tc.Function.Name, Arguments: args}, nil
	}
	return nil, ErrNoToolCall
}
