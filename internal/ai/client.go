package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

type Client struct {
	client *openai.Client
	model  string
}

func New(apiKey, baseURL, model string) *Client {
	config := openai.DefaultConfig(apiKey)
	config.BaseURL = baseURL

	return &Client{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

// Capture is a task or timed alert extracted from a free-text note.
type Capture struct {
	Kind string `json:"kind"` // "task" or "alert"
	Body string `json:"body"`
	Time string `json:"time"` // HH:MM, alerts only
}

const systemPrompt = `You turn a short personal note into a structured item.

Use kind "alert" with a 24-hour zero-padded HH:MM time only when the note
names a specific time of day. Otherwise use kind "task" with an empty time.
The body is the note rewritten as a short imperative item, in the note's
own language.`

var captureSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"kind": {
			"type": "string",
			"enum": ["task", "alert"],
			"description": "Whether the note is a plain task or a timed alert"
		},
		"body": {
			"type": "string",
			"description": "The item text"
		},
		"time": {
			"type": "string",
			"description": "Trigger time as HH:MM, empty for plain tasks"
		}
	},
	"required": ["kind", "body", "time"],
	"additionalProperties": false
}`)

// CaptureItem asks the model to classify a free-text note as a task or
// a timed alert.
func (c *Client) CaptureItem(ctx context.Context, text string) (*Capture, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: text,
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "capture",
				Schema: captureSchema,
				Strict: true,
			},
		},
		Temperature: 0.1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to call AI API: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from AI")
	}

	capture := &Capture{}
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), capture); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w", err)
	}
	if capture.Body == "" {
		return nil, fmt.Errorf("AI response missing item body")
	}

	return capture, nil
}
