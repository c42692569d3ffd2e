package llm

import (
	"context"
	"encoding/base64"
	"time"

	"github.com/m-mizutani/goerr/v2"
	openai "github.com/sashabaranov/go-openai"
)

// Client talks to the Grok API through its OpenAI-compatible endpoint.
type Client struct {
	client      *openai.Client
	chatModel   string
	visionModel string
	timeout     time.Duration
}

// NewClient creates a Grok client. baseURL is the OpenAI-compatible API root
// (https://api.x.ai/v1 for hosted Grok).
func NewClient(apiKey, baseURL, chatModel, visionModel string, timeout time.Duration) *Client {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}

	return &Client{
		client:      openai.NewClientWithConfig(config),
		chatModel:   chatModel,
		visionModel: visionModel,
		timeout:     timeout,
	}
}

// OpenAI returns the underlying SDK client, for capabilities served from the
// same endpoint (embeddings).
func (c *Client) OpenAI() *openai.Client {
	return c.client
}

// Chat implements ChatFunc against the chat model.
func (c *Client) Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	msgs := make([]openai.ChatCompletionMessage, len(req.Messages))
	for i, m := range req.Messages {
		msg := openai.ChatCompletionMessage{
			Role:       m.Role,
			Content:    m.Content,
			ToolCallID: m.ToolCallID,
			Name:       m.Name,
		}
		for _, tc := range m.ToolCalls {
			msg.ToolCalls = append(msg.ToolCalls, openai.ToolCall{
				ID:   tc.ID,
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      tc.Name,
					Arguments: tc.Arguments,
				},
			})
		}
		msgs[i] = msg
	}

	var tools []openai.Tool
	for _, t := range req.Tools {
		tools = append(tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    c.chatModel,
		Messages: msgs,
		Tools:    tools,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "chat completion failed", goerr.T(ErrTagModelCall), goerr.V("model", c.chatModel))
	}
	if len(resp.Choices) == 0 {
		return nil, goerr.New("empty response from model", goerr.T(ErrTagModelCall), goerr.V("model", c.chatModel))
	}

	choice := resp.Choices[0].Message
	out := &ChatResponse{Content: choice.Content}
	for _, tc := range choice.ToolCalls {
		out.ToolCalls = append(out.ToolCalls, ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}

	return out, nil
}

// Vision implements VisionFunc against the vision model. The image is sent
// inline as a base64 data URL.
func (c *Client) Vision(ctx context.Context, instruction string, imagePNG []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(imagePNG)

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.visionModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: instruction},
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: dataURL},
					},
				},
			},
		},
	})
	if err != nil {
		return "", goerr.Wrap(err, "vision completion failed", goerr.T(ErrTagModelCall), goerr.V("model", c.visionModel))
	}
	if len(resp.Choices) == 0 {
		return "", goerr.New("empty response from vision model", goerr.T(ErrTagModelCall), goerr.V("model", c.visionModel))
	}

	return resp.Choices[0].Message.Content, nil
}
