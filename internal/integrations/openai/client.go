// Package openai generates portfolio copy with a chat completion model.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// ErrDisabled is returned by every call when no API key is configured.
var ErrDisabled = errors.New("openai: no API key configured")

// ErrEmptyResponse is returned when the model produces no choices.
var ErrEmptyResponse = errors.New("openai: empty response")

type Options struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

type Client struct {
	api     *openai.Client
	timeout time.Duration
}

// New returns a client. Without an API key every method returns ErrDisabled.
func New(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	c := &Client{timeout: opts.Timeout}
	if opts.APIKey == "" {
		return c
	}

	httpClient := cleanhttp.DefaultPooledClient()
	httpClient.Timeout = opts.Timeout
	reqOpts := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(opts.Timeout),
	}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}
	api := openai.NewClient(reqOpts...)
	c.api = &api
	return c
}

func (c *Client) Enabled() bool {
	return c.api != nil
}

type completion struct {
	system      string
	prompt      string
	maxTokens   int64
	temperature float64
}

func (c *Client) complete(ctx context.Context, req completion) (string, error) {
	if c.api == nil {
		return "", ErrDisabled
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModelGPT3_5Turbo,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.system),
			openai.UserMessage(req.prompt),
		},
		MaxTokens:   openai.Int(req.maxTokens),
		Temperature: openai.Float(req.temperature),
	})
	if err != nil {
		return "", fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// ProjectDescription writes a 2-3 sentence portfolio blurb for a project.
func (c *Client) ProjectDescription(ctx context.Context, title string, technologies []string) (string, error) {
	prompt := fmt.Sprintf(`Create a professional project description for a portfolio website.

Project: %s
Technologies: %s

Write a compelling 2-3 sentence description that highlights:
- The problem solved
- Technical approach
- Business impact

Keep it professional and engaging for potential clients.`, title, strings.Join(technologies, ", "))

	return c.complete(ctx, completion{
		system:      "You are a professional technical writer specializing in portfolio content.",
		prompt:      prompt,
		maxTokens:   150,
		temperature: 0.7,
	})
}

// ServiceDescription rewrites a service description at roughly the same
// length.
func (c *Client) ServiceDescription(ctx context.Context, title, current string) (string, error) {
	prompt := fmt.Sprintf(`Enhance this service description for a professional portfolio:

Service: %s
Current description: %s

Rewrite to be more compelling and professional while keeping the same length.
Focus on client benefits and technical expertise.`, title, current)

	return c.complete(ctx, completion{
		system:      "You are a professional copywriter specializing in technical services.",
		prompt:      prompt,
		maxTokens:   100,
		temperature: 0.6,
	})
}

type Section struct {
	Title     string   `json:"title"`
	KeyPoints []string `json:"key_points"`
}

type Outline struct {
	Title        string    `json:"title"`
	Introduction string    `json:"introduction"`
	Sections     []Section `json:"sections"`
	Conclusion   string    `json:"conclusion"`
}

// BlogOutline asks for a JSON outline and decodes it.
func (c *Client) BlogOutline(ctx context.Context, topic string) (*Outline, error) {
	prompt := fmt.Sprintf(`Create a blog post outline for a technical blog about: %s

Return a JSON structure with:
- title: Engaging blog post title
- introduction: Brief intro paragraph
- sections: Array of section objects with title and key_points
- conclusion: Brief conclusion

Focus on practical, actionable content for developers.`, topic)

	text, err := c.complete(ctx, completion{
		system:      "You are a technical content strategist. Return valid JSON only.",
		prompt:      prompt,
		maxTokens:   300,
		temperature: 0.7,
	})
	if err != nil {
		return nil, err
	}

	var outline Outline
	if err := json.Unmarshal([]byte(stripFence(text)), &outline); err != nil {
		return nil, fmt.Errorf("decode blog outline: %w", err)
	}
	return &outline, nil
}

// stripFence removes a surrounding ```json code fence, which models often add
// despite being asked for bare JSON.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}
