// Package assistant integrates the Gemini generative-language service
// for structured journal drafting.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/lifeweeks/lifeweeks/internal/model"
)

const (
	defaultEndpoint = "https://generativelanguage.googleapis.com/v1beta"
	// DefaultModel is the generation model used unless configured otherwise.
	DefaultModel = "gemini-2.5-flash"
	// DefaultTimeout bounds each outstanding service call.
	DefaultTimeout = 30 * time.Second
)

// APIKeyEnv is the environment variable holding the service credential.
const APIKeyEnv = "GEMINI_API_KEY"

// ErrMissingAPIKey indicates no credential was found in the environment
// or the config file.
var ErrMissingAPIKey = errors.New("assistant: missing API key")

// QA pairs one reflective question with the user's answer.
type QA struct {
	Question string
	Answer   string
}

// Service is the language service surface the pipeline talks to.
// The production implementation is *Client.
type Service interface {
	TalkingPoints(ctx context.Context, topic string) ([]string, error)
	Synthesize(ctx context.Context, topic string, qa []QA) (model.GeneratedEntry, error)
}

// Client calls the Gemini generateContent endpoint with declared
// response schemas so replies are machine-parseable JSON.
type Client struct {
	endpoint   string
	model      string
	apiKey     string
	httpClient *http.Client
}

// Option customizes Client construction.
type Option func(*Client)

// WithEndpoint overrides the service base URL (used in tests).
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		if endpoint != "" {
			c.endpoint = strings.TrimRight(endpoint, "/")
		}
	}
}

// WithTimeout overrides the per-call timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// NewClient builds a Client for the given model and credential.
// An empty apiKey is allowed at construction; calls will fail with
// ErrMissingAPIKey so a misconfigured app warns instead of crashing.
func NewClient(modelID, apiKey string, opts ...Option) *Client {
	if modelID == "" {
		modelID = DefaultModel
	}
	c := &Client{
		endpoint:   defaultEndpoint,
		model:      modelID,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HasAPIKey reports whether a credential is configured.
func (c *Client) HasAPIKey() bool {
	return c.apiKey != ""
}

// Request/response shapes for the generateContent endpoint.

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMIMEType string  `json:"responseMimeType"`
	ResponseSchema   *schema `json:"responseSchema,omitempty"`
}

// schema declares the structured-output shape the service must honor.
type schema struct {
	Type       string             `json:"type"`
	Properties map[string]*schema `json:"properties,omitempty"`
	Items      *schema            `json:"items,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func stringSchema() *schema { return &schema{Type: "STRING"} }

func stringArraySchema() *schema {
	return &schema{Type: "ARRAY", Items: stringSchema()}
}

func objectSchema(props map[string]*schema) *schema {
	return &schema{Type: "OBJECT", Properties: props}
}

type talkingPointsPayload struct {
	Questions []string `json:"questions"`
}

// TalkingPoints asks the service for three open-ended reflective
// questions about the user's topic.
func (c *Client) TalkingPoints(ctx context.Context, topic string) ([]string, error) {
	prompt := fmt.Sprintf(
		"Based on the following user thought, generate 3 open-ended, reflective questions to help them journal more deeply. The questions should encourage introspection. User thought: %q",
		topic)
	respSchema := objectSchema(map[string]*schema{
		"questions": stringArraySchema(),
	})
	var payload talkingPointsPayload
	if err := c.generate(ctx, prompt, respSchema, &payload); err != nil {
		return nil, err
	}
	if len(payload.Questions) == 0 {
		return nil, fmt.Errorf("assistant: response contained no questions")
	}
	return payload.Questions, nil
}

// Synthesize asks the service to turn the Q&A pairs into a finished
// entry with title, content, mood, and up to 3 tags.
func (c *Client) Synthesize(ctx context.Context, topic string, qa []QA) (model.GeneratedEntry, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "A user is journaling about: %q.\n", topic)
	b.WriteString("They have answered the following reflective questions:\n")
	for _, pair := range qa {
		fmt.Fprintf(&b, "Q: %s\nA: %s\n\n", pair.Question, pair.Answer)
	}
	b.WriteString("Synthesize these answers into a cohesive and reflective journal entry. ")
	b.WriteString("The entry should flow naturally. Also suggest a concise title for the entry, ")
	b.WriteString("a single-word mood that captures the essence of the entry (e.g., Grateful, Reflective, Anxious, Hopeful), ")
	b.WriteString("and up to 3 relevant tags as an array of strings.")

	respSchema := objectSchema(map[string]*schema{
		"title":   stringSchema(),
		"content": stringSchema(),
		"mood":    stringSchema(),
		"tags":    stringArraySchema(),
	})
	var entry model.GeneratedEntry
	if err := c.generate(ctx, b.String(), respSchema, &entry); err != nil {
		return model.GeneratedEntry{}, err
	}
	if entry.Title == "" || entry.Content == "" {
		return model.GeneratedEntry{}, fmt.Errorf("assistant: response missing title or content")
	}
	if len(entry.Tags) > 3 {
		entry.Tags = entry.Tags[:3]
	}
	return entry, nil
}

// generate performs one generateContent call and decodes the JSON text
// of the first candidate into out. Any schema or parse failure fails
// the whole step; there is no partial data.
func (c *Client) generate(ctx context.Context, prompt string, respSchema *schema, out any) error {
	if c.apiKey == "" {
		return ErrMissingAPIKey
	}
	reqBody := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   respSchema,
		},
	}
	encoded, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("assistant: failed to encode request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.endpoint, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("assistant: failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("assistant: request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("assistant: unexpected status: %s", resp.Status)
	}

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return fmt.Errorf("assistant: failed to decode response: %w", err)
	}
	text := candidateText(decoded)
	if text == "" {
		return fmt.Errorf("assistant: response contained no candidates")
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), out); err != nil {
		return fmt.Errorf("assistant: response is not valid JSON: %w", err)
	}
	return nil
}

func candidateText(resp generateResponse) string {
	if len(resp.Candidates) == 0 {
		return ""
	}
	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	return b.String()
}
