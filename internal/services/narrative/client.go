package narrative

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"RiskIQ/internal/domain/models"
	xhttp "RiskIQ/pkg/http"
)

// callState tracks where an external generation call sits in its
// retry lifecycle. Kept explicit so the retry budget and the terminal
// fallback transition stay independently testable.
type callState int

const (
	stateAttempting callState = iota
	stateExhausted
	stateDone
)

// Client calls the external text-generation endpoint. The request
// carries an HF-style inputs payload; the response may be either a
// generated_text document or a chat-completion envelope.
type Client struct {
	base        *xhttp.Client
	url         string
	token       string
	maxAttempts int
	backoff     time.Duration
}

type ClientConfig struct {
	URL         string
	Token       string
	Timeout     time.Duration
	MaxAttempts int
	Backoff     time.Duration
}

func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = 2 * time.Second
	}
	return &Client{
		base:        xhttp.NewClient(xhttp.WithTimeout(cfg.Timeout)),
		url:         cfg.URL,
		token:       cfg.Token,
		maxAttempts: cfg.MaxAttempts,
		backoff:     cfg.Backoff,
	}
}

type generateRequest struct {
	Inputs     string             `json:"inputs"`
	Parameters generateParameters `json:"parameters"`
}

type generateParameters struct {
	MaxNewTokens int     `json:"max_new_tokens"`
	Temperature  float64 `json:"temperature"`
	TopP         float64 `json:"top_p"`
	DoSample     bool    `json:"do_sample"`
}

// Complete sends the prompt, retrying rate-limit, server-busy and
// timeout failures with doubling backoff up to the attempt budget.
// Authentication rejections abort immediately. The returned error is
// always a *models.NarrativeServiceError.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	state := stateAttempting
	attempt := 0
	var lastErr error

	for state == stateAttempting {
		attempt++
		text, err := c.post(ctx, prompt)
		if err == nil {
			state = stateDone
			return text, nil
		}
		lastErr = err

		var se *xhttp.StatusError
		switch {
		case errors.As(err, &se) && (se.Code == http.StatusUnauthorized || se.Code == http.StatusForbidden):
			return "", &models.NarrativeServiceError{Reason: "authentication rejected", Attempts: attempt}
		case attempt >= c.maxAttempts:
			state = stateExhausted
		case retryable(err):
			wait := c.backoff << (attempt - 1)
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return "", &models.NarrativeServiceError{Reason: ctx.Err().Error(), Attempts: attempt}
			}
		default:
			state = stateExhausted
		}
	}

	return "", &models.NarrativeServiceError{Reason: lastErr.Error(), Attempts: attempt}
}

func (c *Client) post(ctx context.Context, prompt string) (string, error) {
	payload := generateRequest{
		Inputs: prompt,
		Parameters: generateParameters{
			MaxNewTokens: 200,
			Temperature:  0.7,
			TopP:         0.9,
			DoSample:     true,
		},
	}

	var raw []byte
	err := c.base.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    c.url,
		Headers: map[string]string{
			"Authorization": "Bearer " + c.token,
			"Content-Type":  "application/json",
		},
		Body: payload,
	}, &raw)
	if err != nil {
		return "", err
	}
	return parseGeneration(raw)
}

// parseGeneration accepts the three response shapes seen in the wild:
// a list of documents, a single document, or a chat completion.
func parseGeneration(raw []byte) (string, error) {
	var list []struct {
		GeneratedText string `json:"generated_text"`
	}
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 && list[0].GeneratedText != "" {
		return strings.TrimSpace(list[0].GeneratedText), nil
	}

	var doc struct {
		GeneratedText string `json:"generated_text"`
		Choices       []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &doc); err == nil {
		if doc.GeneratedText != "" {
			return strings.TrimSpace(doc.GeneratedText), nil
		}
		if len(doc.Choices) > 0 && doc.Choices[0].Message.Content != "" {
			return strings.TrimSpace(doc.Choices[0].Message.Content), nil
		}
	}

	return "", fmt.Errorf("empty generation in response")
}

// retryable reports whether the failure is worth another attempt:
// rate limits, busy upstreams, and transport timeouts.
func retryable(err error) bool {
	var se *xhttp.StatusError
	if errors.As(err, &se) {
		return se.Code == http.StatusTooManyRequests || se.Code == http.StatusServiceUnavailable
	}
	// Transport-level failure (timeout, connection reset).
	return true
}
