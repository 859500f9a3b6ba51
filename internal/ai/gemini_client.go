package ai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"

	genai "github.com/google/generative-ai-go/genai"
)

const modelName = "gemini-2.0-flash"

// ErrNotConfigured is returned when no API key was provided at startup.
var ErrNotConfigured = errors.New("gemini client not configured")

type GeminiClient struct {
	apiKey       string
	breaker      *gobreaker.CircuitBreaker
	rateLimiter  *rate.Limiter
	tokenCounter *TokenCounter
	client       *genai.Client
	tier         string
}

type TokenCounter struct {
	mu              sync.Mutex
	limits          RateLimits
	minuteTokens    int
	dailyTokens     int
	minuteRequests  int
	dailyRequests   int
	lastMinuteReset time.Time
	lastDayReset    time.Time
}

type RateLimits struct {
	RPM int // Requests per minute
	TPM int // Tokens per minute
	RPD int // Requests per day
}

func NewGeminiClient(apiKey string, tier string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, ErrNotConfigured
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	limits := getRateLimits(tier)

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "GeminiAPI",
		MaxRequests: 5,
		Interval:    10 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Printf("Circuit breaker %s: %s -> %s", name, from, to)
		},
	})

	// RPM limit with some buffer
	rateLimiter := rate.NewLimiter(rate.Limit(float64(limits.RPM)*0.9/60.0), limits.RPM/10)

	return &GeminiClient{
		apiKey:       apiKey,
		breaker:      breaker,
		rateLimiter:  rateLimiter,
		tokenCounter: &TokenCounter{limits: limits},
		client:       client,
		tier:         tier,
	}, nil
}

func getRateLimits(tier string) RateLimits {
	switch tier {
	case "free":
		return RateLimits{RPM: 10, TPM: 250000, RPD: 250}
	case "tier1":
		return RateLimits{RPM: 1000, TPM: 1000000, RPD: 10000}
	case "tier2":
		return RateLimits{RPM: 2000, TPM: 4000000, RPD: 50000}
	default:
		return RateLimits{RPM: 10, TPM: 250000, RPD: 250}
	}
}

// GenerateText sends a prompt to Gemini and returns the concatenated text
// of the response. Callers build the full prompt (including any document
// context) themselves.
func (gc *GeminiClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	tracer := otel.Tracer("gemini-client")
	ctx, span := tracer.Start(ctx, "gemini.generate_text")
	defer span.End()

	estimatedTokens := len(prompt) / 4 // 1 token ~ 4 characters for Gemini
	span.SetAttributes(
		attribute.Int("gemini.estimated_tokens", estimatedTokens),
		attribute.String("gemini.model", modelName),
	)

	if !gc.tokenCounter.CanConsume(estimatedTokens, 1) {
		span.SetAttributes(attribute.Bool("gemini.rate_limited", true))
		return "", errors.New("rate limit exceeded: wait before retry")
	}

	if err := gc.rateLimiter.Wait(ctx); err != nil {
		span.SetAttributes(attribute.Bool("gemini.rate_limited", true))
		return "", err
	}

	result, err := gc.breaker.Execute(func() (interface{}, error) {
		model := gc.client.GenerativeModel(modelName)
		model.SetTemperature(0.4)
		model.SetMaxOutputTokens(2048)

		resp, err := model.GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			span.SetAttributes(attribute.Bool("gemini.error", true))
			span.SetAttributes(attribute.String("gemini.error_message", err.Error()))
			return nil, err
		}

		actualTokens := extractTokenUsage(resp)
		gc.tokenCounter.RecordUsage(actualTokens, 1)
		span.SetAttributes(attribute.Int("gemini.actual_tokens", actualTokens))

		return resp, nil
	})

	if err != nil {
		if err == gobreaker.ErrOpenState {
			span.SetAttributes(attribute.Bool("gemini.circuit_breaker_open", true))
			return "", fmt.Errorf("ai service temporarily unavailable: %w", err)
		}
		span.SetAttributes(attribute.Bool("gemini.error", true))
		return "", err
	}

	text := extractText(result.(*genai.GenerateContentResponse))
	if text == "" {
		return "", errors.New("empty response from model")
	}

	span.SetAttributes(attribute.Bool("gemini.success", true))
	return text, nil
}

func (tc *TokenCounter) CanConsume(tokens, requests int) bool {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	now := time.Now()

	// Reset counters if time windows expired
	if now.Sub(tc.lastMinuteReset) >= time.Minute {
		tc.minuteTokens = 0
		tc.minuteRequests = 0
		tc.lastMinuteReset = now
	}

	if now.Sub(tc.lastDayReset) >= 24*time.Hour {
		tc.dailyTokens = 0
		tc.dailyRequests = 0
		tc.lastDayReset = now
	}

	if tc.minuteRequests+requests > tc.limits.RPM {
		return false
	}
	if tc.minuteTokens+tokens > tc.limits.TPM {
		return false
	}
	if tc.dailyRequests+requests > tc.limits.RPD {
		return false
	}

	return true
}

func (tc *TokenCounter) RecordUsage(tokens, requests int) {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	tc.minuteTokens += tokens
	tc.minuteRequests += requests
	tc.dailyTokens += tokens
	tc.dailyRequests += requests
}

// Extract token usage from Gemini response
func extractTokenUsage(resp *genai.GenerateContentResponse) int {
	if resp.UsageMetadata != nil {
		return int(resp.UsageMetadata.TotalTokenCount)
	}

	// Fallback: estimate from response text, ~4 characters per token
	estimated := len(extractText(resp)) / 4
	if estimated < 1 {
		estimated = 1
	}
	return estimated
}

func extractText(resp *genai.GenerateContentResponse) string {
	var out string
	for _, candidate := range resp.Candidates {
		if candidate.Content != nil {
			for _, part := range candidate.Content.Parts {
				if text, ok := part.(genai.Text); ok {
					out += string(text)
				}
			}
		}
	}
	return out
}

// Close the client
func (gc *GeminiClient) Close() error {
	if gc.client != nil {
		return gc.client.Close()
	}
	return nil
}
