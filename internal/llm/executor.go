package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"
)

type failureClass int

const (
	failureTimeout failureClass = iota
	failureRateLimit
	failureServer
	failureClient
)

// Metrics counts what a single batch cost.
type Metrics struct {
	Attempts       int
	ContentRetries int
}

// Executor runs one prompt with up to three attempts, retrying transient
// transport failures with backoff and unusable content with corrective
// feedback appended to the prompt.
type Executor struct {
	caller Caller
}

func NewExecutor(caller Caller) *Executor {
	return &Executor{caller: caller}
}

// Run calls the model and hands the raw text to decode. A decode error counts
// as a content failure and is fed back to the model on the next attempt.
func (e *Executor) Run(ctx context.Context, name, prompt string, decode func(raw string) error) (Metrics, error) {
	metrics := Metrics{}
	feedback := ""
	for attempt := 1; attempt <= 3; attempt++ {
		metrics.Attempts = attempt
		fullPrompt := prompt
		if feedback != "" {
			fullPrompt += "\n\n" + feedback
		}

		raw, err := e.caller.GenerateJSON(ctx, fullPrompt)
		if err != nil {
			class := classifyTransportError(err)
			if class == failureTimeout || class == failureRateLimit || class == failureServer {
				if attempt < 3 {
					time.Sleep(backoffDelay(attempt))
					continue
				}
			}
			return metrics, fmt.Errorf("%s transport failure: %w", name, err)
		}

		raw = strings.TrimSpace(raw)
		if raw == "" {
			if attempt < 3 {
				metrics.ContentRetries++
				feedback = "你上一次的回應是空的。請僅輸出符合格式的 JSON 陣列。"
				continue
			}
			return metrics, fmt.Errorf("%s failed: empty response", name)
		}

		if err := decode(raw); err != nil {
			if attempt < 3 {
				metrics.ContentRetries++
				feedback = fmt.Sprintf("你上一次的回應無法解析（%s）。請僅輸出符合格式的 JSON 陣列，不得有任何多餘文字。", err)
				continue
			}
			return metrics, fmt.Errorf("%s failed parse: %w", name, err)
		}
		return metrics, nil
	}
	return metrics, fmt.Errorf("%s failed after retries", name)
}

func classifyTransportError(err error) failureClass {
	msg := strings.ToLower(err.Error())
	if errors.Is(err, context.DeadlineExceeded) {
		return failureTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return failureTimeout
	}
	switch {
	case strings.Contains(msg, "429"):
		return failureRateLimit
	case strings.Contains(msg, "status code: 5") || strings.Contains(msg, "server error"):
		return failureServer
	case strings.Contains(msg, "status code: 4"):
		return failureClient
	default:
		return failureServer
	}
}

func backoffDelay(attempt int) time.Duration {
	if attempt <= 1 {
		return 1 * time.Second
	}
	return 2 * time.Second
}
