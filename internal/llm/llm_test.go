package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

func TestStripCodeFences(t *testing.T) {
	in := "```json\n[{\"a\":1}]\n```"
	if got := StripCodeFences(in); got != "[{\"a\":1}]" {
		t.Fatalf("unexpected: %q", got)
	}
	if got := StripCodeFences("[1]"); got != "[1]" {
		t.Fatalf("unfenced input changed: %q", got)
	}
}

func TestDecodeArrayVariants(t *testing.T) {
	type row struct {
		ID string `json:"id"`
	}
	for _, tc := range []struct {
		name string
		raw  string
		want int
	}{
		{"plain array", `[{"id":"A1"},{"id":"B1"}]`, 2},
		{"fenced array", "```json\n[{\"id\":\"A1\"}]\n```", 1},
		{"single object", `{"id":"A1"}`, 1},
		{"prose around array", "以下是審查結果：\n[{\"id\":\"A1\"}]\n以上。", 1},
	} {
		var rows []row
		if err := DecodeArray(tc.raw, &rows); err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if len(rows) != tc.want {
			t.Fatalf("%s: got %d rows, want %d", tc.name, len(rows), tc.want)
		}
	}
}

func TestDecodeArrayRejectsGarbage(t *testing.T) {
	var rows []json.RawMessage
	if err := DecodeArray("這不是 JSON", &rows); err == nil {
		t.Fatal("expected decode error")
	}
}

type scriptedCaller struct {
	outputs []string
	errs    []error
	calls   int
}

func (s *scriptedCaller) GenerateJSON(context.Context, string) (string, error) {
	i := s.calls
	s.calls++
	var out string
	if i < len(s.outputs) {
		out = s.outputs[i]
	}
	var err error
	if i < len(s.errs) {
		err = s.errs[i]
	}
	return out, err
}

func TestExecutorRetriesContentFailures(t *testing.T) {
	c := &scriptedCaller{outputs: []string{"not json", `[{"id":"A1"}]`}}
	exec := NewExecutor(c)
	var rows []struct {
		ID string `json:"id"`
	}
	m, err := exec.Run(context.Background(), "batch AB", "prompt", func(raw string) error {
		return DecodeArray(raw, &rows)
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if m.Attempts != 2 || m.ContentRetries != 1 {
		t.Fatalf("unexpected metrics: %+v", m)
	}
	if len(rows) != 1 || rows[0].ID != "A1" {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}

func TestExecutorFailsAfterThreeBadAttempts(t *testing.T) {
	c := &scriptedCaller{outputs: []string{"x", "y", "z"}}
	exec := NewExecutor(c)
	_, err := exec.Run(context.Background(), "batch", "p", func(raw string) error {
		return errors.New("still bad")
	})
	if err == nil {
		t.Fatal("expected error after retries")
	}
	if c.calls != 3 {
		t.Fatalf("expected 3 calls, got %d", c.calls)
	}
}

func TestExecutorClientErrorDoesNotRetry(t *testing.T) {
	c := &scriptedCaller{errs: []error{errors.New("status code: 400 bad request")}}
	exec := NewExecutor(c)
	_, err := exec.Run(context.Background(), "batch", "p", func(string) error { return nil })
	if err == nil {
		t.Fatal("expected transport error")
	}
	if c.calls != 1 {
		t.Fatalf("client error must not retry, got %d calls", c.calls)
	}
}

func TestClassifyTransportError(t *testing.T) {
	if classifyTransportError(errors.New("429 too many requests")) != failureRateLimit {
		t.Fatal("expected rate limit classification")
	}
	if classifyTransportError(errors.New("status code: 400")) != failureClient {
		t.Fatal("expected client classification")
	}
	if classifyTransportError(errors.New("something exploded")) != failureServer {
		t.Fatal("expected default server classification")
	}
	if classifyTransportError(context.DeadlineExceeded) != failureTimeout {
		t.Fatal("expected timeout classification")
	}
}

func TestBackoffDelay(t *testing.T) {
	if backoffDelay(1).Seconds() != 1 {
		t.Fatal("attempt 1 should be 1s")
	}
	if backoffDelay(2).Seconds() != 2 {
		t.Fatal("attempt 2 should be 2s")
	}
}
