package otel

import (
	"context"
	"testing"
)

func TestSetupIsNoopWithoutEndpoint(t *testing.T) {
	t.Setenv("TRIVIA_OTEL_ENDPOINT", "")
	shutdown, err := Setup(context.Background(), "trivia-test")
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestSetupRespectsDisableFlag(t *testing.T) {
	t.Setenv("TRIVIA_OTEL_ENDPOINT", "http://127.0.0.1:4318")
	t.Setenv("TRIVIA_OTEL_ENABLED", "false")
	shutdown, err := Setup(context.Background(), "trivia-test")
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}
