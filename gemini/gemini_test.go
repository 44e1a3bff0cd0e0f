package gemini

import (
	"context"
	"errors"
	"testing"
)

func TestClientFromEnv_MissingKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	_, err := ClientFromEnv(context.Background())
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("ClientFromEnv() error = %v, want %v", err, ErrMissingAPIKey)
	}
}

func TestClientFromEnv_WithKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")

	client, err := ClientFromEnv(context.Background())
	if err != nil {
		t.Fatalf("ClientFromEnv() unexpected error = %v", err)
	}
	if client == nil {
		t.Fatal("ClientFromEnv() returned nil client")
	}
}
