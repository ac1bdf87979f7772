package requestid

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestContextRoundTrip(t *testing.T) {
	ctx := WithID(context.Background(), "req-1")
	if got := FromContext(ctx); got != "req-1" {
		t.Fatalf("expected req-1, got %q", got)
	}
	if got := Ensure(ctx); got != "req-1" {
		t.Fatalf("expected stored id, got %q", got)
	}
	if FromContext(context.Background()) != "" {
		t.Fatal("expected empty id for bare context")
	}
}

func TestEnsureGeneratesUUID(t *testing.T) {
	id := Ensure(context.Background())
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("expected uuid, got %q: %v", id, err)
	}
}

func TestValid(t *testing.T) {
	cases := map[string]bool{
		"":                       false,
		"abc-123":                true,
		strings.Repeat("a", 129): false,
		"bad\nid":                false,
	}
	for id, want := range cases {
		if got := Valid(id); got != want {
			t.Errorf("Valid(%q) = %v, want %v", id, got, want)
		}
	}
}
