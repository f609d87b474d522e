package settings

import (
	"context"
	"testing"
)

func TestNewCliParams(t *testing.T) {
	run := NewCliParams()
	if run.Delimiter != "/" {
		t.Fatalf("Delimiter = %q, want %q", run.Delimiter, "/")
	}
	if run.Output != "csv" {
		t.Fatalf("Output = %q, want %q", run.Output, "csv")
	}
	if !run.ExitOnError {
		t.Fatalf("ExitOnError = false, want true")
	}
	if run.StrictPresence {
		t.Fatalf("StrictPresence = true, want false")
	}
}

func TestContextRoundTrip(t *testing.T) {
	run := NewCliParams()
	ctx := IntoContext(context.Background(), run)
	got, ok := FromContext(ctx)
	if !ok {
		t.Fatalf("FromContext ok = false, want true")
	}
	if got != run {
		t.Fatalf("FromContext returned a different pointer")
	}

	if _, ok := FromContext(context.Background()); ok {
		t.Fatalf("FromContext on empty context ok = true, want false")
	}
}
