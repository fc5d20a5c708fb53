package roomcode

import (
	"context"
	"testing"
)

func TestNewCodeFormat(t *testing.T) {
	gen := NewGenerator(0, nil)
	code, err := gen.NewCode(context.Background())
	if err != nil {
		t.Fatalf("new code: %v", err)
	}
	if len(code) != 6 {
		t.Fatalf("expected 6-character code, got %q", code)
	}
	for _, r := range code {
		if (r < '0' || r > '9') && (r < 'A' || r > 'F') {
			t.Fatalf("unexpected character %q in %q", r, code)
		}
	}
}

func TestNewCodeSkipsLiveCodes(t *testing.T) {
	live := &stubLiveness{remaining: 2}
	gen := NewGenerator(8, live)
	code, err := gen.NewCode(context.Background())
	if err != nil {
		t.Fatalf("new code: %v", err)
	}
	if len(code) != 8 {
		t.Fatalf("expected 8-character code, got %q", code)
	}
	if live.checks != 3 {
		t.Fatalf("expected 3 liveness checks, got %d", live.checks)
	}
}

type stubLiveness struct {
	remaining int
	checks    int
}

func (s *stubLiveness) Live(context.Context, string) (bool, error) {
	s.checks++
	if s.remaining > 0 {
		s.remaining--
		return true, nil
	}
	return false, nil
}
