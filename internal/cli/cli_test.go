package cli

import (
	"context"
	"testing"

	"live-trivia-service/internal/domain"
)

func TestSampleQuestionSetsAreSequenceable(t *testing.T) {
	raw := sampleQuestionSets()[sampleSetID]
	seq, err := domain.Sequence(raw, domain.SequenceOptions{})
	if err != nil {
		t.Fatalf("sequence: %v", err)
	}
	if len(seq.Unresolved) != 0 || len(seq.Questions) != len(raw) {
		t.Fatalf("expected every sample question playable, unresolved=%v", seq.Unresolved)
	}
	if last := seq.Questions[len(seq.Questions)-1]; last.Round != 3 {
		t.Fatalf("expected three difficulty rounds, got last round %d", last.Round)
	}
}

func TestRootCommandWiresSubcommands(t *testing.T) {
	cmd := newRootCmd()
	for _, name := range []string{"start", "migrate"} {
		sub, _, err := cmd.Find([]string{name})
		if err != nil || sub.Name() != name {
			t.Fatalf("expected %s subcommand, got %v (%v)", name, sub, err)
		}
	}
}

func TestMigrateRequiresPostgres(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TRIVIA_POSTGRES_URL", "")
	if err := runMigrations(context.Background(), ""); err == nil {
		t.Fatalf("expected error without postgres url")
	}
}
