package ragcontext

import (
	"fmt"
	"strings"
	"testing"

	"medrag-be/pkg/rag/evidence"
	"medrag-be/pkg/store"
)

func makeFragments(n int) []store.Fragment {
	out := make([]store.Fragment, n)
	for i := range out {
		out[i] = store.Fragment{
			Index: i,
			Text:  fmt.Sprintf("fragment %d with E_1", i),
			Score: 1.0 - float64(i)*0.1,
		}
	}
	return out
}

func TestAssembleCapsAtThree(t *testing.T) {
	assembler := NewAssembler(evidence.NewDecoder(evidence.DefaultTable()))

	tests := []struct {
		name      string
		fragments []store.Fragment
		wantLines int
	}{
		{"fewer than cap", makeFragments(2), 2},
		{"exactly cap", makeFragments(3), 3},
		{"more than cap", makeFragments(10), 3},
		{"empty", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := assembler.Assemble(tt.fragments)
			if got == "" {
				if tt.wantLines != 0 {
					t.Fatalf("Assemble returned empty, want %d lines", tt.wantLines)
				}
				return
			}
			lines := strings.Split(got, "\n")
			if len(lines) != tt.wantLines {
				t.Errorf("Assemble produced %d lines, want %d", len(lines), tt.wantLines)
			}
		})
	}
}

func TestAssembleDecodesAndPreservesRank(t *testing.T) {
	assembler := NewAssembler(evidence.NewDecoder(evidence.DefaultTable()))

	got := assembler.Assemble(makeFragments(5))

	lines := strings.Split(got, "\n")
	for i, line := range lines {
		if !strings.HasPrefix(line, fmt.Sprintf("fragment %d", i)) {
			t.Errorf("line %d out of rank order: %q", i, line)
		}
		if !strings.Contains(line, "E_1: Ear pain") {
			t.Errorf("line %d not decoded: %q", i, line)
		}
	}
}

func TestTopMatchesKeepsRawText(t *testing.T) {
	fragments := makeFragments(5)

	got := TopMatches(fragments)
	if len(got) != 3 {
		t.Fatalf("TopMatches returned %d fragments, want 3", len(got))
	}
	for i, f := range got {
		if f.Text != fragments[i].Text {
			t.Errorf("fragment %d text altered: %q", i, f.Text)
		}
	}

	short := TopMatches(makeFragments(1))
	if len(short) != 1 {
		t.Errorf("TopMatches on short input returned %d, want 1", len(short))
	}
}
