package prompt

import (
	"fmt"
	"strings"
	"testing"

	"medrag-be/internal/constant"
	"medrag-be/pkg/store"
)

func TestBuildDiagnosticMarkers(t *testing.T) {
	got := BuildDiagnostic("chest pain and cough", "case A\ncase B")

	markers := []string{
		constant.SectionDiagnoses,
		constant.SectionFollowUp,
		constant.SectionTests,
		constant.SectionTreatment,
	}

	lastIdx := -1
	for _, m := range markers {
		idx := strings.Index(got, m)
		if idx < 0 {
			t.Fatalf("prompt missing marker %q", m)
		}
		if idx < lastIdx {
			t.Errorf("marker %q out of order", m)
		}
		lastIdx = idx
	}

	if !strings.Contains(got, "chest pain and cough") {
		t.Error("prompt missing query")
	}
	if !strings.Contains(got, "case A\ncase B") {
		t.Error("prompt missing context")
	}
	if !strings.Contains(got, constant.AllowedDiagnoses) {
		t.Error("prompt missing allowed diagnoses vocabulary")
	}
}

func TestBuildConversationalHistory(t *testing.T) {
	history := []store.Turn{
		{User: "q1", Assistant: "a1"},
		{User: "q2", Assistant: "a2"},
	}

	got := BuildConversational("next question", "ctx", history)

	if !strings.Contains(got, "History: User: q1\nAssistant: a1\nUser: q2\nAssistant: a2") {
		t.Errorf("history block malformed:\n%s", got)
	}
	if !strings.Contains(got, "Query: next question") {
		t.Error("prompt missing query")
	}
	if !strings.Contains(got, "Cases: ctx") {
		t.Error("prompt missing context")
	}
}

func TestBuildConversationalNoHistory(t *testing.T) {
	got := BuildConversational("hello", "ctx", nil)

	if strings.Contains(got, "History:") {
		t.Errorf("empty history should omit the history block:\n%s", got)
	}
}

func TestRenderHistoryWindow(t *testing.T) {
	history := make([]store.Turn, 4)
	for i := range history {
		history[i] = store.Turn{
			User:      fmt.Sprintf("q%d", i+1),
			Assistant: fmt.Sprintf("a%d", i+1),
		}
	}

	got := RenderHistory(history)

	if strings.Contains(got, "q1") {
		t.Error("oldest turn should be trimmed from a 4-turn history")
	}
	for _, want := range []string{"q2", "q3", "q4"} {
		if !strings.Contains(got, want) {
			t.Errorf("trailing window missing %q", want)
		}
	}
	// Oldest-first within the window.
	if strings.Index(got, "q2") > strings.Index(got, "q4") {
		t.Error("history not rendered oldest-first")
	}
}
