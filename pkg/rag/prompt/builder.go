package prompt

import (
	"fmt"
	"strings"

	"medrag-be/internal/constant"
	"medrag-be/pkg/store"
)

// BuildDiagnostic renders the structured diagnostic prompt. The four section
// markers it demands are the contract the diagnosis extractor parses back;
// they come from internal/constant so both sides stay in sync.
func BuildDiagnostic(query string, context string) string {
	var b strings.Builder

	b.WriteString("Medical AI: Analyze and diagnose. Keep response under 400 words.\n\n")
	b.WriteString(fmt.Sprintf("Patient: %s\n", query))
	b.WriteString(fmt.Sprintf("Similar Cases: %s\n", context))
	b.WriteString(fmt.Sprintf("Allowed Diagnoses: %s\n\n", constant.AllowedDiagnoses))

	b.WriteString(constant.SectionDiagnoses + "\n")
	b.WriteString("1. Primary diagnosis from list\n")
	b.WriteString("2. Brief explanation\n\n")

	b.WriteString(constant.SectionFollowUp + "\n")
	b.WriteString("3 questions\n\n")

	b.WriteString(constant.SectionTests + "\n")
	b.WriteString("3-5 tests\n\n")

	b.WriteString(constant.SectionTreatment + "\n")
	b.WriteString("Brief plan\n")

	return b.String()
}

// BuildConversational renders the short free-form chat prompt. It carries no
// section markers. History is injected oldest-first and trimmed to the
// trailing window regardless of how many turns the caller passes.
func BuildConversational(query string, context string, history []store.Turn) string {
	var b strings.Builder

	b.WriteString("Medical AI: Answer briefly (under 80 words).\n")
	if rendered := RenderHistory(history); rendered != "" {
		b.WriteString(fmt.Sprintf("History: %s\n", rendered))
	}
	b.WriteString(fmt.Sprintf("Query: %s\n", query))
	b.WriteString(fmt.Sprintf("Cases: %s\n", context))

	return b.String()
}

// RenderHistory formats the trailing window of turns as alternating
// "User: ...\nAssistant: ..." lines, oldest first. At most
// HistoryWindowSize turns are rendered.
func RenderHistory(history []store.Turn) string {
	if len(history) > constant.HistoryWindowSize {
		history = history[len(history)-constant.HistoryWindowSize:]
	}
	lines := make([]string, 0, len(history))
	for _, t := range history {
		lines = append(lines, fmt.Sprintf("User: %s\nAssistant: %s", t.User, t.Assistant))
	}
	return strings.Join(lines, "\n")
}
