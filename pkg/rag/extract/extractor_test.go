package extract

import (
	"strings"
	"testing"

	"medrag-be/internal/constant"
	"medrag-be/pkg/rag/prompt"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name      string
		output    string
		wantLabel string
	}{
		{
			name:      "label between markers",
			output:    "### Diagnoses\npneumonia\n### Follow-up Questions\nHow long?",
			wantLabel: "pneumonia",
		},
		{
			name:      "label at end of output",
			output:    "preamble\n### Diagnoses\nbronchitis",
			wantLabel: "bronchitis",
		},
		{
			name:      "missing marker falls back to Unknown",
			output:    "The patient likely has pneumonia.",
			wantLabel: constant.UnknownDiagnosis,
		},
		{
			name:      "empty section falls back to Unknown",
			output:    "### Diagnoses\n\n### Tests\nCBC",
			wantLabel: constant.UnknownDiagnosis,
		},
		{
			name:      "empty output",
			output:    "",
			wantLabel: constant.UnknownDiagnosis,
		},
		{
			name:      "multiline label kept verbatim",
			output:    "### Diagnoses\n1. gerd\n2. reflux likely\n### Tests\nnone",
			wantLabel: "1. gerd\n2. reflux likely",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.output)
			if got.Label != tt.wantLabel {
				t.Errorf("Extract label = %q, want %q", got.Label, tt.wantLabel)
			}
			if got.Rationale != tt.output {
				t.Errorf("rationale must always be the full output, got %q", got.Rationale)
			}
		})
	}
}

// The extractor and the diagnostic prompt share their section markers; a
// compliant model echoing the prompt's structure must round-trip.
func TestExtractRoundTripsPromptStructure(t *testing.T) {
	p := prompt.BuildDiagnostic("fever and cough", "similar case text")

	modelOutput := strings.Replace(p,
		constant.SectionDiagnoses+"\n1. Primary diagnosis from list",
		constant.SectionDiagnoses+"\ninfluenza",
		1)
	// Strip the rest of the template's instruction lines under Diagnoses.
	modelOutput = strings.Replace(modelOutput, "2. Brief explanation\n", "", 1)

	got := Extract(modelOutput)
	if got.Label != "influenza" {
		t.Errorf("round trip label = %q, want %q", got.Label, "influenza")
	}
}
