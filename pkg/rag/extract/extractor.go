package extract

import (
	"strings"

	"medrag-be/internal/constant"
)

// Result is the structured outcome of parsing one model response.
type Result struct {
	Label     string
	Rationale string
}

// Extract pulls the primary diagnosis label out of the model's free-text
// response. The text between the Diagnoses marker and the next section marker
// is the label material; when the marker is missing the label falls back to
// the Unknown sentinel and the whole response becomes the rationale.
//
// This is a textual contract with prompt.BuildDiagnostic, not a structured
// output guarantee. The model may not comply, so Extract never fails: it
// always returns a usable Result.
func Extract(modelOutput string) Result {
	res := Result{
		Label:     constant.UnknownDiagnosis,
		Rationale: modelOutput,
	}

	_, after, found := strings.Cut(modelOutput, constant.SectionDiagnoses)
	if !found {
		return res
	}

	section := after
	if idx := strings.Index(after, constant.SectionPrefix); idx >= 0 {
		section = after[:idx]
	}

	if label := strings.TrimSpace(section); label != "" {
		res.Label = label
	}
	return res
}
