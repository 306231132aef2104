package ragcontext

import (
	"strings"

	"medrag-be/internal/constant"
	"medrag-be/pkg/rag/evidence"
	"medrag-be/pkg/store"
)

// Assembler turns ranked fragments into the bounded context string shown to
// the reasoning model. The cap is a fixed rank cutoff, not a score filter:
// retrieval may cast a wider net than what ends up in the prompt.
type Assembler struct {
	decoder *evidence.Decoder
}

func NewAssembler(decoder *evidence.Decoder) *Assembler {
	return &Assembler{decoder: decoder}
}

// Assemble decodes and joins the first ContextFragmentLimit fragments by
// retrieval rank. The result is bounded regardless of how many fragments were
// retrieved.
func (a *Assembler) Assemble(fragments []store.Fragment) string {
	limit := constant.ContextFragmentLimit
	if len(fragments) < limit {
		limit = len(fragments)
	}

	decoded := make([]string, 0, limit)
	for _, f := range fragments[:limit] {
		decoded = append(decoded, a.decoder.Decode(f.Text))
	}
	return strings.Join(decoded, "\n")
}

// TopMatches returns at most ContextFragmentLimit fragments by rank, with the
// raw (undecoded) text preserved. These are what API responses echo back as
// matched cases.
func TopMatches(fragments []store.Fragment) []store.Fragment {
	limit := constant.ContextFragmentLimit
	if len(fragments) < limit {
		limit = len(fragments)
	}
	return fragments[:limit]
}
