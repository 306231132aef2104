package evidence

import (
	"encoding/json"
	"os"
	"regexp"
	"strings"
)

// codePattern matches a coded evidence token, optionally followed by a colon.
// A trailing colon means the token was already annotated, so Decode leaves it
// alone. That is what makes Decode idempotent.
var codePattern = regexp.MustCompile(`E_\d+:?`)

// Decoder rewrites coded evidence tokens (E_52, E_65, ...) in fragment text
// into human-readable annotations using a fixed lookup table. The table is
// immutable after construction.
type Decoder struct {
	table map[string]string
}

func NewDecoder(table map[string]string) *Decoder {
	copied := make(map[string]string, len(table))
	for k, v := range table {
		copied[k] = v
	}
	return &Decoder{table: copied}
}

// Decode annotates every known evidence code in text as "E_52: <description>".
// Unknown codes are left unchanged; decoding is best-effort and never fails.
// Running Decode on its own output produces no further changes.
func (d *Decoder) Decode(text string) string {
	return codePattern.ReplaceAllStringFunc(text, func(token string) string {
		if strings.HasSuffix(token, ":") {
			return token
		}
		desc, ok := d.table[token]
		if !ok {
			return token
		}
		return token + ": " + desc
	})
}

// Size reports how many codes the decoder knows about.
func (d *Decoder) Size() int {
	return len(d.table)
}

// LoadTable reads an evidence mapping from a JSON file of the form
// {"E_1": "Ear pain", ...}.
func LoadTable(path string) (map[string]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var table map[string]string
	if err := json.Unmarshal(raw, &table); err != nil {
		return nil, err
	}
	return table, nil
}

// DefaultTable is the built-in fallback mapping used when no evidence file
// is available on disk.
func DefaultTable() map[string]string {
	return map[string]string{
		"E_1":  "Ear pain",
		"E_2":  "Fever",
		"E_3":  "Chest pain",
		"E_4":  "Cough",
		"E_5":  "Shortness of breath",
		"E_6":  "Abdominal pain",
		"E_7":  "Fatigue",
		"E_8":  "Dyspnea",
		"E_9":  "Weight loss",
		"E_10": "Swelling",
	}
}
