package evidence

import (
	"testing"
)

func TestDecode(t *testing.T) {
	decoder := NewDecoder(map[string]string{
		"E_1": "Ear pain",
		"E_2": "Fever",
	})

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "known code annotated",
			in:   "Patient reports E_1 since last week",
			want: "Patient reports E_1: Ear pain since last week",
		},
		{
			name: "multiple codes",
			in:   "E_1 with E_2",
			want: "E_1: Ear pain with E_2: Fever",
		},
		{
			name: "unknown code untouched",
			in:   "Presents E_99 intermittently",
			want: "Presents E_99 intermittently",
		},
		{
			name: "already annotated code skipped",
			in:   "E_1: Ear pain since last week",
			want: "E_1: Ear pain since last week",
		},
		{
			name: "no codes",
			in:   "no structured evidence here",
			want: "no structured evidence here",
		},
		{
			name: "empty input",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := decoder.Decode(tt.in)
			if got != tt.want {
				t.Errorf("Decode(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDecodeIdempotent(t *testing.T) {
	decoder := NewDecoder(DefaultTable())

	in := "E_1 and E_4, later E_10"
	once := decoder.Decode(in)
	twice := decoder.Decode(once)

	if once != twice {
		t.Errorf("Decode is not idempotent:\nonce:  %q\ntwice: %q", once, twice)
	}
}

func TestDecoderTableIsCopied(t *testing.T) {
	table := map[string]string{"E_1": "Ear pain"}
	decoder := NewDecoder(table)

	table["E_1"] = "mutated"

	got := decoder.Decode("E_1")
	if got != "E_1: Ear pain" {
		t.Errorf("decoder observed external table mutation: %q", got)
	}
}
