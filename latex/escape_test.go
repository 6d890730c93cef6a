package latex

import (
	"slices"
	"testing"
)

func TestEscapeText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"  a \n\n b  ", " a b "},
		{"\u2028x\ufeff", " x "},
		{"2^10", "2^{}10"},
		{"100%", `100\%`},
		{"{braces} stay", "{braces} stay"},
	}
	for _, tt := range tests {
		if got := escapeText(tt.in); got != tt.want {
			t.Errorf("escapeText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEntityNames(t *testing.T) {
	if hasEntityRef("a & b;") {
		t.Fatalf("bare ampersand is not a reference")
	}
	if !hasEntityRef("x &ch1.sec2; y") {
		t.Fatalf("dotted reference not found")
	}
	if got := entityNames(" &a; text &b.c;"); !slices.Equal(got, []string{"a", "b.c"}) {
		t.Fatalf("entityNames() = %v", got)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		tag  string
		want Class
	}{
		{"#comment", Removed},
		{"COMMENT", Removed},
		{"SOLUTION", Removed},
		{"SUBINDEX", Removed},
		{"SPLIT", Unwrapped},
		{"span", Unwrapped},
		{"SPAN", Unclassified},
		{"BLINK", Unclassified},
	}
	for _, tt := range tests {
		if got := Classify(tt.tag); got != tt.want {
			t.Errorf("Classify(%q) = %s, want %s", tt.tag, got, tt.want)
		}
	}
}
