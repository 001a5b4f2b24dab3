package textrepair

import "testing"

func TestDehyphenate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple wrap", "const- ant", "constant"},
		{"newline wrap", "exam-\n ple", "example"},
		{"multiple spaces", "foo-   bar", "foobar"},
		{"no trigger", "well-known", "well-known"},
		{"trailing hyphen kept", "dangling- ", "dangling- "},
		{"chained wraps", "a- b- c", "abc"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Dehyphenate(tt.in); got != tt.want {
				t.Fatalf("Dehyphenate(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDehyphenateIdempotent(t *testing.T) {
	inputs := []string{"const- ant", "a- b- c", "x-  y and z-\nw", "plain text"}
	for _, in := range inputs {
		once := Dehyphenate(in)
		twice := Dehyphenate(once)
		if once != twice {
			t.Fatalf("not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestMergeEthiopicSpacing(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"two glyphs", "ሰ ላ", "ሰላ"},
		{"glyph run", "ሰ ላ ም ነ ው", "ሰላምነው"},
		{"tab separated", "ቤ\tተ", "ቤተ"},
		{"latin untouched", "a b", "a b"},
		{"mixed untouched", "ሰ a", "ሰ a"},
		{"word boundary kept", "ሰላም hello ዓለም", "ሰላም hello ዓለም"},
		{"no whitespace", "ሰላም", "ሰላም"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MergeEthiopicSpacing(tt.in); got != tt.want {
				t.Fatalf("MergeEthiopicSpacing(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestMergeEthiopicSpacingBlockEdges(t *testing.T) {
	// U+1200 and U+137F are the first and last code points of the
	// Ethiopic block; U+1380 is just outside it.
	if got := MergeEthiopicSpacing("ሀ ፿"); got != "ሀ፿" {
		t.Fatalf("edge glyphs not merged: %q", got)
	}
	if got := MergeEthiopicSpacing("ሀ ᎀ"); got != "ሀ ᎀ" {
		t.Fatalf("out-of-block glyph merged: %q", got)
	}
}

func TestRepairCombinesRules(t *testing.T) {
	in := "መጽ- ሐፍ and ቅ ዱ ስ"
	want := "መጽሐፍ and ቅዱስ"
	if got := Repair(in); got != want {
		t.Fatalf("Repair(%q) = %q, want %q", in, got, want)
	}
}

func TestRepairNestedTrigger(t *testing.T) {
	// Dehyphenation joining two glyphs can expose a new Ethiopic
	// spacing trigger; the rule order plus fixed-point iteration must
	// still converge.
	in := "ሀ- ለ ሐ"
	want := "ሀለሐ"
	if got := Repair(in); got != want {
		t.Fatalf("Repair(%q) = %q, want %q", in, got, want)
	}
}
