// Package textrepair applies deterministic corrections to raw OCR
// output. Both rules only remove whitespace and wrap-hyphens the
// typesetting or the engine introduced; they never touch glyphs.
package textrepair

import "regexp"

// Ethiopic covers U+1200..U+137F, the block used by Amharic.
var (
	hyphenBreak   = regexp.MustCompile(`(\S)-\s+(\S)`)
	ethiopicSpace = regexp.MustCompile(`([\x{1200}-\x{137F}])\s+([\x{1200}-\x{137F}])`)
)

// Repair runs all corrective rules over a page transcription.
func Repair(text string) string {
	text = Dehyphenate(text)
	return MergeEthiopicSpacing(text)
}

// Dehyphenate undoes line-wrap hyphenation: a hyphen followed by
// whitespace between two non-space characters collapses to the bare
// character pair. Iterated to a fixed point so chained wraps
// ("a- b- c") fully collapse.
func Dehyphenate(text string) string {
	return fixedPoint(text, func(s string) string {
		return hyphenBreak.ReplaceAllString(s, "$1$2")
	})
}

// MergeEthiopicSpacing removes spurious whitespace the engine inserts
// between Ethiopic glyphs. A single non-overlapping pass leaves every
// other gap in a run of spaced glyphs, so this too iterates to a fixed
// point. Characters outside the Ethiopic block are never merged.
func MergeEthiopicSpacing(text string) string {
	return fixedPoint(text, func(s string) string {
		return ethiopicSpace.ReplaceAllString(s, "$1$2")
	})
}

// fixedPoint reapplies f until the text stops changing. Both rules
// strictly shrink their input, so this terminates.
func fixedPoint(text string, f func(string) string) string {
	for {
		next := f(text)
		if next == text {
			return next
		}
		text = next
	}
}
