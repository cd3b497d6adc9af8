package toon

import "golang.org/x/text/width"

// displayWidth measures the number of terminal display columns s
// occupies, counting East Asian wide and fullwidth runes as two columns.
// The encoder's inline-array budget is a column budget, not a byte or
// rune count, since TOON's inline form exists to keep a line visually
// (and token-) compact regardless of script.
func displayWidth(s string) int {
	n := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			n++
		}
	}
	return n
}
