// Package toon implements TOON (Token-Oriented Object Notation), a
// line-oriented, indentation-based text format for the JSON data model,
// designed to use fewer tokens than JSON when fed to a language model
// while remaining exactly as expressive.
//
// Encode and Decode form a round-trip pair: decoding the text Encode
// produces yields a value equal to the normalized form of the original
// input, for any EncoderOptions/DecoderOptions pairing that agree on
// indent width and on key folding versus path expansion (each array's
// delimiter is read back from its header). The exceptions follow from
// the format: tabular array rows decode with their fields in sorted
// order, empty objects are not emitted, and consecutive object elements
// of a non-tabular array decode as one object unless a key repeats.
package toon

// EncodeDefault encodes v with every option left at its default: two-space
// indentation, comma delimiter, and no key folding.
func EncodeDefault(v any) (string, error) {
	return Encode(v, EncoderOptions{})
}

// DecodeDefault decodes src with every option left at its default: two-space
// indentation, lax validation, and no path expansion.
func DecodeDefault(src string) (any, error) {
	return Decode(src, DecoderOptions{})
}
