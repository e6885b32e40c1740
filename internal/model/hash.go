package model

import (
	"strconv"
	"unicode/utf16"
)

// NodeKey returns the graph node key of a value: "h" followed by the
// absolute value of a 32-bit multiplicative string hash over the UTF-16
// code units of value. Keys are stable across runs but not collision
// free, so distinct values may share a node.
func NodeKey(value string) string {
	var h int32

	for _, c := range utf16.Encode([]rune(value)) {
		h = h*31 + int32(c)
	}

	abs := int64(h)
	if abs < 0 {
		abs = -abs
	}

	return "h" + strconv.FormatInt(abs, 10)
}
