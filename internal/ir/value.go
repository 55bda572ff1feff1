package ir

import (
	"math/big"
	"slices"
	"unicode/utf16"
)

// Value is a sealed interface over the value shapes allowed in canonical
// network documents. There is no float variant: coefficients are encoded as
// exact rational strings ("3", "1/2").
type Value interface {
	irValue()
}

// String is a string value.
type String string

func (String) irValue() {}

// Int is an integer value.
type Int int64

func (Int) irValue() {}

// Bool is a boolean value.
type Bool bool

func (Bool) irValue() {}

// Array is an ordered list of values.
type Array []Value

func (Array) irValue() {}

// Object is a map of string keys to values.
// Use SortedKeys() for deterministic iteration.
type Object map[string]Value

func (Object) irValue() {}

// Rat encodes an exact rational in lowest terms.
func Rat(r *big.Rat) String {
	return String(r.RatString())
}

// SortedKeys returns keys in RFC 8785 canonical order (UTF-16 code units).
// Go's string comparison uses UTF-8 byte order, which differs for
// characters outside the BMP.
func (obj Object) SortedKeys() []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeysRFC8785)
	return keys
}

func compareKeysRFC8785(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))

	for i := 0; i < min(len(a16), len(b16)); i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}

	switch {
	case len(a16) < len(b16):
		return -1
	case len(a16) > len(b16):
		return 1
	}
	return 0
}
