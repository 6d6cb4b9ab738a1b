package main

import (
	"fmt"
	"unicode"
)

var (
	/// Mapping of modern keyboard to CHIP-8 keys.
	///
	KeyMap = map[rune]uint{
		'x': 0x0,
		'1': 0x1,
		'2': 0x2,
		'3': 0x3,
		'q': 0x4,
		'w': 0x5,
		'e': 0x6,
		'a': 0x7,
		's': 0x8,
		'd': 0x9,
		'z': 0xA,
		'c': 0xB,
		'4': 0xC,
		'r': 0xD,
		'f': 0xE,
		'v': 0xF,
	}
)

/// NewKeyMap returns the default key map with the overrides from the
/// config file applied.
///
func NewKeyMap(overrides map[string]int) map[rune]uint {
	keys := make(map[rune]uint, len(KeyMap)+len(overrides))

	for r, k := range KeyMap {
		keys[r] = k
	}

	for s, k := range overrides {
		for _, r := range s {
			keys[unicode.ToLower(r)] = uint(k)
		}
	}

	return keys
}

/// HeldKeys maps each keyboard character to the CHIP-8 key it holds.
///
func HeldKeys(keys map[rune]uint, held string) ([]uint, error) {
	var out []uint

	for _, r := range held {
		key, ok := keys[unicode.ToLower(r)]
		if !ok {
			return nil, fmt.Errorf("no keypad key mapped to %q", r)
		}

		out = append(out, key)
	}

	return out, nil
}
