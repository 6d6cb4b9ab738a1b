package main

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestNewKeyMap(t *testing.T) {
	keys := NewKeyMap(map[string]int{"J": 0x4, "x": 0xF})

	assert.Equal(t, uint(0x4), keys['j'])
	assert.Equal(t, uint(0xF), keys['x'])
	assert.Equal(t, uint(0x4), keys['q'])

	// the default map is left alone
	assert.Equal(t, uint(0x0), KeyMap['x'])
	_, ok := KeyMap['j']
	assert.False(t, ok)
}

func TestHeldKeys(t *testing.T) {
	held, err := HeldKeys(KeyMap, "WqV")
	assert.NoError(t, err)
	assert.Equal(t, []uint{0x5, 0x4, 0xF}, held)

	held, err = HeldKeys(KeyMap, "")
	assert.NoError(t, err)
	assert.Equal(t, 0, len(held))

	_, err = HeldKeys(KeyMap, "p")
	assert.Error(t, err)
}
