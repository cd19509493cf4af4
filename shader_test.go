package vkr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSliceUint32(t *testing.T) {
	data := []byte{0x03, 0x02, 0x23, 0x07, 0x00, 0x00, 0x01, 0x00}

	words := sliceUint32(data)
	assert.Len(t, words, 2)

	// SPIR-V magic number, little endian
	assert.Equal(t, uint32(0x07230203), words[0])
	assert.Equal(t, uint32(0x00010000), words[1])
}
