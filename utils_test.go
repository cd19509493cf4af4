package vkr

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

func TestSafeString(t *testing.T) {
	assert.Equal(t, "\x00", safeString(""))
	assert.Equal(t, "abc\x00", safeString("abc"))
	assert.Equal(t, "abc\x00", safeString("abc\x00"))
}

func TestSafeStrings(t *testing.T) {
	list := safeStrings([]string{"a", "b\x00", ""})
	assert.Equal(t, []string{"a\x00", "b\x00", "\x00"}, list)
}

func TestToBytes(t *testing.T) {
	data := []float32{1.0, 2.0}
	b := ToBytes(unsafe.Pointer(&data[0]), len(data)*4)
	assert.Len(t, b, 8)

	// little endian float32 1.0 is 0x3f800000
	assert.Equal(t, byte(0x80), b[2])
	assert.Equal(t, byte(0x3f), b[3])
}
