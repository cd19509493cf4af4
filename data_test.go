package vkr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	vk "github.com/vulkan-go/vulkan"
)

func TestIndexSliceTypes(t *testing.T) {
	i16 := IndexSliceUint16{0, 1, 2}
	assert.Equal(t, vk.IndexTypeUint16, i16.IndexType())
	assert.Len(t, i16.Bytes(), 6)

	i32 := IndexSliceUint32{0, 1, 2}
	assert.Equal(t, vk.IndexTypeUint32, i32.IndexType())
	assert.Len(t, i32.Bytes(), 12)
}

func TestVecSliceBytes(t *testing.T) {
	v2 := Vec2Slice{{0, -0.5}, {0.5, 0.5}, {-0.5, 0.5}}
	assert.Len(t, v2.Bytes(), 3*8)

	v4 := Vec4Slice{{1, 2, 3, 4}}
	b := v4.Bytes()
	assert.Len(t, b, 16)

	// first component, little endian float32 1.0
	assert.Equal(t, byte(0x3f), b[3])
}

var _ IndexSource = IndexSliceUint16{}
var _ IndexSource = IndexSliceUint32{}
var _ ByteSource = Vec2Slice{}
var _ ByteSource = Vec4Slice{}
