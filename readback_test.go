package vkr

import (
	"encoding/binary"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"
)

func floatPixels(vals ...float32) []byte {
	data := make([]byte, len(vals)*4)
	for i, v := range vals {
		binary.LittleEndian.PutUint32(data[i*4:], math.Float32bits(v))
	}
	return data
}

func TestRGBA128FToImage(t *testing.T) {
	data := floatPixels(
		1.0, 0.0, 0.0, 1.0,
		0.0, 0.5, 0.0, 1.0,
	)

	img, err := RGBA128FToImage(data, 2, 1)
	require.NoError(t, err)

	assert.Equal(t, color.RGBA{R: 255, A: 255}, img.At(0, 0))
	assert.Equal(t, color.RGBA{G: 128, A: 255}, img.At(1, 0))
}

func TestRGBA128FToImageClamps(t *testing.T) {
	data := floatPixels(2.5, -1.0, 0.0, 1.5)

	img, err := RGBA128FToImage(data, 1, 1)
	require.NoError(t, err)

	assert.Equal(t, color.RGBA{R: 255, G: 0, B: 0, A: 255}, img.At(0, 0))
}

func TestRGBA128FToImageSizeMismatch(t *testing.T) {
	_, err := RGBA128FToImage(make([]byte, 15), 1, 1)
	assert.Error(t, err)
}

func TestFormatSizeInBytes(t *testing.T) {
	assert.Equal(t, 16, formatSizeInBytes(vk.FormatR32g32b32a32Sfloat))
	assert.Equal(t, 4, formatSizeInBytes(vk.FormatR8g8b8a8Unorm))
}
