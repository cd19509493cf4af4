package vkr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"
)

func memType(flags vk.MemoryPropertyFlagBits) vk.MemoryType {
	return vk.MemoryType{PropertyFlags: vk.MemoryPropertyFlags(flags)}
}

func TestFindMemoryTypeIndex(t *testing.T) {
	types := MemoryTypeSlice{
		memType(vk.MemoryPropertyDeviceLocalBit),
		memType(vk.MemoryPropertyHostVisibleBit),
		memType(vk.MemoryPropertyHostVisibleBit | vk.MemoryPropertyHostCoherentBit),
		memType(vk.MemoryPropertyHostVisibleBit | vk.MemoryPropertyHostCoherentBit),
	}

	idx, err := findMemoryTypeIndex(0xf, vk.MemoryPropertyDeviceLocalBit, types)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), idx)

	// first match wins
	idx, err = findMemoryTypeIndex(0xf, vk.MemoryPropertyHostVisibleBit, types)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), idx)

	// all requested properties must be present
	idx, err = findMemoryTypeIndex(0xf, vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit, types)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), idx)
}

func TestFindMemoryTypeIndexHonorsTypeBits(t *testing.T) {
	types := MemoryTypeSlice{
		memType(vk.MemoryPropertyHostVisibleBit),
		memType(vk.MemoryPropertyHostVisibleBit),
	}

	// the resource only allows type 1
	idx, err := findMemoryTypeIndex(0x2, vk.MemoryPropertyHostVisibleBit, types)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), idx)
}

func TestFindMemoryTypeIndexNoMatch(t *testing.T) {
	types := MemoryTypeSlice{
		memType(vk.MemoryPropertyDeviceLocalBit),
	}

	_, err := findMemoryTypeIndex(0x1, vk.MemoryPropertyHostVisibleBit, types)
	assert.Error(t, err)

	_, err = findMemoryTypeIndex(0x0, vk.MemoryPropertyDeviceLocalBit, types)
	assert.Error(t, err)
}

func TestMemoryTypeSliceFilter(t *testing.T) {
	types := MemoryTypeSlice{
		memType(vk.MemoryPropertyDeviceLocalBit),
		memType(vk.MemoryPropertyHostVisibleBit | vk.MemoryPropertyHostCoherentBit),
		memType(vk.MemoryPropertyHostVisibleBit),
	}

	assert.Equal(t, 1, types.NumDeviceLocal())
	assert.Equal(t, 2, types.NumHostVisible())
	assert.Equal(t, 1, types.NumHostCoherent())
}
