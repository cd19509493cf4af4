package vkr

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mappedPool fabricates a host visible pool whose memory is backed by a
// plain byte slice, enough to exercise the mapped window logic.
func mappedPool(backing []byte) *BufferResourcePool {
	return &BufferResourcePool{
		Memory: &DeviceMemory{
			Ptr:      unsafe.Pointer(&backing[0]),
			Size:     uint64(len(backing)),
			MapCount: 1,
		},
	}
}

func TestBufferResourceBytesBoundedByRequestedSize(t *testing.T) {
	backing := make([]byte, 256)
	pool := mappedPool(backing)

	// the suballocation is padded well past the requested 64 bytes
	res := &BufferResource{
		ResourcePool: pool,
		Allocation:   &Allocation{Offset: 0, Size: 256},
	}
	res.Size = 64

	require.NotNil(t, res.Bytes())
	assert.Len(t, res.Bytes(), 64)
}

func TestBufferResourceBytesWindowOffset(t *testing.T) {
	backing := make([]byte, 256)
	backing[128] = 0xAB
	pool := mappedPool(backing)

	res := &BufferResource{
		ResourcePool: pool,
		Allocation:   &Allocation{Offset: 128, Size: 64},
	}
	res.Size = 32

	b := res.Bytes()
	require.Len(t, b, 32)
	assert.Equal(t, byte(0xAB), b[0])

	b[1] = 0xCD
	assert.Equal(t, byte(0xCD), backing[129])
}

func TestBufferResourceBytesNilWhenUnmapped(t *testing.T) {
	res := &BufferResource{
		ResourcePool: &BufferResourcePool{Memory: &DeviceMemory{}},
		Allocation:   &Allocation{Offset: 0, Size: 64},
	}
	res.Size = 64

	assert.Nil(t, res.Bytes())
}

func TestBufferResourceBytesNilWhenStaged(t *testing.T) {
	res := &BufferResource{
		ResourcePool: &BufferResourcePool{NeedsStaging: true},
	}

	assert.Nil(t, res.Bytes())
}

func TestAllocateStagingResourceRequiresStagingPool(t *testing.T) {
	rm := &ResourceManager{bufferPools: make(map[string]*BufferResourcePool)}
	res := &BufferResource{
		ResourcePool: &BufferResourcePool{NeedsStaging: true, ResourceManager: rm},
	}

	assert.Error(t, res.AllocateStagingResource())
	assert.False(t, rm.HasStagingPool())
}

func TestAllocateStagingResourceRejectsHostResource(t *testing.T) {
	res := &BufferResource{
		ResourcePool: &BufferResourcePool{NeedsStaging: false},
	}

	assert.Error(t, res.AllocateStagingResource())
}
