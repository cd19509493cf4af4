package vkr

import (
	"fmt"
	"log"
	"strings"

	vk "github.com/vulkan-go/vulkan"
)

const StagingPoolName = "staging"

var errInsufficientPoolSpace = fmt.Errorf("insufficient storage space in resource pool")

// BufferResourcePool is a single device memory allocation which many
// buffers are suballocated from. Vulkan limits the total number of memory
// allocations an application may make, so buffers are carved out of pools
// rather than allocated individually.
type BufferResourcePool struct {
	Device           *Device
	Name             string
	Usage            vk.BufferUsageFlagBits
	Sharing          vk.SharingMode
	MemoryProperties vk.MemoryPropertyFlagBits
	Size             uint64
	Allocator        IAllocator
	Memory           *DeviceMemory
	NeedsStaging     bool
	ResourceManager  *ResourceManager
}

// AllocateBuffer carves a buffer out of the pool. The buffer usage must be
// a subset of the usage the pool was created with.
func (p *BufferResourcePool) AllocateBuffer(size uint64, usage vk.BufferUsageFlagBits) (*BufferResource, error) {

	// device local buffers are filled through a staged copy
	if p.NeedsStaging {
		usage |= vk.BufferUsageTransferDstBit
	}

	buffer, err := p.Device.CreateBufferWithOptions(size, vk.BufferUsageFlags(usage), p.Sharing)
	if err != nil {
		return nil, err
	}

	mr := buffer.VKMemoryRequirements()
	mr.Deref()

	allocation := p.Allocator.Allocate(uint64(mr.Size), uint64(mr.Alignment))
	if allocation == nil {
		buffer.Destroy()
		return nil, errInsufficientPoolSpace
	}

	err = buffer.Bind(p.Memory, allocation.Offset)
	if err != nil {
		p.Allocator.Free(allocation)
		buffer.Destroy()
		return nil, err
	}

	ret := &BufferResource{
		Allocation:   allocation,
		ResourcePool: p,
		Usage:        usage,
	}

	ret.VKBuffer = buffer.VKBuffer
	ret.Device = buffer.Device
	ret.Size = buffer.Size

	allocation.Object = ret

	return ret, nil
}

// MapMemory persistently maps the pool's backing memory so that host
// visible buffers allocated from it can be written through Bytes
func (p *BufferResourcePool) MapMemory() error {
	if p.Memory.IsMapped() {
		return nil
	}
	_, err := p.Memory.Map()
	return err
}

func (p *BufferResourcePool) LogDetails() {
	log.Printf("Size: %d, Usage: %s", p.Size, usageToString(p.Usage))
	p.Allocator.LogDetails()
}

func (p *BufferResourcePool) Destroy() {
	if p.Allocator != nil {
		p.Allocator.DestroyContents()
		p.Allocator = nil
	}
	if p.Memory != nil {
		if p.Memory.IsMapped() {
			p.Memory.Unmap()
		}
		p.Memory.Destroy()
		p.Memory = nil
	}
	delete(p.ResourceManager.bufferPools, p.Name)
}

// ResourceManager tracks the buffer pools created for a device
type ResourceManager struct {
	Device      *Device
	bufferPools map[string]*BufferResourcePool
}

func (d *Device) CreateResourceManager() *ResourceManager {
	return &ResourceManager{Device: d, bufferPools: make(map[string]*BufferResourcePool)}
}

func (r *ResourceManager) GetStagingPool() *BufferResourcePool {
	return r.bufferPools[StagingPoolName]
}

func (r *ResourceManager) HasStagingPool() bool {
	return r.bufferPools[StagingPoolName] != nil
}

func (r *ResourceManager) AllocateStagingPool(size uint64) (*BufferResourcePool, error) {
	return r.AllocateBufferPoolWithOptions(StagingPoolName, size, vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit, vk.BufferUsageTransferSrcBit, vk.SharingModeExclusive)
}

func (r *ResourceManager) AllocateHostVertexAndIndexBufferPool(name string, size uint64) (*BufferResourcePool, error) {
	return r.AllocateBufferPoolWithOptions(name, size, vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit, vk.BufferUsageVertexBufferBit|vk.BufferUsageIndexBufferBit, vk.SharingModeExclusive)
}

// AllocateHostStorageBufferPool creates a host visible pool for storage
// buffers, useful for shader inputs rewritten by the host every frame
func (r *ResourceManager) AllocateHostStorageBufferPool(name string, size uint64) (*BufferResourcePool, error) {
	return r.AllocateBufferPoolWithOptions(name, size, vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit, vk.BufferUsageStorageBufferBit, vk.SharingModeExclusive)
}

func (r *ResourceManager) AllocateDeviceVertexAndIndexBufferPool(name string, size uint64) (*BufferResourcePool, error) {
	return r.AllocateBufferPoolWithOptions(name, size, vk.MemoryPropertyDeviceLocalBit, vk.BufferUsageVertexBufferBit|vk.BufferUsageIndexBufferBit, vk.SharingModeExclusive)
}

func (r *ResourceManager) AllocateBufferPoolWithOptions(name string, size uint64, mprops vk.MemoryPropertyFlagBits, usage vk.BufferUsageFlagBits, sharing vk.SharingMode) (*BufferResourcePool, error) {
	needsStaging := false

	//FIXME this could be smarter about detecting integrated devices to really see if staging is needed
	if mprops&vk.MemoryPropertyDeviceLocalBit == vk.MemoryPropertyDeviceLocalBit {
		needsStaging = true
	}

	a := &LinearAllocator{Size: size}

	p := &BufferResourcePool{
		Device:           r.Device,
		Name:             name,
		Usage:            usage,
		Sharing:          sharing,
		MemoryProperties: mprops,
		Size:             size,
		Allocator:        a,
		NeedsStaging:     needsStaging,
		ResourceManager:  r,
	}

	if needsStaging {
		usage |= vk.BufferUsageTransferDstBit
	}

	// A throwaway buffer with the pool's usage determines which memory
	// types the pool allocation must come from
	buffer, err := r.Device.CreateBufferWithOptions(size, vk.BufferUsageFlags(usage), sharing)
	if err != nil {
		return nil, err
	}
	defer buffer.Destroy()

	mr := buffer.VKMemoryRequirements()
	mr.Deref()

	memory, err := r.Device.Allocate(int(size), mr.MemoryTypeBits, mprops)
	if err != nil {
		return nil, err
	}
	p.Memory = memory

	r.bufferPools[name] = p

	return p, nil
}

func (r *ResourceManager) Destroy() {
	for _, p := range r.bufferPools {
		p.Destroy()
	}
}

func (r *ResourceManager) LogDetails() {
	for name, pool := range r.bufferPools {
		log.Printf("Buffer Pool: %s", name)
		pool.LogDetails()
	}
}

func (r *ResourceManager) BufferPool(name string) *BufferResourcePool {
	return r.bufferPools[name]
}

func usageToString(usage vk.BufferUsageFlagBits) string {
	names := []string{}
	if usage&vk.BufferUsageVertexBufferBit != 0 {
		names = append(names, "vertex")
	}
	if usage&vk.BufferUsageIndexBufferBit != 0 {
		names = append(names, "index")
	}
	if usage&vk.BufferUsageUniformBufferBit != 0 {
		names = append(names, "uniform")
	}
	if usage&vk.BufferUsageStorageBufferBit != 0 {
		names = append(names, "storage")
	}
	if usage&vk.BufferUsageTransferSrcBit != 0 {
		names = append(names, "transfer-src")
	}
	if usage&vk.BufferUsageTransferDstBit != 0 {
		names = append(names, "transfer-dst")
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}
