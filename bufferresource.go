package vkr

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"
)

// BufferResource is a buffer based resource, for example a
// vertex buffer, storage buffer or UBO, which has been suballocated
// from a larger pool of device memory by the ResourceManager.
type BufferResource struct {
	Buffer
	ResourcePool    *BufferResourcePool
	Allocation      *Allocation
	Usage           vk.BufferUsageFlagBits
	StagingResource *BufferResource
}

// RequiresStaging indicates that this particular buffer resource
// must be staged before it can be used. This is primarily
// indicative that the BufferResource is stored in device memory.
func (r *BufferResource) RequiresStaging() bool {
	return r.ResourcePool.NeedsStaging
}

func (r *BufferResource) String() string {
	return fmt.Sprintf("{Buffer: %d bytes, Usage: %s, Allocation: %s}", r.Size, usageToString(r.Usage), r.Allocation)
}

// AllocateStagingResource will allocate an appropriate resource
// which can be used for staging this resource. Once allocated
// it must be explicitly free'd. The staging resource is allocated
// from a resource pool called 'staging', which the program must create
func (r *BufferResource) AllocateStagingResource() error {
	if r.ResourcePool.NeedsStaging {
		stagingPool := r.ResourcePool.ResourceManager.GetStagingPool()
		if stagingPool == nil {
			return fmt.Errorf("failed to acquire pool with name 'staging' for staging resources, please insure it has been created")
		}
		var err error
		r.StagingResource, err = stagingPool.AllocateBuffer(r.Buffer.Size, vk.BufferUsageTransferSrcBit)
		if err != nil {
			return err
		}
		return nil
	}
	return fmt.Errorf("resource does not require staging")

}

// FreeStagingResource will free the staged resource associated with this resource
func (r *BufferResource) FreeStagingResource() {
	if r.StagingResource != nil {
		r.StagingResource.Free()
		r.StagingResource = nil
	}
}

// CmdCopyBufferFromStagedResource will populate this buffer from the previously
// allocated staged resource. The copy covers the requested buffer size, the
// suballocation behind it may be larger due to alignment padding.
func (c *CommandBuffer) CmdCopyBufferFromStagedResource(resource *BufferResource) {
	vk.CmdCopyBuffer(c.VK(), resource.StagingResource.Buffer.VKBuffer, resource.Buffer.VKBuffer, 1, []vk.BufferCopy{
		{
			SrcOffset: 0,
			DstOffset: 0,
			Size:      vk.DeviceSize(resource.Size),
		},
	})
}

// Bytes returns a byte slice view of the resource's region of the pool
// memory, the pool memory must be mapped first. The window is the requested
// buffer size, not the padded suballocation size.
func (r *BufferResource) Bytes() []byte {
	if r.RequiresStaging() {
		return nil
	}

	data := r.ResourcePool.Memory.Bytes()
	if data == nil {
		return nil
	}

	return data[r.Allocation.Offset : r.Allocation.Offset+r.Size]
}

func (r *BufferResource) Destroy() {
	r.Free()
}

// Free this resource and its associated resources
func (r *BufferResource) Free() {
	if r.StagingResource != nil {
		r.StagingResource.Free()
		r.StagingResource = nil
	}
	if r.Allocation != nil {
		r.ResourcePool.Allocator.Free(r.Allocation)
		r.Allocation = nil
	}
	if r.Buffer.VKBuffer != vk.NullBuffer {
		r.Buffer.Destroy()
		r.Buffer.VKBuffer = vk.NullBuffer
	}
}
