package vkr

import (
	vk "github.com/vulkan-go/vulkan"
)

// Buffer is a hunk of data that is bound to memory and given to the
// pipeline through descriptors, vertex bindings or transfer commands
type Buffer struct {
	Device   *Device
	VKBuffer vk.Buffer
	Size     uint64
}

func (d *Device) CreateBuffer(sizeInBytes uint64) (*Buffer, error) {
	return d.CreateBufferWithOptions(sizeInBytes, vk.BufferUsageFlags(vk.BufferUsageStorageBufferBit), vk.SharingModeExclusive)
}

func (d *Device) CreateBufferWithOptions(sizeInBytes uint64, usage vk.BufferUsageFlags, sharing vk.SharingMode) (*Buffer, error) {

	bufferCreateInfo := vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        vk.DeviceSize(sizeInBytes),
		Usage:       usage,
		SharingMode: sharing,
	}

	var buffer vk.Buffer
	err := vk.Error(vk.CreateBuffer(d.VKDevice, &bufferCreateInfo, nil, &buffer))
	if err != nil {
		return nil, err
	}

	var ret Buffer
	ret.VKBuffer = buffer
	ret.Device = d
	ret.Size = sizeInBytes

	return &ret, nil

}

func (b *Buffer) VKMemoryRequirements() vk.MemoryRequirements {
	var memoryRequirements vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(b.Device.VKDevice, b.VKBuffer, &memoryRequirements)
	return memoryRequirements
}

func (b *Buffer) DSInfo(offset int) vk.DescriptorBufferInfo {
	var descriptorBufferInfo = vk.DescriptorBufferInfo{}
	descriptorBufferInfo.Buffer = b.VKBuffer
	descriptorBufferInfo.Offset = vk.DeviceSize(offset)
	descriptorBufferInfo.Range = vk.DeviceSize(b.Size)
	return descriptorBufferInfo
}

func (b *Buffer) AllocationRequirements() *AllocationRequirements {
	memoryRequirements := b.VKMemoryRequirements()
	mr := &memoryRequirements
	mr.Deref()

	return &AllocationRequirements{
		Size:           int(mr.Size),
		Alignment:      int(mr.Alignment),
		MemoryTypeBits: mr.MemoryTypeBits,
	}
}

func (b *Buffer) Bind(memory *DeviceMemory, offset uint64) error {
	return vk.Error(vk.BindBufferMemory(b.Device.VKDevice, b.VKBuffer, memory.VKDeviceMemory, vk.DeviceSize(offset)))
}

func (b *Buffer) Destroy() {
	vk.DestroyBuffer(b.Device.VKDevice, b.VKBuffer, nil)
}

// BoundBuffer is a buffer together with the memory allocation which
// exclusively backs it
type BoundBuffer struct {
	Buffer *Buffer
	Memory *DeviceMemory
}

func (b *BoundBuffer) Destroy() {
	if b.Buffer != nil {
		b.Buffer.Destroy()
	}
	if b.Memory != nil {
		b.Memory.Destroy()
	}
}

// CreateAndBindBufferAndMemory creates a buffer, allocates memory which
// satisfies its requirements and binds the two together
func (d *Device) CreateAndBindBufferAndMemory(size uint64, offset uint64, usage vk.BufferUsageFlags, mprops vk.MemoryPropertyFlagBits, sharing vk.SharingMode) (*Buffer, *DeviceMemory, error) {

	buffer, err := d.CreateBufferWithOptions(size, usage, sharing)
	if err != nil {
		return nil, nil, err
	}
	memory, err := d.AllocateForBuffer(buffer, mprops)
	if err != nil {
		buffer.Destroy()
		return nil, nil, err
	}
	err = buffer.Bind(memory, offset)
	if err != nil {
		memory.Destroy()
		buffer.Destroy()
		return nil, nil, err
	}
	return buffer, memory, nil
}

// CreateHostBuffer creates a host visible, host coherent buffer and
// copies data into it
func (d *Device) CreateHostBuffer(data []byte, usage vk.BufferUsageFlags) (*BoundBuffer, error) {
	buffer, memory, err := d.CreateAndBindBufferAndMemory(uint64(len(data)), 0,
		usage,
		vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit,
		vk.SharingModeExclusive)
	if err != nil {
		return nil, err
	}

	err = memory.MapCopyUnmap(data)
	if err != nil {
		memory.Destroy()
		buffer.Destroy()
		return nil, err
	}

	return &BoundBuffer{Buffer: buffer, Memory: memory}, nil
}

// CreateDeviceLocalBuffer uploads data into a device local buffer by way
// of a host visible staging buffer. A one time command buffer performs the
// copy on the given queue and the call blocks until the copy completes, so
// the staging resources can be released before returning.
func (d *Device) CreateDeviceLocalBuffer(queue *Queue, pool *CommandPool, data []byte, usage vk.BufferUsageFlags) (*BoundBuffer, error) {

	staging, err := d.CreateHostBuffer(data, vk.BufferUsageFlags(vk.BufferUsageTransferSrcBit))
	if err != nil {
		return nil, err
	}
	defer staging.Destroy()

	buffer, memory, err := d.CreateAndBindBufferAndMemory(uint64(len(data)), 0,
		usage|vk.BufferUsageFlags(vk.BufferUsageTransferDstBit),
		vk.MemoryPropertyDeviceLocalBit,
		vk.SharingModeExclusive)
	if err != nil {
		return nil, err
	}

	cb, err := pool.AllocateBuffer()
	if err != nil {
		memory.Destroy()
		buffer.Destroy()
		return nil, err
	}
	defer pool.FreeBuffer(cb)

	err = cb.BeginOneTime()
	if err != nil {
		memory.Destroy()
		buffer.Destroy()
		return nil, err
	}
	cb.CmdCopyBuffer(staging.Buffer, buffer, uint64(len(data)))
	err = cb.End()
	if err != nil {
		memory.Destroy()
		buffer.Destroy()
		return nil, err
	}

	err = queue.SubmitWaitIdle(cb)
	if err != nil {
		memory.Destroy()
		buffer.Destroy()
		return nil, err
	}

	return &BoundBuffer{Buffer: buffer, Memory: memory}, nil
}
