package vkr

import (
	"encoding/binary"
	"fmt"
	"image"
	"math"

	vk "github.com/vulkan-go/vulkan"
)

// CmdPrepareImageForReadback inserts a barrier which transitions a rendered
// color attachment into the transfer-src layout so it can be copied out.
// It must be recorded after the render pass which produced the image.
func (cb *CommandBuffer) CmdPrepareImageForReadback(img *Image) {
	var barrier = vk.ImageMemoryBarrier{}
	barrier.SType = vk.StructureTypeImageMemoryBarrier
	barrier.OldLayout = vk.ImageLayoutColorAttachmentOptimal
	barrier.NewLayout = vk.ImageLayoutTransferSrcOptimal
	barrier.SrcQueueFamilyIndex = vk.QueueFamilyIgnored
	barrier.DstQueueFamilyIndex = vk.QueueFamilyIgnored
	barrier.Image = img.VKImage
	barrier.SubresourceRange.AspectMask = vk.ImageAspectFlags(vk.ImageAspectColorBit)
	barrier.SubresourceRange.BaseMipLevel = 0
	barrier.SubresourceRange.LevelCount = 1
	barrier.SubresourceRange.BaseArrayLayer = 0
	barrier.SubresourceRange.LayerCount = 1
	barrier.SrcAccessMask = vk.AccessFlags(vk.AccessColorAttachmentReadBit | vk.AccessColorAttachmentWriteBit)
	barrier.DstAccessMask = vk.AccessFlags(vk.AccessTransferReadBit)

	vk.CmdPipelineBarrier(cb.VK(),
		vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		vk.PipelineStageFlags(vk.PipelineStageTransferBit),
		0, 0, nil, 0, nil, 1, []vk.ImageMemoryBarrier{barrier})

}

// CmdCopyImageToBuffer copies a full image in transfer-src layout into a
// buffer with transfer-dst usage
func (cb *CommandBuffer) CmdCopyImageToBuffer(img *Image, buffer *Buffer) {
	vk.CmdCopyImageToBuffer(cb.VK(), img.VKImage, vk.ImageLayoutTransferSrcOptimal, buffer.VKBuffer, 1, []vk.BufferImageCopy{
		{
			BufferOffset:      0,
			BufferRowLength:   0,
			BufferImageHeight: 0,
			ImageSubresource: vk.ImageSubresourceLayers{
				AspectMask:     vk.ImageAspectFlags(vk.ImageAspectColorBit),
				MipLevel:       0,
				BaseArrayLayer: 0,
				LayerCount:     1,
			},
			ImageOffset: vk.Offset3D{},
			ImageExtent: vk.Extent3D{
				Width: img.Extent.Width, Height: img.Extent.Height, Depth: 1,
			},
		},
	})
}

// ReadPixels copies the render target's color image into a host visible
// buffer and returns the raw pixel bytes. The queue is left idle afterwards.
func (r *RenderTarget) ReadPixels(queue *Queue, pool *CommandPool) ([]byte, error) {

	size := int(r.Extent.Width) * int(r.Extent.Height) * formatSizeInBytes(r.ColorImage.VKFormat)

	buffer, memory, err := r.Device.CreateAndBindBufferAndMemory(uint64(size), 0,
		vk.BufferUsageFlags(vk.BufferUsageTransferDstBit),
		vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit,
		vk.SharingModeExclusive)
	if err != nil {
		return nil, err
	}
	readback := &BoundBuffer{Buffer: buffer, Memory: memory}
	defer readback.Destroy()

	cb, err := pool.AllocateBuffer()
	if err != nil {
		return nil, err
	}
	defer pool.FreeBuffer(cb)

	err = cb.BeginOneTime()
	if err != nil {
		return nil, err
	}

	cb.CmdPrepareImageForReadback(&r.ColorImage.Image)
	cb.CmdCopyImageToBuffer(&r.ColorImage.Image, readback.Buffer)

	err = cb.End()
	if err != nil {
		return nil, err
	}

	err = queue.SubmitWaitIdle(cb)
	if err != nil {
		return nil, err
	}

	mapped, err := readback.Memory.Map()
	if err != nil {
		return nil, err
	}
	defer readback.Memory.Unmap()

	data := make([]byte, size)
	copy(data, ToBytes(mapped, size))

	return data, nil

}

func formatSizeInBytes(format vk.Format) int {
	switch format {
	case vk.FormatR32g32b32a32Sfloat:
		return 16
	case vk.FormatR8g8b8a8Unorm, vk.FormatB8g8r8a8Unorm:
		return 4
	default:
		return 4
	}
}

// RGBA128FToImage converts raw 32 bit float RGBA pixels into an 8 bit
// image.RGBA, clamping each channel to [0,1]
func RGBA128FToImage(data []byte, width, height int) (*image.RGBA, error) {
	if len(data) != width*height*16 {
		return nil, fmt.Errorf("expected %d bytes of rgba float pixels, have %d", width*height*16, len(data))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))

	for i := 0; i < width*height; i++ {
		o := i * 16
		for c := 0; c < 4; c++ {
			f := math.Float32frombits(binary.LittleEndian.Uint32(data[o+c*4:]))
			if f < 0 {
				f = 0
			} else if f > 1 {
				f = 1
			}
			img.Pix[i*4+c] = uint8(f*255 + 0.5)
		}
	}

	return img, nil
}
