package vkr

import (
	vk "github.com/vulkan-go/vulkan"
)

// RenderTarget is an offscreen color/depth attachment pair together with the
// render pass and framebuffer that draw into it. The color image is created
// with transfer-src usage so rendered frames can be copied out to a host
// visible buffer.
type RenderTarget struct {
	Device *Device
	Extent vk.Extent2D

	ColorImage *BoundImage
	ColorView  *ImageView

	DepthImage *BoundImage
	DepthView  *ImageView

	VKRenderPass  vk.RenderPass
	VKFramebuffer vk.Framebuffer

	// ConfigureRenderPass is a call back which can be supplied to
	// allow for customization of the render pass
	ConfigureRenderPass func(renderPass vk.RenderPassCreateInfo)
}

// CreateRenderTargetOptions controls render target creation
type CreateRenderTargetOptions struct {
	ColorFormat vk.Format
	DepthFormat vk.Format

	// ExtraColorUsage is or'd into the color attachment usage flags
	ExtraColorUsage vk.ImageUsageFlags

	ConfigureRenderPass func(renderPass vk.RenderPassCreateInfo)
}

// CreateRenderTarget creates a render target with wide float color
// (useful for exact readback) and a 32 bit depth attachment
func (d *Device) CreateRenderTarget(extent vk.Extent2D) (*RenderTarget, error) {
	return d.CreateRenderTargetWithOptions(extent, &CreateRenderTargetOptions{
		ColorFormat: vk.FormatR32g32b32a32Sfloat,
		DepthFormat: vk.FormatD32Sfloat,
	})
}

func (d *Device) CreateRenderTargetWithOptions(extent vk.Extent2D, options *CreateRenderTargetOptions) (*RenderTarget, error) {

	var ret RenderTarget
	ret.Device = d
	ret.Extent = extent
	ret.ConfigureRenderPass = options.ConfigureRenderPass

	var err error

	ret.ColorImage, err = d.CreateBoundImage(extent,
		options.ColorFormat,
		vk.ImageTilingOptimal,
		vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit|vk.ImageUsageTransferSrcBit)|options.ExtraColorUsage,
		vk.MemoryPropertyDeviceLocalBit)
	if err != nil {
		return nil, err
	}

	ret.ColorView, err = ret.ColorImage.CreateImageView()
	if err != nil {
		return nil, err
	}

	ret.DepthImage, err = d.CreateBoundImage(extent,
		options.DepthFormat,
		vk.ImageTilingOptimal,
		vk.ImageUsageFlags(vk.ImageUsageDepthStencilAttachmentBit),
		vk.MemoryPropertyDeviceLocalBit)
	if err != nil {
		return nil, err
	}

	ret.DepthView, err = ret.DepthImage.CreateImageViewWithAspectMask(vk.ImageAspectFlags(vk.ImageAspectDepthBit))
	if err != nil {
		return nil, err
	}

	err = ret.createRenderPass()
	if err != nil {
		return nil, err
	}

	err = ret.createFramebuffer()
	if err != nil {
		return nil, err
	}

	return &ret, nil

}

// VKRenderPassCreateInfo is a utility function which creates the render pass info, the implementing application
// can set the ConfigureRenderPass option to customize the render pass
func (r *RenderTarget) VKRenderPassCreateInfo() vk.RenderPassCreateInfo {
	attachmentDescriptions := []vk.AttachmentDescription{{
		Format:         r.ColorImage.VKFormat,
		Samples:        vk.SampleCount1Bit,
		LoadOp:         vk.AttachmentLoadOpClear,
		StoreOp:        vk.AttachmentStoreOpStore,
		StencilLoadOp:  vk.AttachmentLoadOpDontCare,
		StencilStoreOp: vk.AttachmentStoreOpDontCare,
		InitialLayout:  vk.ImageLayoutUndefined,
		FinalLayout:    vk.ImageLayoutColorAttachmentOptimal,
	},
		{
			Format:         r.DepthImage.VKFormat,
			Samples:        vk.SampleCount1Bit,
			LoadOp:         vk.AttachmentLoadOpClear,
			StoreOp:        vk.AttachmentStoreOpDontCare,
			StencilLoadOp:  vk.AttachmentLoadOpDontCare,
			StencilStoreOp: vk.AttachmentStoreOpDontCare,
			InitialLayout:  vk.ImageLayoutUndefined,
			FinalLayout:    vk.ImageLayoutDepthStencilAttachmentOptimal,
		},
	}

	depthAttachmentRef := vk.AttachmentReference{
		Attachment: 1,
		Layout:     vk.ImageLayoutDepthStencilAttachmentOptimal,
	}

	colorAttachments := []vk.AttachmentReference{{
		Attachment: 0,
		Layout:     vk.ImageLayoutColorAttachmentOptimal,
	}}

	subpassDescriptions := []vk.SubpassDescription{{
		PipelineBindPoint:       vk.PipelineBindPointGraphics,
		ColorAttachmentCount:    1,
		PColorAttachments:       colorAttachments,
		PDepthStencilAttachment: &depthAttachmentRef,
	}}

	dependency := vk.SubpassDependency{
		SrcSubpass:    vk.SubpassExternal,
		DstSubpass:    0,
		SrcStageMask:  vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		SrcAccessMask: 0,
		DstStageMask:  vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		DstAccessMask: vk.AccessFlags(vk.AccessColorAttachmentReadBit | vk.AccessColorAttachmentWriteBit),
	}

	renderPassCreateInfo := vk.RenderPassCreateInfo{
		SType:           vk.StructureTypeRenderPassCreateInfo,
		AttachmentCount: 2,
		PAttachments:    attachmentDescriptions,
		SubpassCount:    1,
		PSubpasses:      subpassDescriptions,
		DependencyCount: 1,
		PDependencies:   []vk.SubpassDependency{dependency},
	}

	return renderPassCreateInfo

}

func (r *RenderTarget) createRenderPass() error {
	renderPassCreateInfo := r.VKRenderPassCreateInfo()

	if r.ConfigureRenderPass != nil {
		r.ConfigureRenderPass(renderPassCreateInfo)
	}

	var renderPass vk.RenderPass

	err := vk.Error(vk.CreateRenderPass(r.Device.VKDevice, &renderPassCreateInfo, nil, &renderPass))
	if err != nil {
		return err
	}

	r.VKRenderPass = renderPass

	return nil

}

func (r *RenderTarget) createFramebuffer() error {
	attachments := []vk.ImageView{
		r.ColorView.VKImageView,
		r.DepthView.VKImageView,
	}
	fbCreateInfo := vk.FramebufferCreateInfo{
		SType:           vk.StructureTypeFramebufferCreateInfo,
		RenderPass:      r.VKRenderPass,
		Layers:          1,
		AttachmentCount: uint32(len(attachments)),
		PAttachments:    attachments,
		Width:           r.Extent.Width,
		Height:          r.Extent.Height,
	}
	return vk.Error(vk.CreateFramebuffer(r.Device.VKDevice, &fbCreateInfo, nil, &r.VKFramebuffer))
}

// VKRenderPassBeginInfo returns a begin info covering the full extent which
// clears color to transparent black and depth to 1.0
func (r *RenderTarget) VKRenderPassBeginInfo() vk.RenderPassBeginInfo {
	clearValues := make([]vk.ClearValue, 2)
	clearValues[0].SetColor([]float32{0, 0, 0, 0})
	clearValues[1].SetDepthStencil(1, 0)

	return vk.RenderPassBeginInfo{
		SType:       vk.StructureTypeRenderPassBeginInfo,
		RenderPass:  r.VKRenderPass,
		Framebuffer: r.VKFramebuffer,
		RenderArea: vk.Rect2D{
			Offset: vk.Offset2D{
				X: 0, Y: 0,
			},
			Extent: r.Extent,
		},
		ClearValueCount: 2,
		PClearValues:    clearValues,
	}
}

func (r *RenderTarget) Destroy() {
	vk.DestroyFramebuffer(r.Device.VKDevice, r.VKFramebuffer, nil)
	vk.DestroyRenderPass(r.Device.VKDevice, r.VKRenderPass, nil)

	r.DepthView.Destroy()
	r.DepthImage.Destroy()

	r.ColorView.Destroy()
	r.ColorImage.Destroy()
}
