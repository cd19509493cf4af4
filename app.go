package vkr

import (
	"fmt"
	"time"

	vk "github.com/vulkan-go/vulkan"
)

// HeadlessApp is a utility object which implements many of the core
// requirements to get to a functioning Vulkan app that renders offscreen.
// It sets up the instance and device, picks a graphics and transfer capable
// queue and owns an offscreen render target whose contents can be read back
// to the host. No window system is involved.
type HeadlessApp struct {
	Instance *Instance
	App      *App

	Device         *Device
	PhysicalDevice *PhysicalDevice

	GraphicsPipelineConfigs map[string]IGraphicsPipelineConfig

	// Generated from GraphicsPipelineConfigs
	GraphicsPipelines map[string]vk.Pipeline

	ResourceManager *ResourceManager

	GraphicsQueue *Queue
	PipelineCache *PipelineCache

	GraphicsCommandPool   *CommandPool
	GraphicsCommandBuffer *CommandBuffer

	RenderTarget *RenderTarget

	renderFence *Fence

	extent vk.Extent2D

	debugging bool

	// MakeCommandBuffer records one frame's worth of commands, it is
	// called by RenderFrame after the command buffer has been reset
	MakeCommandBuffer func(command *CommandBuffer)

	// ConfigureRenderPass is a call back which can be supplied to
	// allow for customization of the render pass
	ConfigureRenderPass func(renderPass vk.RenderPassCreateInfo)
}

// NewHeadlessApp creates a new headless app with the given name, version
// and framebuffer extent
func NewHeadlessApp(name string, version Version, extent vk.Extent2D) (*HeadlessApp, error) {
	app := &App{Name: name, Version: version}
	p := &HeadlessApp{
		App:    app,
		extent: extent,
	}
	return p, nil
}

// PhysicalDevices returns a list of physical devices
func (p *HeadlessApp) PhysicalDevices() ([]*PhysicalDevice, error) {
	if p.Instance == nil {
		return nil, fmt.Errorf("platform hasn't been initialized yet")
	}
	return p.Instance.PhysicalDevices()
}

// EnableLayer enables a specific layer if it is supported
func (p *HeadlessApp) EnableLayer(layer string) bool {
	_, err := p.App.EnableLayer(layer)
	return err == nil
}

// EnableExtension enables a specific extension if it is supported
func (p *HeadlessApp) EnableExtension(extension string) bool {
	supportedExtensions, err := p.SupportedExtensions()
	if err != nil {
		return false
	}

	for _, sextension := range supportedExtensions {
		if extension == sextension {
			p.App.EnableExtension(extension)
			return true
		}

	}
	return false
}

// SupportedExtensions returns a list of supported extensions
func (p *HeadlessApp) SupportedExtensions() ([]string, error) {
	return SupportedExtensions()
}

// SupportedLayers returns a list of supported layers
func (p *HeadlessApp) SupportedLayers() ([]string, error) {
	return SupportedLayers()
}

// EnableDebugging enables the validation layer and routes its output to
// the log, it must be called before Init
func (p *HeadlessApp) EnableDebugging() bool {
	if p.Instance != nil {
		return false
	}
	p.App.EnableDebugging()
	p.debugging = true
	return true
}

// CreateGraphicsPipelineConfig creates a graphics pipeline configuration for customization
func (p *HeadlessApp) CreateGraphicsPipelineConfig() *GraphicsPipelineConfig {
	return p.Device.CreateGraphicsPipelineConfig()
}

// AddGraphicsPipelineConfig adds this graphics pipeline config back into the app
func (p *HeadlessApp) AddGraphicsPipelineConfig(name string, config IGraphicsPipelineConfig) {
	if p.GraphicsPipelineConfigs == nil {
		p.GraphicsPipelineConfigs = make(map[string]IGraphicsPipelineConfig)
	}
	p.GraphicsPipelineConfigs[name] = config
}

// Init initializes the headless app, after it returns the device, queue
// and command pool are ready for use
func (p *HeadlessApp) Init() error {

	var err error

	err = Initialize()
	if err != nil {
		return fmt.Errorf("unable to initialize vulkan: %w", err)
	}

	p.Instance, err = p.App.CreateInstance()
	if err != nil {
		return err
	}

	if p.debugging {
		err = p.Instance.UseDefaultDebugCallback()
		if err != nil {
			return fmt.Errorf("unable to register debug callback: %w", err)
		}
	}

	physicalDevices, err := p.Instance.PhysicalDevices()
	if err != nil {
		return fmt.Errorf("error getting devices: %w", err)
	}

	if len(physicalDevices) == 0 {
		return fmt.Errorf("no devices found")
	}

	//FIXME this should probably be smarter than this
	pdevice := physicalDevices[0]

	queues, err := pdevice.QueueFamilies()
	if err != nil {
		return fmt.Errorf("unable to load device queue families: %w", err)
	}

	gqueues := queues.FilterGraphicsAndTransfer()

	if len(gqueues) == 0 {
		return fmt.Errorf("no graphics and transfer capable queues found on device: %v", pdevice)
	}

	ldevice, err := pdevice.CreateLogicalDevice(gqueues[:1])
	if err != nil {
		return fmt.Errorf("unable to create device: %w", err)
	}

	p.Device = ldevice
	p.PhysicalDevice = pdevice

	p.GraphicsQueue = ldevice.GetQueue(gqueues[0])

	p.GraphicsCommandPool, err = p.Device.CreateCommandPool(p.GraphicsQueue.QueueFamily)
	if err != nil {
		return err
	}

	p.ResourceManager = p.Device.CreateResourceManager()

	return nil

}

// PrepareToDraw creates the render target, graphics pipelines and per
// frame objects, it must be called after Init and after MakeCommandBuffer
// is set
func (p *HeadlessApp) PrepareToDraw() error {
	var err error

	if p.MakeCommandBuffer == nil {
		return fmt.Errorf("no function to make command buffers has been configured")
	}

	p.RenderTarget, err = p.Device.CreateRenderTargetWithOptions(p.extent, &CreateRenderTargetOptions{
		ColorFormat:         vk.FormatR32g32b32a32Sfloat,
		DepthFormat:         vk.FormatD32Sfloat,
		ConfigureRenderPass: p.ConfigureRenderPass,
	})
	if err != nil {
		return err
	}

	p.PipelineCache, err = p.Device.CreatePipelineCache()
	if err != nil {
		return err
	}

	err = p.createGraphicsPipelines()
	if err != nil {
		return err
	}

	p.GraphicsCommandBuffer, err = p.GraphicsCommandPool.AllocateBuffer()
	if err != nil {
		return err
	}

	p.renderFence, err = p.Device.CreateFence()
	if err != nil {
		return err
	}

	return nil

}

func (p *HeadlessApp) createGraphicsPipelines() error {

	if len(p.GraphicsPipelineConfigs) == 0 {
		return nil
	}

	configs := make([]vk.GraphicsPipelineCreateInfo, len(p.GraphicsPipelineConfigs))
	nameToID := make(map[string]int)
	i := 0

	for name, gconfig := range p.GraphicsPipelineConfigs {
		config, err := gconfig.VKGraphicsPipelineCreateInfo(p.GetFrameExtent())
		if err != nil {
			return fmt.Errorf("error generating graphics pipeline config '%s' : %w", name, err)
		}
		config.RenderPass = p.RenderTarget.VKRenderPass
		configs[i] = config
		nameToID[name] = i
		i++
	}

	graphicsPipelines := make([]vk.Pipeline, len(configs))
	err := vk.Error(vk.CreateGraphicsPipelines(p.Device.VKDevice, p.PipelineCache.VKPipelineCache,
		uint32(len(configs)),
		configs,
		nil,
		graphicsPipelines))

	if err != nil {
		return err
	}

	p.GraphicsPipelines = make(map[string]vk.Pipeline)
	for name := range p.GraphicsPipelineConfigs {
		p.GraphicsPipelines[name] = graphicsPipelines[nameToID[name]]
	}

	return nil
}

func (p *HeadlessApp) destroyGraphicsPipelines() {
	for _, g := range p.GraphicsPipelines {
		vk.DestroyPipeline(p.Device.VKDevice, g, nil)
	}
	p.GraphicsPipelines = nil
}

// GetFrameExtent returns the extent of the offscreen framebuffer
func (p *HeadlessApp) GetFrameExtent() vk.Extent2D {
	return p.extent
}

// RenderFrame records the command buffer through the MakeCommandBuffer
// call back, submits it and blocks on a fence until the frame is done
func (p *HeadlessApp) RenderFrame() error {

	err := p.GraphicsCommandBuffer.Reset()
	if err != nil {
		return err
	}

	p.MakeCommandBuffer(p.GraphicsCommandBuffer)

	err = p.GraphicsQueue.SubmitWithFence(p.renderFence, p.GraphicsCommandBuffer)
	if err != nil {
		return err
	}

	err = p.Device.WaitForFences(true, time.Minute, p.renderFence)
	if err != nil {
		return err
	}

	return p.renderFence.Reset()

}

// ReadPixels copies the rendered color attachment into host memory and
// returns the raw pixels
func (p *HeadlessApp) ReadPixels() ([]byte, error) {
	return p.RenderTarget.ReadPixels(p.GraphicsQueue, p.GraphicsCommandPool)
}

// Destroy tears down the headless application
func (p *HeadlessApp) Destroy() {

	vk.DeviceWaitIdle(p.Device.VKDevice)

	p.destroyGraphicsPipelines()

	for _, g := range p.GraphicsPipelineConfigs {
		g.Destroy()
	}

	if p.PipelineCache != nil {
		p.PipelineCache.Destroy()
	}

	if p.renderFence != nil {
		p.renderFence.Destroy()
	}

	if p.GraphicsCommandBuffer != nil {
		p.GraphicsCommandPool.FreeBuffer(p.GraphicsCommandBuffer)
	}

	p.ResourceManager.Destroy()

	if p.RenderTarget != nil {
		p.RenderTarget.Destroy()
	}

	p.GraphicsCommandPool.Destroy()

	p.Device.Destroy()

	p.Instance.Destroy()

}
