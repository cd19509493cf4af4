/*
Package vkr implements a small headless rendering layer atop the Vulkan
graphics framework for go. Vulkan gives applications very direct control
over the GPU at the cost of a verbose object-creation ceremony: an
instance must be created, a physical device picked, a logical device and
queue derived from it, command pools and buffers allocated, pipelines
compiled, and only then can work be submitted.

This package wraps that ceremony for programs which render offscreen,
that is without a window, surface or swapchain. Work is rendered into an
ordinary image which is then copied back into host visible memory where
it can be inspected or written to disk. The wrappers intentionally stay
thin, each object carries its native vulkan handle in an exported VK
prefixed field so that the calling application can always drop down to
the native API when this package does not wrap something.

A typical program looks like this:

	app, err := vkr.NewHeadlessApp("demo", vkr.Version{Major: 1}, vk.Extent2D{Width: 512, Height: 512})
	...
	err = app.Init()
	...
	app.AddGraphicsPipelineConfig("fill", config)
	app.MakeCommandBuffer = func(cb *vkr.CommandBuffer) { ... }
	err = app.PrepareToDraw()
	...
	err = app.RenderFrame()
	...
	pixels, err := app.ReadPixels()

Memory management follows the vulkan model: device memory is allocated
in large hunks and suballocated to buffers through resource pools, since
implementations limit the total number of live allocations. The memory
type for an allocation is picked by scanning the physical device memory
types for the first index that both appears in the resource's memory
type bitmask and carries all requested property flags.
*/
package vkr
