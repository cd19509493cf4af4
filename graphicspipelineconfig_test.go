package vkr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"
)

func configWithStage() *GraphicsPipelineConfig {
	g := (&Device{}).CreateGraphicsPipelineConfig()
	g.SetShaderStages([]vk.PipelineShaderStageCreateInfo{{
		SType: vk.StructureTypePipelineShaderStageCreateInfo,
		Stage: vk.ShaderStageVertexBit,
	}})
	return g
}

func TestGraphicsPipelineConfigRequiresShaderStage(t *testing.T) {
	g := (&Device{}).CreateGraphicsPipelineConfig()

	_, err := g.VKGraphicsPipelineCreateInfo(vk.Extent2D{Width: 64, Height: 64})
	assert.Error(t, err)
}

func TestGraphicsPipelineConfigDefaults(t *testing.T) {
	g := configWithStage()

	ci, err := g.VKGraphicsPipelineCreateInfo(vk.Extent2D{Width: 640, Height: 480})
	require.NoError(t, err)

	assert.Equal(t, uint32(1), ci.StageCount)
	assert.Equal(t, vk.PrimitiveTopologyTriangleList, ci.PInputAssemblyState.Topology)
	assert.Equal(t, vk.CullModeFlags(vk.CullModeBackBit), ci.PRasterizationState.CullMode)
	assert.Equal(t, float32(640), ci.PViewportState.PViewports[0].Width)
	assert.Equal(t, float32(480), ci.PViewportState.PViewports[0].Height)

	// no blending against the single color attachment unless asked for
	require.Equal(t, uint32(1), ci.PColorBlendState.AttachmentCount)
	assert.Equal(t, vk.Bool32(vk.False), ci.PColorBlendState.PAttachments[0].BlendEnable)
}

func TestGraphicsPipelineConfigBlendAttachment(t *testing.T) {
	g := configWithStage()
	g.AddBlendAttachment(vk.PipelineColorBlendAttachmentState{
		BlendEnable:         vk.True,
		SrcColorBlendFactor: vk.BlendFactorSrcAlpha,
		DstColorBlendFactor: vk.BlendFactorOneMinusSrcAlpha,
	})

	ci, err := g.VKGraphicsPipelineCreateInfo(vk.Extent2D{Width: 64, Height: 64})
	require.NoError(t, err)

	require.Equal(t, uint32(1), ci.PColorBlendState.AttachmentCount)
	assert.Equal(t, vk.Bool32(vk.True), ci.PColorBlendState.PAttachments[0].BlendEnable)
	assert.Equal(t, vk.BlendFactorSrcAlpha, ci.PColorBlendState.PAttachments[0].SrcColorBlendFactor)
}

func TestGraphicsPipelineConfigDynamicState(t *testing.T) {
	g := configWithStage()
	g.SetDynamicState(vk.DynamicStateViewport, vk.DynamicStateScissor)

	ci, err := g.VKGraphicsPipelineCreateInfo(vk.Extent2D{Width: 64, Height: 64})
	require.NoError(t, err)

	require.Equal(t, uint32(2), ci.PDynamicState.DynamicStateCount)
	assert.Equal(t, vk.DynamicStateViewport, ci.PDynamicState.PDynamicStates[0])
	assert.Equal(t, vk.DynamicStateScissor, ci.PDynamicState.PDynamicStates[1])
}

func TestGraphicsPipelineConfigTopologyAndCullMode(t *testing.T) {
	g := configWithStage()
	g.SetPrimitiveTopology(vk.PrimitiveTopologyPointList)
	g.SetCullMode(vk.CullModeNone)

	ci, err := g.VKGraphicsPipelineCreateInfo(vk.Extent2D{Width: 64, Height: 64})
	require.NoError(t, err)

	assert.Equal(t, vk.PrimitiveTopologyPointList, ci.PInputAssemblyState.Topology)
	assert.Equal(t, vk.CullModeFlags(vk.CullModeNone), ci.PRasterizationState.CullMode)
}
