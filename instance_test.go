package vkr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVKVersion(t *testing.T) {
	v := Version{Major: 1, Minor: 2, Patch: 3}
	assert.Equal(t, uint32(1<<22|2<<12|3), v.VKVersion())

	v = Version{Major: 1}
	assert.Equal(t, uint32(1<<22), v.VKVersion())
}
