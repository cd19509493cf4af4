package vkr

import (
	"unsafe"

	vk "github.com/vulkan-go/vulkan"
	lin "github.com/xlab/linmath"
)

// ByteSource is anything which can expose its contents as raw bytes
type ByteSource interface {
	Bytes() []byte
}

// IndexSource is index data which knows its vulkan index type
type IndexSource interface {
	ByteSource
	IndexType() vk.IndexType
}

type IndexSliceUint16 []uint16

func (i IndexSliceUint16) Bytes() []byte {
	size := len(i) * int(unsafe.Sizeof(uint16(1)))
	return ToBytes(unsafe.Pointer(&i[0]), size)
}

func (i IndexSliceUint16) IndexType() vk.IndexType {
	return vk.IndexTypeUint16
}

type IndexSliceUint32 []uint32

func (i IndexSliceUint32) Bytes() []byte {
	size := len(i) * int(unsafe.Sizeof(uint32(1)))
	return ToBytes(unsafe.Pointer(&i[0]), size)
}

func (i IndexSliceUint32) IndexType() vk.IndexType {
	return vk.IndexTypeUint32
}

type Vec2Slice []lin.Vec2

func (v Vec2Slice) Bytes() []byte {
	size := len(v) * int(unsafe.Sizeof(lin.Vec2{}))
	return ToBytes(unsafe.Pointer(&v[0]), size)
}

type Vec4Slice []lin.Vec4

func (v Vec4Slice) Bytes() []byte {
	size := len(v) * int(unsafe.Sizeof(lin.Vec4{}))
	return ToBytes(unsafe.Pointer(&v[0]), size)
}
