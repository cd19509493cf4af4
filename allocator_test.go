package vkr

import (
	"testing"
)

func TestAlign(t *testing.T) {
	if makeAlignUp(12, 3) != 12 {
		t.Fail()
	}

	if makeAlignUp(10, 3) != 12 {
		t.Fail()
	}

	if makeAlignUp(0, 256) != 0 {
		t.Fail()
	}

	if makeAlignUp(1, 256) != 256 {
		t.Fail()
	}
}

func TestLinearAllocator(t *testing.T) {

	a := LinearAllocator{Size: 1024}

	ra := a.Allocate(2048, 1)
	if ra != nil {
		t.Error("oversized allocation should fail")
	}

	ra = a.Allocate(512, 1)
	fa := ra
	if ra == nil || ra.Offset != 0 {
		t.Error("first allocation should start at offset 0")
	}

	ra = a.Allocate(768, 1)
	if ra != nil {
		t.Error("allocation should not fit in the remaining space")
	}

	ra = a.Allocate(500, 1)
	k := ra
	if ra == nil || ra.Offset != 512 {
		t.Errorf("allocation should follow the first block, got %v", ra)
	}

	ra = a.Allocate(50, 1)
	if ra != nil {
		t.Error("allocation should not fit in the tail")
	}

	ra = a.Allocate(5, 1)
	if ra == nil || ra.Offset != 1012 {
		t.Errorf("small allocation should fit in the tail, got %v", ra)
	}

	a.Free(k)
	ra = a.Allocate(500, 1)
	if ra == nil || ra.Offset != 512 {
		t.Errorf("freed gap should be reused, got %v", ra)
	}

	a.Free(fa)
	ra = a.Allocate(20, 1)
	if ra == nil || ra.Offset != 0 {
		t.Errorf("head gap should be reused, got %v", ra)
	}

	ra = a.Allocate(40, 1)
	if ra == nil || ra.Offset != 20 {
		t.Errorf("gap between blocks should be reused, got %v", ra)
	}

	ra = a.Allocate(500, 1)
	if ra != nil {
		t.Error("no gap should be able to hold this allocation")
	}
}

func TestLinearAllocatorAlignment(t *testing.T) {

	a := LinearAllocator{Size: 1024}

	ra := a.Allocate(10, 1)
	if ra == nil || ra.Offset != 0 {
		t.Fatalf("expected offset 0, got %v", ra)
	}

	ra = a.Allocate(10, 256)
	if ra == nil || ra.Offset != 256 {
		t.Fatalf("expected aligned offset 256, got %v", ra)
	}

	ra = a.Allocate(10, 256)
	if ra == nil || ra.Offset != 512 {
		t.Fatalf("expected aligned offset 512, got %v", ra)
	}
}

type destroyCounter struct {
	count int
}

func (d *destroyCounter) Destroy() {
	d.count++
}

func TestLinearAllocatorDestroyContents(t *testing.T) {

	a := LinearAllocator{Size: 64}
	d := &destroyCounter{}

	r1 := a.Allocate(16, 1)
	r1.Object = d
	r2 := a.Allocate(16, 1)
	r2.Object = d

	a.DestroyContents()

	if d.count != 2 {
		t.Errorf("expected 2 destroys, got %d", d.count)
	}

	ra := a.Allocate(64, 1)
	if ra == nil || ra.Offset != 0 {
		t.Errorf("allocator should be empty after DestroyContents, got %v", ra)
	}
}
