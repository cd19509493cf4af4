package vkr

import (
	"fmt"
	"log"
)

// Allocation is a region handed out by an allocator, identified by pointer
// equality when freed
type Allocation struct {
	Offset uint64
	Size   uint64

	// Object is the resource occupying this allocation, destroyed with
	// the pool
	Object IDestructable
}

func (a *Allocation) String() string {
	return fmt.Sprintf("[%d %d]", a.Offset, a.Size)
}

type IAllocator interface {
	Free(a *Allocation)
	Allocate(size uint64, align uint64) *Allocation
	DestroyContents()
	LogDetails()
}

// LinearAllocator hands out offsets from a fixed size region, reusing gaps
// between freed allocations with a first fit scan. Allocations are kept
// sorted by offset.
type LinearAllocator struct {
	Size   uint64
	allocs []*Allocation
}

func makeAlignUp(a uint64, align uint64) uint64 {
	m := a % align
	if m == 0 {
		return a
	}
	a = (a - m) + align
	return a
}

func (p *LinearAllocator) Free(fa *Allocation) {
	fi := -1
	for i, a := range p.allocs {
		if a == fa {
			fi = i
		}
	}
	if fi != -1 {
		p.allocs = append(p.allocs[:fi], p.allocs[fi+1:]...)
	}
}

func (p *LinearAllocator) Allocate(size uint64, align uint64) *Allocation {
	if len(p.allocs) == 0 {
		if size <= p.Size {
			p.allocs = make([]*Allocation, 0)
			na := &Allocation{Offset: 0, Size: size}
			p.allocs = append(p.allocs, na)
			return na
		}
		// If this pool isn't large enough return nil
		return nil
	}

	// We can insert at the head of the block
	if p.allocs[0].Offset >= size {
		na := &Allocation{Offset: 0, Size: size}
		p.allocs = append([]*Allocation{na}, p.allocs...)
		return na
	}

	for i := 0; i < len(p.allocs); i++ {
		c := p.allocs[i]
		if i+1 < len(p.allocs) {
			n := p.allocs[i+1]

			l := makeAlignUp(c.Offset+c.Size, align)
			h := n.Offset

			if h >= l && h-l >= size {
				// FIXME: this should examine all possible allocation options and choose the best
				na := &Allocation{Offset: l, Size: size}

				p.allocs = append(p.allocs[:i+1], append([]*Allocation{na}, p.allocs[i+1:]...)...)
				return na
			}

		}
	}

	l := p.allocs[len(p.allocs)-1]
	nl := makeAlignUp(l.Offset+l.Size, align)
	if p.Size >= nl && p.Size-nl >= size {
		// Can we allocate from here to the end?
		na := &Allocation{Offset: nl, Size: size}
		p.allocs = append(p.allocs, na)
		return na
	}

	return nil
}

// DestroyContents destroys every object still occupying an allocation
func (p *LinearAllocator) DestroyContents() {
	allocs := p.allocs
	p.allocs = nil
	for _, a := range allocs {
		if a.Object != nil {
			a.Object.Destroy()
		}
	}
}

func (p *LinearAllocator) LogDetails() {
	log.Printf("%v", p.allocs)
}

func (p *LinearAllocator) String() string {
	return fmt.Sprintf("%v", p.allocs)
}
