package pool

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/joshuapare/sf2kmem/internal/buf"
)

// maxBlocks bounds BlockCount so block indices fit the int32 free list.
const maxBlocks = math.MaxInt32

// Pool is one size class: blockCount fixed-size blocks in a single
// cache-line aligned span, with a stack of free block indices.
//
// Invariants:
//   - free <= blockCount
//   - freeList[:free] holds distinct indices in [0, blockCount)
//   - inUse has a bit set exactly for indices not in freeList[:free]
type Pool struct {
	blockSize  int
	blockCount int
	free       int

	mem  []byte // whole reservation, handed back to the Reserver on release
	base []byte // aligned span, len == blockSize*blockCount; nil when unusable

	start uintptr // address of base[0]
	end   uintptr // start + len(base), exclusive

	freeList []int32
	inUse    []uint64
}

// newPool carves an aligned span out of mem. A nil mem yields an unusable pool.
func newPool(sc SizeClass, mem []byte, line int) (*Pool, error) {
	p := &Pool{blockSize: sc.BlockSize, blockCount: sc.BlockCount}
	if mem == nil {
		return p, nil
	}
	span := sc.BlockSize * sc.BlockCount
	base, _, ok := buf.AlignSlice(mem, uintptr(line), span)
	if !ok {
		return nil, fmt.Errorf("%w: %d-byte reservation cannot hold aligned %d-byte span",
			ErrReserve, len(mem), span)
	}
	p.mem = mem
	p.base = base
	p.start = buf.Addr(base)
	p.end = p.start + uintptr(span)
	p.free = sc.BlockCount
	p.freeList = make([]int32, sc.BlockCount)
	for i := range p.freeList {
		p.freeList[i] = int32(i)
	}
	p.inUse = make([]uint64, (sc.BlockCount+63)/64)
	return p, nil
}

// BlockSize returns the size of every block in the pool.
func (p *Pool) BlockSize() int { return p.blockSize }

// BlockCount returns the number of blocks the pool was built with.
func (p *Pool) BlockCount() int { return p.blockCount }

// FreeCount returns the number of blocks currently available.
func (p *Pool) FreeCount() int { return p.free }

// Usable reports whether the pool's backing storage was reserved.
func (p *Pool) Usable() bool { return p.base != nil }

// Span returns the half-open address range [start, end) of the pool's blocks.
func (p *Pool) Span() (start, end uintptr) { return p.start, p.end }

func (p *Pool) contains(addr uintptr) bool {
	return p.base != nil && addr >= p.start && addr < p.end
}

// pop takes the most recently freed block. Caller checks free > 0.
func (p *Pool) pop() int {
	p.free--
	idx := int(p.freeList[p.free])
	p.inUse[idx/64] |= 1 << (idx % 64)
	return idx
}

// push returns block idx to the free list.
func (p *Pool) push(idx int) error {
	word, bit := idx/64, uint64(1)<<(idx%64)
	if p.free >= p.blockCount || p.inUse[word]&bit == 0 {
		return ErrDoubleFree
	}
	p.inUse[word] &^= bit
	p.freeList[p.free] = int32(idx)
	p.free++
	return nil
}

// block returns block idx resliced to n bytes with the block's full capacity.
func (p *Pool) block(idx, n int) []byte {
	off := idx * p.blockSize
	return p.base[off : off+n : off+p.blockSize]
}

// inUseCount counts allocated blocks from the bitmap, independently of free.
func (p *Pool) inUseCount() int {
	n := 0
	for _, w := range p.inUse {
		n += bits.OnesCount64(w)
	}
	return n
}

func (p *Pool) release(r Reserver) error {
	if p.mem == nil {
		return nil
	}
	err := r.Release(p.mem)
	p.mem, p.base, p.freeList, p.inUse = nil, nil, nil, nil
	p.start, p.end, p.free = 0, 0, 0
	return err
}
