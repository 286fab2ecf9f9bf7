// Package bitmap provides a fixed-size, memory-efficient bitset backed by
// uint64 words. Columns use it as their validity mask: bit i is set when row i
// holds a value and clear when the row is null.
package bitmap

import "math/bits"

// Bitmap is a bitset of a fixed length. The zero value is an empty bitmap of
// length 0.
type Bitmap struct {
	data []uint64
	n    int
}

// New allocates a bitmap holding n bits, all clear. If n <= 0 no backing
// storage is allocated and the bitmap has length 0.
func New(n int) *Bitmap {
	if n <= 0 {
		return &Bitmap{}
	}
	return &Bitmap{
		data: make([]uint64, (n+63)/64),
		n:    n,
	}
}

// Len returns the number of addressable bits.
func (b *Bitmap) Len() int { return b.n }

// Add sets bit i. Negative or out-of-range indexes are ignored.
func (b *Bitmap) Add(i int) {
	if i < 0 || i >= b.n {
		return
	}
	b.data[i/64] |= 1 << uint(i%64)
}

// Has reports whether bit i is set. Out-of-range indexes report false.
func (b *Bitmap) Has(i int) bool {
	if i < 0 || i >= b.n {
		return false
	}
	return b.data[i/64]&(1<<uint(i%64)) != 0
}

// Count returns the number of set bits.
func (b *Bitmap) Count() int {
	c := 0
	for _, w := range b.data {
		c += bits.OnesCount64(w)
	}
	return c
}

// Clone returns an independent copy of b.
func (b *Bitmap) Clone() *Bitmap {
	out := &Bitmap{n: b.n}
	if len(b.data) > 0 {
		out.data = append([]uint64(nil), b.data...)
	}
	return out
}

// Words exposes the backing words for hashing. Bits past Len are always clear.
// Callers must not modify the returned slice.
func (b *Bitmap) Words() []uint64 { return b.data }
