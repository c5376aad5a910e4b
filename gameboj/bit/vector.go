package bit

import (
	"fmt"
	"strings"
)

// WordSize is the number of bits in a Vector word. Vector lengths are always
// a positive multiple of it.
const WordSize = 32

// Vector is an immutable bit array packed into 32-bit words, most significant
// word first. Bit i lives in word len-1-i/32 at position i%32.
//
// Extraction treats the vector as an infinite sequence in both directions,
// either padded with zeros or repeating with the vector's own period.
type Vector struct {
	words []uint32
}

// NewVector builds a vector from words, most significant word first. The
// slice is copied.
func NewVector(words ...uint32) Vector {
	if len(words) == 0 {
		panic("bit: vector needs at least one word")
	}
	w := make([]uint32, len(words))
	copy(w, words)
	return Vector{words: w}
}

// NewZeroVector returns a vector of size bits, all cleared.
func NewZeroVector(size int) Vector {
	return Vector{words: make([]uint32, wordCount(size))}
}

// NewOnesVector returns a vector of size bits, all set.
func NewOnesVector(size int) Vector {
	w := make([]uint32, wordCount(size))
	for i := range w {
		w[i] = 0xFFFFFFFF
	}
	return Vector{words: w}
}

func wordCount(size int) int {
	if size <= 0 || size%WordSize != 0 {
		panic(fmt.Sprintf("bit: invalid vector size %d, must be a positive multiple of %d", size, WordSize))
	}
	return size / WordSize
}

// Size returns the length in bits.
func (v Vector) Size() int {
	return len(v.words) * WordSize
}

// Words returns a copy of the backing words, most significant first.
func (v Vector) Words() []uint32 {
	w := make([]uint32, len(v.words))
	copy(w, v.words)
	return w
}

// TestBit reports whether bit index is set.
func (v Vector) TestBit(index int) bool {
	if index < 0 || index >= v.Size() {
		panic(fmt.Sprintf("bit: index %d out of range [0, %d)", index, v.Size()))
	}
	return (v.words[len(v.words)-1-index/WordSize]>>(index%WordSize))&1 == 1
}

// Not returns the complement.
func (v Vector) Not() Vector {
	w := make([]uint32, len(v.words))
	for i, x := range v.words {
		w[i] = ^x
	}
	return Vector{words: w}
}

// And returns the bitwise conjunction. Both vectors must have the same size.
func (v Vector) And(that Vector) Vector {
	return v.combine(that, func(a, b uint32) uint32 { return a & b })
}

// Or returns the bitwise disjunction. Both vectors must have the same size.
func (v Vector) Or(that Vector) Vector {
	return v.combine(that, func(a, b uint32) uint32 { return a | b })
}

func (v Vector) combine(that Vector, op func(a, b uint32) uint32) Vector {
	if len(v.words) != len(that.words) {
		panic(fmt.Sprintf("bit: vector size mismatch %d != %d", v.Size(), that.Size()))
	}
	w := make([]uint32, len(v.words))
	for i := range w {
		w[i] = op(v.words[i], that.words[i])
	}
	return Vector{words: w}
}

// ExtractZeroExtended returns size bits starting at index, reading bits
// outside the vector as zero. index may be negative.
func (v Vector) ExtractZeroExtended(index, size int) Vector {
	return v.extract(index, size, false)
}

// ExtractWrapped returns size bits starting at index, where bits outside the
// vector repeat the vector periodically. index may be negative.
func (v Vector) ExtractWrapped(index, size int) Vector {
	return v.extract(index, size, true)
}

// Shift moves bits towards higher indices for positive distances and
// towards lower indices for negative ones, filling with zeros.
func (v Vector) Shift(distance int) Vector {
	return v.ExtractZeroExtended(-distance, v.Size())
}

func (v Vector) extract(index, size int, wrapped bool) Vector {
	w := make([]uint32, wordCount(size))
	for i := range w {
		w[len(w)-1-i] = v.extractWord(index+i*WordSize, wrapped)
	}
	return Vector{words: w}
}

// extractWord stitches the 32 bits starting at index out of the two words of
// the infinite extension it straddles.
func (v Vector) extractWord(index int, wrapped bool) uint32 {
	k := floorDiv(index, WordSize)
	offset := floorMod(index, WordSize)
	low := v.infiniteWord(k, wrapped)
	if offset == 0 {
		return low
	}
	high := v.infiniteWord(k+1, wrapped)
	return low>>offset | high<<(WordSize-offset)
}

// infiniteWord returns word k of the infinite extension, k counting from the
// least significant word.
func (v Vector) infiniteWord(k int, wrapped bool) uint32 {
	n := len(v.words)
	if wrapped {
		k = floorMod(k, n)
	} else if k < 0 || k >= n {
		return 0
	}
	return v.words[n-1-k]
}

// Equal reports structural equality.
func (v Vector) Equal(that Vector) bool {
	if len(v.words) != len(that.words) {
		return false
	}
	for i := range v.words {
		if v.words[i] != that.words[i] {
			return false
		}
	}
	return true
}

// String renders the vector most significant bit first.
func (v Vector) String() string {
	var sb strings.Builder
	sb.Grow(v.Size())
	for i := v.Size() - 1; i >= 0; i-- {
		if v.TestBit(i) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	m := a % b
	if m != 0 && ((m < 0) != (b < 0)) {
		m += b
	}
	return m
}

// VectorBuilder assembles a Vector one byte at a time. Byte i covers bits
// 8i..8i+7. A builder can be built only once.
type VectorBuilder struct {
	words []uint32
}

// NewVectorBuilder returns a builder for a vector of size bits, initially zero.
func NewVectorBuilder(size int) *VectorBuilder {
	return &VectorBuilder{words: make([]uint32, wordCount(size))}
}

// SetByte stores b as byte number index of the vector.
func (b *VectorBuilder) SetByte(index int, value uint8) *VectorBuilder {
	if b.words == nil {
		panic("bit: vector builder used after Build")
	}
	if index < 0 || index >= len(b.words)*WordSize/8 {
		panic(fmt.Sprintf("bit: byte index %d out of range", index))
	}
	word := len(b.words) - 1 - index/4
	shift := uint(index%4) * 8
	b.words[word] = b.words[word]&^(0xFF<<shift) | uint32(value)<<shift
	return b
}

// Build returns the vector. The builder cannot be used afterwards.
func (b *VectorBuilder) Build() Vector {
	if b.words == nil {
		panic("bit: vector builder already built")
	}
	v := Vector{words: b.words}
	b.words = nil
	return v
}
