package model

import (
	"math/bits"
	"sort"
)

// wordSize is the number of tick indexes covered by one bitmap word.
const wordSize = 256

// BitmapWord is a 256-bit word, least significant chunk first.
type BitmapWord [4]uint64

// TickBitmap is a sparse bitmap of initialized tick indexes for one pool.
// Bit i of word w is set exactly when the tick at w*256+i is initialized.
type TickBitmap struct {
	PoolPair string               `json:"pool_pair"`
	Words    map[int32]BitmapWord `json:"words"`
}

// NewTickBitmap returns an empty bitmap for a pool pair.
func NewTickBitmap(poolPair string) *TickBitmap {
	return &TickBitmap{
		PoolPair: poolPair,
		Words:    make(map[int32]BitmapWord),
	}
}

// wordAndBit splits a tick into its word index and bit position.
// Arithmetic shift keeps negative ticks on the floor-division grid.
func wordAndBit(tick int32) (int32, uint32) {
	word := tick >> 8
	bit := uint32(tick - word*wordSize)
	return word, bit
}

// SetBit marks the tick as initialized.
func (m *TickBitmap) SetBit(tick int32) {
	if m.Words == nil {
		m.Words = make(map[int32]BitmapWord)
	}
	w, b := wordAndBit(tick)
	word := m.Words[w]
	word[b/64] |= uint64(1) << (b % 64)
	m.Words[w] = word
}

// ClearBit marks the tick as uninitialized. Empty words are dropped.
func (m *TickBitmap) ClearBit(tick int32) {
	w, b := wordAndBit(tick)
	word, ok := m.Words[w]
	if !ok {
		return
	}
	word[b/64] &^= uint64(1) << (b % 64)
	if word.isZero() {
		delete(m.Words, w)
		return
	}
	m.Words[w] = word
}

// IsSet reports whether the tick is marked initialized.
func (m *TickBitmap) IsSet(tick int32) bool {
	w, b := wordAndBit(tick)
	word, ok := m.Words[w]
	if !ok {
		return false
	}
	return word[b/64]&(uint64(1)<<(b%64)) != 0
}

// NextSetBit returns the lowest initialized tick at or above tick.
func (m *TickBitmap) NextSetBit(tick int32) (int32, bool) {
	w, b := wordAndBit(tick)
	if word, ok := m.Words[w]; ok {
		if bit, ok := word.nextSet(b); ok {
			return w*wordSize + int32(bit), true
		}
	}
	for _, wi := range m.sortedWords() {
		if wi <= w {
			continue
		}
		if bit, ok := m.Words[wi].nextSet(0); ok {
			return wi*wordSize + int32(bit), true
		}
	}
	return 0, false
}

// PrevSetBit returns the highest initialized tick at or below tick.
func (m *TickBitmap) PrevSetBit(tick int32) (int32, bool) {
	w, b := wordAndBit(tick)
	if word, ok := m.Words[w]; ok {
		if bit, ok := word.prevSet(b); ok {
			return w*wordSize + int32(bit), true
		}
	}
	sorted := m.sortedWords()
	for i := len(sorted) - 1; i >= 0; i-- {
		wi := sorted[i]
		if wi >= w {
			continue
		}
		if bit, ok := m.Words[wi].prevSet(wordSize - 1); ok {
			return wi*wordSize + int32(bit), true
		}
	}
	return 0, false
}

// Clone returns an independent copy of the bitmap.
func (m *TickBitmap) Clone() *TickBitmap {
	if m == nil {
		return nil
	}
	cp := &TickBitmap{
		PoolPair: m.PoolPair,
		Words:    make(map[int32]BitmapWord, len(m.Words)),
	}
	for w, word := range m.Words {
		cp.Words[w] = word
	}
	return cp
}

func (m *TickBitmap) sortedWords() []int32 {
	keys := make([]int32, 0, len(m.Words))
	for w := range m.Words {
		keys = append(keys, w)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func (w BitmapWord) isZero() bool {
	return w[0] == 0 && w[1] == 0 && w[2] == 0 && w[3] == 0
}

// nextSet finds the lowest set bit at or above from within the word.
func (w BitmapWord) nextSet(from uint32) (uint32, bool) {
	for i := from / 64; i < 4; i++ {
		chunk := w[i]
		if i == from/64 {
			chunk &= ^uint64(0) << (from % 64)
		}
		if chunk != 0 {
			return i*64 + uint32(bits.TrailingZeros64(chunk)), true
		}
	}
	return 0, false
}

// prevSet finds the highest set bit at or below upto within the word.
func (w BitmapWord) prevSet(upto uint32) (uint32, bool) {
	start := int32(upto / 64)
	for i := start; i >= 0; i-- {
		chunk := w[i]
		if i == start && upto%64 != 63 {
			chunk &= (uint64(1) << (upto%64 + 1)) - 1
		}
		if chunk != 0 {
			return uint32(i)*64 + uint32(63-bits.LeadingZeros64(chunk)), true
		}
	}
	return 0, false
}
