package model

import (
	"testing"
)

func TestTickBitmapSetClearIsSet(t *testing.T) {
	bitmap := NewTickBitmap("AAA-BBB")

	ticks := []int32{-887272, -257, -256, -1, 0, 1, 63, 64, 255, 256, 887272}
	for _, tick := range ticks {
		if bitmap.IsSet(tick) {
			t.Fatalf("tick %d set in an empty bitmap", tick)
		}
		bitmap.SetBit(tick)
		if !bitmap.IsSet(tick) {
			t.Fatalf("tick %d not set after SetBit", tick)
		}
	}

	// Neighbors stay untouched.
	for _, tick := range []int32{-2, 2, 62, 65, 254, 257} {
		if bitmap.IsSet(tick) {
			t.Fatalf("tick %d set but never marked", tick)
		}
	}

	for _, tick := range ticks {
		bitmap.ClearBit(tick)
		if bitmap.IsSet(tick) {
			t.Fatalf("tick %d still set after ClearBit", tick)
		}
	}
	if len(bitmap.Words) != 0 {
		t.Fatalf("empty words must be dropped, %d remain", len(bitmap.Words))
	}
}

func TestTickBitmapNextSetBit(t *testing.T) {
	bitmap := NewTickBitmap("AAA-BBB")
	bitmap.SetBit(-300)
	bitmap.SetBit(10)
	bitmap.SetBit(500)

	cases := []struct {
		from  int32
		want  int32
		found bool
	}{
		{-887272, -300, true},
		{-300, -300, true},
		{-299, 10, true},
		{10, 10, true},
		{11, 500, true},
		{500, 500, true},
		{501, 0, false},
	}
	for _, tc := range cases {
		got, ok := bitmap.NextSetBit(tc.from)
		if ok != tc.found || (ok && got != tc.want) {
			t.Fatalf("NextSetBit(%d): got %d/%v, want %d/%v", tc.from, got, ok, tc.want, tc.found)
		}
	}
}

func TestTickBitmapPrevSetBit(t *testing.T) {
	bitmap := NewTickBitmap("AAA-BBB")
	bitmap.SetBit(-300)
	bitmap.SetBit(10)
	bitmap.SetBit(500)

	cases := []struct {
		from  int32
		want  int32
		found bool
	}{
		{887272, 500, true},
		{500, 500, true},
		{499, 10, true},
		{10, 10, true},
		{9, -300, true},
		{-300, -300, true},
		{-301, 0, false},
	}
	for _, tc := range cases {
		got, ok := bitmap.PrevSetBit(tc.from)
		if ok != tc.found || (ok && got != tc.want) {
			t.Fatalf("PrevSetBit(%d): got %d/%v, want %d/%v", tc.from, got, ok, tc.want, tc.found)
		}
	}
}

func TestTickBitmapWordBoundaries(t *testing.T) {
	bitmap := NewTickBitmap("AAA-BBB")

	// 255 and 256 land in adjacent words; -1 and -256 share the word below zero.
	bitmap.SetBit(255)
	bitmap.SetBit(256)
	bitmap.SetBit(-1)
	bitmap.SetBit(-256)

	if got, ok := bitmap.NextSetBit(0); !ok || got != 255 {
		t.Fatalf("NextSetBit(0): got %d/%v, want 255", got, ok)
	}
	if got, ok := bitmap.PrevSetBit(0); !ok || got != -1 {
		t.Fatalf("PrevSetBit(0): got %d/%v, want -1", got, ok)
	}
	if got, ok := bitmap.NextSetBit(256); !ok || got != 256 {
		t.Fatalf("NextSetBit(256): got %d/%v, want 256", got, ok)
	}
	if got, ok := bitmap.PrevSetBit(-2); !ok || got != -256 {
		t.Fatalf("PrevSetBit(-2): got %d/%v, want -256", got, ok)
	}
	if got, ok := bitmap.PrevSetBit(-257); ok {
		t.Fatalf("PrevSetBit(-257): got %d, want none", got)
	}
}

func TestTickBitmapClone(t *testing.T) {
	bitmap := NewTickBitmap("AAA-BBB")
	bitmap.SetBit(42)

	clone := bitmap.Clone()
	clone.SetBit(100)
	clone.ClearBit(42)

	if !bitmap.IsSet(42) || bitmap.IsSet(100) {
		t.Fatalf("mutating the clone leaked into the original")
	}
	if !clone.IsSet(100) || clone.IsSet(42) {
		t.Fatalf("clone did not record its own mutations")
	}
}
