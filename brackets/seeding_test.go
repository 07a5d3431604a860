package brackets

import (
	"math"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedOrder(t *testing.T) {
	tests := []struct {
		size int
		want []int
	}{
		{size: 1, want: []int{1}},
		{size: 2, want: []int{1, 2}},
		{size: 4, want: []int{1, 4, 2, 3}},
		{size: 8, want: []int{1, 8, 4, 5, 2, 7, 3, 6}},
		{size: 16, want: []int{1, 16, 8, 9, 4, 13, 5, 12, 2, 15, 7, 10, 3, 14, 6, 11}},
	}

	for _, tt := range tests {
		got, err := SeedOrder(tt.size)
		require.NoError(t, err)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("SeedOrder(%d) mismatch (-want +got):\n%s", tt.size, diff)
		}
	}
}

func TestSeedOrder_Properties(t *testing.T) {
	for size := 2; size <= 64; size *= 2 {
		order, err := SeedOrder(size)
		require.NoError(t, err)
		require.Len(t, order, size)

		sorted := append([]int(nil), order...)
		sort.Ints(sorted)
		for i, seed := range sorted {
			assert.Equal(t, i+1, seed, "size %d is not a permutation of 1..n", size)
		}

		// Every first-round pairing sums to size+1.
		for i := 0; i < size; i += 2 {
			assert.Equal(t, size+1, order[i]+order[i+1], "size %d pair %d", size, i/2)
		}

		// Seeds 1 and 2 land in opposite halves.
		half := map[int]int{}
		for i, seed := range order {
			half[seed] = i / (size / 2)
		}
		assert.NotEqual(t, half[1], half[2], "size %d", size)
	}
}

func TestSeedOrder_ReturnsCopy(t *testing.T) {
	first, err := SeedOrder(8)
	require.NoError(t, err)
	first[0] = 99

	second, err := SeedOrder(8)
	require.NoError(t, err)
	assert.Equal(t, 1, second[0])
}

func TestSeedOrder_RejectsNonPowerOfTwo(t *testing.T) {
	for _, size := range []int{0, -4, 3, 6, 12, 100} {
		_, err := SeedOrder(size)
		assert.ErrorIs(t, err, ErrNotPowerOfTwo, "size %d", size)
		assert.ErrorIs(t, err, ErrInvalidInput, "size %d", size)
	}
}

func TestNormalizeByes(t *testing.T) {
	tests := []struct {
		participants int
		want         ByeInfo
		rounds       int
	}{
		{participants: 1, want: ByeInfo{BracketSize: 1, ByeCount: 0}, rounds: 0},
		{participants: 2, want: ByeInfo{BracketSize: 2, ByeCount: 0}, rounds: 1},
		{participants: 3, want: ByeInfo{BracketSize: 4, ByeCount: 1}, rounds: 2},
		{participants: 5, want: ByeInfo{BracketSize: 8, ByeCount: 3}, rounds: 3},
		{participants: 8, want: ByeInfo{BracketSize: 8, ByeCount: 0}, rounds: 3},
		{participants: 9, want: ByeInfo{BracketSize: 16, ByeCount: 7}, rounds: 4},
		{participants: 33, want: ByeInfo{BracketSize: 64, ByeCount: 31}, rounds: 6},
	}

	for _, tt := range tests {
		got, err := NormalizeByes(tt.participants)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "participants %d", tt.participants)
		assert.Equal(t, tt.rounds, got.Rounds(), "participants %d", tt.participants)
	}
}

func TestNormalizeByes_Properties(t *testing.T) {
	for n := 1; n <= 130; n++ {
		info, err := NormalizeByes(n)
		require.NoError(t, err)
		assert.True(t, IsPowerOfTwo(info.BracketSize))
		assert.GreaterOrEqual(t, info.BracketSize, n)
		assert.Less(t, info.ByeCount, info.BracketSize/2+1)
		if n > 1 {
			assert.Less(t, info.BracketSize, 2*n, "n=%d", n)
		}
	}
}

func TestNormalizeByes_RejectsEmptyField(t *testing.T) {
	for _, n := range []int{0, -1} {
		_, err := NormalizeByes(n)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
}

func TestNormalizeByes_RejectsFieldsBeyondLargestBracket(t *testing.T) {
	for _, n := range []int{maxPowerOfTwo + 1, math.MaxInt} {
		_, err := NormalizeByes(n)
		assert.ErrorIs(t, err, ErrInvalidInput, "n=%d", n)
	}

	info, err := NormalizeByes(maxPowerOfTwo)
	require.NoError(t, err)
	assert.Equal(t, ByeInfo{BracketSize: maxPowerOfTwo}, info)
}

func TestNextPowerOfTwo(t *testing.T) {
	tests := []struct {
		n    int
		want int
	}{
		{-3, 1},
		{0, 1},
		{1, 1},
		{5, 8},
		{1024, 1024},
		{maxPowerOfTwo - 1, maxPowerOfTwo},
		{maxPowerOfTwo + 1, maxPowerOfTwo},
		{math.MaxInt, maxPowerOfTwo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NextPowerOfTwo(tt.n), "n=%d", tt.n)
	}
}

func TestSeedOrder_RejectsOversizedBracket(t *testing.T) {
	_, err := SeedOrder(MaxSeedOrderSize * 2)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
