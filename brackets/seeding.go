package brackets

import (
	"fmt"
	"strconv"
	"sync"
)

// MaxSeedOrderSize bounds SeedOrder. It covers every elimination bracket the generators
// accept.
const MaxSeedOrderSize = 1 << 16

var seedOrderCache = struct {
	sync.Mutex
	bySize map[int][]int
}{bySize: make(map[int][]int)}

// SeedOrder returns the placement of seeds 1..size in bracket order, arranged so that the
// top two seeds sit in opposite halves, the top four in opposite quarters, and so on.
// Adjacent pairs of the result are the first-round pairings.
func SeedOrder(size int) ([]int, error) {
	if !IsPowerOfTwo(size) {
		return nil, fmt.Errorf("%w: got %d", ErrNotPowerOfTwo, size)
	}
	if size > MaxSeedOrderSize {
		return nil, fmt.Errorf("%w: seed order size %d exceeds %d", ErrInvalidInput, size, MaxSeedOrderSize)
	}

	seedOrderCache.Lock()
	defer seedOrderCache.Unlock()

	order, ok := seedOrderCache.bySize[size]
	if !ok {
		order = seedOrder(size)
		seedOrderCache.bySize[size] = order
	}

	out := make([]int, len(order))
	copy(out, order)
	return out, nil
}

func seedOrder(size int) []int {
	if size <= 2 {
		order := make([]int, size)
		for i := range order {
			order[i] = i + 1
		}
		return order
	}

	smaller := seedOrder(size / 2)
	order := make([]int, 0, size)
	for _, k := range smaller {
		order = append(order, k, size+1-k)
	}
	return order
}

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// maxPowerOfTwo is the largest power of two an int can hold.
const maxPowerOfTwo = 1 << (strconv.IntSize - 2)

// NextPowerOfTwo doubles from 1 until the value reaches n. It stops at the largest power of
// two an int can hold, so for n above that the result is smaller than n.
func NextPowerOfTwo(n int) int {
	p := 1
	for p < n && p < maxPowerOfTwo {
		p *= 2
	}
	return p
}

// ByeInfo is the normalized size of an elimination bracket.
type ByeInfo struct {
	BracketSize int `json:"bracketSize" yaml:"bracketSize"`
	ByeCount    int `json:"byeCount" yaml:"byeCount"`
}

// Rounds is the number of winners-bracket rounds for the normalized size.
func (b ByeInfo) Rounds() int {
	rounds := 0
	for size := b.BracketSize; size > 1; size /= 2 {
		rounds++
	}
	return rounds
}

// NormalizeByes rounds participantCount up to the next power of two and reports how many
// empty slots that leaves.
func NormalizeByes(participantCount int) (ByeInfo, error) {
	if participantCount < 1 {
		return ByeInfo{}, fmt.Errorf("%w: participant count must be at least 1, got %d", ErrInvalidInput, participantCount)
	}
	if participantCount > maxPowerOfTwo {
		return ByeInfo{}, fmt.Errorf("%w: participant count %d exceeds the largest bracket size %d", ErrInvalidInput, participantCount, maxPowerOfTwo)
	}
	size := NextPowerOfTwo(participantCount)
	return ByeInfo{BracketSize: size, ByeCount: size - participantCount}, nil
}
