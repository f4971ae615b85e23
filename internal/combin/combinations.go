// Package combin generates the k-element index subsets that define a round
// robin's constituent parlays. The lexicographic ordering of the output is a
// contract: parlay identity and display order depend on it.
package combin

import (
	"fmt"

	"github.com/alanyoungcy/wagerbook/internal/domain"
)

// Combinations returns every k-element subset of {0, ..., n-1}. Each subset
// is ascending and the sequence of subsets is in lexicographic order, so
// for n=4, k=2 the output is [0 1] [0 2] [0 3] [1 2] [1 3] [2 3].
// The number of subsets returned is exactly Binomial(n, k).
func Combinations(n, k int) ([][]int, error) {
	if n < 0 || k < 0 || k > n {
		return nil, fmt.Errorf("combin: combinations(n=%d, k=%d): %w", n, k, domain.ErrInvalidParameter)
	}

	total := Binomial(n, k)
	if total == 0 {
		// Valid arguments always give C(n,k) >= 1, so a zero here means the
		// count overflowed int. Materializing such a set is impossible.
		return nil, fmt.Errorf("combin: combinations(n=%d, k=%d): subset count overflows: %w",
			n, k, domain.ErrInvalidParameter)
	}
	out := make([][]int, 0, total)

	if k == 0 {
		// The empty subset is the single 0-combination.
		return append(out, []int{}), nil
	}

	// Odometer walk: start at [0..k-1], repeatedly advance the rightmost
	// index that still has room, resetting everything after it.
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}

	for {
		subset := make([]int, k)
		copy(subset, idx)
		out = append(out, subset)

		pos := k - 1
		for pos >= 0 && idx[pos] == n-k+pos {
			pos--
		}
		if pos < 0 {
			break
		}
		idx[pos]++
		for i := pos + 1; i < k; i++ {
			idx[i] = idx[i-1] + 1
		}
	}

	return out, nil
}

// Binomial returns C(n, k), the number of k-element subsets of an n-element
// set. It returns 0 for arguments outside 0 <= k <= n, and also 0 when the
// computation overflows int; callers can rely on every non-zero result
// being exact and every in-range failure meaning the count is far beyond
// anything a round robin could materialize.
func Binomial(n, k int) int {
	if n < 0 || k < 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}
	result := 1
	for i := 0; i < k; i++ {
		// Multiply-then-divide keeps every step exact, so the only failure
		// mode is the multiplication overflowing.
		next := result * (n - i)
		if next/(n-i) != result {
			return 0
		}
		result = next / (i + 1)
	}
	return result
}
