package combin

import (
	"errors"
	"fmt"
	"testing"

	"github.com/alanyoungcy/wagerbook/internal/domain"
)

func TestCombinationsOrder(t *testing.T) {
	got, err := Combinations(4, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := [][]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}}
	if len(got) != len(want) {
		t.Fatalf("Combinations(4,2) returned %d subsets, want %d", len(got), len(want))
	}
	for i := range want {
		if fmt.Sprint(got[i]) != fmt.Sprint(want[i]) {
			t.Errorf("subset %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestCombinationsProperties(t *testing.T) {
	for n := 0; n <= 8; n++ {
		for k := 0; k <= n; k++ {
			subsets, err := Combinations(n, k)
			if err != nil {
				t.Fatalf("Combinations(%d,%d) unexpected error: %v", n, k, err)
			}

			if len(subsets) != Binomial(n, k) {
				t.Errorf("Combinations(%d,%d) count = %d, want C(n,k) = %d",
					n, k, len(subsets), Binomial(n, k))
			}

			seen := make(map[string]bool, len(subsets))
			var prev []int
			counts := make([]int, n)
			for _, s := range subsets {
				if len(s) != k {
					t.Errorf("Combinations(%d,%d) subset %v has size %d", n, k, s, len(s))
				}
				for i := 0; i < len(s); i++ {
					if s[i] < 0 || s[i] >= n {
						t.Errorf("Combinations(%d,%d) subset %v index out of range", n, k, s)
					}
					if i > 0 && s[i] <= s[i-1] {
						t.Errorf("Combinations(%d,%d) subset %v not strictly ascending", n, k, s)
					}
					counts[s[i]]++
				}
				key := fmt.Sprint(s)
				if seen[key] {
					t.Errorf("Combinations(%d,%d) duplicate subset %v", n, k, s)
				}
				seen[key] = true
				if prev != nil && !lexLess(prev, s) {
					t.Errorf("Combinations(%d,%d) order violation: %v before %v", n, k, prev, s)
				}
				prev = s
			}

			// Every index appears in exactly C(n-1, k-1) subsets.
			for i, c := range counts {
				if want := Binomial(n-1, k-1); c != want {
					t.Errorf("Combinations(%d,%d) index %d appears %d times, want %d",
						n, k, i, c, want)
				}
			}
		}
	}
}

func lexLess(a, b []int) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

func TestCombinationsInvalidArgs(t *testing.T) {
	tests := []struct{ n, k int }{
		{-1, 0},
		{3, -1},
		{3, 4},
	}
	for _, tt := range tests {
		if _, err := Combinations(tt.n, tt.k); !errors.Is(err, domain.ErrInvalidParameter) {
			t.Errorf("Combinations(%d,%d) error = %v, want ErrInvalidParameter", tt.n, tt.k, err)
		}
	}
}

func TestBinomial(t *testing.T) {
	tests := []struct {
		n, k, want int
	}{
		{4, 2, 6},
		{5, 3, 10},
		{10, 5, 252},
		{6, 0, 1},
		{6, 6, 1},
		{0, 0, 1},
		{3, 5, 0},
		{-1, 0, 0},
		// Values past int range must come back 0, never a silently wrapped
		// garbage count.
		{67, 33, 0},
		{100, 50, 0},
	}
	for _, tt := range tests {
		if got := Binomial(tt.n, tt.k); got != tt.want {
			t.Errorf("Binomial(%d,%d) = %d, want %d", tt.n, tt.k, got, tt.want)
		}
	}
}

func TestCombinationsHugeShape(t *testing.T) {
	// C(100,50) is ~1e29; the count overflows int and the subsets could
	// never be materialized. The call must fail cleanly, not panic on an
	// absurd allocation.
	if _, err := Combinations(100, 50); !errors.Is(err, domain.ErrInvalidParameter) {
		t.Errorf("Combinations(100,50) error = %v, want ErrInvalidParameter", err)
	}
}
