package bulk

import (
	"testing"

	"github.com/bawdo/casebulk/internal/testutil"
)

func TestPartitionCoversInputInOrder(t *testing.T) {
	t.Parallel()
	for n := 0; n <= 20; n++ {
		for size := 0; size <= 7; size++ {
			spans := Partition(n, size)
			next := 0
			for _, s := range spans {
				if s.Lo != next {
					t.Fatalf("Partition(%d, %d): span %v starts at %d, want %d", n, size, s, s.Lo, next)
				}
				if s.Len() <= 0 {
					t.Fatalf("Partition(%d, %d): empty span %v", n, size, s)
				}
				if size > 0 && s.Len() > size {
					t.Fatalf("Partition(%d, %d): span %v exceeds size", n, size, s)
				}
				next = s.Hi
			}
			if next != n {
				t.Fatalf("Partition(%d, %d) covered %d items", n, size, next)
			}
		}
	}
}

func TestPartitionShapes(t *testing.T) {
	t.Parallel()
	testutil.AssertEqual(t, len(Partition(0, 3)), 0)
	testutil.AssertEqual(t, len(Partition(5, 0)), 1)
	testutil.AssertEqual(t, len(Partition(5, 5)), 1)

	spans := Partition(7, 3)
	testutil.AssertEqual(t, len(spans), 3)
	testutil.AssertEqual(t, spans[2], Span{Lo: 6, Hi: 7})
}

func TestParamBudget(t *testing.T) {
	t.Parallel()
	cases := []struct {
		max, fields, want int
	}{
		{999, 1, 333},
		{999, 3, 142},
		{65535, 2, 13107},
		{2, 5, 1},
		{0, 1, 0},
	}
	for _, c := range cases {
		got := ParamBudget{MaxParams: c.max}.BatchSize(c.fields)
		if got != c.want {
			t.Errorf("ParamBudget{%d}.BatchSize(%d) = %d, want %d", c.max, c.fields, got, c.want)
		}
	}
}

func TestBatchSizerFunc(t *testing.T) {
	t.Parallel()
	var s BatchSizer = BatchSizerFunc(func(fields int) int { return 10 * fields })
	testutil.AssertEqual(t, s.BatchSize(3), 30)
}
