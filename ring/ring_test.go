package ring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	id int
}

func freed(dst *[]int) Free[*row] {
	return func(r *row) { *dst = append(*dst, r.id) }
}

func TestAppendFillsThenEvicts(t *testing.T) {
	var dead []int
	r := New(4, freed(&dead))

	for i := 0; i < 10; i++ {
		r.Append(&row{id: i})
	}

	require.Equal(t, 4, r.Length())
	require.Equal(t, int64(6), r.Delta())
	// Oldest six evicted: 0,1,2,3,4,5 -> six evictions to keep last four (6..9)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, dead)

	for i := 0; i < r.Length(); i++ {
		got := r.Index(r.Delta() + int64(i))
		assert.Equal(t, 6+i, got.id)
	}
}

func TestLengthAndDeltaInvariant(t *testing.T) {
	cases := []struct {
		n, max int
	}{
		{0, 5}, {3, 5}, {5, 5}, {8, 5}, {1, 2},
	}
	for _, c := range cases {
		r := New[*row](c.max, nil)
		for i := 0; i < c.n; i++ {
			r.Append(&row{id: i})
		}
		wantLen := c.n
		if wantLen > c.max {
			wantLen = c.max
		}
		wantDelta := c.n - c.max
		if wantDelta < 0 {
			wantDelta = 0
		}
		assert.Equal(t, wantLen, r.Length())
		assert.Equal(t, int64(wantDelta), r.Delta())
	}
}

func TestIndexAfterEveryOperationMatchesSlot(t *testing.T) {
	r := New[*row](3, nil)
	r.Append(&row{id: 1})
	r.Append(&row{id: 2})
	r.Append(&row{id: 3}) // now full: length == max == 3
	r.Insert(r.Delta()+1, &row{id: 99})

	for p := r.Delta(); p < r.Delta()+int64(r.Length()); p++ {
		require.NotNil(t, r.Index(p))
		require.Same(t, r.array[r.slot(p)], r.Index(p))
	}
}

func TestInsertPreserveKeepsSuffix(t *testing.T) {
	r := New[*row](10, nil)
	for i := 0; i < 5; i++ {
		r.Append(&row{id: i})
	}

	pos := r.Delta() + 2
	old2 := r.Index(pos)
	old3 := r.Index(pos + 1)

	r.InsertPreserve(pos, &row{id: 100})

	assert.Equal(t, 100, r.Index(pos).id)
	assert.Equal(t, old2.id, r.Index(pos+1).id)
	assert.Equal(t, old3.id, r.Index(pos+2).id)
}

func TestInsertPreserveEvictsFromTopWhenFull(t *testing.T) {
	var dead []int
	r := New(4, freed(&dead))
	for i := 0; i < 4; i++ {
		r.Append(&row{id: i}) // 0,1,2,3 live, delta=0
	}

	r.InsertPreserve(r.Delta()+2, &row{id: 100})

	// The oldest row (id 0) should have been evicted to make room.
	assert.Contains(t, dead, 0)
	assert.Equal(t, 4, r.Length())

	var ids []int
	for p := r.Delta(); p < r.Next(); p++ {
		ids = append(ids, r.Index(p).id)
	}
	assert.Equal(t, []int{1, 100, 2, 3}, ids)
}

func TestRemoveFreeVsNoFree(t *testing.T) {
	var dead []int
	r := New(5, freed(&dead))
	for i := 0; i < 3; i++ {
		r.Append(&row{id: i})
	}

	r.Remove(r.Delta()+1, false)
	assert.Empty(t, dead)
	assert.Equal(t, 2, r.Length())

	r.Remove(r.Delta(), true)
	assert.Equal(t, []int{0}, dead)
	assert.Equal(t, 1, r.Length())
}

func TestCacheIsTransparent(t *testing.T) {
	r := New[*row](5, nil)
	for i := 0; i < 5; i++ {
		r.Append(&row{id: i})
	}

	uncached := New[*row](5, nil)
	for i := 0; i < 5; i++ {
		uncached.Append(&row{id: i})
	}

	target := r.Delta() + 2
	r.SetCache(target, r.Index(target))

	// Mutations that should invalidate the cache transparently: apply the
	// identical operation to both rings and compare every live index.
	r.Insert(r.Delta(), &row{id: 999})
	uncached.Insert(uncached.Delta(), &row{id: 999})

	for p := r.Delta(); p < r.Next(); p++ {
		want := uncachedLookup(t, uncached, p)
		got := r.Index(p)
		if want == nil {
			assert.Nil(t, got)
		} else {
			assert.Equal(t, want.id, got.id)
		}
	}
}

func uncachedLookup(t *testing.T, r *Ring[*row], p int64) *row {
	t.Helper()
	if !r.Contains(p) {
		return nil
	}
	return r.Index(p)
}

func TestContainsBoundary(t *testing.T) {
	r := New[*row](3, nil)
	r.Append(&row{id: 1})
	assert.True(t, r.Contains(r.Delta()))
	assert.False(t, r.Contains(r.Delta()-1))
	assert.False(t, r.Contains(r.Next()))
}

func TestMinCapacityClamp(t *testing.T) {
	r := New[*row](0, nil)
	assert.Equal(t, 2, r.Max())
	r = New[*row](-5, nil)
	assert.Equal(t, 2, r.Max())
}

func TestInsertNoOpOnBadPosition(t *testing.T) {
	var warned string
	r := New[*row](3, nil)
	r.Warn = func(msg string) { warned = msg }

	r.Append(&row{id: 1})
	lenBefore := r.Length()
	r.Insert(r.Delta()+100, &row{id: 2})

	assert.Equal(t, lenBefore, r.Length())
	assert.NotEmpty(t, warned)
}

func TestFreeInvokesDestructorOnEverySlot(t *testing.T) {
	var dead []int
	r := New(3, freed(&dead))
	for i := 0; i < 3; i++ {
		r.Append(&row{id: i})
	}
	r.Free(true)
	assert.ElementsMatch(t, []int{0, 1, 2}, dead)
}
