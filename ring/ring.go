// Package ring implements the fixed-capacity circular buffer that backs a
// terminal's scrollback: a bounded window of opaque rows addressed by
// absolute, monotonically increasing indices that keep climbing long after
// the physical storage has wrapped around.
//
// A Ring never grows past the capacity it was constructed with. Appending
// past capacity evicts the oldest row; Insert at a live position of a full
// ring evicts the last row instead (bottom-eviction). InsertPreserve evicts
// the oldest row, like Append, but keeps everything from the insertion
// point down, which is the shape a mid-screen line insert needs
// (top-eviction).
// Both behaviors exist side by side because terminal scrollback and
// terminal mid-screen editing have opposite ideas about which row is
// disposable.
package ring

import "fmt"

// Free is called exactly once for every row a Ring drops ownership of,
// whether by eviction, overwrite, explicit Remove, or Free(true).
type Free[T any] func(T)

// Ring is a fixed-capacity circular buffer of T, addressed by absolute
// index. The zero value is not usable; construct with New or NewWithDelta.
type Ring[T comparable] struct {
	max    int
	delta  int64
	length int
	array  []T

	cachedItem int64
	cachedData T

	free Free[T]

	// Warn receives a message whenever a precondition violation turns an
	// operation into a no-op, instead of the operation panicking. It may
	// be nil, in which case the violation is silently ignored.
	Warn func(string)
}

// New returns a ring capable of holding up to maxElements rows at a time,
// calling free whenever a row leaves the ring. maxElements is clamped to a
// minimum of 2. delta starts at 0.
func New[T comparable](maxElements int, free Free[T]) *Ring[T] {
	return NewWithDelta(maxElements, 0, free)
}

// NewWithDelta is New but with the logically-oldest absolute index set to
// delta instead of 0, for callers that want session-scoped addressing from
// a non-zero origin.
func NewWithDelta[T comparable](maxElements int, delta int64, free Free[T]) *Ring[T] {
	if maxElements < 2 {
		maxElements = 2
	}
	return &Ring[T]{
		max:        maxElements,
		delta:      delta,
		array:      make([]T, maxElements),
		cachedItem: -1,
		free:       free,
	}
}

func (r *Ring[T]) warn(format string, args ...any) {
	if r.Warn != nil {
		r.Warn(fmt.Sprintf(format, args...))
	}
}

func (r *Ring[T]) freeRow(row T) {
	var zero T
	if r.free != nil && row != zero {
		r.free(row)
	}
}

// Max returns the physical capacity.
func (r *Ring[T]) Max() int { return r.max }

// Delta returns the absolute index of the logically-oldest live row.
func (r *Ring[T]) Delta() int64 { return r.delta }

// Length returns the number of live rows.
func (r *Ring[T]) Length() int { return r.length }

// Next returns the absolute index that the next Append will occupy.
func (r *Ring[T]) Next() int64 { return r.delta + int64(r.length) }

// Contains reports whether p addresses a currently-live row.
func (r *Ring[T]) Contains(p int64) bool {
	return p >= r.delta && p < r.delta+int64(r.length)
}

func (r *Ring[T]) slot(p int64) int {
	m := int64(r.max)
	s := p % m
	if s < 0 {
		s += m
	}
	return int(s)
}

// Index returns the row at absolute index p. The caller must have already
// established Contains(p); Index does not itself range-check.
func (r *Ring[T]) Index(p int64) T {
	if p == r.cachedItem {
		return r.cachedData
	}
	return r.array[r.slot(p)]
}

// SetCache installs a one-entry memoization of an absolute index lookup.
// Passing p < 0 invalidates the cache. The cache is a pure performance
// feature: every read it short-circuits is defined to return exactly what
// Index would compute without it.
func (r *Ring[T]) SetCache(p int64, data T) {
	r.cachedItem = p
	r.cachedData = data
}

// invalidateAtOrAfter drops the cache if the cached index is at or past
// position: a shift/removal at position moves everything from there on.
func (r *Ring[T]) invalidateAtOrAfter(position int64) {
	if r.cachedItem >= position {
		r.invalidateCache()
	}
}

// invalidateBelow drops the cache if the cached index fell below delta: it
// has scrolled out of the live window from underneath.
func (r *Ring[T]) invalidateBelow(delta int64) {
	if r.cachedItem < delta {
		r.invalidateCache()
	}
}

func (r *Ring[T]) invalidateCache() {
	r.cachedItem = -1
	var zero T
	r.cachedData = zero
}

// Insert places data at the given absolute position.
//
//   - If position is Next(), this is an append: if the ring is already at
//     capacity, the oldest row is evicted (delta advances) to make room;
//     otherwise length grows by one.
//   - Otherwise, position must already be live or equal to Next(); rows
//     from position to the tail shift up by one slot to make room, and if
//     the ring was already full the current last row is evicted first
//     (bottom-eviction) so length never exceeds Max().
//
// Insert is a no-op, with an observable Warn, if position is out of range
// or data is the zero value of T.
func (r *Ring[T]) Insert(position int64, data T) {
	var zero T
	if data == zero {
		r.warn("ring: Insert called with zero-value data")
		return
	}
	if position < r.delta || position > r.delta+int64(r.length) {
		r.warn("ring: Insert position %d out of range [%d, %d]", position, r.delta, r.delta+int64(r.length))
		return
	}

	if position == r.delta+int64(r.length) {
		slot := r.slot(position)
		r.freeRow(r.array[slot])
		r.array[slot] = data
		if r.length == r.max {
			r.delta++
			r.invalidateBelow(r.delta)
		} else {
			r.length++
		}
		return
	}

	r.invalidateAtOrAfter(position)

	point := r.delta + int64(r.length) - 1
	if r.length == r.max {
		r.freeRow(r.array[r.slot(point)])
	} else {
		point++
	}

	for i := point; i > position; i-- {
		r.array[r.slot(i)] = r.array[r.slot(i-1)]
	}
	r.array[r.slot(position)] = data

	r.length++
	if r.length > r.max {
		r.length = r.max
	}
	if r.length < 0 {
		r.length = 0
	}
}

// Append is Insert(r.Next(), data).
func (r *Ring[T]) Append(data T) {
	r.Insert(r.Next(), data)
}

// InsertPreserve inserts data at position while preserving every row from
// position onward; if the ring must evict to make room, it evicts from the
// top (oldest rows, via Delta advancing), not the bottom. This is the
// policy a mid-screen line insert needs: the newly-inserted and
// newly-pushed-down rows must survive, so anything that has to go is the
// oldest scrollback line instead.
func (r *Ring[T]) InsertPreserve(position int64, data T) {
	if position > r.Next() {
		r.warn("ring: InsertPreserve position %d beyond Next() %d", position, r.Next())
		return
	}

	next := r.Next()
	n := next - position
	if n < 1 {
		n = 1
	}
	saved := make([]T, 0, n)
	for i := position; i < next; i++ {
		saved = append(saved, r.Index(i))
	}

	for i := next; i > position; i-- {
		r.Remove(i-1, false)
	}

	r.Append(data)
	for _, row := range saved {
		r.Append(row)
	}
}

// Remove drops the row at position, shifting everything above it down by
// one slot. If freeElement is true the removed row's destructor runs
// first; otherwise the caller is assumed to retain ownership (this is how
// InsertPreserve relocates rows without destroying them).
func (r *Ring[T]) Remove(position int64, freeElement bool) {
	if !r.Contains(position) {
		r.warn("ring: Remove position %d not live", position)
		return
	}

	r.invalidateAtOrAfter(position)

	if freeElement {
		r.freeRow(r.array[r.slot(position)])
	}

	last := r.delta + int64(r.length) - 1
	for i := position; i < last; i++ {
		r.array[r.slot(i)] = r.array[r.slot(i+1)]
	}

	var zero T
	r.array[r.slot(last)] = zero

	if r.length > 0 {
		r.length--
	}
}

// Free releases the ring. If freeElements is true, every non-nil slot in
// the physical array is passed to the destructor, including any stragglers
// outside the live window left behind by prior operations.
func (r *Ring[T]) Free(freeElements bool) {
	if freeElements {
		var zero T
		for i := range r.array {
			if r.array[i] != zero {
				r.freeRow(r.array[i])
			}
		}
	}
	r.array = nil
	r.length = 0
	r.cachedItem = -1
}
