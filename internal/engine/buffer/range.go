package buffer

import "fmt"

// Range represents a byte range in the buffer.
// Start is inclusive, End is exclusive: [Start, End).
type Range struct {
	Start ByteOffset
	End   ByteOffset
}

// NewRange creates a Range from two offsets, swapping them if needed so
// that Start <= End.
func NewRange(start, end ByteOffset) Range {
	if start > end {
		start, end = end, start
	}
	return Range{Start: start, End: end}
}

// String returns a human-readable representation of the range.
func (r Range) String() string {
	return fmt.Sprintf("[%d:%d)", r.Start, r.End)
}

// Len returns the length of the range in bytes.
func (r Range) Len() ByteOffset {
	return r.End - r.Start
}

// IsEmpty returns true if the range has zero length.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// IsValid returns true if the range is valid (0 <= Start <= End).
func (r Range) IsValid() bool {
	return r.Start >= 0 && r.Start <= r.End
}

// Contains returns true if the given offset is within the range.
func (r Range) Contains(offset ByteOffset) bool {
	return offset >= r.Start && offset < r.End
}

// ContainsRange returns true if other lies entirely within r.
// Both ends are inclusive: a range contains itself and any empty range
// sitting on one of its endpoints.
func (r Range) ContainsRange(other Range) bool {
	return other.Start >= r.Start && other.End <= r.End
}

// Intersects reports whether the ranges share text.
//
// Two ranges intersect when they are equal or when an endpoint of either
// range falls strictly inside the other. Ranges that merely touch, such as
// [10:20) and [20:30), do not intersect. An empty range (a caret) intersects
// any range it sits strictly inside of.
func (r Range) Intersects(other Range) bool {
	if r == other {
		return true
	}
	return strictlyInside(other.Start, r) ||
		strictlyInside(other.End, r) ||
		strictlyInside(r.Start, other) ||
		strictlyInside(r.End, other)
}

func strictlyInside(offset ByteOffset, r Range) bool {
	return offset > r.Start && offset < r.End
}

// Clamp limits the range to [0, length].
func (r Range) Clamp(length ByteOffset) Range {
	clamp := func(o ByteOffset) ByteOffset {
		if o < 0 {
			return 0
		}
		if o > length {
			return length
		}
		return o
	}
	return NewRange(clamp(r.Start), clamp(r.End))
}
