package results

// Cursor is a zero-based position in a board's question list. Moves clamp
// at both ends and never wrap.
type Cursor struct {
	index int
	total int
}

// NewCursor returns a cursor over total questions positioned at index,
// clamped into range.
func NewCursor(total, index int) Cursor {
	c := Cursor{total: max(total, 0)}
	c.Seek(index)
	return c
}

func (c Cursor) Index() int { return c.index }
func (c Cursor) Total() int { return c.total }

func (c Cursor) HasPrev() bool { return c.index > 0 }
func (c Cursor) HasNext() bool { return c.index < c.total-1 }

// Prev moves back one question. It reports whether the cursor moved.
func (c *Cursor) Prev() bool {
	if !c.HasPrev() {
		return false
	}
	c.index--
	return true
}

// Next moves forward one question. It reports whether the cursor moved.
func (c *Cursor) Next() bool {
	if !c.HasNext() {
		return false
	}
	c.index++
	return true
}

// Seek moves to i, clamped to [0, total-1]. An empty cursor stays at 0.
func (c *Cursor) Seek(i int) {
	switch {
	case c.total == 0 || i < 0:
		c.index = 0
	case i >= c.total:
		c.index = c.total - 1
	default:
		c.index = i
	}
}
