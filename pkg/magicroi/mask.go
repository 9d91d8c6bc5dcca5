package magicroi

// Mask is a dense boolean membership grid, row-major by y*Width + x.
type Mask struct {
	Width, Height int
	cells         []bool
}

// NewMask allocates an all-false mask covering ext.
func NewMask(ext Extent) *Mask {
	w, h := ext.MaxX+1, ext.MaxY+1
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &Mask{Width: w, Height: h, cells: make([]bool, w*h)}
}

// InBounds reports whether (x, y) lies inside the mask
func (m *Mask) InBounds(x, y int) bool {
	return x >= 0 && x < m.Width && y >= 0 && y < m.Height
}

// At reports membership of (x, y). Positions outside the mask are never members.
func (m *Mask) At(x, y int) bool {
	if !m.InBounds(x, y) {
		return false
	}
	return m.cells[y*m.Width+x]
}

// Set marks (x, y) as a member. Positions outside the mask are ignored.
func (m *Mask) Set(x, y int) {
	if m.InBounds(x, y) {
		m.cells[y*m.Width+x] = true
	}
}

// Count returns the number of member cells
func (m *Mask) Count() int {
	n := 0
	for _, c := range m.cells {
		if c {
			n++
		}
	}
	return n
}

// Empty reports whether the mask has no members
func (m *Mask) Empty() bool {
	for _, c := range m.cells {
		if c {
			return false
		}
	}
	return true
}

// Cells returns a copy of the row-major membership array
func (m *Mask) Cells() []bool {
	out := make([]bool, len(m.cells))
	copy(out, m.cells)
	return out
}

// first returns the first member in column-major scan order (x outer, y inner).
func (m *Mask) first() (x, y int, ok bool) {
	for x = 0; x < m.Width; x++ {
		for y = 0; y < m.Height; y++ {
			if m.cells[y*m.Width+x] {
				return x, y, true
			}
		}
	}
	return 0, 0, false
}
