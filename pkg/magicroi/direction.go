package magicroi

import "fmt"

// cell is an in-plane grid position
type cell struct {
	x, y int
}

// move is a 4-connected growth step.
type move uint8

const (
	moveRight move = iota
	moveLeft
	moveUp
	moveDown
	moveCount
)

var moveOffsets = [moveCount][2]int{
	moveRight: {1, 0},
	moveLeft:  {-1, 0},
	moveUp:    {0, 1},
	moveDown:  {0, -1},
}

var moveInverses = [moveCount]move{
	moveRight: moveLeft,
	moveLeft:  moveRight,
	moveUp:    moveDown,
	moveDown:  moveUp,
}

func (m move) String() string {
	switch m {
	case moveRight:
		return "right"
	case moveLeft:
		return "left"
	case moveUp:
		return "up"
	case moveDown:
		return "down"
	default:
		return fmt.Sprintf("move(%d)", uint8(m))
	}
}

// apply returns the position reached by taking m from c.
func (m move) apply(c cell) (cell, error) {
	if m >= moveCount {
		return c, fmt.Errorf("%w: growth move %d", ErrInvalidDirection, m)
	}
	d := moveOffsets[m]
	return cell{c.x + d[0], c.y + d[1]}, nil
}

// inverse returns the move that undoes m.
func (m move) inverse() (move, error) {
	if m >= moveCount {
		return m, fmt.Errorf("%w: growth move %d", ErrInvalidDirection, m)
	}
	return moveInverses[m], nil
}

// heading is one of the 8 Moore-neighbour directions, numbered clockwise
// from down-left. Odd headings are orthogonal and name a cell edge.
type heading uint8

const (
	headingLeftDown heading = iota
	headingDown
	headingRightDown
	headingRight
	headingRightUp
	headingUp
	headingLeftUp
	headingLeft
	headingCount
)

var headingOffsets = [headingCount][2]int{
	headingLeftDown:  {-1, -1},
	headingDown:      {0, -1},
	headingRightDown: {1, -1},
	headingRight:     {1, 0},
	headingRightUp:   {1, 1},
	headingUp:        {0, 1},
	headingLeftUp:    {-1, 1},
	headingLeft:      {-1, 0},
}

func (h heading) String() string {
	names := [headingCount]string{"left-down", "down", "right-down", "right", "right-up", "up", "left-up", "left"}
	if h >= headingCount {
		return fmt.Sprintf("heading(%d)", uint8(h))
	}
	return names[h]
}

func (h heading) next() heading {
	return (h + 1) % headingCount
}

func (h heading) inverse() heading {
	return (h + 4) % headingCount
}

func (h heading) orthogonal() bool {
	return h%2 == 1
}

// neighbour returns the cell one step from c along h.
func (h heading) neighbour(c cell) (cell, error) {
	if h >= headingCount {
		return c, fmt.Errorf("%w: trace heading %d", ErrInvalidDirection, h)
	}
	d := headingOffsets[h]
	return cell{c.x + d[0], c.y + d[1]}, nil
}

// edgeMidpoint returns the index-space midpoint of the edge of c facing h.
// Only orthogonal headings face an edge.
func (h heading) edgeMidpoint(c cell) (x, y float64, err error) {
	if h >= headingCount || !h.orthogonal() {
		return 0, 0, fmt.Errorf("%w: no edge for heading %d", ErrInvalidDirection, h)
	}
	d := headingOffsets[h]
	return float64(c.x) + 0.5*float64(d[0]), float64(c.y) + 0.5*float64(d[1]), nil
}
