package canvas

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Common errors
var (
	ErrOutOfBounds = errors.New("position out of bounds")
	ErrInvalidSize = errors.New("invalid canvas size")
)

// MatrixCanvas implements a rune matrix-based canvas with high-level drawing primitives.
//
// MatrixCanvas is NOT safe for concurrent writes.
//
// Coordinate System:
//   - Origin (0,0) is top-left
//   - X increases rightward
//   - Y increases downward
//   - All coordinates are in character cells
//
// Lines drawn across each other are merged into junction characters.
type MatrixCanvas struct {
	matrix [][]rune
	width  int
	height int
	merger *CharacterMerger
}

// NewMatrixCanvas creates a new canvas with the specified dimensions.
func NewMatrixCanvas(width, height int) (*MatrixCanvas, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}

	matrix := make([][]rune, height)
	for y := 0; y < height; y++ {
		matrix[y] = make([]rune, width)
		for x := 0; x < width; x++ {
			matrix[y][x] = ' '
		}
	}

	return &MatrixCanvas{
		matrix: matrix,
		width:  width,
		height: height,
		merger: NewCharacterMerger(),
	}, nil
}

// Size returns the width and height of the canvas.
func (c *MatrixCanvas) Size() (width, height int) {
	return c.width, c.height
}

// Get returns the character at the given position.
// Returns ' ' (space) if position is out of bounds.
func (c *MatrixCanvas) Get(p Cell) rune {
	if p.X < 0 || p.X >= c.width || p.Y < 0 || p.Y >= c.height {
		return ' '
	}
	return c.matrix[p.Y][p.X]
}

// Set places a character at the given position, merging box-drawing
// characters with what is already there.
func (c *MatrixCanvas) Set(p Cell, char rune) error {
	if p.X < 0 || p.X >= c.width || p.Y < 0 || p.Y >= c.height {
		return ErrOutOfBounds
	}
	c.matrix[p.Y][p.X] = c.merger.Merge(c.matrix[p.Y][p.X], char)
	return nil
}

// Clear resets the canvas to all spaces.
func (c *MatrixCanvas) Clear() {
	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			c.matrix[y][x] = ' '
		}
	}
}

// String returns the canvas as a string with newlines.
func (c *MatrixCanvas) String() string {
	var sb strings.Builder
	sb.Grow(c.height * (c.width + 1))

	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			r := c.matrix[y][x]
			if r == '\x00' {
				// Wide character continuation
				continue
			}
			sb.WriteRune(r)
		}
		if y < c.height-1 {
			sb.WriteRune('\n')
		}
	}

	return sb.String()
}

// DrawBox draws a rectangle with the specified style. Parts outside the
// canvas are clipped.
func (c *MatrixCanvas) DrawBox(x, y, width, height int, style BoxStyle) error {
	if width < 2 || height < 2 {
		return fmt.Errorf("invalid box dimensions %dx%d", width, height)
	}
	right, bottom := x+width-1, y+height-1

	for i := x + 1; i < right; i++ {
		c.setMerged(i, y, style.Horizontal)
		c.setMerged(i, bottom, style.Horizontal)
	}
	for i := y + 1; i < bottom; i++ {
		c.setMerged(x, i, style.Vertical)
		c.setMerged(right, i, style.Vertical)
	}
	c.setMerged(x, y, style.TopLeft)
	c.setMerged(right, y, style.TopRight)
	c.setMerged(x, bottom, style.BottomLeft)
	c.setMerged(right, bottom, style.BottomRight)

	return nil
}

// DrawHorizontalLine draws a horizontal line.
func (c *MatrixCanvas) DrawHorizontalLine(x1, y, x2 int, char rune) error {
	if y < 0 || y >= c.height {
		return ErrOutOfBounds
	}
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	for x := x1; x <= x2; x++ {
		c.setMerged(x, y, char)
	}
	return nil
}

// DrawVerticalLine draws a vertical line.
func (c *MatrixCanvas) DrawVerticalLine(x, y1, y2 int, char rune) error {
	if x < 0 || x >= c.width {
		return ErrOutOfBounds
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	for y := y1; y <= y2; y++ {
		c.setMerged(x, y, char)
	}
	return nil
}

// DrawLine draws a line between two points using Bresenham's algorithm.
func (c *MatrixCanvas) DrawLine(p1, p2 Cell, char rune) {
	dx := abs(p2.X - p1.X)
	dy := abs(p2.Y - p1.Y)

	x, y := p1.X, p1.Y

	xInc := 1
	if p1.X > p2.X {
		xInc = -1
	}

	yInc := 1
	if p1.Y > p2.Y {
		yInc = -1
	}

	if dx > dy {
		err := dx / 2
		for x != p2.X {
			c.setClipped(x, y, char)
			err -= dy
			if err < 0 {
				y += yInc
				err += dx
			}
			x += xInc
		}
	} else {
		err := dy / 2
		for y != p2.Y {
			c.setClipped(x, y, char)
			err -= dx
			if err < 0 {
				x += xInc
				err += dy
			}
			y += yInc
		}
	}

	c.setClipped(p2.X, p2.Y, char)
}

// DrawText renders text at the specified position, overwriting what is
// there. Text running off the canvas is cut.
func (c *MatrixCanvas) DrawText(x, y int, text string) error {
	if y < 0 || y >= c.height {
		return ErrOutOfBounds
	}

	currentX := x
	for _, r := range text {
		width := runewidth.RuneWidth(r)
		if width == 0 {
			continue
		}
		if currentX+width > c.width {
			break
		}
		if currentX >= 0 {
			c.matrix[y][currentX] = r
			if width == 2 {
				c.matrix[y][currentX+1] = '\x00'
			}
		}
		currentX += width
	}

	return nil
}

// DrawPath draws an orthogonal path with rounded corners at the joints.
// Diagonal segments fall back to a Bresenham line of dots.
func (c *MatrixCanvas) DrawPath(points []Cell) error {
	if len(points) < 2 {
		return fmt.Errorf("path must have at least 2 points")
	}

	for i := 0; i < len(points)-1; i++ {
		p1, p2 := points[i], points[i+1]

		switch {
		case p1.Y == p2.Y:
			_ = c.DrawHorizontalLine(p1.X, p1.Y, p2.X, '─')
		case p1.X == p2.X:
			_ = c.DrawVerticalLine(p1.X, p1.Y, p2.Y, '│')
		default:
			c.DrawLine(p1, p2, '·')
		}

		if i > 0 {
			c.setClipped(p1.X, p1.Y, selectCorner(points[i-1], p1, p2))
		}
	}

	return nil
}

// selectCorner chooses the appropriate corner character based on direction.
func selectCorner(prev, curr, next Cell) rune {
	fromDir := getDirection(prev, curr)
	toDir := getDirection(curr, next)

	switch {
	case fromDir == 'E' && toDir == 'S', fromDir == 'N' && toDir == 'W':
		return '╮'
	case fromDir == 'E' && toDir == 'N', fromDir == 'S' && toDir == 'W':
		return '╯'
	case fromDir == 'W' && toDir == 'S', fromDir == 'N' && toDir == 'E':
		return '╭'
	case fromDir == 'W' && toDir == 'N', fromDir == 'S' && toDir == 'E':
		return '╰'
	case fromDir == toDir && (fromDir == 'E' || fromDir == 'W'):
		return '─'
	case fromDir == toDir:
		return '│'
	}
	return '┼'
}

// getDirection returns the direction from p1 to p2.
func getDirection(p1, p2 Cell) rune {
	switch {
	case p2.X > p1.X:
		return 'E'
	case p2.X < p1.X:
		return 'W'
	case p2.Y > p1.Y:
		return 'S'
	}
	return 'N'
}

// setMerged sets a character with bounds checking, merging junctions.
func (c *MatrixCanvas) setMerged(x, y int, char rune) {
	if x >= 0 && x < c.width && y >= 0 && y < c.height {
		c.matrix[y][x] = c.merger.Merge(c.matrix[y][x], char)
	}
}

// setClipped sets a character with bounds checking (no error).
func (c *MatrixCanvas) setClipped(x, y int, char rune) {
	if x >= 0 && x < c.width && y >= 0 && y < c.height {
		c.matrix[y][x] = char
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
