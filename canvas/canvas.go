// Package canvas provides a character grid for sketching boards in a
// terminal or a text file.
package canvas

// Cell addresses one character on a canvas. The origin is top-left.
type Cell struct {
	X, Y int
}

// BoxStyle is the set of characters used to draw a rectangle.
type BoxStyle struct {
	TopLeft, TopRight, BottomLeft, BottomRight rune
	Horizontal, Vertical                       rune
}

var (
	// DefaultBoxStyle draws pedals with light box-drawing lines.
	DefaultBoxStyle = BoxStyle{'┌', '┐', '└', '┘', '─', '│'}
	// BoardStyle draws the board outline with double lines.
	BoardStyle = BoxStyle{'╔', '╗', '╚', '╝', '═', '║'}
	// ASCIIBoxStyle is a plain ASCII fallback.
	ASCIIBoxStyle = BoxStyle{'+', '+', '+', '+', '-', '|'}
)
