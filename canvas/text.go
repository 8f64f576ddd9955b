package canvas

import "github.com/mattn/go-runewidth"

// MeasureText returns the display width of a string in terminal cells.
func MeasureText(text string) int {
	return runewidth.StringWidth(text)
}

// FitText truncates text to maxWidth cells, ending it with ellipsis when cut.
func FitText(text string, maxWidth int, ellipsis string) string {
	if maxWidth <= 0 {
		return ""
	}
	if MeasureText(text) <= maxWidth {
		return text
	}
	if MeasureText(ellipsis) >= maxWidth {
		return runewidth.Truncate(text, maxWidth, "")
	}
	return runewidth.Truncate(text, maxWidth, ellipsis)
}

// CenterText returns the x at which text of the given width is centred
// between left and right inclusive.
func CenterText(text string, left, right int) int {
	span := right - left + 1
	w := MeasureText(text)
	if w >= span {
		return left
	}
	return left + (span-w)/2
}
