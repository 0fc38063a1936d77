package radar

import (
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// widthKey caches measured text widths per (text, font size) pair.
type widthKey struct {
	text     string
	fontSize float64
}

// textWidth returns the cached or freshly measured pixel width of text at the
// current font size. Without an installed MeasureFunc it falls back to a
// character-count estimate.
func (e *Engine) textWidth(text string) float64 {
	k := widthKey{text: text, fontSize: e.opts.FontSize}
	if w, ok := e.widthCache[k]; ok {
		return w
	}
	var w float64
	if e.measure != nil {
		w = e.measure(text, e.opts.FontSize)
	} else {
		w = float64(utf8.RuneCountInString(text)) * e.opts.FontSize * e.opts.CharWidthRatio
	}
	if w < 0 {
		w = 0
	}
	e.widthCache[k] = w
	return w
}

// MeasureBasicFont measures text with the fixed 7x13 bitmap face, scaled to
// the requested font size. A suitable SetMeasureFunc strategy when the caller
// renders with the same face (the interactive demo does).
func MeasureBasicFont(text string, fontSize float64) float64 {
	adv := font.MeasureString(basicfont.Face7x13, text)
	return float64(adv) / 64.0 * fontSize / float64(basicfont.Face7x13.Height)
}
