package contract

import (
	"fmt"
	"html"
	"image"
	"image/color"
	"image/draw"
	"regexp"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

var (
	lineBreakTags = regexp.MustCompile(`(?i)<br\s*/?>|</p>|</h1>|</h2>|</tr>|</div>|</li>`)
	anyTag        = regexp.MustCompile(`<[^>]*>`)
	styleBlocks   = regexp.MustCompile(`(?is)<style.*?</style>|<head.*?</head>`)
	manyBlanks    = regexp.MustCompile(`\n{3,}`)
)

// TextRasterizer draws the contract's text content onto a white canvas with
// the Go Regular face, whose glyph set covers the Cyrillic document text. It
// exists so PDF generation works without a browser engine; the HTML artifact
// remains the canonical rendering.
type TextRasterizer struct {
	fnt      *opentype.Font
	sizePt   float64
	dpi      float64
	marginPx int
}

// NewTextRasterizer returns a rasterizer over the embedded Go Regular font.
func NewTextRasterizer() *TextRasterizer {
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		// The font is compiled into the binary; a parse failure is a build
		// defect, not a runtime condition.
		panic(fmt.Sprintf("parse embedded contract font: %v", err))
	}
	return &TextRasterizer{
		fnt:      fnt,
		sizePt:   12,
		dpi:      96,
		marginPx: 24,
	}
}

// Render converts the HTML to wrapped plain-text lines and draws them. Each
// call builds its own face, so concurrent renders do not share glyph caches.
func (r *TextRasterizer) Render(htmlDoc string, widthPx int) (image.Image, error) {
	if widthPx < 4*r.marginPx {
		widthPx = 4 * r.marginPx
	}

	face, err := opentype.NewFace(r.fnt, &opentype.FaceOptions{
		Size:    r.sizePt,
		DPI:     r.dpi,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build contract font face: %w", err)
	}
	defer face.Close()

	metrics := face.Metrics()
	ascentPx := metrics.Ascent.Ceil()
	lineHeight := metrics.Height.Ceil() + 2

	maxWidth := fixed.I(widthPx - 2*r.marginPx)
	lines := wrapLines(face, extractText(htmlDoc), maxWidth)

	height := 2*r.marginPx + len(lines)*lineHeight
	img := image.NewRGBA(image.Rect(0, 0, widthPx, height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: face,
	}
	for i, line := range lines {
		drawer.Dot = fixed.P(r.marginPx, r.marginPx+i*lineHeight+ascentPx)
		drawer.DrawString(line)
	}
	return img, nil
}

// extractText strips markup, keeping block boundaries as newlines.
func extractText(htmlDoc string) string {
	text := styleBlocks.ReplaceAllString(htmlDoc, "")
	text = lineBreakTags.ReplaceAllString(text, "\n")
	text = anyTag.ReplaceAllString(text, " ")
	text = html.UnescapeString(text)

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		lines = append(lines, strings.Join(strings.Fields(line), " "))
	}
	text = strings.Join(lines, "\n")
	return strings.TrimSpace(manyBlanks.ReplaceAllString(text, "\n\n"))
}

// wrapLines wraps text so every drawn line fits within maxWidth.
func wrapLines(face font.Face, text string, maxWidth fixed.Int26_6) []string {
	var out []string
	for _, paragraph := range strings.Split(text, "\n") {
		if paragraph == "" {
			out = append(out, "")
			continue
		}
		current := ""
		for _, word := range strings.Fields(paragraph) {
			candidate := word
			if current != "" {
				candidate = current + " " + word
			}
			if font.MeasureString(face, candidate) <= maxWidth {
				current = candidate
				continue
			}
			if current != "" {
				out = append(out, current)
			}
			// A single word wider than the line gets chopped.
			runes := []rune(word)
			start := 0
			for i := 1; i <= len(runes); i++ {
				if font.MeasureString(face, string(runes[start:i])) > maxWidth && i-1 > start {
					out = append(out, string(runes[start:i-1]))
					start = i - 1
				}
			}
			current = string(runes[start:])
		}
		if current != "" {
			out = append(out, current)
		}
	}
	return out
}
