package signature

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"
)

// ErrEmptySignature is returned by Save when nothing has been drawn yet.
var ErrEmptySignature = errors.New("подпись не поставлена")

// dataURLPrefix marks a PNG data URL, the only signature wire format.
const dataURLPrefix = "data:image/png;base64,"

// Pad is a freehand drawing surface producing a PNG signature. The backing
// buffer resolution may differ from the rendered (display) size; input
// coordinates are given in display space and scaled onto the buffer so
// strokes line up with the pointer regardless of device-pixel scaling.
type Pad struct {
	img           *image.RGBA
	width, height int

	displayW, displayH float64

	empty   bool
	drawing bool
	lastX   int
	lastY   int
}

// NewPad creates a white pad with the given backing-buffer resolution.
func NewPad(width, height int) *Pad {
	if width < 1 || height < 1 {
		width, height = 600, 160
	}
	p := &Pad{
		width:    width,
		height:   height,
		displayW: float64(width),
		displayH: float64(height),
	}
	p.Clear()
	return p
}

// SetDisplaySize records the rendered size of the surface for coordinate
// mapping. Non-positive sizes are ignored.
func (p *Pad) SetDisplaySize(w, h float64) {
	if w > 0 && h > 0 {
		p.displayW = w
		p.displayH = h
	}
}

// IsEmpty reports whether no stroke has been drawn since the last Clear.
func (p *Pad) IsEmpty() bool { return p.empty }

// Clear resets the surface to a blank white fill.
func (p *Pad) Clear() {
	p.img = image.NewRGBA(image.Rect(0, 0, p.width, p.height))
	draw.Draw(p.img, p.img.Bounds(), image.White, image.Point{}, draw.Src)
	p.empty = true
	p.drawing = false
}

// StrokeStart begins a stroke at a display-space point.
func (p *Pad) StrokeStart(x, y float64) {
	px, py := p.mapPoint(x, y)
	p.drawing = true
	p.empty = false
	p.lastX, p.lastY = px, py
	p.dot(px, py)
}

// StrokeTo extends the current stroke to a display-space point.
func (p *Pad) StrokeTo(x, y float64) {
	if !p.drawing {
		return
	}
	px, py := p.mapPoint(x, y)
	p.line(p.lastX, p.lastY, px, py)
	p.lastX, p.lastY = px, py
}

// StrokeEnd finishes the current stroke.
func (p *Pad) StrokeEnd() {
	p.drawing = false
}

// Save encodes the raster as a PNG data URL. It fails when the pad is empty:
// the caller must tell the user to draw a signature first.
func (p *Pad) Save() (string, error) {
	if p.empty {
		return "", ErrEmptySignature
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, p.img); err != nil {
		return "", fmt.Errorf("failed to encode signature: %w", err)
	}
	return dataURLPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// mapPoint scales display coordinates onto the backing buffer.
func (p *Pad) mapPoint(x, y float64) (int, int) {
	px := int(x * float64(p.width) / p.displayW)
	py := int(y * float64(p.height) / p.displayH)
	return clamp(px, 0, p.width-1), clamp(py, 0, p.height-1)
}

// dot stamps a round 2px pen point.
func (p *Pad) dot(x, y int) {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx*dx+dy*dy > 2 {
				continue
			}
			px, py := x+dx, y+dy
			if px >= 0 && px < p.width && py >= 0 && py < p.height {
				p.img.Set(px, py, color.Black)
			}
		}
	}
}

// line draws a Bresenham segment stamped with the pen point.
func (p *Pad) line(x0, y0, x1, y1 int) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		p.dot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// DecodePNGDataURL validates and decodes a signature data URL into raw PNG
// bytes, for uploading the signature as an object.
func DecodePNGDataURL(dataURL string) ([]byte, error) {
	if !strings.HasPrefix(dataURL, dataURLPrefix) {
		return nil, errors.New("not a PNG data URL")
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(dataURL, dataURLPrefix))
	if err != nil {
		return nil, fmt.Errorf("invalid signature encoding: %w", err)
	}
	if _, err := png.DecodeConfig(bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("invalid signature image: %w", err)
	}
	return raw, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
