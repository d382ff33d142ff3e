package contract

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"math"
	"sync"

	"github.com/jung-kurt/gofpdf"
)

// A4 portrait geometry with a 15mm margin on every side.
const (
	pageWidthMM  = 210.0
	pageHeightMM = 297.0
	pageMarginMM = 15.0

	contentWidthMM  = pageWidthMM - 2*pageMarginMM  // 180
	contentHeightMM = pageHeightMM - 2*pageMarginMM // 267
)

// ErrGenerationInFlight is returned when a PDF build for the same draft is
// already running. Generation is not re-entrant per draft.
var ErrGenerationInFlight = errors.New("contract generation already in progress")

// Rasterizer renders contract HTML into a single tall image at the given
// pixel width. Deployments plug in a browser-backed renderer; the default
// TextRasterizer is a dependency-free fallback whose output carries the
// document text without layout fidelity.
type Rasterizer interface {
	Render(html string, widthPx int) (image.Image, error)
}

// BandHeightPx converts the page content height into source-pixel space:
// the source image is scaled so its width spans the 180mm content width,
// so one page band is srcWidth * (267 / 180) pixels tall.
func BandHeightPx(srcWidthPx int) int {
	return int(math.Round(float64(srcWidthPx) * contentHeightMM / contentWidthMM))
}

// PageCount returns how many pages an image of the given height needs.
func PageCount(srcHeightPx, bandPx int) int {
	if srcHeightPx <= 0 || bandPx <= 0 {
		return 0
	}
	return (srcHeightPx + bandPx - 1) / bandPx
}

// Paginate slices the source image into page-height bands. The last band
// receives only the remaining pixels, so concatenating the slices
// reconstructs the source exactly: no cropped, duplicated or blank content
// at page boundaries.
func Paginate(src image.Image) []image.Image {
	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	band := BandHeightPx(width)
	if band <= 0 || height <= 0 {
		return nil
	}

	pages := make([]image.Image, 0, PageCount(height, band))
	for y := 0; y < height; y += band {
		sliceHeight := band
		if remaining := height - y; remaining < band {
			sliceHeight = remaining
		}
		page := image.NewRGBA(image.Rect(0, 0, width, sliceHeight))
		draw.Draw(page, page.Bounds(), src, image.Pt(bounds.Min.X, bounds.Min.Y+y), draw.Src)
		pages = append(pages, page)
	}
	return pages
}

// BuildPDF assembles page images into a single A4 PDF. Every page is placed
// at the margin origin with its width spanning the content area; the last
// page keeps its natural (shorter) height.
func BuildPDF(pages []image.Image) ([]byte, error) {
	if len(pages) == 0 {
		return nil, errors.New("no pages to render")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	for i, page := range pages {
		var buf bytes.Buffer
		if err := png.Encode(&buf, page); err != nil {
			return nil, fmt.Errorf("failed to encode page %d: %w", i+1, err)
		}

		bounds := page.Bounds()
		heightMM := contentWidthMM * float64(bounds.Dy()) / float64(bounds.Dx())

		name := fmt.Sprintf("page-%d", i+1)
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader(name, opts, &buf)

		pdf.AddPage()
		pdf.ImageOptions(name, pageMarginMM, pageMarginMM, contentWidthMM, heightMM, false, opts, 0, "")
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}
	return out.Bytes(), nil
}

// PDFBuilder turns contract HTML into a paginated PDF, refusing concurrent
// builds for the same draft.
type PDFBuilder struct {
	rasterizer Rasterizer
	widthPx    int

	mu       sync.Mutex
	inflight map[string]bool
}

// NewPDFBuilder creates a builder over the given rasterizer. A nil
// rasterizer falls back to the plain-text one at 1050px width (700px portal
// container at 1.5x scale).
func NewPDFBuilder(r Rasterizer) *PDFBuilder {
	if r == nil {
		r = NewTextRasterizer()
	}
	return &PDFBuilder{
		rasterizer: r,
		widthPx:    1050,
		inflight:   make(map[string]bool),
	}
}

// Build rewrites the HTML to its printable form, rasterizes it, slices the
// raster into A4 bands and returns the PDF bytes. One build per draft at a
// time; a failed build leaves no partial artifact behind.
func (b *PDFBuilder) Build(draftID, darkHTML string) ([]byte, error) {
	b.mu.Lock()
	if b.inflight[draftID] {
		b.mu.Unlock()
		return nil, ErrGenerationInFlight
	}
	b.inflight[draftID] = true
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		delete(b.inflight, draftID)
		b.mu.Unlock()
	}()

	raster, err := b.rasterizer.Render(PrintableHTML(darkHTML), b.widthPx)
	if err != nil {
		return nil, fmt.Errorf("failed to rasterize contract: %w", err)
	}
	return BuildPDF(Paginate(raster))
}
