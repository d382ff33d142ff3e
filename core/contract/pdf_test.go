package contract

import (
	"bytes"
	"image"
	"image/color"
	"sync"
	"testing"
)

func TestBandHeightPx(t *testing.T) {
	tests := []struct {
		widthPx int
		want    int
	}{
		{180, 267},   // 1px per mm
		{360, 534},   // 2px per mm
		{1050, 1558}, // 1050 * 267 / 180 = 1557.5, rounded
	}
	for _, tt := range tests {
		if got := BandHeightPx(tt.widthPx); got != tt.want {
			t.Errorf("BandHeightPx(%d) = %d, want %d", tt.widthPx, got, tt.want)
		}
	}
}

func TestPageCount(t *testing.T) {
	tests := []struct {
		height, band, want int
	}{
		{267, 267, 1},
		{268, 267, 2},
		{534, 267, 2},
		{535, 267, 3},
		{1, 267, 1},
		{0, 267, 0},
		{267, 0, 0},
	}
	for _, tt := range tests {
		if got := PageCount(tt.height, tt.band); got != tt.want {
			t.Errorf("PageCount(%d, %d) = %d, want %d", tt.height, tt.band, got, tt.want)
		}
	}
}

// gradientImage gives every row a distinct color so slicing mistakes at page
// boundaries are visible pixel by pixel.
func gradientImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		c := color.RGBA{R: uint8(y % 256), G: uint8(y / 256), B: uint8(y % 7), A: 255}
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestPaginateReconstructsSource(t *testing.T) {
	const width = 100
	band := BandHeightPx(width)
	// Two full bands plus a short remainder.
	height := 2*band + band/3
	src := gradientImage(width, height)

	pages := Paginate(src)
	if len(pages) != 3 {
		t.Fatalf("len(pages) = %d, want 3", len(pages))
	}
	if got := pages[0].Bounds().Dy(); got != band {
		t.Errorf("first page height = %d, want %d", got, band)
	}
	if got := pages[2].Bounds().Dy(); got != band/3 {
		t.Errorf("last page height = %d, want the %d-row remainder", got, band/3)
	}

	y := 0
	for pageIdx, page := range pages {
		pb := page.Bounds()
		if pb.Dx() != width {
			t.Fatalf("page %d width = %d, want %d", pageIdx, pb.Dx(), width)
		}
		for py := 0; py < pb.Dy(); py++ {
			for x := 0; x < width; x += 25 {
				if page.At(x, py) != src.At(x, y) {
					t.Fatalf("page %d row %d differs from source row %d", pageIdx, py, y)
				}
			}
			y++
		}
	}
	if y != height {
		t.Fatalf("pages cover %d rows, source has %d", y, height)
	}
}

func TestPaginateSinglePage(t *testing.T) {
	const width = 100
	src := gradientImage(width, BandHeightPx(width)/2)
	pages := Paginate(src)
	if len(pages) != 1 {
		t.Fatalf("len(pages) = %d, want 1", len(pages))
	}
	if pages[0].Bounds().Dy() != src.Bounds().Dy() {
		t.Fatal("single short page was padded")
	}
}

func TestBuildPDF(t *testing.T) {
	const width = 100
	pages := Paginate(gradientImage(width, BandHeightPx(width)+10))

	data, err := BuildPDF(pages)
	if err != nil {
		t.Fatalf("BuildPDF: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatal("output is not a PDF")
	}

	if _, err := BuildPDF(nil); err == nil {
		t.Fatal("BuildPDF accepted zero pages")
	}
}

// blockingRasterizer holds Render until released, to observe the in-flight guard.
type blockingRasterizer struct {
	started  chan struct{}
	release  chan struct{}
	once     sync.Once
	rendered image.Image
}

func (r *blockingRasterizer) Render(html string, widthPx int) (image.Image, error) {
	r.once.Do(func() { close(r.started) })
	<-r.release
	return r.rendered, nil
}

func TestPDFBuilderRejectsConcurrentBuilds(t *testing.T) {
	raster := &blockingRasterizer{
		started:  make(chan struct{}),
		release:  make(chan struct{}),
		rendered: gradientImage(100, 50),
	}
	builder := NewPDFBuilder(raster)

	done := make(chan error, 1)
	go func() {
		_, err := builder.Build("draft_x", "<html></html>")
		done <- err
	}()
	<-raster.started

	if _, err := builder.Build("draft_x", "<html></html>"); err != ErrGenerationInFlight {
		t.Fatalf("concurrent Build = %v, want ErrGenerationInFlight", err)
	}

	close(raster.release)
	if err := <-done; err != nil {
		t.Fatalf("first Build: %v", err)
	}

	// The guard clears once the build finishes.
	if _, err := builder.Build("draft_x", "<html></html>"); err == ErrGenerationInFlight {
		t.Fatal("guard not released after build completion")
	}
}

func TestTextRasterizerRendersDocument(t *testing.T) {
	g := NewGeneratorWithClock(testClock)
	html, _ := g.Generate(testData())

	img, err := NewTextRasterizer().Render(PrintableHTML(html), 1050)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := img.Bounds().Dx(); got != 1050 {
		t.Fatalf("raster width = %d, want 1050", got)
	}
	if img.Bounds().Dy() < 100 {
		t.Fatalf("raster height = %d, too short for the contract text", img.Bounds().Dy())
	}
}
