package pin

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"regexp"
	"sync"
	"testing"
	"time"

	"pinsmith/internal/models"
)

type stubLoader struct {
	mu     sync.Mutex
	images map[string]image.Image
	calls  []string
}

func (l *stubLoader) Load(_ context.Context, ref string) (image.Image, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, ref)
	if img, ok := l.images[ref]; ok {
		return img, nil
	}
	return nil, errors.New("not found")
}

type memWriter struct {
	data     []byte
	filename string
	err      error
}

func (w *memWriter) Write(_ context.Context, data []byte, filename string) (string, string, error) {
	if w.err != nil {
		return "", "", w.err
	}
	w.data = append([]byte(nil), data...)
	w.filename = filename
	return filepath.Join("/tmp", filename), "http://assets.test/" + filename, nil
}

func (w *memWriter) decode(t *testing.T) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(w.data))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	return img
}

func rgbaAt(img image.Image, x, y int) color.RGBA {
	return color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
}

var (
	white = color.RGBA{255, 255, 255, 255}
	red   = color.RGBA{255, 0, 0, 255}
	blue  = color.RGBA{0, 0, 255, 255}
	green = color.RGBA{0, 255, 0, 255}
)

// near tolerates resampling rounding.
func near(a, b color.RGBA) bool {
	d := func(x, y uint8) int {
		if x > y {
			return int(x - y)
		}
		return int(y - x)
	}
	return d(a.R, b.R) <= 8 && d(a.G, b.G) <= 8 && d(a.B, b.B) <= 8
}

func hasNonWhite(img image.Image, r image.Rectangle) bool {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if rgbaAt(img, x, y) != white {
				return true
			}
		}
	}
	return false
}

func helloTemplate() *models.Template {
	return &models.Template{
		Width:           1000,
		Height:          1500,
		BackgroundColor: "#ffffff",
		TextElements: []models.TextElement{{
			Text:      "Hello World",
			FontSize:  24,
			FontColor: "#000000",
			PositionX: 50,
			PositionY: 50,
			Width:     80,
			Alignment: models.AlignCenter,
		}},
	}
}

func TestRenderHelloWorld(t *testing.T) {
	for _, backend := range Backends {
		for _, fonts := range [][]string{{BuiltinGoRegular}, nil} {
			name := backend + "/font"
			if fonts == nil {
				name = backend + "/fallback"
			}
			t.Run(name, func(t *testing.T) {
				r, err := NewRenderer(backend)
				if err != nil {
					t.Fatal(err)
				}
				w := &memWriter{}
				c := NewCompositor(Options{
					Renderer:       r,
					Assets:         w,
					FontCandidates: fonts,
					Now:            func() time.Time { return time.Unix(1700000000, 0) },
				})

				res, err := c.Render(context.Background(), helloTemplate(), ModeFinal)
				if err != nil {
					t.Fatalf("Render: %v", err)
				}
				if res.URL != "http://assets.test/"+res.Filename {
					t.Errorf("URL = %q", res.URL)
				}

				img := w.decode(t)
				if b := img.Bounds(); b.Dx() != 1000 || b.Dy() != 1500 {
					t.Fatalf("bounds = %v, want 1000x1500", b)
				}
				if !hasNonWhite(img, image.Rect(400, 700, 600, 760)) {
					t.Error("no text pixels near the canvas centre")
				}
				for _, p := range []image.Point{{0, 0}, {999, 0}, {0, 1499}, {999, 1499}} {
					if got := rgbaAt(img, p.X, p.Y); got != white {
						t.Errorf("corner %v = %v, want white", p, got)
					}
				}
				if len(res.Elements) != 1 || res.Elements[0].Status != StatusDrawn {
					t.Errorf("elements = %+v", res.Elements)
				}
			})
		}
	}
}

func TestRenderSkipsEmptyElements(t *testing.T) {
	loader := &stubLoader{}
	w := &memWriter{}
	c := NewCompositor(Options{Renderer: RasterRenderer{}, Loader: loader, Assets: w})

	tmpl := &models.Template{
		Width:           100,
		Height:          100,
		BackgroundColor: "#ffffff",
		TextElements:    []models.TextElement{{Text: "", FontSize: 12, PositionX: 50, PositionY: 50, Width: 50}},
		ImageElements:   []models.ImageElement{{PositionX: 50, PositionY: 50, Width: 50, Height: 50}},
		QRElements:      []models.QRElement{{PositionX: 50, PositionY: 50, Size: 20}},
	}
	res, err := c.Render(context.Background(), tmpl, ModePreview)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(loader.calls) != 0 {
		t.Errorf("loader called for empty references: %v", loader.calls)
	}
	for _, e := range res.Elements {
		if e.Status != StatusSkipped {
			t.Errorf("%s[%d] status = %s, want skipped", e.Kind, e.Index, e.Status)
		}
	}
	if hasNonWhite(w.decode(t), image.Rect(0, 0, 100, 100)) {
		t.Error("skipped elements left marks on the canvas")
	}
}

func TestRenderAssetFailureIsNotFatal(t *testing.T) {
	loader := &stubLoader{images: map[string]image.Image{
		"red":  solidImage(2, 2, red),
		"blue": solidImage(2, 2, blue),
	}}
	w := &memWriter{}
	c := NewCompositor(Options{Renderer: RasterRenderer{}, Loader: loader, Assets: w})

	tmpl := &models.Template{
		Width:           100,
		Height:          100,
		BackgroundColor: "#ffffff",
		ImageElements: []models.ImageElement{
			{PlaceholderImage: "red", PositionX: 25, PositionY: 50, Width: 50, Height: 100},
			{PlaceholderImage: "broken", PositionX: 50, PositionY: 50, Width: 100, Height: 100},
			{PlaceholderImage: "unused", SelectedImage: "blue", PositionX: 75, PositionY: 50, Width: 50, Height: 100},
		},
	}
	res, err := c.Render(context.Background(), tmpl, ModeFinal)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	want := []ElementStatus{StatusDrawn, StatusFailed, StatusDrawn}
	if len(res.Elements) != len(want) {
		t.Fatalf("got %d results, want %d", len(res.Elements), len(want))
	}
	for i, s := range want {
		if res.Elements[i].Index != i || res.Elements[i].Status != s {
			t.Errorf("element %d = %+v, want index %d status %s", i, res.Elements[i], i, s)
		}
	}
	if res.Elements[1].Err == nil {
		t.Error("failed element carries no error")
	}
	if got := loader.calls; len(got) != 3 || got[2] != "blue" {
		t.Errorf("loader calls = %v, want selected image used for third element", got)
	}

	img := w.decode(t)
	if got := rgbaAt(img, 25, 50); !near(got, red) {
		t.Errorf("left half = %v, want red", got)
	}
	if got := rgbaAt(img, 75, 50); !near(got, blue) {
		t.Errorf("right half = %v, want blue", got)
	}
}

func TestRenderBackgroundCover(t *testing.T) {
	loader := &stubLoader{images: map[string]image.Image{"bg": solidImage(3, 1, green)}}
	w := &memWriter{}
	c := NewCompositor(Options{Renderer: RasterRenderer{}, Loader: loader, Assets: w})

	tmpl := &models.Template{Width: 90, Height: 120, BackgroundColor: "#ffffff", BackgroundImage: "bg"}
	res, err := c.Render(context.Background(), tmpl, ModeFinal)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(res.Elements) != 1 || res.Elements[0].Kind != KindBackground || res.Elements[0].Status != StatusDrawn {
		t.Fatalf("elements = %+v", res.Elements)
	}
	img := w.decode(t)
	for _, p := range []image.Point{{0, 0}, {89, 0}, {0, 119}, {89, 119}, {45, 60}} {
		if got := rgbaAt(img, p.X, p.Y); !near(got, green) {
			t.Errorf("pixel %v = %v, want green", p, got)
		}
	}
}

func TestRenderQRElement(t *testing.T) {
	w := &memWriter{}
	c := NewCompositor(Options{Renderer: RasterRenderer{}, Assets: w})

	tmpl := &models.Template{
		Width:           400,
		Height:          400,
		BackgroundColor: "#ffffff",
		QRElements: []models.QRElement{{
			Content:   "https://example.com/pin",
			PositionX: 50,
			PositionY: 50,
			Size:      50,
		}},
	}
	res, err := c.Render(context.Background(), tmpl, ModeFinal)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if res.Elements[0].Status != StatusDrawn {
		t.Fatalf("qr status = %s (%s)", res.Elements[0].Status, res.Elements[0].Reason)
	}
	img := w.decode(t)
	if !hasNonWhite(img, image.Rect(100, 100, 300, 300)) {
		t.Error("no QR modules drawn")
	}
	if hasNonWhite(img, image.Rect(0, 0, 100, 100)) {
		t.Error("QR drawn outside its box")
	}
}

func TestRenderFatalErrors(t *testing.T) {
	ctx := context.Background()

	c := NewCompositor(Options{Assets: &memWriter{}})
	if _, err := c.Render(ctx, helloTemplate(), ModeFinal); !errors.Is(err, ErrNoBackend) {
		t.Errorf("no renderer: got %v, want ErrNoBackend", err)
	}

	writeErr := errors.New("disk full")
	c = NewCompositor(Options{Renderer: RasterRenderer{}, Assets: &memWriter{err: writeErr}})
	res, err := c.Render(ctx, helloTemplate(), ModeFinal)
	if !errors.Is(err, writeErr) || res != nil {
		t.Errorf("write failure: got (%v, %v)", res, err)
	}

	c = NewCompositor(Options{Renderer: RasterRenderer{}, Assets: &memWriter{}})
	if _, err := c.Render(ctx, &models.Template{Width: 0, Height: 10}, ModeFinal); err == nil {
		t.Error("zero width: expected error")
	}
}

func TestNewRendererUnknown(t *testing.T) {
	if _, err := NewRenderer("vips"); !errors.Is(err, ErrNoBackend) {
		t.Errorf("got %v, want ErrNoBackend", err)
	}
}

func TestGGDrawImageStretches(t *testing.T) {
	cv, err := GGRenderer{}.NewCanvas(40, 40)
	if err != nil {
		t.Fatal(err)
	}
	cv.Fill(white)
	cv.DrawImage(solidImage(2, 2, red), image.Rect(10, 10, 30, 30))

	var buf bytes.Buffer
	if err := cv.EncodePNG(&buf); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if got := rgbaAt(img, 20, 20); !near(got, red) {
		t.Errorf("inside = %v, want red", got)
	}
	if got := rgbaAt(img, 5, 5); got != white {
		t.Errorf("outside = %v, want white", got)
	}
}

func TestOutputFilename(t *testing.T) {
	now := time.Unix(1700000000, 0)
	final := regexp.MustCompile(`^social-image-1700000000-[0-9a-f]{12}\.png$`)
	preview := regexp.MustCompile(`^social-image-preview-1700000000-[0-9a-f]{12}\.png$`)

	a := OutputFilename(ModeFinal, now)
	b := OutputFilename(ModeFinal, now)
	if !final.MatchString(a) {
		t.Errorf("final name %q", a)
	}
	if a == b {
		t.Errorf("two renders in the same second share a name: %q", a)
	}
	if p := OutputFilename(ModePreview, now); !preview.MatchString(p) {
		t.Errorf("preview name %q", p)
	}
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"": ModeFinal, "final": ModeFinal, "preview": ModePreview} {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Errorf("ParseMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseMode("draft"); err == nil {
		t.Error("expected error for unknown mode")
	}
}
