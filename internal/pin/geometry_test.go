package pin

import (
	"image"
	"math"
	"testing"
)

func TestToPixelRectFullCanvas(t *testing.T) {
	sizes := [][2]int{{1000, 1500}, {1, 1}, {333, 777}, {1920, 1080}}
	for _, s := range sizes {
		r := ToPixelRect(50, 50, 100, 100, s[0], s[1])
		if r.X != 0 || r.Y != 0 || r.W != float64(s[0]) || r.H != float64(s[1]) {
			t.Errorf("%dx%d: got %+v, want full canvas", s[0], s[1], r)
		}
		if got, want := r.Pixels(), image.Rect(0, 0, s[0], s[1]); got != want {
			t.Errorf("%dx%d: Pixels() = %v, want %v", s[0], s[1], got, want)
		}
	}
}

func TestToPixelRectCentreAnchor(t *testing.T) {
	r := ToPixelRect(50, 25, 80, 40, 1000, 1500)
	want := Rect{X: 100, Y: 75, W: 800, H: 600}
	if r != want {
		t.Errorf("got %+v, want %+v", r, want)
	}
	if r.CenterX() != 500 || r.CenterY() != 375 {
		t.Errorf("centre = (%v, %v), want (500, 375)", r.CenterX(), r.CenterY())
	}
}

func TestPixelsRoundsEachEdge(t *testing.T) {
	r := Rect{X: 0.5, Y: 1.4, W: 2.2, H: 2.2}
	// x0 = round(0.5) = 1, x1 = round(2.7) = 3, y0 = round(1.4) = 1, y1 = round(3.6) = 4
	if got, want := r.Pixels(), image.Rect(1, 1, 3, 4); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestCoverFitCoversCanvas(t *testing.T) {
	const eps = 1e-9
	srcs := [][2]int{{1, 1}, {3, 7}, {4000, 3000}, {640, 480}, {1080, 1920}, {2, 1}, {1, 1000}}
	dsts := [][2]int{{1000, 1500}, {1000, 1000}, {1920, 1080}, {7, 3}, {1, 1}}

	for _, s := range srcs {
		for _, d := range dsts {
			scale, ox, oy := CoverFit(s[0], s[1], d[0], d[1])
			if scale <= 0 {
				t.Fatalf("src %v dst %v: scale = %v", s, d, scale)
			}
			w := float64(s[0]) * scale
			h := float64(s[1]) * scale

			if ox > eps || oy > eps {
				t.Errorf("src %v dst %v: offset (%v, %v) leaves a gap at the origin", s, d, ox, oy)
			}
			if ox+w < float64(d[0])-eps || oy+h < float64(d[1])-eps {
				t.Errorf("src %v dst %v: scaled image ends at (%v, %v)", s, d, ox+w, oy+h)
			}

			px := CoverRect(s[0], s[1], d[0], d[1]).Pixels()
			if !image.Rect(0, 0, d[0], d[1]).In(px) {
				t.Errorf("src %v dst %v: pixel box %v does not cover canvas", s, d, px)
			}

			// One axis fits exactly, the other overflows symmetrically.
			if math.Abs(ox) > eps && math.Abs(oy) > eps {
				t.Errorf("src %v dst %v: both axes cropped (%v, %v)", s, d, ox, oy)
			}
		}
	}
}

func TestCoverFitDegenerateSource(t *testing.T) {
	scale, ox, oy := CoverFit(0, 10, 100, 100)
	if scale != 0 || ox != 0 || oy != 0 {
		t.Errorf("got (%v, %v, %v), want zeros", scale, ox, oy)
	}
}

func TestQRRectIsSquare(t *testing.T) {
	r := QRRect(50, 50, 20, 1000, 1500)
	want := Rect{X: 400, Y: 650, W: 200, H: 200}
	if r != want {
		t.Errorf("got %+v, want %+v", r, want)
	}
}
