package phash

import (
	"image"
	"image/color"
	"testing"
)

func solidImage(w, h int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// bandImage draws nine vertical bands whose brightness rises (or falls) left to right.
func bandImage(w, h int, rising bool) image.Image {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			band := x * 9 / w
			if !rising {
				band = 8 - band
			}
			img.SetGray(x, y, color.Gray{Y: uint8(20 + band*25)})
		}
	}
	return img
}

func TestFingerprint_Deterministic(t *testing.T) {
	h := NewDifferenceHasher()
	img := bandImage(180, 120, false)

	first, err := h.Fingerprint(img)
	if err != nil {
		t.Fatalf("Failed to fingerprint: %v", err)
	}
	for i := 0; i < 3; i++ {
		again, err := h.Fingerprint(img)
		if err != nil {
			t.Fatalf("Failed to fingerprint: %v", err)
		}
		if again != first {
			t.Errorf("Expected %s on run %d, got %s", first, i, again)
		}
	}
}

func TestFingerprint_KnownImages(t *testing.T) {
	h := NewDifferenceHasher()

	tests := []struct {
		name string
		img  image.Image
		want Fingerprint
	}{
		{"solid black", solidImage(100, 100, color.Black), 0},
		{"solid white", solidImage(100, 100, color.White), 0},
		{"brightness rising", bandImage(90, 80, true), 0},
		{"brightness falling", bandImage(90, 80, false), ^Fingerprint(0)},
		{"one pixel", solidImage(1, 1, color.White), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := h.Fingerprint(tt.img)
			if err != nil {
				t.Fatalf("Failed to fingerprint: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestFingerprint_BitOrder(t *testing.T) {
	h := NewDifferenceHasher()

	// A 9x8 input is not resampled, so each pixel is one cell.
	first := image.NewGray(image.Rect(0, 0, 9, 8))
	first.SetGray(0, 0, color.Gray{Y: 255})

	got, err := h.Fingerprint(first)
	if err != nil {
		t.Fatalf("Failed to fingerprint: %v", err)
	}
	if got != Fingerprint(1)<<63 {
		t.Errorf("Expected top bit only, got %s", got)
	}

	last := image.NewGray(image.Rect(0, 0, 9, 8))
	last.SetGray(7, 7, color.Gray{Y: 255})

	got, err = h.Fingerprint(last)
	if err != nil {
		t.Fatalf("Failed to fingerprint: %v", err)
	}
	// Cell (7,7) is brighter than (8,7), the final comparison; (6,7) < (7,7) adds nothing.
	if got != 1 {
		t.Errorf("Expected lowest bit only, got %s", got)
	}
}

func TestFingerprint_EqualNeighboursProduceZero(t *testing.T) {
	h := NewDifferenceHasher()

	img := image.NewGray(image.Rect(0, 0, 9, 8))
	for y := 0; y < 8; y++ {
		img.SetGray(0, y, color.Gray{Y: 90})
		img.SetGray(1, y, color.Gray{Y: 90})
	}

	got, err := h.Fingerprint(img)
	if err != nil {
		t.Fatalf("Failed to fingerprint: %v", err)
	}
	// Only the (1,y) > (2,y) comparisons fire: the second bit of every row byte.
	want := Fingerprint(0x4040404040404040)
	if got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
}

func TestFingerprint_EmptyImage(t *testing.T) {
	h := NewDifferenceHasher()

	if _, err := h.Fingerprint(nil); err != ErrEmptyImage {
		t.Errorf("Expected ErrEmptyImage for nil image, got %v", err)
	}
	if _, err := h.Fingerprint(image.NewRGBA(image.Rect(0, 0, 0, 0))); err != ErrEmptyImage {
		t.Errorf("Expected ErrEmptyImage for 0x0 image, got %v", err)
	}
}

func TestHamming(t *testing.T) {
	tests := []struct {
		name string
		a, b Fingerprint
		want int
	}{
		{"identical", 0xdeadbeefcafebabe, 0xdeadbeefcafebabe, 0},
		{"one bit", 0, 1, 1},
		{"top bit", 0, 1 << 63, 1},
		{"complement", 0x0f0f0f0f0f0f0f0f, 0xf0f0f0f0f0f0f0f0, MaxDistance},
		{"all", 0, ^Fingerprint(0), MaxDistance},
		{"mixed", 0b1011, 0b0110, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Hamming(tt.a, tt.b); got != tt.want {
				t.Errorf("Hamming(a, b): expected %d, got %d", tt.want, got)
			}
			if got := Hamming(tt.b, tt.a); got != tt.want {
				t.Errorf("Hamming(b, a): expected %d, got %d", tt.want, got)
			}
			if got := tt.a.Distance(tt.a); got != 0 {
				t.Errorf("Expected self distance 0, got %d", got)
			}
		})
	}
}

func TestHamming_Range(t *testing.T) {
	values := []Fingerprint{0, 1, 0x8000000000000001, 0x123456789abcdef0, ^Fingerprint(0)}
	for _, a := range values {
		for _, b := range values {
			d := Hamming(a, b)
			if d < 0 || d > MaxDistance {
				t.Errorf("Hamming(%s, %s) = %d out of range", a, b, d)
			}
		}
	}
}

func TestFingerprint_TextEncoding(t *testing.T) {
	fp := Fingerprint(0x00ff00ff12345678)
	if got := fp.String(); got != "d:00ff00ff12345678" {
		t.Errorf("Expected d:00ff00ff12345678, got %s", got)
	}

	parsed, err := ParseFingerprint(fp.String())
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}
	if parsed != fp {
		t.Errorf("Expected %s, got %s", fp, parsed)
	}

	if _, err := ParseFingerprint("a:00ff00ff12345678"); err == nil {
		t.Error("Expected error for average hash encoding")
	}
	if _, err := ParseFingerprint("garbage"); err == nil {
		t.Error("Expected error for malformed encoding")
	}
}
