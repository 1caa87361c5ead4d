package image

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in    string
		want  Format
		alpha bool
	}{
		{"jpeg", JPEG, false},
		{"JPG", JPG, false},
		{".png", PNG, true},
		{"gif", GIF, true},
		{"bmp", BMP, true},
		{"tif", TIFF, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if err != nil {
				t.Fatalf("ParseFormat(%q) err = %v; want nil", tt.in, err)
			}
			if got != tt.want {
				t.Fatalf("ParseFormat(%q) = %v; want %v", tt.in, got, tt.want)
			}
			if got.HasAlpha() != tt.alpha {
				t.Fatalf("%v.HasAlpha() = %v; want %v", got, got.HasAlpha(), tt.alpha)
			}
		})
	}
	if _, err := ParseFormat("webp"); err == nil {
		t.Fatal("ParseFormat(webp) err = nil; want error")
	}
}

func TestRoundTrip(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 8, 4))
	for i := range src.Pix {
		src.Pix[i] = 255
	}
	src.SetNRGBA(1, 1, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	for _, f := range []Format{PNG, BMP, TIFF} {
		t.Run(string(f), func(t *testing.T) {
			var buf bytes.Buffer
			if err := f.Encode(&buf, src); err != nil {
				t.Fatal(err)
			}
			name := "in." + string(f)
			img, err := DecodeFile(name, buf.Bytes())
			if err != nil {
				t.Fatal(err)
			}
			r, g, b, _ := img.At(1, 1).RGBA()
			if r>>8 != 10 || g>>8 != 20 || b>>8 != 30 {
				t.Fatalf("pixel = %d,%d,%d; want 10,20,30", r>>8, g>>8, b>>8)
			}
			w, h, err := Size(name, buf.Bytes())
			if err != nil {
				t.Fatal(err)
			}
			if w != 8 || h != 4 {
				t.Fatalf("Size = %dx%d; want 8x4", w, h)
			}
		})
	}
}

func TestDecodeDetect(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	for _, f := range []Format{PNG, JPEG, GIF, BMP, TIFF} {
		var buf bytes.Buffer
		if err := f.Encode(&buf, src); err != nil {
			t.Fatal(err)
		}
		img, name, err := Decode(buf.Bytes())
		if err != nil {
			t.Fatalf("Decode(%s) err = %v", f, err)
		}
		if got := img.Bounds().Size(); got != image.Pt(3, 2) {
			t.Fatalf("Decode(%s) size = %v; want 3x2", f, got)
		}
		if Format(name).Extension() != f.Extension() {
			t.Fatalf("Decode(%s) format = %q", f, name)
		}
	}
	if _, _, err := Decode([]byte("text")); err == nil {
		t.Fatal("Decode(text) err = nil; want error")
	}
}

func TestExtension(t *testing.T) {
	tests := []struct {
		f    Format
		want string
	}{
		{PNG, "png"},
		{JPEG, "jpg"},
		{JPG, "jpg"},
		{TIFF, "tiff"},
	}
	for _, tt := range tests {
		if got := tt.f.Extension(); got != tt.want {
			t.Fatalf("%s.Extension() = %q; want %q", tt.f, got, tt.want)
		}
	}
}

func TestDecodeUnsupported(t *testing.T) {
	if _, err := DecodeFile("in.txt", nil); err == nil {
		t.Fatal("DecodeFile(in.txt) err = nil; want error")
	}
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.png")
	if err := Save(path, PNG, image.NewNRGBA(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "out.png" {
		t.Fatalf("dir entries = %v; want only out.png", entries)
	}

	// An empty image can't be encoded as png and must not leave files
	bad := filepath.Join(dir, "bad.png")
	if err := Save(bad, PNG, image.NewNRGBA(image.Rect(0, 0, 0, 0))); err == nil {
		t.Fatal("Save(empty png) err = nil; want error")
	}
	if _, err := os.Stat(bad); !os.IsNotExist(err) {
		t.Fatalf("Stat(%s) err = %v; want not exist", bad, err)
	}
	if entries, _ := os.ReadDir(dir); len(entries) != 1 {
		t.Fatalf("dir entries = %v; want only out.png", entries)
	}
}
