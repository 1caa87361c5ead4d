package s3

import "testing"

func TestContentType(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"a.jpg", "image/jpeg"},
		{"a.JPEG", "image/jpeg"},
		{"dir/a.png", "image/png"},
		{"a.gif", "image/gif"},
		{"a.bmp", "image/bmp"},
		{"a.tif", "image/tiff"},
	}
	for _, tt := range tests {
		got, err := ContentType(tt.path)
		if err != nil {
			t.Fatalf("ContentType(%q) err = %v", tt.path, err)
		}
		if got != tt.want {
			t.Fatalf("ContentType(%q) = %q; want %q", tt.path, got, tt.want)
		}
	}
	if _, err := ContentType("a.mp3"); err == nil {
		t.Fatal("ContentType(a.mp3) err = nil; want error")
	}
}
