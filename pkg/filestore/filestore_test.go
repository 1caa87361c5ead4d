package filestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	inkimg "github.com/igolaizola/inko/pkg/image"
)

func TestNewInvalid(t *testing.T) {
	tests := []struct {
		typ  string
		conn string
	}{
		{"ftp", "x"},
		{"s3", "nobucket"},
		{"s3", "key@bucket.region"},
		{"s3", "key:secret@bucket"},
		{"telegram", "token@chat"},
		{"local", ""},
	}
	for _, tt := range tests {
		t.Run(tt.typ+"_"+tt.conn, func(t *testing.T) {
			if _, err := New(tt.typ, tt.conn, "", false, nil); err == nil {
				t.Fatalf("New(%q, %q) err = nil; want error", tt.typ, tt.conn)
			}
		})
	}
}

func TestName(t *testing.T) {
	tests := []struct {
		f    inkimg.Format
		want string
	}{
		{inkimg.PNG, "id.png"},
		{inkimg.JPEG, "id.jpg"},
		{inkimg.JPG, "id.jpg"},
		{inkimg.TIFF, "id.tiff"},
	}
	for _, tt := range tests {
		if got := Name("id", tt.f); got != tt.want {
			t.Fatalf("Name(id, %v) = %q; want %q", tt.f, got, tt.want)
		}
	}
}

func TestLocalImage(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := New("local", filepath.Join(dir, "store"), "", false, nil)
	if err != nil {
		t.Fatal(err)
	}
	src := filepath.Join(dir, "out.jpg")
	if err := os.WriteFile(src, []byte("jpeg"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := s.SetImage(ctx, src, "abc", inkimg.JPEG); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "store", "abc.jpg")); err != nil {
		t.Fatalf("stored file missing: %v", err)
	}
	dst := filepath.Join(dir, "back.jpg")
	if err := s.GetImage(ctx, dst, "abc", inkimg.JPEG); err != nil {
		t.Fatal(err)
	}
}
