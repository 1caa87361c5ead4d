package info

import (
	"bytes"
	"context"
	"image"
	"path/filepath"
	"testing"

	inkimg "github.com/igolaizola/inko/pkg/image"
)

func TestRun(t *testing.T) {
	input := filepath.Join(t.TempDir(), "in.png")
	if err := inkimg.Save(input, inkimg.PNG, image.NewNRGBA(image.Rect(0, 0, 32, 16))); err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	if err := Run(context.Background(), &Config{Input: input, Out: &out}); err != nil {
		t.Fatal(err)
	}
	want := "date: no data for date\n" +
		"camera model: no data for camera model\n" +
		"image size: 32 x 16px\n" +
		"gps location: no data for gps location\n"
	if got := out.String(); got != want {
		t.Fatalf("output = %q; want %q", got, want)
	}
}

func TestRunMissingInput(t *testing.T) {
	if err := Run(context.Background(), &Config{}); err == nil {
		t.Fatal("Run() err = nil; want error")
	}
	cfg := &Config{Input: filepath.Join(t.TempDir(), "missing.png")}
	if err := Run(context.Background(), cfg); err == nil {
		t.Fatal("Run(missing) err = nil; want error")
	}
}
