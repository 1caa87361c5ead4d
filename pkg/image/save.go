package image

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
)

// Save encodes m into path. The image is encoded into a temporary file next
// to path that is renamed once encoding succeeds, so a failed save never
// leaves a partial file behind.
func Save(path string, f Format, m image.Image) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("image: couldn't create temp file in %s: %w", dir, err)
	}
	defer func() {
		// No-op once renamed
		_ = os.Remove(tmp.Name())
	}()
	if err := f.Encode(tmp, m); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("image: couldn't close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("image: couldn't chmod temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("image: couldn't rename temp file to %s: %w", path, err)
	}
	return nil
}
