package progress

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Downloader hands an exported file to the user.
type Downloader interface {
	Download(ctx context.Context, filename string, data []byte) (string, error)
}

// DirDownloader writes exports into a directory.
type DirDownloader struct {
	Dir string
}

// Download writes data to Dir/filename through a temporary file and a
// rename, so a crash never leaves a half-written export behind. It returns
// the final path.
func (d DirDownloader) Download(ctx context.Context, filename string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	dir := d.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".usblord-export-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write export: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close export: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return "", fmt.Errorf("chmod export: %w", err)
	}

	target := filepath.Join(dir, filename)
	if err := os.Rename(tmpName, target); err != nil {
		return "", fmt.Errorf("rename export: %w", err)
	}
	return target, nil
}
