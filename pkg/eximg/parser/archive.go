package parser

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ukaji3/eximg-go/pkg/eximg/models"
)

// Unpack extracts every entry of the archive at src into scratch, preserving
// relative paths. A pre-existing scratch directory is replaced. The caller owns
// scratch and must remove it.
func Unpack(src, scratch string) error {
	r, err := zip.OpenReader(src)
	if err != nil {
		return models.NewExtractionError(models.ErrArchive, src, err)
	}
	defer r.Close()

	if err := os.RemoveAll(scratch); err != nil {
		return fmt.Errorf("clear scratch directory: %w", err)
	}
	if err := os.MkdirAll(scratch, 0755); err != nil {
		return fmt.Errorf("create scratch directory: %w", err)
	}

	root, err := filepath.Abs(scratch)
	if err != nil {
		return err
	}

	for _, f := range r.File {
		target, err := entryPath(root, f.Name)
		if err != nil {
			return models.NewExtractionError(models.ErrArchive, src, err)
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return err
			}
			continue
		}
		if err := extractFile(f, target); err != nil {
			return models.NewExtractionError(models.ErrArchive, f.Name, err)
		}
	}

	return nil
}

// entryPath resolves an archive entry name below root, refusing names that escape it.
func entryPath(root, name string) (string, error) {
	target := filepath.Join(root, filepath.FromSlash(name))
	if target != root && !strings.HasPrefix(target, root+string(os.PathSeparator)) {
		return "", fmt.Errorf("entry %q escapes extraction directory", name)
	}
	return target, nil
}

func extractFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}

	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// MediaExtensions lists the file extensions treated as raster images.
var MediaExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp"}

// IsImageFile reports whether name carries one of MediaExtensions.
func IsImageFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range MediaExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// ListMedia returns the image files of the media directory sorted by name.
// A missing directory yields no assets and no error.
func ListMedia(mediaDir string) ([]models.MediaAsset, error) {
	entries, err := os.ReadDir(mediaDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var assets []models.MediaAsset
	for _, e := range entries {
		if e.IsDir() || !IsImageFile(e.Name()) {
			continue
		}
		assets = append(assets, models.MediaAsset{
			Name: e.Name(),
			Path: filepath.Join(mediaDir, e.Name()),
		})
	}
	return assets, nil
}
