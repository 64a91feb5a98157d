// Package compose merges the images of each extraction directory into one
// horizontally laid out PNG.
//
// Images are placed left to right in file name order and vertically centred on a
// fully transparent canvas whose width is the sum of the image widths and whose
// height is the tallest image. A directory holding a single image is copied
// byte for byte instead of being re-encoded, so its result keeps the source
// extension: {dirname}.png for PNG sources, {dirname}.jpeg for JPEG sources.
package compose

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // Register WebP format decoder

	"github.com/ukaji3/eximg-go/pkg/eximg/models"
	"github.com/ukaji3/eximg-go/pkg/eximg/parser"
	"github.com/ukaji3/eximg-go/pkg/eximg/writer"
)

// Compositor merges extraction directories into a merge results directory.
// Results are named {dirname}{MergedSuffix}.png for composites and {dirname}{ext}
// for single-image directories, where ext is the lowercased source extension.
type Compositor struct {
	// MergedSuffix is appended to the directory name of a composite (e.g. "_merged").
	MergedSuffix string
	// Report receives progress lines. May be nil.
	Report func(string)
}

func (c *Compositor) logf(format string, args ...interface{}) {
	if c.Report != nil {
		c.Report(fmt.Sprintf(format, args...))
	}
}

// MergeAll processes every subdirectory of extractDir in name order and writes
// results into mergeDir. It returns the number of directories that produced a
// result; per-image and per-directory failures are returned, not fatal.
func (c *Compositor) MergeAll(extractDir, mergeDir string) (int, []error) {
	if err := os.MkdirAll(mergeDir, 0755); err != nil {
		return 0, []error{err}
	}

	entries, err := os.ReadDir(extractDir)
	if err != nil {
		return 0, []error{err}
	}

	merged := 0
	var errs []error
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		ok, dirErrs := c.MergeDir(filepath.Join(extractDir, e.Name()), mergeDir)
		errs = append(errs, dirErrs...)
		if ok {
			merged++
		}
	}
	return merged, errs
}

// MergeDir writes the merge result of one extraction directory into mergeDir and
// reports whether a result was written.
func (c *Compositor) MergeDir(dir, mergeDir string) (bool, []error) {
	name := filepath.Base(dir)
	files, err := imageFiles(dir)
	if err != nil {
		return false, []error{err}
	}

	switch len(files) {
	case 0:
		c.logf("warning: no images in %s", name)
		return false, nil
	case 1:
		ext := strings.ToLower(filepath.Ext(files[0]))
		dst := filepath.Join(mergeDir, name+ext)
		if err := writer.CopyFile(files[0], dst); err != nil {
			return false, []error{err}
		}
		c.logf("copied single image: %s", name)
		return true, nil
	}

	merged, errs := Horizontal(files)
	if merged == nil {
		c.logf("merge failed: %s", name)
		return false, errs
	}

	dst := filepath.Join(mergeDir, name+c.MergedSuffix+".png")
	if err := imaging.Save(merged, dst); err != nil {
		return false, append(errs, err)
	}
	c.logf("merged %s (%d images)", name, len(files))
	return true, errs
}

// Horizontal decodes the images at paths and lays them out left to right. Images
// that fail to decode are skipped and reported as ErrComposite; the result is nil
// only when none could be decoded.
func Horizontal(paths []string) (*image.NRGBA, []error) {
	var images []*image.NRGBA
	var errs []error
	for _, p := range paths {
		img, err := imaging.Open(p)
		if err != nil {
			errs = append(errs, models.NewExtractionError(models.ErrComposite, p, err))
			continue
		}
		images = append(images, imaging.Clone(img))
	}
	if len(images) == 0 {
		return nil, errs
	}
	return Concat(images), errs
}

// Concat pastes images left to right, vertically centred, on a transparent canvas.
func Concat(images []*image.NRGBA) *image.NRGBA {
	width, height := CanvasSize(images)
	canvas := imaging.New(width, height, color.NRGBA{255, 255, 255, 0})

	x := 0
	for _, img := range images {
		b := img.Bounds()
		y := (height - b.Dy()) / 2
		r := image.Rect(x, y, x+b.Dx(), y+b.Dy())
		draw.Draw(canvas, r, img, b.Min, draw.Over)
		x += b.Dx()
	}
	return canvas
}

// CanvasSize returns the sum of the widths and the maximum height of images.
func CanvasSize(images []*image.NRGBA) (width, height int) {
	for _, img := range images {
		b := img.Bounds()
		width += b.Dx()
		if b.Dy() > height {
			height = b.Dy()
		}
	}
	return width, height
}

// imageFiles lists the image files of dir sorted by name.
func imageFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && parser.IsImageFile(e.Name()) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}
