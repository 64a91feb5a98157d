package compose

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/ukaji3/eximg-go/pkg/eximg/models"
)

var (
	red  = color.NRGBA{255, 0, 0, 255}
	blue = color.NRGBA{0, 0, 255, 255}
)

func savePNG(t *testing.T, p string, w, h int, c color.Color) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		t.Fatal(err)
	}
	if err := imaging.Save(imaging.New(w, h, c), p); err != nil {
		t.Fatalf("Failed to save %s: %v", p, err)
	}
}

func TestCanvasSize(t *testing.T) {
	images := []*image.NRGBA{
		imaging.New(10, 20, red),
		imaging.New(30, 40, blue),
		imaging.New(5, 5, red),
	}
	w, h := CanvasSize(images)
	if w != 45 || h != 40 {
		t.Errorf("CanvasSize = (%d, %d), expected (45, 40)", w, h)
	}
}

func TestCanvasSizeWidths(t *testing.T) {
	images := []*image.NRGBA{
		imaging.New(100, 10, red),
		imaging.New(50, 60, red),
		imaging.New(75, 30, red),
	}
	if w, h := CanvasSize(images); w != 225 || h != 60 {
		t.Errorf("CanvasSize = (%d, %d), expected (225, 60)", w, h)
	}
}

func TestConcat(t *testing.T) {
	canvas := Concat([]*image.NRGBA{
		imaging.New(10, 20, red),
		imaging.New(30, 40, blue),
	})

	if b := canvas.Bounds(); b.Dx() != 40 || b.Dy() != 40 {
		t.Fatalf("canvas = %dx%d, expected 40x40", b.Dx(), b.Dy())
	}

	tests := []struct {
		x, y     int
		expected color.NRGBA
	}{
		{5, 15, red},
		{0, 10, red},
		{9, 29, red},
		{20, 0, blue},
		{39, 39, blue},
	}
	for _, tt := range tests {
		if got := canvas.NRGBAAt(tt.x, tt.y); got != tt.expected {
			t.Errorf("pixel (%d, %d) = %v, expected %v", tt.x, tt.y, got, tt.expected)
		}
	}

	for _, p := range []image.Point{{0, 0}, {9, 9}, {5, 30}, {9, 39}} {
		if a := canvas.NRGBAAt(p.X, p.Y).A; a != 0 {
			t.Errorf("pixel %v alpha = %d, expected transparent", p, a)
		}
	}
}

func TestConcatManyImages(t *testing.T) {
	var images []*image.NRGBA
	for i := 0; i < 64; i++ {
		c := red
		if i%2 == 1 {
			c = blue
		}
		images = append(images, imaging.New(3, 1+i%5, c))
	}

	canvas := Concat(images)
	if b := canvas.Bounds(); b.Dx() != 192 || b.Dy() != 5 {
		t.Fatalf("canvas = %dx%d, expected 192x5", b.Dx(), b.Dy())
	}
	for i, img := range images {
		h := img.Bounds().Dy()
		y := (5 - h) / 2
		want := red
		if i%2 == 1 {
			want = blue
		}
		if got := canvas.NRGBAAt(i*3+1, y); got != want {
			t.Errorf("image %d pixel = %v, expected %v", i, got, want)
		}
		if y > 0 {
			if a := canvas.NRGBAAt(i*3+1, y-1).A; a != 0 {
				t.Errorf("image %d: pixel above = alpha %d, expected transparent", i, a)
			}
		}
	}
}

func TestMergeDirSingleImage(t *testing.T) {
	tmp := t.TempDir()
	dir := filepath.Join(tmp, "extracted", "Sheet1_C5")
	src := filepath.Join(dir, "image1.PNG")
	savePNG(t, src, 4, 4, red)
	mergeDir := filepath.Join(tmp, "merged")
	if err := os.MkdirAll(mergeDir, 0755); err != nil {
		t.Fatal(err)
	}

	c := &Compositor{MergedSuffix: "_merged"}
	ok, errs := c.MergeDir(dir, mergeDir)
	if !ok || len(errs) != 0 {
		t.Fatalf("MergeDir = %v, %v; expected success", ok, errs)
	}

	want, _ := os.ReadFile(src)
	got, err := os.ReadFile(filepath.Join(mergeDir, "Sheet1_C5.png"))
	if err != nil {
		t.Fatalf("Expected Sheet1_C5.png: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Error("Single image should be copied byte for byte")
	}
}

func TestMergeDirSingleImageKeepsExtension(t *testing.T) {
	tmp := t.TempDir()
	dir := filepath.Join(tmp, "extracted", "Data_B2")
	savePNG(t, filepath.Join(dir, "photo.JPG"), 4, 4, blue)
	mergeDir := filepath.Join(tmp, "merged")
	if err := os.MkdirAll(mergeDir, 0755); err != nil {
		t.Fatal(err)
	}

	c := &Compositor{MergedSuffix: "_merged"}
	if ok, errs := c.MergeDir(dir, mergeDir); !ok || len(errs) != 0 {
		t.Fatalf("MergeDir = %v, %v; expected success", ok, errs)
	}
	if _, err := os.Stat(filepath.Join(mergeDir, "Data_B2.jpg")); err != nil {
		t.Errorf("Expected Data_B2.jpg: %v", err)
	}
	if _, err := os.Stat(filepath.Join(mergeDir, "Data_B2.png")); !os.IsNotExist(err) {
		t.Error("A JPEG passthrough should not be renamed to .png")
	}
}

func TestMergeDirComposite(t *testing.T) {
	tmp := t.TempDir()
	dir := filepath.Join(tmp, "extracted", "Sheet1_A1")
	savePNG(t, filepath.Join(dir, "image1.png"), 10, 20, red)
	savePNG(t, filepath.Join(dir, "image2.png"), 30, 40, blue)
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0644); err != nil {
		t.Fatal(err)
	}
	mergeDir := filepath.Join(tmp, "merged")
	if err := os.MkdirAll(mergeDir, 0755); err != nil {
		t.Fatal(err)
	}

	var lines []string
	c := &Compositor{MergedSuffix: "_合并", Report: func(msg string) { lines = append(lines, msg) }}
	ok, errs := c.MergeDir(dir, mergeDir)
	if !ok || len(errs) != 0 {
		t.Fatalf("MergeDir = %v, %v; expected success", ok, errs)
	}

	img, err := imaging.Open(filepath.Join(mergeDir, "Sheet1_A1_合并.png"))
	if err != nil {
		t.Fatalf("Failed to open composite: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 40 || b.Dy() != 40 {
		t.Errorf("composite = %dx%d, expected 40x40", b.Dx(), b.Dy())
	}
	if len(lines) == 0 {
		t.Error("Expected a progress line")
	}
}

func TestMergeDirSkipsUndecodableImages(t *testing.T) {
	tmp := t.TempDir()
	dir := filepath.Join(tmp, "extracted", "Sheet1_A1")
	savePNG(t, filepath.Join(dir, "image1.png"), 8, 8, red)
	if err := os.WriteFile(filepath.Join(dir, "image2.png"), []byte("not an image"), 0644); err != nil {
		t.Fatal(err)
	}
	savePNG(t, filepath.Join(dir, "image3.png"), 8, 8, blue)
	mergeDir := filepath.Join(tmp, "merged")
	if err := os.MkdirAll(mergeDir, 0755); err != nil {
		t.Fatal(err)
	}

	c := &Compositor{MergedSuffix: "_merged"}
	ok, errs := c.MergeDir(dir, mergeDir)
	if !ok {
		t.Fatal("Expected a composite from the decodable images")
	}
	if len(errs) != 1 || !errors.Is(errs[0], models.ErrComposite) {
		t.Errorf("Expected one ErrComposite error, got %v", errs)
	}

	img, err := imaging.Open(filepath.Join(mergeDir, "Sheet1_A1_merged.png"))
	if err != nil {
		t.Fatalf("Failed to open composite: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 16 || b.Dy() != 8 {
		t.Errorf("composite = %dx%d, expected 16x8", b.Dx(), b.Dy())
	}
}

func TestMergeDirNothingDecodable(t *testing.T) {
	tmp := t.TempDir()
	dir := filepath.Join(tmp, "extracted", "Sheet1_A1")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"a.png", "b.png"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("junk"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	c := &Compositor{MergedSuffix: "_merged"}
	ok, errs := c.MergeDir(dir, tmp)
	if ok {
		t.Error("Expected no result when nothing decodes")
	}
	if len(errs) != 2 {
		t.Errorf("Expected 2 errors, got %v", errs)
	}
}

func TestMergeAll(t *testing.T) {
	tmp := t.TempDir()
	extractDir := filepath.Join(tmp, "extracted")
	savePNG(t, filepath.Join(extractDir, "Sheet1_A1", "image1.png"), 2, 2, red)
	savePNG(t, filepath.Join(extractDir, "Sheet1_A1", "image2.png"), 2, 2, blue)
	savePNG(t, filepath.Join(extractDir, "Sheet1_B2", "image3.png"), 2, 2, red)
	if err := os.MkdirAll(filepath.Join(extractDir, "Sheet1_C3"), 0755); err != nil {
		t.Fatal(err)
	}

	mergeDir := filepath.Join(tmp, "merged")
	c := &Compositor{MergedSuffix: "_merged"}
	merged, errs := c.MergeAll(extractDir, mergeDir)
	if len(errs) != 0 {
		t.Fatalf("Unexpected errors: %v", errs)
	}
	if merged != 2 {
		t.Errorf("merged = %d, expected 2", merged)
	}

	for _, name := range []string{"Sheet1_A1_merged.png", "Sheet1_B2.png"} {
		if _, err := os.Stat(filepath.Join(mergeDir, name)); err != nil {
			t.Errorf("Expected %s: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(mergeDir, "Sheet1_C3.png")); !os.IsNotExist(err) {
		t.Error("Empty directory should produce no result")
	}
}
