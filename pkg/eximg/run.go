package eximg

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ukaji3/eximg-go/pkg/eximg/compose"
	"github.com/ukaji3/eximg-go/pkg/eximg/models"
	"github.com/ukaji3/eximg-go/pkg/eximg/parser"
	"github.com/ukaji3/eximg-go/pkg/eximg/writer"
)

// run holds the state of one extraction. Nothing outlives it.
type run struct {
	opts    Options
	layout  Layout
	summary *models.Summary
}

func (r *run) logf(format string, args ...interface{}) {
	r.progress(fmt.Sprintf(format, args...))
}

func (r *run) progress(msg string) {
	r.opts.Logger.Debug(msg)
	if r.opts.Progress != nil {
		r.opts.Progress(msg)
	}
}

// warn records a recoverable failure.
func (r *run) warn(err error) {
	r.opts.Logger.Warn("extraction warning", "error", err)
	if r.opts.Progress != nil {
		r.opts.Progress("warning: " + err.Error())
	}
	r.summary.Warnings = append(r.summary.Warnings, err.Error())
}

func (r *run) warnAll(errs []error) {
	for _, err := range errs {
		r.warn(err)
	}
}

func (r *run) execute(path string) (*models.Summary, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, models.NewExtractionError(models.ErrArchive, path, err)
	}
	if err := os.MkdirAll(r.opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	// The run only ever removes a directory it created itself.
	if r.opts.ScratchDir != "" {
		if err := os.MkdirAll(r.opts.ScratchDir, 0755); err != nil {
			return nil, fmt.Errorf("create scratch parent: %w", err)
		}
	}
	scratch, err := os.MkdirTemp(r.opts.ScratchDir, "eximg-*")
	if err != nil {
		return nil, fmt.Errorf("create scratch directory: %w", err)
	}
	defer os.RemoveAll(scratch)

	r.logf("analyzing %s", r.summary.BookName)
	if err := parser.Unpack(path, scratch); err != nil {
		r.opts.Logger.Error("unpack failed", "path", path, "error", err)
		return nil, err
	}
	r.logf("archive unpacked")

	xlDir := filepath.Join(scratch, "xl")
	mediaDir := filepath.Join(xlDir, "media")
	if _, err := os.Stat(mediaDir); err != nil {
		r.logf("no media directory, nothing to extract")
		return r.summary, nil
	}
	media, err := parser.ListMedia(mediaDir)
	if err != nil {
		return nil, fmt.Errorf("list media: %w", err)
	}
	r.summary.TotalImages = len(media)
	r.logf("found %d image files", len(media))
	if len(media) == 0 {
		return r.summary, nil
	}

	locations, errs := parser.ResolveLocations(xlDir, r.progress)
	r.warnAll(errs)

	if err := r.extract(media, locations); err != nil {
		return nil, err
	}
	r.merge()

	r.logf("done: %d extracted, %d groups, %d merged, %d unique, %d duplicates",
		r.summary.ExtractedCount, r.summary.GroupCount, r.summary.MergedCount,
		r.summary.UniqueImageCount, r.summary.DuplicateCount)
	return r.summary, nil
}

// extract copies every placement into the extraction tree.
func (r *run) extract(media []models.MediaAsset, locations *models.ImageLocationMap) error {
	dir := filepath.Join(r.opts.OutputDir, r.layout.ExtractDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create extraction directory: %w", err)
	}
	r.summary.ExtractDir = dir
	r.logf("created output directory %s", dir)
	r.logf("checking for duplicate images")

	w := writer.New(dir, r.layout.CopySuffix, r.progress)
	stats, errs := w.WriteAll(media, locations)
	r.warnAll(errs)

	r.summary.ExtractedCount = stats.Extracted
	r.summary.GroupCount = stats.Groups
	r.summary.UniqueImageCount = stats.Unique
	r.summary.DuplicateCount = stats.Duplicates

	r.logf("total images: %d, unique: %d, duplicates: %d",
		r.summary.TotalImages, stats.Unique, stats.Duplicates)
	if stats.Duplicates > 0 {
		r.logf("duplicates were renamed with the %q suffix", r.layout.CopySuffix)
	}
	r.logf("extracted %d image files into %s", stats.Extracted, r.layout.ExtractDir)
	return nil
}

// merge runs the compositor over the extraction tree unless disabled.
func (r *run) merge() {
	if !r.opts.ShouldMerge() {
		r.summary.MergeSkipped = true
		r.logf("compositing disabled, skipping merge")
		return
	}

	dir := filepath.Join(r.opts.OutputDir, r.layout.MergeDir)
	r.summary.MergeDir = dir
	r.logf("merging images into %s", dir)

	c := &compose.Compositor{
		MergedSuffix: r.layout.MergedSuffix,
		Report:       r.progress,
	}
	merged, errs := c.MergeAll(r.summary.ExtractDir, dir)
	r.warnAll(errs)
	r.summary.MergedCount = merged
	r.logf("merged %d directories", merged)
}
