package eximg

import (
	"path/filepath"

	"github.com/ukaji3/eximg-go/pkg/eximg/models"
)

// Extract extracts the images of the workbook at path into opts.OutputDir.
//
// A summary is returned for every run that got past unpacking, even when no image
// was found; per-file problems are listed in Summary.Warnings. An error is returned
// only for an unreadable archive or an unusable output directory. The scratch
// directory is removed on every path.
func Extract(path string, opts Options) (*models.Summary, error) {
	opts.defaults()

	layout, err := LayoutFor(opts.Language)
	if err != nil {
		return nil, err
	}

	r := &run{
		opts:   opts,
		layout: layout,
		summary: &models.Summary{
			BookName: filepath.Base(path),
		},
	}
	return r.execute(path)
}
