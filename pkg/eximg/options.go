// Package eximg extracts embedded images from xlsx workbooks into cell-addressed
// directories and merges images sharing a cell.
package eximg

import "log/slog"

// Options configures extraction behavior.
type Options struct {
	// OutputDir is the base directory receiving the extraction and merge results.
	OutputDir string `json:"output_dir" yaml:"output_dir"`
	// ScratchDir is the parent of the directory the archive is unpacked into. Each run
	// unpacks into a fresh "eximg-*" child that is removed when the run ends; the
	// parent itself is left untouched. Empty means the system temp directory.
	ScratchDir string `json:"scratch_dir" yaml:"scratch_dir"`
	// Language selects the output naming (BCP 47 tag). Chinese tags keep the
	// 提取结果/合并结果 layout; any other tag uses English names.
	Language string `json:"language" yaml:"language"`
	// Merge specifies whether to composite images sharing a directory.
	// If nil, defaults to true.
	Merge *bool `json:"merge,omitempty" yaml:"merge,omitempty"`

	// Logger for debug/warning messages.
	Logger *slog.Logger `json:"-" yaml:"-"`
	// Progress receives human-readable status lines. May be nil.
	Progress func(msg string) `json:"-" yaml:"-"`
}

// DefaultOptions returns default extraction options.
func DefaultOptions() Options {
	return Options{
		OutputDir: ".",
		Language:  "zh",
	}
}

// ShouldMerge returns whether to run the compositing step.
func (o Options) ShouldMerge() bool {
	if o.Merge != nil {
		return *o.Merge
	}
	return true
}

func (o *Options) defaults() {
	if o.OutputDir == "" {
		o.OutputDir = "."
	}
	if o.Language == "" {
		o.Language = "zh"
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}
