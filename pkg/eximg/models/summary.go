package models

// Summary is the terminal record of one extraction run.
type Summary struct {
	// BookName is the workbook file name (no path).
	BookName string `json:"book_name"`
	// TotalImages is the number of image files found in the media store.
	TotalImages int `json:"total_images"`
	// ExtractedCount is the number of image copies written to the extraction tree.
	ExtractedCount int `json:"extracted_count"`
	// GroupCount is the number of distinct cells holding grouped pictures.
	GroupCount int `json:"group_count"`
	// MergedCount is the number of directories turned into a merge result.
	MergedCount int `json:"merged_count"`
	// UniqueImageCount is the number of distinct content hashes seen.
	UniqueImageCount int `json:"unique_image_count"`
	// DuplicateCount is the number of copies whose content was seen before.
	DuplicateCount int `json:"duplicate_count"`
	// MergeSkipped is true when compositing was disabled for the run.
	MergeSkipped bool `json:"merge_skipped,omitempty"`
	// ExtractDir is the extraction results directory.
	ExtractDir string `json:"extract_dir,omitempty"`
	// MergeDir is the merge results directory.
	MergeDir string `json:"merge_dir,omitempty"`
	// Warnings lists recoverable problems met during the run.
	Warnings []string `json:"warnings,omitempty"`
}
