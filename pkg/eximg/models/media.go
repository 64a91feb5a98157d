package models

// MediaAsset is an image part extracted from the archive's media store.
type MediaAsset struct {
	// Name is the file name inside xl/media.
	Name string `json:"name"`
	// Path is the absolute path of the unpacked file.
	Path string `json:"path"`
}

// RelationshipEntry links a relationship id to a media file inside one drawing.
type RelationshipEntry struct {
	ID     string `json:"id"`
	Target string `json:"target"`
}

// RelationshipIndex maps relationship ids to media file names for one drawing.
type RelationshipIndex map[string]string

// HashEntry tracks how often a content hash has been written.
type HashEntry struct {
	// Count is the number of repeat occurrences after the first.
	Count int `json:"count"`
	// OriginalName is the file name of the first occurrence.
	OriginalName string `json:"original_name"`
}

// HashTracker maps content hashes to their occurrences within one run.
type HashTracker map[string]*HashEntry
