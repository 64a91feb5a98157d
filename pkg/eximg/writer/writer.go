// Package writer copies resolved images into cell-addressed directories and
// renames byte-identical duplicates.
package writer

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ukaji3/eximg-go/pkg/eximg/models"
)

// Stats holds the aggregate counters of a write pass.
type Stats struct {
	// Extracted is the number of copies written.
	Extracted int
	// Unique is the number of distinct content hashes.
	Unique int
	// Duplicates is the number of copies whose hash was seen before.
	Duplicates int
	// Groups is the number of distinct cells holding grouped pictures.
	Groups int
}

// Writer owns the hash tracker and the group registry of one extraction run.
// It is not safe for concurrent use: file name decisions need a global view of
// the names and hashes already written.
type Writer struct {
	root       string
	copySuffix string
	report     func(string)

	hashes     models.HashTracker
	groups     map[string][]string
	groupOrder []string
}

// New creates a Writer placing directories below root. copySuffix is inserted
// before the repeat counter of duplicate file names (e.g. "_copy").
func New(root, copySuffix string, report func(string)) *Writer {
	return &Writer{
		root:       root,
		copySuffix: copySuffix,
		report:     report,
		hashes:     make(models.HashTracker),
		groups:     make(map[string][]string),
	}
}

func (w *Writer) logf(format string, args ...interface{}) {
	if w.report != nil {
		w.report(fmt.Sprintf(format, args...))
	}
}

// WriteAll copies every placement of the location map, then every media file no
// anchor referred to (placed at the unknown cell). Failures are per copy.
func (w *Writer) WriteAll(media []models.MediaAsset, locations *models.ImageLocationMap) (Stats, []error) {
	var stats Stats
	var errs []error

	sources := make(map[string]string, len(media))
	for _, m := range media {
		sources[m.Name] = m.Path
	}

	place := func(name, src string, rec models.LocationRecord) {
		dup, err := w.Write(src, name, rec)
		if err != nil {
			errs = append(errs, err)
			return
		}
		stats.Extracted++
		if dup {
			stats.Duplicates++
		}
	}

	for _, name := range locations.Names() {
		src, ok := sources[name]
		if !ok {
			errs = append(errs, models.NewExtractionError(models.ErrHash, name, os.ErrNotExist))
			continue
		}
		for _, rec := range locations.Records(name) {
			place(name, src, rec)
		}
	}

	for _, m := range media {
		if locations.Has(m.Name) {
			continue
		}
		place(m.Name, m.Path, models.LocationRecord{
			SheetName:   models.DefaultSheetName,
			CellAddress: models.UnknownCell,
		})
	}

	for _, key := range w.groupOrder {
		if images := w.groups[key]; len(images) > 1 {
			w.logf("group %s holds %d pictures: %s", key, len(images), strings.Join(images, ", "))
		}
	}

	stats.Unique = len(w.hashes)
	stats.Groups = len(w.groupOrder)
	return stats, errs
}

// Write copies the image at src, known in the archive as name, into the directory
// of rec. It reports whether the content had been written before in this run.
func (w *Writer) Write(src, name string, rec models.LocationRecord) (bool, error) {
	dirName := SafeName(rec.Key())
	dir := filepath.Join(w.root, dirName)

	if rec.IsGroup {
		key := rec.Key()
		if _, ok := w.groups[key]; !ok {
			w.groupOrder = append(w.groupOrder, key)
			w.logf("created group directory: %s", filepath.Join(filepath.Base(w.root), dirName))
		}
		w.groups[key] = append(w.groups[key], name)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return false, err
	}

	hash, err := HashFile(src)
	if err != nil {
		return false, models.NewExtractionError(models.ErrHash, src, err)
	}

	final, dup := w.uniqueName(dir, name, hash)
	if err := CopyFile(src, filepath.Join(dir, final)); err != nil {
		return false, err
	}

	kind := "single"
	if rec.IsGroup {
		kind = "group"
	}
	w.logf("extracted %s picture: %s -> %s", kind, name,
		filepath.Join(filepath.Base(w.root), dirName, final))
	return dup, nil
}

// uniqueName decides the file name of a copy. A repeated hash gets the copy suffix
// and its repeat count; any name already present in dir then gets "_n".
func (w *Writer) uniqueName(dir, name, hash string) (string, bool) {
	candidate := name
	entry, dup := w.hashes[hash]
	if dup {
		entry.Count++
		ext := filepath.Ext(name)
		candidate = strings.TrimSuffix(name, ext) + w.copySuffix + strconv.Itoa(entry.Count) + ext
		w.logf("duplicate picture: %s -> %s (hash %s..., first seen as %s)",
			name, candidate, hash[:8], entry.OriginalName)
	} else {
		w.hashes[hash] = &models.HashEntry{OriginalName: name}
	}

	return freeName(dir, candidate), dup
}
