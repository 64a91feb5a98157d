package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ukaji3/eximg-go/pkg/eximg/models"
)

// DefaultLayoutColumns is the number of images per row in the default layout.
const DefaultLayoutColumns = 10

// Reporter receives human-readable progress lines.
type Reporter func(msg string)

func (r Reporter) printf(format string, args ...interface{}) {
	if r != nil {
		r(fmt.Sprintf(format, args...))
	}
}

// ResolveLocations builds the image location map of the unpacked workbook rooted at
// xlDir (the archive's "xl" directory). Per-file failures are returned alongside the
// map and never stop the resolution of other files.
func ResolveLocations(xlDir string, report Reporter) (*models.ImageLocationMap, []error) {
	locations := models.NewImageLocationMap()
	var errs []error

	drawingsDir := filepath.Join(xlDir, "drawings")
	indexes, relErrs := ParseDrawingRels(drawingsDir)
	errs = append(errs, relErrs...)
	for _, drawing := range sortedKeys(indexes) {
		idx := indexes[drawing]
		for _, id := range sortedIDs(idx) {
			report.printf("relationship %s: %s -> %s", drawing, id, idx[id])
		}
	}

	binding, bindErrs := BindDrawings(xlDir)
	errs = append(errs, bindErrs...)

	drawings, err := listDrawings(drawingsDir)
	if err != nil {
		errs = append(errs, models.NewExtractionError(models.ErrParse, drawingsDir, err))
	}
	if len(drawings) > 0 {
		report.printf("found %d drawing files", len(drawings))
	}

	for _, name := range drawings {
		result, drawingErrs := ParseDrawing(filepath.Join(drawingsDir, name), IndexFor(indexes, name))
		errs = append(errs, drawingErrs...)
		if result == nil {
			continue
		}

		sheet, bound := binding[name]
		if !bound {
			sheet = models.DefaultSheetName
			report.printf("%s is not referenced by any worksheet, using %s", name, sheet)
		}
		mergeDrawing(locations, result, sheet, report)
	}

	if locations.Len() == 0 {
		media, err := ListMedia(filepath.Join(xlDir, "media"))
		if err != nil {
			errs = append(errs, err)
		}
		if len(media) > 0 {
			report.printf("no picture anchors resolved, using the default layout")
			locations = DefaultLayout(media)
		}
	}

	return locations, errs
}

// mergeDrawing appends the pictures of one drawing to the location map.
func mergeDrawing(locations *models.ImageLocationMap, result *DrawingResult, sheet string, report Reporter) {
	if result.PictureCount == 0 {
		report.printf("no pictures in %s", result.Drawing)
		return
	}
	report.printf("found %d pictures in %s (%d groups)", result.PictureCount, result.Drawing, result.GroupCount)

	for _, pic := range result.Pictures {
		rec := pic.Record
		rec.SheetName = sheet
		locations.Add(pic.Image, rec)

		kind := models.AnchorSingle
		if rec.IsGroup {
			kind = models.AnchorGroup
		}
		suffix := ""
		if pic.Synthesized {
			suffix = " (synthesized name)"
		}
		report.printf("%s picture: %s -> %s!%s%s", kind, pic.Image, sheet, rec.CellAddress, suffix)
	}
}

// DefaultLayout assigns synthetic cells to media files in row-major order,
// DefaultLayoutColumns per row, starting at A1.
func DefaultLayout(media []models.MediaAsset) *models.ImageLocationMap {
	locations := models.NewImageLocationMap()
	for i, asset := range media {
		col := i % DefaultLayoutColumns
		row := i/DefaultLayoutColumns + 1
		locations.Add(asset.Name, models.LocationRecord{
			SheetName:   models.DefaultSheetName,
			CellAddress: CellAddress(col, row),
		})
	}
	return locations
}

// listDrawings returns the drawing part names of drawingsDir in sorted order.
func listDrawings(drawingsDir string) ([]string, error) {
	entries, err := os.ReadDir(drawingsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".xml") {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

func sortedKeys(indexes map[string]models.RelationshipIndex) []string {
	keys := make([]string, 0, len(indexes))
	for k := range indexes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
