package parser

import (
	"encoding/xml"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ukaji3/eximg-go/pkg/eximg/models"
)

// XML namespaces used in the package relationship graph and DrawingML.
const (
	nsPackageRels = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsXDR         = "http://schemas.openxmlformats.org/drawingml/2006/spreadsheetDrawing"
	nsA           = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsR           = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsMain        = "http://schemas.openxmlformats.org/spreadsheetml/2006/main"
)

// relationship is one Relationship element of a .rels part.
type relationship struct {
	ID     string
	Type   string
	Target string
}

// readRelationships parses the .rels part at p.
func readRelationships(p string) ([]relationship, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseRelationships(f)
}

// parseRelationships decodes Relationship elements in the package relationship namespace.
func parseRelationships(r io.Reader) ([]relationship, error) {
	var result []relationship
	decoder := xml.NewDecoder(r)

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		se, ok := token.(xml.StartElement)
		if !ok || se.Name.Local != "Relationship" || se.Name.Space != nsPackageRels {
			continue
		}
		var rel relationship
		for _, attr := range se.Attr {
			switch attr.Name.Local {
			case "Id":
				rel.ID = attr.Value
			case "Type":
				rel.Type = attr.Value
			case "Target":
				rel.Target = attr.Value
			}
		}
		result = append(result, rel)
	}

	return result, nil
}

// imageEntries keeps the image relationships and reduces targets to media file names.
func imageEntries(rels []relationship) []models.RelationshipEntry {
	var entries []models.RelationshipEntry
	for _, rel := range rels {
		if rel.ID == "" || rel.Target == "" || !strings.Contains(rel.Type, "image") {
			continue
		}
		entries = append(entries, models.RelationshipEntry{
			ID:     rel.ID,
			Target: path.Base(rel.Target),
		})
	}
	return entries
}

// ParseDrawingRels builds one RelationshipIndex per drawing from drawingsDir/_rels.
// The map is keyed by drawing file name (e.g. "drawing1.xml"). A malformed .rels
// part is reported in the error list and contributes no index.
func ParseDrawingRels(drawingsDir string) (map[string]models.RelationshipIndex, []error) {
	result := make(map[string]models.RelationshipIndex)
	relsDir := filepath.Join(drawingsDir, "_rels")

	entries, err := os.ReadDir(relsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return result, nil
		}
		return result, []error{models.NewExtractionError(models.ErrParse, relsDir, err)}
	}

	var errs []error
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".xml.rels") {
			continue
		}
		relsPath := filepath.Join(relsDir, e.Name())
		rels, err := readRelationships(relsPath)
		if err != nil {
			errs = append(errs, models.NewExtractionError(models.ErrParse, relsPath, err))
			continue
		}

		index := make(models.RelationshipIndex)
		for _, entry := range imageEntries(rels) {
			index[entry.ID] = entry.Target
		}
		result[strings.TrimSuffix(e.Name(), ".rels")] = index
	}

	return result, errs
}

// IndexFor returns the index of the named drawing, or an empty index.
func IndexFor(indexes map[string]models.RelationshipIndex, drawing string) models.RelationshipIndex {
	if idx, ok := indexes[drawing]; ok {
		return idx
	}
	return models.RelationshipIndex{}
}

// sortedIDs returns the ids of an index in a stable order, for logging.
func sortedIDs(idx models.RelationshipIndex) []string {
	ids := make([]string, 0, len(idx))
	for id := range idx {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
