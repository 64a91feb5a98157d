package parser

import (
	"encoding/xml"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/ukaji3/eximg-go/pkg/eximg/models"
)

// SheetBinding maps drawing file names (e.g. "drawing1.xml") to the name of the
// worksheet that owns them.
type SheetBinding map[string]string

// BindDrawings walks the workbook relationship graph below xlDir
// (workbook.xml → workbook rels → worksheet → worksheet rels → drawing) and binds
// every drawing to its owning worksheet.
func BindDrawings(xlDir string) (SheetBinding, []error) {
	binding := make(SheetBinding)
	var errs []error

	sheetNames, err := worksheetNames(xlDir)
	if err != nil {
		errs = append(errs, err)
	}

	worksheetsDir := filepath.Join(xlDir, "worksheets")
	entries, err := os.ReadDir(worksheetsDir)
	if err != nil {
		if !os.IsNotExist(err) {
			errs = append(errs, models.NewExtractionError(models.ErrParse, worksheetsDir, err))
		}
		return binding, errs
	}

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".xml") {
			continue
		}
		sheetName, ok := sheetNames[e.Name()]
		if !ok {
			sheetName = sheetNameFromFile(e.Name())
		}

		drawing, sheetErrs := worksheetDrawing(worksheetsDir, e.Name())
		errs = append(errs, sheetErrs...)
		if drawing == "" {
			continue
		}
		if _, taken := binding[drawing]; !taken {
			binding[drawing] = sheetName
		}
	}

	return binding, errs
}

// worksheetNames maps worksheet file names to sheet names using workbook.xml and
// its relationships.
func worksheetNames(xlDir string) (map[string]string, error) {
	result := make(map[string]string)

	workbookPath := filepath.Join(xlDir, "workbook.xml")
	f, err := os.Open(workbookPath)
	if err != nil {
		if os.IsNotExist(err) {
			return result, nil
		}
		return result, models.NewExtractionError(models.ErrParse, workbookPath, err)
	}
	defer f.Close()

	sheetsInfo, err := parseWorkbookSheets(f)
	if err != nil {
		return result, models.NewExtractionError(models.ErrParse, workbookPath, err)
	}

	relsPath := filepath.Join(xlDir, "_rels", "workbook.xml.rels")
	rels, err := readRelationships(relsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return result, nil
		}
		return result, models.NewExtractionError(models.ErrParse, relsPath, err)
	}

	for _, rel := range rels {
		sheetName, ok := sheetsInfo[rel.ID]
		if !ok || !strings.HasSuffix(rel.Type, "/worksheet") {
			continue
		}
		result[path.Base(rel.Target)] = sheetName
	}

	return result, nil
}

// parseWorkbookSheets returns a map of relationship id to sheet name.
func parseWorkbookSheets(r io.Reader) (map[string]string, error) {
	result := make(map[string]string)
	decoder := xml.NewDecoder(r)

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if se, ok := token.(xml.StartElement); ok && se.Name.Local == "sheet" {
			var name, rID string
			for _, attr := range se.Attr {
				switch {
				case attr.Name.Local == "name":
					name = attr.Value
				case attr.Name.Local == "id" && attr.Name.Space == nsR:
					rID = attr.Value
				}
			}
			if name != "" && rID != "" {
				result[rID] = name
			}
		}
	}

	return result, nil
}

// worksheetDrawing returns the drawing file name referenced by a worksheet, or "".
// The worksheet's own <drawing r:id> reference wins; without it the first drawing
// relationship of the worksheet is used.
func worksheetDrawing(worksheetsDir, file string) (string, []error) {
	var errs []error

	relsPath := filepath.Join(worksheetsDir, "_rels", file+".rels")
	rels, err := readRelationships(relsPath)
	if err != nil {
		if !os.IsNotExist(err) {
			errs = append(errs, models.NewExtractionError(models.ErrParse, relsPath, err))
		}
		return "", errs
	}

	drawings := make(map[string]string)
	var first string
	for _, rel := range rels {
		if !strings.HasSuffix(rel.Type, "/drawing") || rel.Target == "" {
			continue
		}
		target := path.Base(rel.Target)
		drawings[rel.ID] = target
		if first == "" {
			first = target
		}
	}
	if len(drawings) == 0 {
		return "", errs
	}

	sheetPath := filepath.Join(worksheetsDir, file)
	refID, err := findDrawingReference(sheetPath)
	if err != nil {
		errs = append(errs, models.NewExtractionError(models.ErrParse, sheetPath, err))
	}
	if target, ok := drawings[refID]; ok {
		return target, errs
	}
	return first, errs
}

// findDrawingReference scans a worksheet part for its <drawing r:id="..."/> element.
// Scanning stops at the first match.
func findDrawingReference(sheetPath string) (string, error) {
	f, err := os.Open(sheetPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	decoder := xml.NewDecoder(f)
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			return "", nil
		}
		if err != nil {
			return "", err
		}
		se, ok := token.(xml.StartElement)
		if !ok || se.Name.Local != "drawing" || se.Name.Space != nsMain {
			continue
		}
		for _, attr := range se.Attr {
			if attr.Name.Local == "id" && attr.Name.Space == nsR {
				return attr.Value, nil
			}
		}
	}
}

// sheetNameFromFile derives a sheet name from a worksheet file name
// ("sheet2.xml" → "Sheet2").
func sheetNameFromFile(file string) string {
	name := strings.TrimSuffix(file, ".xml")
	if strings.HasPrefix(name, "sheet") {
		name = "Sheet" + strings.TrimPrefix(name, "sheet")
	}
	return name
}
