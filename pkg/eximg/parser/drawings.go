package parser

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ukaji3/eximg-go/pkg/eximg/models"
)

// PlacedPicture is one picture of a drawing resolved to a media file and a cell.
type PlacedPicture struct {
	// Image is the media file name the picture refers to.
	Image string
	// Record is the placement; SheetName is filled in by the resolver.
	Record models.LocationRecord
	// Synthesized is true when the media name was not found in the relationship index.
	Synthesized bool
}

// DrawingResult holds the pictures of one drawing part in document order.
type DrawingResult struct {
	// Drawing is the drawing file name (e.g. "drawing1.xml").
	Drawing string
	// Pictures lists every resolved picture.
	Pictures []PlacedPicture
	// PictureCount is the number of picture elements met, resolved or not.
	PictureCount int
	// GroupCount is the number of group anchors met.
	GroupCount int
}

// anchorData holds the raw content of one anchor element.
type anchorData struct {
	kind   models.AnchorKind
	col    string
	row    string
	hasCol bool
	hasRow bool
	// embeds holds the r:embed value of each picture, in document order.
	embeds []string
}

// ParseDrawing parses the drawing part at drawingPath and resolves its pictures
// through index. A malformed part yields a nil result and an ErrParse error; an
// anchor with bad coordinates is skipped and reported as ErrCoordinate.
func ParseDrawing(drawingPath string, index models.RelationshipIndex) (*DrawingResult, []error) {
	f, err := os.Open(drawingPath)
	if err != nil {
		return nil, []error{models.NewExtractionError(models.ErrParse, drawingPath, err)}
	}
	defer f.Close()

	anchors, err := parseDrawingXML(f)
	if err != nil {
		return nil, []error{models.NewExtractionError(models.ErrParse, drawingPath, err)}
	}

	name := filepath.Base(drawingPath)
	return resolveAnchors(name, anchors, index)
}

// resolveAnchors turns raw anchors into placed pictures.
func resolveAnchors(drawing string, anchors []anchorData, index models.RelationshipIndex) (*DrawingResult, []error) {
	result := &DrawingResult{Drawing: drawing}
	var errs []error

	for i, a := range anchors {
		if len(a.embeds) == 0 {
			// Shapes, charts and connectors carry no picture.
			continue
		}

		first := result.PictureCount + 1
		result.PictureCount += len(a.embeds)
		if a.kind == models.AnchorGroup {
			result.GroupCount++
		}

		cell, err := anchorCell(a)
		if err != nil {
			errs = append(errs, models.NewExtractionError(models.ErrCoordinate,
				fmt.Sprintf("%s anchor %d", drawing, i+1), err))
			continue
		}

		switch a.kind {
		case models.AnchorGroup:
			for pos, embed := range a.embeds {
				pic := placePicture(embed, first+pos, index)
				pic.Record.CellAddress = cell
				pic.Record.IsGroup = true
				pic.Record.GroupPosition = pos + 1
				pic.Record.Drawing = drawing
				result.Pictures = append(result.Pictures, pic)
			}
		default:
			if len(a.embeds) > 1 {
				errs = append(errs, models.NewExtractionError(models.ErrParse,
					fmt.Sprintf("%s anchor %d", drawing, i+1),
					fmt.Errorf("ungrouped anchor holds %d pictures, keeping the first", len(a.embeds))))
			}
			pic := placePicture(a.embeds[0], first, index)
			pic.Record.CellAddress = cell
			pic.Record.Drawing = drawing
			result.Pictures = append(result.Pictures, pic)
		}
	}

	return result, errs
}

// placePicture resolves the media file of the n-th picture of a drawing.
func placePicture(embed string, n int, index models.RelationshipIndex) PlacedPicture {
	if name, ok := index[embed]; ok && embed != "" {
		return PlacedPicture{
			Image:  name,
			Record: models.LocationRecord{EmbedID: embed},
		}
	}
	if embed == "" {
		embed = "rId" + strconv.Itoa(n)
	}
	return PlacedPicture{
		Image:       "image" + strconv.Itoa(n) + ".png",
		Record:      models.LocationRecord{EmbedID: embed},
		Synthesized: true,
	}
}

// anchorCell converts the zero-based from-marker of an anchor to an A1 reference.
func anchorCell(a anchorData) (string, error) {
	if !a.hasCol || !a.hasRow {
		return "", fmt.Errorf("missing from marker")
	}
	col, err := strconv.Atoi(strings.TrimSpace(a.col))
	if err != nil {
		return "", fmt.Errorf("column %q: %w", a.col, err)
	}
	row, err := strconv.Atoi(strings.TrimSpace(a.row))
	if err != nil {
		return "", fmt.Errorf("row %q: %w", a.row, err)
	}
	if col < 0 || row < 0 {
		return "", fmt.Errorf("negative coordinate (%d, %d)", col, row)
	}
	cell := CellAddress(col, row+1)
	if !IsCellAddress(cell) {
		return "", fmt.Errorf("cell %s outside the worksheet grid", cell)
	}
	return cell, nil
}

// parseDrawingXML walks the single-cell and two-cell anchors of a drawing part.
func parseDrawingXML(r io.Reader) ([]anchorData, error) {
	var anchors []anchorData

	decoder := xml.NewDecoder(r)
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		if se, ok := token.(xml.StartElement); ok && se.Name.Space == nsXDR {
			switch se.Name.Local {
			case "twoCellAnchor", "oneCellAnchor":
				a, err := parseAnchor(decoder)
				if err != nil {
					return nil, err
				}
				anchors = append(anchors, a)
			}
		}
	}

	return anchors, nil
}

// parseAnchor parses an anchor element. The anchor kind is decided here: any grouped
// shape inside turns it into a group anchor, and only pictures inside the group count.
func parseAnchor(decoder *xml.Decoder) (anchorData, error) {
	var a anchorData
	var loose []string
	depth := 1

	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			return a, err
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			if t.Name.Space != nsXDR {
				continue
			}
			switch t.Name.Local {
			case "from":
				if err := parseMarker(decoder, &a); err != nil {
					return a, err
				}
				depth--
			case "grpSp":
				a.kind = models.AnchorGroup
				embeds, err := parseGroupShape(decoder)
				if err != nil {
					return a, err
				}
				a.embeds = append(a.embeds, embeds...)
				depth--
			case "pic":
				embed, err := parsePicture(decoder)
				if err != nil {
					return a, err
				}
				loose = append(loose, embed)
				depth--
			}
		case xml.EndElement:
			depth--
		}
	}

	if a.kind == models.AnchorSingle {
		a.embeds = loose
	}
	return a, nil
}

// parseMarker reads the col and row children of a from marker.
func parseMarker(decoder *xml.Decoder, a *anchorData) error {
	depth := 1
	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			return err
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "col":
				txt, err := readElementText(decoder)
				if err != nil {
					return err
				}
				a.col, a.hasCol = txt, true
				depth--
			case "row":
				txt, err := readElementText(decoder)
				if err != nil {
					return err
				}
				a.row, a.hasRow = txt, true
				depth--
			}
		case xml.EndElement:
			depth--
		}
	}
	return nil
}

// parseGroupShape collects the pictures of a grouped shape, nested groups included.
func parseGroupShape(decoder *xml.Decoder) ([]string, error) {
	var embeds []string
	depth := 1

	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			return nil, err
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			if t.Name.Space != nsXDR {
				continue
			}
			switch t.Name.Local {
			case "pic":
				embed, err := parsePicture(decoder)
				if err != nil {
					return nil, err
				}
				embeds = append(embeds, embed)
				depth--
			case "grpSp":
				nested, err := parseGroupShape(decoder)
				if err != nil {
					return nil, err
				}
				embeds = append(embeds, nested...)
				depth--
			}
		case xml.EndElement:
			depth--
		}
	}

	return embeds, nil
}

// parsePicture returns the r:embed id of the picture's blip, or "".
func parsePicture(decoder *xml.Decoder) (string, error) {
	var embed string
	depth := 1

	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			return "", err
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			if t.Name.Local == "blip" && t.Name.Space == nsA && embed == "" {
				for _, attr := range t.Attr {
					if attr.Name.Local == "embed" && attr.Name.Space == nsR {
						embed = attr.Value
					}
				}
			}
		case xml.EndElement:
			depth--
		}
	}

	return embed, nil
}

func readElementText(decoder *xml.Decoder) (string, error) {
	var text string
	depth := 1
	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			return text, err
		}
		switch t := token.(type) {
		case xml.CharData:
			text += string(t)
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		}
	}
	return text, nil
}
