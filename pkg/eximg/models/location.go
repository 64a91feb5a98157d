// Package models defines data structures for spreadsheet image extraction.
package models

// UnknownCell is the cell address used when an image has no resolvable anchor.
const UnknownCell = "Unknown"

// DefaultSheetName is the sheet name used when a drawing cannot be bound to a worksheet.
const DefaultSheetName = "Sheet1"

// AnchorKind tells whether an anchor holds a single picture or a group of pictures.
type AnchorKind int

const (
	// AnchorSingle is an anchor holding exactly one picture.
	AnchorSingle AnchorKind = iota
	// AnchorGroup is an anchor holding a grouped shape with any number of pictures.
	AnchorGroup
)

func (k AnchorKind) String() string {
	if k == AnchorGroup {
		return "group"
	}
	return "single"
}

// LocationRecord represents one placement of an image on a worksheet.
type LocationRecord struct {
	// SheetName is the owning worksheet name.
	SheetName string `json:"sheet"`
	// CellAddress is the top-left cell (e.g. "C5") or UnknownCell.
	CellAddress string `json:"cell"`
	// EmbedID is the relationship id referencing the media part.
	EmbedID string `json:"embed_id,omitempty"`
	// IsGroup reports whether the picture belongs to a grouped shape.
	IsGroup bool `json:"is_group"`
	// GroupPosition is the 1-based position inside the group (0 if not grouped).
	GroupPosition int `json:"group_position,omitempty"`
	// Drawing is the drawing part file name the record was read from.
	Drawing string `json:"drawing,omitempty"`
}

// Key returns the "{sheet}_{cell}" key shared by all pictures placed at the same cell.
func (r LocationRecord) Key() string {
	return r.SheetName + "_" + r.CellAddress
}

// ImageLocationMap maps media file names to their placements.
// Key insertion order is preserved so output stays deterministic.
type ImageLocationMap struct {
	order   []string
	records map[string][]LocationRecord
}

// NewImageLocationMap creates an empty map.
func NewImageLocationMap() *ImageLocationMap {
	return &ImageLocationMap{records: make(map[string][]LocationRecord)}
}

// Add appends a placement for the named image.
func (m *ImageLocationMap) Add(name string, rec LocationRecord) {
	if _, ok := m.records[name]; !ok {
		m.order = append(m.order, name)
	}
	m.records[name] = append(m.records[name], rec)
}

// Names returns image names in insertion order.
func (m *ImageLocationMap) Names() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Records returns the placements of the named image.
func (m *ImageLocationMap) Records(name string) []LocationRecord {
	return m.records[name]
}

// Has reports whether the named image has at least one placement.
func (m *ImageLocationMap) Has(name string) bool {
	_, ok := m.records[name]
	return ok
}

// Len returns the number of distinct images.
func (m *ImageLocationMap) Len() int {
	return len(m.order)
}
