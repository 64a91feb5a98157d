package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const drawingHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<xdr:wsDr xmlns:xdr="http://schemas.openxmlformats.org/drawingml/2006/spreadsheetDrawing" xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">`

// drawingXML wraps anchors in a drawing part.
func drawingXML(anchors ...string) string {
	return drawingHeader + strings.Join(anchors, "\n") + "</xdr:wsDr>"
}

// picXML returns a picture element; an empty embed omits the r:embed attribute.
func picXML(embed string) string {
	blip := `<a:blip/>`
	if embed != "" {
		blip = fmt.Sprintf(`<a:blip r:embed="%s"/>`, embed)
	}
	return `<xdr:pic><xdr:nvPicPr><xdr:cNvPr id="2" name="Picture"/><xdr:cNvPicPr/></xdr:nvPicPr>` +
		`<xdr:blipFill>` + blip + `<a:stretch><a:fillRect/></a:stretch></xdr:blipFill>` +
		`<xdr:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="100" cy="100"/></a:xfrm></xdr:spPr></xdr:pic>`
}

// groupXML returns a grouped shape holding body.
func groupXML(body ...string) string {
	return `<xdr:grpSp><xdr:nvGrpSpPr><xdr:cNvPr id="5" name="Group"/><xdr:cNvGrpSpPr/></xdr:nvGrpSpPr>` +
		`<xdr:grpSpPr/>` + strings.Join(body, "") + `</xdr:grpSp>`
}

// anchorXML returns an anchor of the given element name with a from marker.
func anchorXML(kind, col, row string, body ...string) string {
	return fmt.Sprintf(`<xdr:%s><xdr:from><xdr:col>%s</xdr:col><xdr:colOff>0</xdr:colOff>`+
		`<xdr:row>%s</xdr:row><xdr:rowOff>0</xdr:rowOff></xdr:from>`+
		`<xdr:to><xdr:col>9</xdr:col><xdr:colOff>0</xdr:colOff><xdr:row>9</xdr:row><xdr:rowOff>0</xdr:rowOff></xdr:to>`+
		`%s<xdr:clientData/></xdr:%s>`, kind, col, row, strings.Join(body, ""), kind)
}

// relsXML returns a relationships part; each entry is {id, type suffix, target}.
func relsXML(entries ...[3]string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	for _, e := range entries {
		fmt.Fprintf(&b, `<Relationship Id="%s" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/%s" Target="%s"/>`,
			e[0], e[1], e[2])
	}
	b.WriteString(`</Relationships>`)
	return b.String()
}

func workbookXML(sheets ...[2]string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<workbook xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"><sheets>`)
	for i, s := range sheets {
		fmt.Fprintf(&b, `<sheet name="%s" sheetId="%d" r:id="%s"/>`, s[0], i+1, s[1])
	}
	b.WriteString(`</sheets></workbook>`)
	return b.String()
}

func worksheetXML(drawingID string) string {
	drawing := ""
	if drawingID != "" {
		drawing = fmt.Sprintf(`<drawing r:id="%s"/>`, drawingID)
	}
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">` +
		`<sheetData/>` + drawing + `</worksheet>`
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}
