// Package parser reads the drawing relationship graph of an unpacked xlsx archive.
package parser

import (
	"regexp"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/eximg-go/pkg/eximg/models"
)

var cellAddressPattern = regexp.MustCompile(`^[A-Z]+[0-9]+$`)

// ColNumToLetter converts a zero-based column index to its column letters.
// The index is read as a bijective base-26 numeral: 0 is "A", 25 is "Z", 26 is "AA".
func ColNumToLetter(n int) string {
	if n < 0 {
		return ""
	}
	var buf []byte
	for n >= 0 {
		buf = append([]byte{byte('A' + n%26)}, buf...)
		n = n/26 - 1
	}
	return string(buf)
}

// LetterToCol converts column letters back to a zero-based column index.
// It returns -1 for an invalid column name.
func LetterToCol(letters string) int {
	n, err := excelize.ColumnNameToNumber(letters)
	if err != nil {
		return -1
	}
	return n - 1
}

// CellAddress formats zero-based column and one-based row as an A1 reference.
func CellAddress(col, row int) string {
	return ColNumToLetter(col) + strconv.Itoa(row)
}

// IsCellAddress reports whether s is a valid location cell: an A1 reference inside
// the worksheet grid or the unknown sentinel.
func IsCellAddress(s string) bool {
	if s == models.UnknownCell {
		return true
	}
	if !cellAddressPattern.MatchString(s) {
		return false
	}
	col, row, err := excelize.SplitCellName(s)
	if err != nil {
		return false
	}
	return LetterToCol(col) >= 0 && row >= 1 && row <= excelize.TotalRows
}
