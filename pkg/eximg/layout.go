package eximg

import (
	"fmt"

	"golang.org/x/text/language"
)

// Layout names the two output tiers and the file name decorations.
type Layout struct {
	// ExtractDir holds one directory per sheet cell.
	ExtractDir string
	// MergeDir holds one merge result per extraction directory.
	MergeDir string
	// CopySuffix precedes the repeat counter of duplicate images.
	CopySuffix string
	// MergedSuffix follows the directory name of a composite image.
	MergedSuffix string
}

var (
	// LayoutChinese is the default layout.
	LayoutChinese = Layout{
		ExtractDir:   "提取结果",
		MergeDir:     "合并结果",
		CopySuffix:   "_副本",
		MergedSuffix: "_合并",
	}
	// LayoutEnglish is the non-localized layout.
	LayoutEnglish = Layout{
		ExtractDir:   "extracted",
		MergeDir:     "merged",
		CopySuffix:   "_copy",
		MergedSuffix: "_merged",
	}
)

// LayoutFor returns the layout for a BCP 47 language tag.
func LayoutFor(lang string) (Layout, error) {
	tag, err := language.Parse(lang)
	if err != nil {
		return Layout{}, fmt.Errorf("invalid language %q: %w", lang, err)
	}
	base, _ := tag.Base()
	if base.String() == "zh" {
		return LayoutChinese, nil
	}
	return LayoutEnglish, nil
}
