package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"
)

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list [input.xlsx]",
		Short: "List the cells holding pictures, per sheet",
		Long: `list opens the workbook with excelize and prints every cell that anchors a
picture together with the picture count. Pictures inside grouped shapes are not
reported by this view; use the extraction for those.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := excelize.OpenFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to open workbook: %w", err)
			}
			defer f.Close()
			return listPictures(cmd.OutOrStdout(), f)
		},
	}
}

func listPictures(w io.Writer, f *excelize.File) error {
	for _, sheet := range f.GetSheetList() {
		cells, err := f.GetPictureCells(sheet)
		if err != nil {
			return fmt.Errorf("failed to read pictures of %q: %w", sheet, err)
		}
		for _, cell := range cells {
			pics, err := f.GetPictures(sheet, cell)
			if err != nil {
				return fmt.Errorf("failed to read pictures at %s!%s: %w", sheet, cell, err)
			}
			fmt.Fprintf(w, "%s\t%s\t%d\n", sheet, cell, len(pics))
		}
	}
	return nil
}
