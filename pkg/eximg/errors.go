package eximg

import "github.com/ukaji3/eximg-go/pkg/eximg/models"

// Error kinds reported by Extract and listed in Summary.Warnings.
// Only ErrArchive aborts a run.
var (
	ErrArchive    = models.ErrArchive
	ErrParse      = models.ErrParse
	ErrCoordinate = models.ErrCoordinate
	ErrHash       = models.ErrHash
	ErrComposite  = models.ErrComposite
)

// ExtractionError represents a failure bound to one part, anchor, or image.
type ExtractionError = models.ExtractionError
