package models

import (
	"errors"
	"fmt"
)

var (
	// ErrArchive indicates the source container is unreadable or not a ZIP archive.
	ErrArchive = errors.New("invalid archive")
	// ErrParse indicates a malformed relationship, drawing, or worksheet part.
	ErrParse = errors.New("malformed xml part")
	// ErrCoordinate indicates an anchor with missing or non-numeric coordinates.
	ErrCoordinate = errors.New("invalid anchor coordinate")
	// ErrHash indicates a source image that could not be read for hashing.
	ErrHash = errors.New("cannot hash image")
	// ErrComposite indicates an image that could not be decoded for compositing.
	ErrComposite = errors.New("cannot composite image")
)

// ExtractionError represents a failure bound to one unit of work.
type ExtractionError struct {
	// Kind is one of the package sentinel errors.
	Kind error
	// Path is the part, file, or anchor the failure belongs to.
	Path string
	Err  error
}

func (e *ExtractionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%v: %s", e.Kind, e.Path)
	}
	return fmt.Sprintf("%v: %s: %v", e.Kind, e.Path, e.Err)
}

func (e *ExtractionError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NewExtractionError creates a new ExtractionError.
func NewExtractionError(kind error, path string, err error) *ExtractionError {
	return &ExtractionError{
		Kind: kind,
		Path: path,
		Err:  err,
	}
}
