package pptx

import "errors"

var (
	// ErrImageTooLarge is returned when an image exceeds the size cap.
	ErrImageTooLarge = errors.New("pptx: image too large")

	// ErrLocalImage is returned for file URLs and paths when the image
	// options do not allow local files.
	ErrLocalImage = errors.New("pptx: local image not allowed")

	// ErrUnsupportedImage is returned for image data PowerPoint cannot show.
	ErrUnsupportedImage = errors.New("pptx: unsupported image format")

	// ErrEmptyTable is returned for tables without rows or columns.
	ErrEmptyTable = errors.New("pptx: table has no cells")

	// ErrNoStroke is returned for lines without a stroke.
	ErrNoStroke = errors.New("pptx: line has no stroke")
)
