package htmlpptx

import "fmt"

// SlideSize represents slide dimensions in inches.
type SlideSize struct {
	Width  float64 // Width in inches.
	Height float64 // Height in inches.
}

// Standard PowerPoint slide sizes.
var (
	LayoutWide  = SlideSize{Width: 13.333, Height: 7.5}
	Layout16x9  = SlideSize{Width: 10, Height: 5.625}
	Layout16x10 = SlideSize{Width: 10, Height: 6.25}
	Layout4x3   = SlideSize{Width: 10, Height: 7.5}
)

// Slide dimensions PowerPoint accepts, in inches.
const (
	minSlideInches = 1
	maxSlideInches = 56
)

// pixelsPerInch is the CSS reference pixel density.
const pixelsPerInch = 96

// SizeFromPixels returns the slide size matching a CSS pixel box, for
// documents authored at a fixed pixel size.
func SizeFromPixels(width, height float64) SlideSize {
	return SlideSize{Width: width / pixelsPerInch, Height: height / pixelsPerInch}
}

// AspectRatio returns width divided by height, or 0 for an empty size.
func (s SlideSize) AspectRatio() float64 {
	if s.Height == 0 {
		return 0
	}
	return s.Width / s.Height
}

// resolved returns s with a zero size replaced by [LayoutWide].
func (s SlideSize) resolved() SlideSize {
	if s == (SlideSize{}) {
		return LayoutWide
	}
	return s
}

// validate reports sizes PowerPoint cannot open.
func (s SlideSize) validate() error {
	r := s.resolved()
	if r.Width < minSlideInches || r.Height < minSlideInches ||
		r.Width > maxSlideInches || r.Height > maxSlideInches {
		return fmt.Errorf("htmlpptx: slide size %gx%g in outside %d-%d in", r.Width, r.Height, minSlideInches, maxSlideInches)
	}
	return nil
}
