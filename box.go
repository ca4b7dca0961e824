package tblfill

// The annotation data model.

import (
	"math"
	"sort"
)

// ClassID is the class tag of a label line. Its role in the table is inferred, never assumed.
type ClassID int

// Box is an axis-aligned bounding box, normalised to fractions of the image size.
type Box struct {
	X float64 // Centre x.
	Y float64 // Centre y, growing downwards.
	W float64 // Width.
	H float64 // Height.
}

// Left is the x coordinate of the left edge.
func (b Box) Left() float64 { return b.X - b.W/2 }

// Right is the x coordinate of the right edge.
func (b Box) Right() float64 { return b.X + b.W/2 }

// Top is the y coordinate of the top edge.
func (b Box) Top() float64 { return b.Y - b.H/2 }

// Bottom is the y coordinate of the bottom edge.
func (b Box) Bottom() float64 { return b.Y + b.H/2 }

// Area is W*H.
func (b Box) Area() float64 { return b.W * b.H }

// shifted returns b moved vertically by dy.
func (b Box) shifted(dy float64) Box {
	b.Y += dy
	return b
}

// boundingBox returns the smallest box that contains all boxes. It panics on an empty slice.
func boundingBox(boxes []Box) Box {
	if len(boxes) == 0 {
		panic("tblfill: bounding box of no boxes")
	}
	if len(boxes) == 1 {
		return boxes[0]
	}

	left, top := math.Inf(1), math.Inf(1)
	right, bottom := math.Inf(-1), math.Inf(-1)
	for _, b := range boxes {
		left = math.Min(left, b.Left())
		top = math.Min(top, b.Top())
		right = math.Max(right, b.Right())
		bottom = math.Max(bottom, b.Bottom())
	}

	return Box{X: (left + right) / 2, Y: (top + bottom) / 2, W: right - left, H: bottom - top}
}

// Row is a horizontal band of boxes with near-equal Y, ordered by X.
type Row []Box

// representative is the box whose edges stand in for the whole row.
func (r Row) representative() Box {
	return r[0]
}

// AnnotationSet maps each class to its boxes. The order of boxes within a class carries no
// meaning. An AnnotationSet is treated as read-only once parsed.
type AnnotationSet map[ClassID][]Box

// Classes returns the class ids in ascending order.
func (s AnnotationSet) Classes() []ClassID {
	ids := make([]ClassID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Len is the total number of boxes over all classes.
func (s AnnotationSet) Len() int {
	n := 0
	for _, boxes := range s {
		n += len(boxes)
	}
	return n
}

// totalArea is the summed area of the boxes of class id.
func (s AnnotationSet) totalArea(id ClassID) float64 {
	var a float64
	for _, b := range s[id] {
		a += b.Area()
	}
	return a
}

// minY is the smallest centre y of the boxes of class id.
func (s AnnotationSet) minY(id ClassID) float64 {
	y := math.Inf(1)
	for _, b := range s[id] {
		y = math.Min(y, b.Y)
	}
	return y
}
