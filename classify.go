package tblfill

// Inference of the table, header and data roles of the label classes.

import (
	"fmt"
	"math"
)

// TableSource tells where the table boundary of a Layout came from.
type TableSource int

// The possible sources of the table boundary.
const (
	TableObserved     TableSource = iota // A class annotating the table.
	TableMarker                          // The largest single box, taken out of its class.
	TableSynthesized                     // The bounding rectangle of header and data boxes.
)

func (s TableSource) String() string {
	switch s {
	case TableObserved:
		return "observed"
	case TableMarker:
		return "marker"
	case TableSynthesized:
		return "synthesized"
	}
	return "unknown"
}

// TableFallback selects what StatisticalClassifier does when no class looks like a table.
type TableFallback int

// The table fallback policies.
const (
	FallbackLargestBox   TableFallback = iota // Use the largest box as table marker.
	FallbackBoundingRect                      // Synthesise the table from the other boxes.
)

// Roles is the inferred role mapping of the label classes.
type Roles struct {
	Table        ClassID   // Not meaningful if the table is synthesised.
	Header       ClassID   // The topmost band.
	Data         []ClassID // Ascending. Equals {Header} if HeaderAsData.
	HeaderAsData bool      // No class besides the header was left for data.
}

// Layout is the annotation set partitioned by role.
type Layout struct {
	Roles       Roles
	Table       Box
	TableSource TableSource
	Header      []Box
	Data        []Box
	Warnings    []Warning
}

// Classifier infers the table layout from an annotation set. Implementations must not modify set
// and must return the same Layout for the same input.
type Classifier interface {
	Classify(set AnnotationSet) (*Layout, error)
}

// StatisticalClassifier infers roles from box populations: the table is the class with at most
// two boxes and the largest total area, the header is the topmost of the remaining classes and
// everything else is data.
type StatisticalClassifier struct {
	Fallback TableFallback
}

// maxTableBoxes is the largest number of boxes of a class that can still be the table.
const maxTableBoxes = 2

// Classify implements Classifier.
func (c StatisticalClassifier) Classify(set AnnotationSet) (*Layout, error) {
	if err := checkClassifiable(set); err != nil {
		return nil, err
	}

	layout := &Layout{}
	classes := set.Classes()

	// Find the table class.
	tableID, haveTable := ClassID(0), false
	bestArea := math.Inf(-1)
	for _, id := range classes {
		if n := len(set[id]); n == 0 || n > maxTableBoxes {
			continue
		}
		if a := set.totalArea(id); a > bestArea {
			tableID, bestArea, haveTable = id, a, true
		}
	}

	rest := set
	switch {
	case haveTable:
		layout.Roles.Table = tableID
		layout.Table = boundingBox(set[tableID])
		layout.TableSource = TableObserved
		rest = without(set, tableID)
	case c.Fallback == FallbackLargestBox:
		id, idx := largestBox(set)
		layout.Roles.Table = id
		layout.Table = set[id][idx]
		layout.TableSource = TableMarker
		rest = withoutBox(set, id, idx)
	default:
		layout.TableSource = TableSynthesized
	}

	// The topmost remaining class is the header, the others are data.
	remaining := rest.Classes()
	header := remaining[0]
	for _, id := range remaining[1:] {
		if rest.minY(id) < rest.minY(header) {
			header = id
		}
	}
	layout.Roles.Header = header
	layout.Header = rest[header]
	for _, id := range remaining {
		if id == header {
			continue
		}
		layout.Roles.Data = append(layout.Roles.Data, id)
		layout.Data = append(layout.Data, rest[id]...)
	}

	finishLayout(layout)
	return layout, nil
}

// FixedClassifier assigns roles by fixed class ids, as configured for datasets with a known
// labelling convention. A missing table class results in a synthesised table.
type FixedClassifier struct {
	Table  ClassID
	Header ClassID
	Data   ClassID
}

// Classify implements Classifier.
func (c FixedClassifier) Classify(set AnnotationSet) (*Layout, error) {
	if err := checkClassifiable(set); err != nil {
		return nil, err
	}
	if c.Header == c.Data || c.Table == c.Header || c.Table == c.Data {
		return nil, &ClassificationError{Classes: len(set),
			Reason: fmt.Sprintf("roles must use distinct classes, got %d/%d/%d", c.Table, c.Header, c.Data)}
	}
	if len(set[c.Data]) == 0 && len(set[c.Header]) == 0 {
		return nil, &ClassificationError{Classes: len(set),
			Reason: fmt.Sprintf("neither header class %d nor data class %d is present", c.Header, c.Data)}
	}

	layout := &Layout{
		Roles:  Roles{Table: c.Table, Header: c.Header},
		Header: set[c.Header],
	}
	if len(set[c.Data]) > 0 {
		layout.Roles.Data = []ClassID{c.Data}
		layout.Data = set[c.Data]
	}
	if boxes := set[c.Table]; len(boxes) > 0 {
		layout.Table = boundingBox(boxes)
		layout.TableSource = TableObserved
	} else {
		layout.TableSource = TableSynthesized
	}

	finishLayout(layout)
	return layout, nil
}

// checkClassifiable rejects sets that have too few classes to tell roles apart.
func checkClassifiable(set AnnotationSet) error {
	if set.Len() == 0 {
		return &ClassificationError{Classes: 0, Reason: "the annotation set is empty"}
	}
	if n := len(set.Classes()); n < 2 {
		return &ClassificationError{Classes: n, Reason: "at least two classes are required"}
	}
	return nil
}

// finishLayout handles the header-only case and synthesises the table when needed.
func finishLayout(layout *Layout) {
	if len(layout.Data) == 0 {
		layout.Roles.HeaderAsData = true
		layout.Roles.Data = []ClassID{layout.Roles.Header}
		layout.Data = layout.Header
		layout.Warnings = append(layout.Warnings, Warning{
			Kind:    WarnHeaderAsData,
			Message: fmt.Sprintf("no data class found, using header class %d as data", layout.Roles.Header),
		})
	}

	if layout.TableSource == TableSynthesized {
		all := make([]Box, 0, len(layout.Header)+len(layout.Data))
		all = append(all, layout.Header...)
		if !layout.Roles.HeaderAsData {
			all = append(all, layout.Data...)
		}
		layout.Table = boundingBox(all)
	}
}

// largestBox returns the class and index of the box with the largest area. Ties are broken by
// position, top-most then left-most, so that the result does not depend on the input order.
func largestBox(set AnnotationSet) (ClassID, int) {
	var bestID ClassID
	bestIdx := -1
	var best Box
	for _, id := range set.Classes() {
		for i, b := range set[id] {
			if bestIdx < 0 || b.Area() > best.Area() ||
				b.Area() == best.Area() && (b.Y < best.Y || b.Y == best.Y && b.X < best.X) {
				bestID, bestIdx, best = id, i, b
			}
		}
	}
	return bestID, bestIdx
}

// without returns a shallow copy of set without class id.
func without(set AnnotationSet, id ClassID) AnnotationSet {
	out := make(AnnotationSet, len(set))
	for k, v := range set {
		if k != id {
			out[k] = v
		}
	}
	return out
}

// withoutBox returns a copy of set without the box at index idx of class id. The class is
// dropped if no boxes remain.
func withoutBox(set AnnotationSet, id ClassID, idx int) AnnotationSet {
	out := without(set, id)
	boxes := set[id]
	if len(boxes) > 1 {
		rest := make([]Box, 0, len(boxes)-1)
		rest = append(rest, boxes[:idx]...)
		out[id] = append(rest, boxes[idx+1:]...)
	}
	return out
}
