package tblfill

// Parsing of YOLO (labelImg) annotation text.

import (
	"strconv"
	"strings"
)

const yoloFields = 5 // class_id x_center y_center width height

// Parse reads annotation text with one "<class_id> <x> <y> <w> <h>" record per line.
//
// Lines with a field count other than five, or with fields that are not finite numbers, are
// skipped. A *ParseError is returned if no line is valid.
func Parse(text string) (AnnotationSet, error) {
	lines := strings.Split(text, "\n")
	set := make(AnnotationSet)
	valid := 0
	for _, line := range lines {
		id, b, ok := parseLine(line)
		if !ok {
			continue
		}
		set[id] = append(set[id], b)
		valid++
	}

	if valid == 0 {
		return nil, &ParseError{Lines: len(lines)}
	}
	return set, nil
}

// parseLine parses a single record. ok is false for blank or malformed lines.
func parseLine(line string) (id ClassID, b Box, ok bool) {
	tokens := strings.Fields(line)
	if len(tokens) != yoloFields {
		return 0, Box{}, false
	}

	n, err := strconv.Atoi(tokens[0])
	if err != nil {
		return 0, Box{}, false
	}

	var v [4]float64
	for i := range v {
		if v[i], err = strconv.ParseFloat(tokens[i+1], 64); err != nil || !isFinite(v[i]) {
			return 0, Box{}, false
		}
	}

	return ClassID(n), Box{X: v[0], Y: v[1], W: v[2], H: v[3]}, true
}
