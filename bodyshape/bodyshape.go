// Package bodyshape classifies body measurements into one of five shapes and
// holds the styling guidance for each.
package bodyshape

import "github.com/raushankrgupta/fitmate/fitting"

// Shape is a body shape category.
type Shape string

const (
	Rectangle        Shape = "rectangle"
	Triangle         Shape = "triangle"
	InvertedTriangle Shape = "inverted_triangle"
	Hourglass        Shape = "hourglass"
	Oval             Shape = "oval"
)

// All lists every shape.
var All = []Shape{Rectangle, Triangle, InvertedTriangle, Hourglass, Oval}

// Parse returns the shape named s, or false if s is not a known shape.
func Parse(s string) (Shape, bool) {
	for _, shape := range All {
		if string(shape) == s {
			return shape, true
		}
	}
	return "", false
}

const (
	closeTolerance   = 2.5
	curveDifference  = 18.0
	pearDifference   = 5.0
	topHeavyMargin   = 9.0
	shoulderOverhang = 5.0
)

// Classify returns the shape for m. Chest, waist and hips must all be present
// and positive, otherwise ok is false. Rules are evaluated in order and the
// first match wins; several rules overlap, so the order is significant.
func Classify(m fitting.Set) (shape Shape, ok bool) {
	chest, waist, hips := m.ChestValue(), m.WaistValue(), m.HipsValue()
	if chest <= 0 || waist <= 0 || hips <= 0 {
		return "", false
	}
	shoulder := m.ShoulderValue()

	bustHipDiff := abs(chest - hips)
	waistHipDiff := hips - waist
	waistBustDiff := chest - waist

	switch {
	case bustHipDiff <= closeTolerance && waistHipDiff >= curveDifference && waistBustDiff >= curveDifference:
		return Hourglass, true
	case hips-chest >= pearDifference && waistHipDiff >= curveDifference:
		return Triangle, true
	case chest-hips >= topHeavyMargin || (shoulder > 0 && shoulder-hips >= shoulderOverhang):
		return InvertedTriangle, true
	case waist >= chest-closeTolerance || waist >= hips-closeTolerance:
		return Oval, true
	case bustHipDiff <= closeTolerance && waistHipDiff < curveDifference && waistBustDiff < curveDifference:
		return Rectangle, true
	default:
		return Rectangle, true
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
