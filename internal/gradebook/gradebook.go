// Package gradebook holds the pure derived-metric computations for student
// results: letter grade classification, weighted GPA, and score averages.
// Functions here are deterministic, order-independent over the subject list,
// and never touch storage.
package gradebook

import (
	"math"

	"github.com/bibash21-creator/result-finder-33/internal/models"
)

// Letter grades, highest band first.
const (
	GradeA = "A"
	GradeB = "B"
	GradeC = "C"
	GradeD = "D"
	GradeF = "F"
)

// points maps a letter grade to its grade-point value.
var points = map[string]float64{
	GradeA: 4.0,
	GradeB: 3.0,
	GradeC: 2.0,
	GradeD: 1.0,
	GradeF: 0.0,
}

// Classify maps a numeric score to a letter grade. Each band is inclusive on
// its lower bound. Out-of-range scores are not clamped: anything below 60,
// including negatives, is an F, and anything at or above 90 is an A.
func Classify(score float64) string {
	switch {
	case score >= 90:
		return GradeA
	case score >= 80:
		return GradeB
	case score >= 70:
		return GradeC
	case score >= 60:
		return GradeD
	default:
		return GradeF
	}
}

// Points returns the grade-point value for a letter grade. Unknown grades
// count as zero.
func Points(grade string) float64 {
	return points[grade]
}

// GPA computes the credit-weighted mean of grade points, rounded to two
// decimal places. Zero total credits yields 0 rather than a division fault.
func GPA(subjects []models.Subject) float64 {
	totalCredits := 0
	weightedSum := 0.0
	for _, subject := range subjects {
		totalCredits += subject.Credits
		weightedSum += Points(subject.Grade) * float64(subject.Credits)
	}
	if totalCredits == 0 {
		return 0
	}
	return math.Round(weightedSum/float64(totalCredits)*100) / 100
}

// AverageScore computes the arithmetic mean of scores, rounded to one decimal
// place. An empty subject list yields 0.
func AverageScore(subjects []models.Subject) float64 {
	if len(subjects) == 0 {
		return 0
	}
	sum := 0.0
	for _, subject := range subjects {
		sum += subject.Score
	}
	return math.Round(sum/float64(len(subjects))*10) / 10
}

// TotalCredits sums the credit weights of the given subjects.
func TotalCredits(subjects []models.Subject) int {
	total := 0
	for _, subject := range subjects {
		total += subject.Credits
	}
	return total
}
