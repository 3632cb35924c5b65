package gradebook

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bibash21-creator/result-finder-33/internal/models"
)

func TestClassifyBands(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{100, GradeA},
		{90, GradeA},
		{89.9, GradeB},
		{80, GradeB},
		{79.99, GradeC},
		{70, GradeC},
		{69, GradeD},
		{60, GradeD},
		{59, GradeF},
		{0, GradeF},
		{-10, GradeF},
		{150, GradeA},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Classify(tc.score), "score %v", tc.score)
	}
}

func TestGPAWeighted(t *testing.T) {
	subjects := []models.Subject{
		{Credits: 3, Score: 95, Grade: Classify(95)},
		{Credits: 2, Score: 65, Grade: Classify(65)},
	}
	// (4.0*3 + 1.0*2) / 5 = 2.80
	assert.Equal(t, 2.8, GPA(subjects))
	assert.Equal(t, 80.0, AverageScore(subjects))
	assert.Equal(t, 5, TotalCredits(subjects))
}

func TestGPAOrderIndependent(t *testing.T) {
	a := []models.Subject{
		{Credits: 3, Grade: GradeA},
		{Credits: 4, Grade: GradeC},
		{Credits: 2, Grade: GradeF},
	}
	b := []models.Subject{a[2], a[0], a[1]}
	assert.Equal(t, GPA(a), GPA(b))
}

func TestGPAEmptyAndZeroCredits(t *testing.T) {
	assert.Equal(t, 0.0, GPA(nil))
	assert.Equal(t, 0.0, GPA([]models.Subject{
		{Credits: 0, Grade: GradeA},
		{Credits: 0, Grade: GradeB},
	}))
}

func TestAverageScoreRounding(t *testing.T) {
	subjects := []models.Subject{
		{Score: 81}, {Score: 82}, {Score: 84},
	}
	// 247/3 = 82.333... -> 82.3
	assert.Equal(t, 82.3, AverageScore(subjects))
	assert.Equal(t, 0.0, AverageScore(nil))
}

func TestPointsUnknownGrade(t *testing.T) {
	assert.Equal(t, 0.0, Points("X"))
	assert.Equal(t, 4.0, Points(GradeA))
}
