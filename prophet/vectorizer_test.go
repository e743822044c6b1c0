package prophet

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitVectorizerVocabulary(t *testing.T) {
	fitted, m := FitVectorizer([]string{"Tech", "Retail", "Tech"})

	assert.Equal(t, []string{"retail", "tech"}, fitted.Vocabulary())
	assert.Equal(t, 2, fitted.Size())
	assert.Equal(t, 3, m.Rows())
	assert.Equal(t, 2, m.Cols())
	assert.InDelta(t, 1.0, m.At(0, 1), 1e-12)
	assert.InDelta(t, 1.0, m.At(1, 0), 1e-12)
	assert.Equal(t, 0.0, m.At(0, 0))
}

func TestFitVectorizerWeights(t *testing.T) {
	_, m := FitVectorizer([]string{"alpha beta", "alpha"})

	// alpha occurs in both documents, beta in one.
	idfAlpha := math.Log(3.0/3.0) + 1
	idfBeta := math.Log(3.0/2.0) + 1
	norm := math.Hypot(idfAlpha, idfBeta)

	assert.InDelta(t, idfAlpha/norm, m.At(0, 0), 1e-12)
	assert.InDelta(t, idfBeta/norm, m.At(0, 1), 1e-12)
	assert.InDelta(t, 1.0, m.At(1, 0), 1e-12)
	assert.InDelta(t, 1.0, rowNorm(m.Row(0)), 1e-12)
}

func TestFitVectorizerTermFrequency(t *testing.T) {
	_, m := FitVectorizer([]string{"tech tech retail", "retail"})

	idfTech := math.Log(3.0/2.0) + 1
	idfRetail := 1.0
	norm := math.Hypot(2*idfTech, idfRetail)
	assert.InDelta(t, idfRetail/norm, m.At(0, 0), 1e-12)
	assert.InDelta(t, 2*idfTech/norm, m.At(0, 1), 1e-12)
}

func TestTransformIgnoresUnknownTerms(t *testing.T) {
	fitted, _ := FitVectorizer([]string{"tech"})

	m := fitted.Transform([]string{"unknown", "Tech unknown", ""})
	require.Equal(t, 3, m.Rows())
	assert.Equal(t, 1, m.Cols())
	assert.Empty(t, m.Row(0))
	assert.InDelta(t, 1.0, m.At(1, 0), 1e-12)
	assert.Empty(t, m.Row(2))
}

func TestFitVectorizerEmptyColumn(t *testing.T) {
	fitted, m := FitVectorizer([]string{"", "a", "  "})

	assert.Equal(t, 0, fitted.Size())
	assert.Equal(t, 3, m.Rows())
	assert.Equal(t, 0, m.Cols())
	assert.Equal(t, 0, fitted.Transform([]string{"tech"}).Cols())
}

func TestVectorizeFieldScalesByWeight(t *testing.T) {
	ref := []string{"Tech", "Retail"}
	cand := []string{"Retail"}

	half := VectorizeField(FieldWeight{Name: "Branche", Weight: 50}, ref, cand)
	assert.Equal(t, 2, half.Vocabulary)
	assert.InDelta(t, 0.5, half.Reference.At(0, 1), 1e-12)
	assert.InDelta(t, 0.5, half.Candidate.At(0, 0), 1e-12)

	zero := VectorizeField(FieldWeight{Name: "Branche", Weight: 0}, ref, cand)
	assert.Equal(t, 2, zero.Reference.Cols())
	assert.Empty(t, zero.Reference.Row(0))
	assert.Empty(t, zero.Candidate.Row(0))
}
