package prophet

import (
	"math"
	"sort"
)

// FittedVectorizer is a TF-IDF vocabulary learned from reference values.
// It is immutable once returned by FitVectorizer.
type FittedVectorizer struct {
	vocab map[string]int
	terms []string
	idf   []float64
}

// FitVectorizer learns vocabulary and smoothed IDF weights from values and
// returns the fitted vectorizer together with the embedding of values.
// Terms are ordered lexicographically; idf(t) = ln((1+n)/(1+df(t))) + 1.
func FitVectorizer(values []string) (*FittedVectorizer, Matrix) {
	docs := make([][]string, len(values))
	df := make(map[string]int)
	for i, v := range values {
		tokens := Tokenize(v)
		docs[i] = tokens
		seen := make(map[string]struct{}, len(tokens))
		for _, t := range tokens {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			df[t]++
		}
	}
	terms := make([]string, 0, len(df))
	for t := range df {
		terms = append(terms, t)
	}
	sort.Strings(terms)

	v := &FittedVectorizer{
		vocab: make(map[string]int, len(terms)),
		terms: terms,
		idf:   make([]float64, len(terms)),
	}
	n := float64(len(values))
	for i, t := range terms {
		v.vocab[t] = i
		v.idf[i] = math.Log((1+n)/(1+float64(df[t]))) + 1
	}

	m := NewMatrix(len(docs), len(terms))
	for i, tokens := range docs {
		m.rows[i] = v.embed(tokens)
	}
	return v, m
}

// Transform embeds values using the fitted vocabulary. Unknown terms are ignored.
func (v *FittedVectorizer) Transform(values []string) Matrix {
	m := NewMatrix(len(values), len(v.terms))
	for i, value := range values {
		m.rows[i] = v.embed(Tokenize(value))
	}
	return m
}

// Size returns the vocabulary size, i.e. the embedding width.
func (v *FittedVectorizer) Size() int { return len(v.terms) }

// Vocabulary returns the terms in column order.
func (v *FittedVectorizer) Vocabulary() []string { return cloneStrings(v.terms) }

func (v *FittedVectorizer) embed(tokens []string) []Entry {
	if len(tokens) == 0 {
		return nil
	}
	counts := make(map[int]float64, len(tokens))
	for _, t := range tokens {
		if idx, ok := v.vocab[t]; ok {
			counts[idx]++
		}
	}
	if len(counts) == 0 {
		return nil
	}
	row := make([]Entry, 0, len(counts))
	for idx, c := range counts {
		row = append(row, Entry{Col: idx, Val: c * v.idf[idx]})
	}
	sort.Slice(row, func(i, j int) bool { return row[i].Col < row[j].Col })
	norm := rowNorm(row)
	for k := range row {
		row[k].Val /= norm
	}
	return row
}

// FieldMatrices is the weighted embedding of one field for both tables.
type FieldMatrices struct {
	Field      FieldWeight
	Vocabulary int
	Reference  Matrix
	Candidate  Matrix
}

// VectorizeField fits on the reference values, transforms the candidate
// values with the same vocabulary and scales both by weight/100.
func VectorizeField(field FieldWeight, reference, candidate []string) FieldMatrices {
	fitted, ref := FitVectorizer(reference)
	cand := fitted.Transform(candidate)
	scale := field.Weight / 100.0
	return FieldMatrices{
		Field:      field,
		Vocabulary: fitted.Size(),
		Reference:  ref.Scale(scale),
		Candidate:  cand.Scale(scale),
	}
}
