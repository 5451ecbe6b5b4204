package similarity

import (
	"math"
	"sort"
)

// DefaultTopN bounds the number of terms kept per vector.
const DefaultTopN = 100

// Tokenizer splits text into terms.
type Tokenizer interface {
	Tokenize(text string) []string
}

// Vector is a sparse term weight mapping.
type Vector map[string]float64

// Terms returns the vector's terms in lexical order.
func (v Vector) Terms() []string {
	terms := make([]string, 0, len(v))
	for t := range v {
		terms = append(terms, t)
	}
	sort.Strings(terms)
	return terms
}

// Magnitude returns the Euclidean norm of v.
func (v Vector) Magnitude() float64 {
	sum := 0.0
	for _, t := range v.Terms() {
		sum += v[t] * v[t]
	}
	return math.Sqrt(sum)
}

// Vectorizer builds TF-IDF vectors.
type Vectorizer struct {
	tok  Tokenizer
	topN int
	// smooth uses ln((1+N)/(1+df))+1 so terms shared by every document keep
	// a positive weight.
	smooth bool
}

// NewVectorizer creates a vectorizer keeping the top topN terms. topN <= 0
// uses DefaultTopN.
func NewVectorizer(tok Tokenizer, topN int) *Vectorizer {
	if topN <= 0 {
		topN = DefaultTopN
	}
	return &Vectorizer{tok: tok, topN: topN}
}

// Smoothed returns a copy of v that applies smoothed IDF.
func (v *Vectorizer) Smoothed() *Vectorizer {
	c := *v
	c.smooth = true
	return &c
}

// TermFrequency returns count/total for every term of tokens.
func TermFrequency(tokens []string) map[string]float64 {
	tf := make(map[string]float64)
	if len(tokens) == 0 {
		return tf
	}
	for _, t := range tokens {
		tf[t]++
	}
	total := float64(len(tokens))
	for t, c := range tf {
		tf[t] = c / total
	}
	return tf
}

// IDF returns the inverse document frequency of every term in corpus.
// Terms absent from the corpus are absent from the map and weigh 0.
func (v *Vectorizer) IDF(corpus []string) map[string]float64 {
	df := make(map[string]int)
	for _, doc := range corpus {
		seen := make(map[string]struct{})
		for _, t := range v.tok.Tokenize(doc) {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			df[t]++
		}
	}

	n := float64(len(corpus))
	idf := make(map[string]float64, len(df))
	for t, c := range df {
		if v.smooth {
			idf[t] = math.Log((1+n)/(1+float64(c))) + 1
		} else {
			idf[t] = math.Log(n / float64(c))
		}
	}
	return idf
}

// TFIDF vectorizes doc against corpus, keeping the top-N terms with a
// positive weight. Ties are broken lexically.
func (v *Vectorizer) TFIDF(doc string, corpus []string) Vector {
	return v.vector(doc, v.IDF(corpus))
}

func (v *Vectorizer) vector(doc string, idf map[string]float64) Vector {
	tf := TermFrequency(v.tok.Tokenize(doc))

	type scored struct {
		term  string
		score float64
	}
	scores := make([]scored, 0, len(tf))
	for t, f := range tf {
		if s := f * idf[t]; s > 0 {
			scores = append(scores, scored{t, s})
		}
	}
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].score != scores[j].score {
			return scores[i].score > scores[j].score
		}
		return scores[i].term < scores[j].term
	})
	if len(scores) > v.topN {
		scores = scores[:v.topN]
	}

	out := make(Vector, len(scores))
	for _, s := range scores {
		out[s.term] = s.score
	}
	return out
}

// Cosine returns the cosine similarity of a and b clamped to [0,1].
// It is 0 when either vector has zero magnitude.
func Cosine(a, b Vector) float64 {
	magA, magB := a.Magnitude(), b.Magnitude()
	if magA == 0 || magB == 0 {
		return 0
	}
	dot := 0.0
	for _, t := range a.Terms() {
		dot += a[t] * b[t]
	}
	return clamp01(dot / (magA * magB))
}

// CountVector returns raw term counts of text.
func CountVector(tok Tokenizer, text string) Vector {
	v := make(Vector)
	for _, t := range tok.Tokenize(text) {
		v[t]++
	}
	return v
}

// Jaccard returns |A∩B|/|A∪B| over the distinct members of a and b, or 0
// when both are empty.
func Jaccard(a, b []string) float64 {
	setA := make(map[string]struct{}, len(a))
	for _, x := range a {
		setA[x] = struct{}{}
	}
	union := make(map[string]struct{}, len(a)+len(b))
	for x := range setA {
		union[x] = struct{}{}
	}
	inter := 0
	seenB := make(map[string]struct{}, len(b))
	for _, x := range b {
		if _, dup := seenB[x]; dup {
			continue
		}
		seenB[x] = struct{}{}
		if _, ok := setA[x]; ok {
			inter++
		}
		union[x] = struct{}{}
	}
	if len(union) == 0 {
		return 0
	}
	return float64(inter) / float64(len(union))
}

func clamp01(x float64) float64 {
	switch {
	case x < 0:
		return 0
	case x > 1:
		return 1
	}
	return x
}
