package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/ats-engine/internal/dictionary"
	"github.com/jonathan/ats-engine/internal/textproc"
)

func testTokenizer(t *testing.T) *textproc.Tokenizer {
	t.Helper()
	return textproc.NewTokenizer(dictionary.MustDefault())
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
		{"résumé", "resume", 2},
		{"same", "same", 0},
	}
	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, Levenshtein(tt.a, tt.b))
			assert.Equal(t, tt.want, Levenshtein(tt.b, tt.a))
		})
	}
}

func TestLevenshteinSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, LevenshteinSimilarity("", ""))
	assert.Equal(t, 1.0, LevenshteinSimilarity("go", "go"))
	assert.InDelta(t, 1-3.0/7.0, LevenshteinSimilarity("kitten", "sitting"), 1e-12)
	assert.Equal(t, 0.0, LevenshteinSimilarity("abc", "xyz"))
}

func TestFuzzyContains(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		keyword string
		want    bool
	}{
		{"substring", "Senior JavaScript developer", "javascript", true},
		{"substring inside word", "JavaScript", "java", true},
		{"typo long keyword", "worked with kubernets clusters", "kubernetes", true},
		{"transposed letters", "Tuned Postgersql indexes.", "postgresql", true},
		{"trailing punctuation", "clusters on kubernets, mostly", "kubernetes", true},
		{"stem is not a near miss", "manager of the data team", "management", false},
		{"short keyword strict", "a ruse indeed", "rust", false},
		{"unrelated", "marketing plans", "kubernetes", false},
		{"empty keyword", "anything", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FuzzyContains(tt.text, tt.keyword))
		})
	}
}

func TestJaroWinkler(t *testing.T) {
	assert.Equal(t, 1.0, JaroWinkler("", ""))
	assert.Equal(t, 1.0, JaroWinkler("python", "python"))
	assert.Equal(t, 0.0, JaroWinkler("", "python"))
	assert.Equal(t, 0.0, JaroWinkler("abc", "xyz"))
	assert.InDelta(t, 0.961, JaroWinkler("MARTHA", "MARHTA"), 0.001)
	assert.InDelta(t, 0.840, JaroWinkler("DWAYNE", "DUANE"), 0.001)
	assert.InDelta(t, 0.813, JaroWinkler("DIXON", "DICKSONX"), 0.001)

	for _, pair := range [][2]string{{"kubernetes", "kubernets"}, {"react", "redux"}} {
		s := JaroWinkler(pair[0], pair[1])
		assert.GreaterOrEqual(t, s, 0.0)
		assert.LessOrEqual(t, s, 1.0)
	}
}

func TestWordSimilarity(t *testing.T) {
	lex := NewLexicon(dictionary.MustDefault())

	assert.Equal(t, 1.0, lex.WordSimilarity("Lead", "lead", ""))
	assert.Equal(t, 0.9, lex.WordSimilarity("lead", "manage", ""))
	assert.Equal(t, 0.9, lex.WordSimilarity("k8s", "kubernetes", ""))

	ctx := "python pipelines python data python etl"
	assert.InDelta(t, 0.3, lex.WordSimilarity("python", "data", ctx), 1e-12)
	assert.Equal(t, 0.0, lex.WordSimilarity("python", "golang", ctx))
}

func TestCooccurrence_Capped(t *testing.T) {
	ctx := "a b a b a b a b a b a b a b"
	assert.Equal(t, 0.5, Cooccurrence("a", "b", ctx))
}

func TestTFIDF(t *testing.T) {
	v := NewVectorizer(testTokenizer(t), 0)
	corpus := []string{"python developer", "java developer"}

	vec := v.TFIDF("python developer", corpus)
	// "developer" appears in every document and weighs 0
	_, hasDeveloper := vec["developer"]
	assert.False(t, hasDeveloper)
	assert.Contains(t, vec, "python")
	assert.Contains(t, vec, "python developer")
	assert.Greater(t, vec["python"], 0.0)
}

func TestTFIDF_UnseenTermWeighsZero(t *testing.T) {
	v := NewVectorizer(testTokenizer(t), 0)

	vec := v.TFIDF("kotlin services", []string{"python developer", "java developer"})
	assert.Empty(t, vec)
}

func TestTFIDF_TopNTiesBreakLexically(t *testing.T) {
	v := NewVectorizer(testTokenizer(t), 2)

	vec := v.TFIDF("zeta alpha beta", []string{"zeta alpha beta", "other words"})
	assert.Len(t, vec, 2)
	// all six terms share one weight
	assert.Equal(t, []string{"alpha", "alpha beta"}, vec.Terms())
}

func TestCosine(t *testing.T) {
	a := Vector{"go": 0.5, "kafka": 0.2}
	b := Vector{"java": 0.4}

	assert.InDelta(t, 1.0, Cosine(a, a), 1e-12)
	assert.Equal(t, 0.0, Cosine(a, b))
	assert.Equal(t, 0.0, Cosine(a, Vector{}))
	assert.Equal(t, 0.0, Cosine(Vector{}, Vector{}))

	c := Vector{"go": 0.1, "java": 0.3}
	s := Cosine(a, c)
	assert.Greater(t, s, 0.0)
	assert.Less(t, s, 1.0)
	assert.Equal(t, s, Cosine(c, a))
}

func TestJaccard(t *testing.T) {
	assert.Equal(t, 0.0, Jaccard(nil, nil))
	assert.Equal(t, 1.0, Jaccard([]string{"a", "b"}, []string{"b", "a", "a"}))
	assert.InDelta(t, 1.0/3.0, Jaccard([]string{"a", "b"}, []string{"b", "c"}), 1e-12)
	assert.Equal(t, 0.0, Jaccard([]string{"a"}, []string{"b"}))
}

func TestExpand(t *testing.T) {
	s := NewSemantic(dictionary.MustDefault(), testTokenizer(t))

	got := s.Expand("Deployed on Kubernetes")
	assert.Contains(t, got, "k8s")
	assert.Contains(t, got, "container orchestration")
	assert.Equal(t, "plain text", s.Expand("plain text"))
}

func TestCalculateSemanticSimilarity(t *testing.T) {
	s := NewSemantic(dictionary.MustDefault(), testTokenizer(t))

	same := "Go engineer building Kafka pipelines and Kafka consumers"
	got := s.CalculateSemanticSimilarity(same, same)
	assert.Equal(t, 1.0, got.Similarity)
	assert.Equal(t, 100, got.ContextualRelevance)
	assert.Contains(t, got.Explanation, "Excellent")

	disjoint := s.CalculateSemanticSimilarity("watercolor painting portfolio", "kafka pipeline engineer")
	assert.Equal(t, 0.0, disjoint.Similarity)
	assert.Contains(t, disjoint.Explanation, "Low")
	assert.Empty(t, disjoint.MatchedConcepts)
	assert.NotNil(t, disjoint.MatchedConcepts)
}

func TestCalculateSemanticSimilarity_Deterministic(t *testing.T) {
	s := NewSemantic(dictionary.MustDefault(), testTokenizer(t))
	resume := "Built Python data pipelines on AWS with Spark. Led a team of four engineers."
	jd := "Data engineer with Python, Spark and AWS. Leadership required."

	first := s.CalculateSemanticSimilarity(resume, jd)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, s.CalculateSemanticSimilarity(resume, jd))
	}
	assert.GreaterOrEqual(t, first.Similarity, 0.0)
	assert.LessOrEqual(t, first.Similarity, 1.0)
}

func TestCalculateSkillOverlap(t *testing.T) {
	got := CalculateSkillOverlap([]string{"python", "AWS"}, []string{"AWS", "Python", "Kubernetes", "aws"})

	assert.Equal(t, []string{"AWS", "Python"}, got.MatchedSkills)
	assert.Equal(t, []string{"Kubernetes"}, got.MissingSkills)
	assert.Equal(t, 3, got.TotalJDSkills)
	assert.Equal(t, 67, got.OverlapPercentage)
	assert.InDelta(t, 2.0/3.0, got.Jaccard, 1e-12)

	empty := CalculateSkillOverlap(nil, nil)
	assert.Equal(t, 0, empty.OverlapPercentage)
	assert.Equal(t, 0.0, empty.Jaccard)
}

func TestCalculateContextualRelevance(t *testing.T) {
	s := NewSemantic(dictionary.MustDefault(), testTokenizer(t))

	got := s.CalculateContextualRelevance("watercolor painting", "kafka engineer", nil, []string{"Kafka"})
	require.NotEmpty(t, got.Recommendations)
	assert.Equal(t, "Add these critical skills: Kafka", got.Recommendations[0])
	assert.Contains(t, got.Weaknesses, "Only 0% skill overlap - add missing skills")
	assert.Equal(t, 0, got.Score)
}
