package bot

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfial/atlas-resource-bot/internal/classifier"
	"github.com/pfial/atlas-resource-bot/internal/logger"
	"github.com/pfial/atlas-resource-bot/internal/metrics"
	"github.com/pfial/atlas-resource-bot/internal/query"
	"github.com/pfial/atlas-resource-bot/internal/resource"
)

// stubClassifier labels sentences containing any marker as
// find_resource, everything else as chat.
type stubClassifier struct {
	markers []string
}

func (s stubClassifier) Classify(text string) string {
	lower := strings.ToLower(text)
	for _, marker := range s.markers {
		if strings.Contains(lower, marker) {
			return classifier.ClassFindResource
		}
	}
	return classifier.ClassChat
}

// lineSplitter splits on question marks, keeping them.
type lineSplitter struct{}

func (lineSplitter) Split(text string) []string {
	var parts []string
	for _, part := range strings.SplitAfter(text, "?") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}

func testStore(t *testing.T) *resource.Store {
	t.Helper()

	b := resource.NewBuilder(logger.New("error"))
	require.NoError(t, b.AddSheet("A1 North", [][]string{
		{"Resource", "IslandX", "IslandY"},
		{"Wood/Holz", "TRUE", "FALSE"},
		{"Coal/Kohle", "FALSE", "FALSE"},
		{"Tin/Zinn", "FALSE", "TRUE"},
	}))
	require.NoError(t, b.AddSheet("B2 South", [][]string{
		{"Resource", "IslandZ"},
		{"Wood/Holz", "TRUE"},
	}))

	store := resource.NewStore()
	store.Install(b.Build())
	return store
}

func testRouter(t *testing.T) *Router {
	t.Helper()

	log := logger.New("error")
	return NewRouter(
		testStore(t),
		query.NewResolver(log),
		stubClassifier{markers: []string{"wo gibt es", "gibt es in"}},
		lineSplitter{},
		log,
		metrics.New(prometheus.NewRegistry()),
	)
}

func TestRouter_AnswersResourceQuestion(t *testing.T) {
	t.Parallel()

	reply := testRouter(t).Reply("Wo gibt es Holz?")
	assert.Equal(t, "Wood gibt es in A1 (IslandX), B2 (IslandZ)", reply)
}

func TestRouter_IgnoresChat(t *testing.T) {
	t.Parallel()

	assert.Empty(t, testRouter(t).Reply("hallo zusammen, wie geht es euch?"))
}

func TestRouter_IgnoresUnknownResource(t *testing.T) {
	t.Parallel()

	// Classified as a question, but no tracked resource is named.
	assert.Empty(t, testRouter(t).Reply("Wo gibt es Drachen?"))
}

func TestRouter_IgnoresSentenceNamingAnIsland(t *testing.T) {
	t.Parallel()

	assert.Empty(t, testRouter(t).Reply("Wo gibt es Holz auf IslandX?"))
}

func TestRouter_NotYetCatalogued(t *testing.T) {
	t.Parallel()

	reply := testRouter(t).Reply("Wo gibt es Kohle?")
	assert.Equal(t, "Coal hat noch niemand in die Resourcenliste eingetragen :/", reply)
}

func TestRouter_GridScopedQuestion(t *testing.T) {
	t.Parallel()

	reply := testRouter(t).Reply("Gibt es in A1 Zinn?")
	assert.Equal(t, "Tin gibt es in A1 auf IslandY", reply)
}

func TestRouter_WrongGrid(t *testing.T) {
	t.Parallel()

	reply := testRouter(t).Reply("Gibt es in B2 Zinn?")
	assert.Equal(t, "Tin gibt es in B2 nicht. Aber auf A1.", reply)
}

func TestRouter_GridCodeMustBeDelimited(t *testing.T) {
	t.Parallel()

	// "na1se" must not read as grid A1; the lookup falls back to a free
	// resolve.
	reply := testRouter(t).Reply("Wo gibt es Holz, na1se?")
	assert.Equal(t, "Wood gibt es in A1 (IslandX), B2 (IslandZ)", reply)
}

func TestRouter_GridPatternCompiledOnce(t *testing.T) {
	t.Parallel()

	r := testRouter(t)
	first := r.gridPattern("A1")
	assert.Same(t, first, r.gridPattern("A1"))
	assert.True(t, first.MatchString("gibt es in a1 holz?"))
	assert.False(t, first.MatchString("na1se"))
}

func TestRouter_MultipleSentences(t *testing.T) {
	t.Parallel()

	reply := testRouter(t).Reply("Wo gibt es Holz? Wo gibt es Zinn?")
	assert.Equal(t,
		"Wood gibt es in A1 (IslandX), B2 (IslandZ)\nTin gibt es in A1 (IslandY)",
		reply)
}

func TestRouter_EmptyIndexStaysQuiet(t *testing.T) {
	t.Parallel()

	log := logger.New("error")
	r := NewRouter(
		resource.NewStore(),
		query.NewResolver(log),
		stubClassifier{markers: []string{"wo gibt es"}},
		lineSplitter{},
		log,
		metrics.New(prometheus.NewRegistry()),
	)

	assert.Empty(t, r.Reply("Wo gibt es Holz?"))
}

func TestSentenceSplitter(t *testing.T) {
	t.Parallel()

	s, err := NewSentenceSplitter()
	require.NoError(t, err)

	parts := s.Split("Hello there. Where can I find wood?")
	require.Len(t, parts, 2)
	assert.Equal(t, "Hello there.", parts[0])
	assert.Equal(t, "Where can I find wood?", parts[1])

	assert.Empty(t, s.Split("   "))
}
