// Package bot turns classified chat messages into resource answers.
package bot

import (
	"regexp"
	"strings"
	"sync"

	"github.com/pfial/atlas-resource-bot/internal/classifier"
	"github.com/pfial/atlas-resource-bot/internal/logger"
	"github.com/pfial/atlas-resource-bot/internal/metrics"
	"github.com/pfial/atlas-resource-bot/internal/query"
	"github.com/pfial/atlas-resource-bot/internal/resource"
)

// Classifier decides the intent class of one sentence.
type Classifier interface {
	Classify(text string) string
}

// Router inspects every inbound message sentence by sentence and
// produces an answer when someone asks where a resource can be found.
// Everything else stays unanswered.
type Router struct {
	store      *resource.Store
	resolver   *query.Resolver
	classifier Classifier
	splitter   Splitter
	log        *logger.Logger
	metrics    *metrics.Metrics
	gridRe     sync.Map // grid code -> *regexp.Regexp
}

// NewRouter creates a router.
func NewRouter(
	store *resource.Store,
	resolver *query.Resolver,
	c Classifier,
	splitter Splitter,
	log *logger.Logger,
	m *metrics.Metrics,
) *Router {
	return &Router{
		store:      store,
		resolver:   resolver,
		classifier: c,
		splitter:   splitter,
		log:        log.WithModule("bot"),
		metrics:    m,
	}
}

// Reply computes the bot's answer to one message. An empty string means
// the message is ignored.
func (r *Router) Reply(text string) string {
	idx := r.store.Current()
	var replies []string

	for _, sentence := range r.splitter.Split(text) {
		if reply := r.replySentence(idx, sentence); reply != "" {
			replies = append(replies, reply)
		}
	}

	if len(replies) == 0 {
		r.metrics.MessagesTotal.WithLabelValues("ignored").Inc()
		return ""
	}
	r.metrics.MessagesTotal.WithLabelValues("answered").Inc()
	return strings.Join(replies, "\n")
}

func (r *Router) replySentence(idx *resource.Index, sentence string) string {
	class := r.classifier.Classify(sentence)
	if class != classifier.ClassFindResource {
		return ""
	}

	// The classifier catches the question shape; the sentence still has
	// to name a resource we actually track.
	if !idx.ContainsKey(sentence) {
		return ""
	}

	// A sentence naming an island is already an answer, not a question
	// for the bot.
	if mentionsIsland(idx, sentence) {
		return ""
	}

	if grid := r.findGrid(idx, sentence); grid != "" {
		result := r.resolver.ResolveInGrid(idx, sentence, grid)
		r.countQuery("grid", result)
		return formatResult(result)
	}

	result := r.resolver.Resolve(idx, sentence)
	r.countQuery("free", result)
	return formatResult(result)
}

// mentionsIsland reports whether any known island name occurs in the
// sentence.
func mentionsIsland(idx *resource.Index, sentence string) bool {
	lower := strings.ToLower(sentence)
	for _, island := range idx.Islands {
		if island != "" && strings.Contains(lower, strings.ToLower(island)) {
			return true
		}
	}
	return false
}

// findGrid returns the first known grid code mentioned as a standalone
// token in the sentence, or "". Plain substring search would misfire on
// codes embedded in words ("na1se"), so the code must be delimited by
// non-alphanumerics or the string ends.
func (r *Router) findGrid(idx *resource.Index, sentence string) string {
	for _, grid := range idx.Grids {
		if r.gridPattern(grid).MatchString(sentence) {
			return grid
		}
	}
	return ""
}

// gridPattern returns the compiled matcher for one grid code. Patterns
// are compiled once and cached; grid codes survive snapshot swaps, so
// the cache only ever grows by genuinely new codes.
func (r *Router) gridPattern(grid string) *regexp.Regexp {
	if cached, ok := r.gridRe.Load(grid); ok {
		return cached.(*regexp.Regexp)
	}
	re := regexp.MustCompile("(?i)(^|[^a-zA-Z0-9])" + regexp.QuoteMeta(grid) + "([^a-zA-Z0-9]|$)")
	r.gridRe.Store(grid, re)
	return re
}

// formatResult renders a resolver outcome as the bot's German reply.
func formatResult(result query.Result) string {
	switch res := result.(type) {
	case query.Found:
		lines := make([]string, 0, len(res.Matches))
		for _, m := range res.Matches {
			lines = append(lines, m.Title+" gibt es in "+m.Location)
		}
		return strings.Join(lines, "\n")
	case query.NotYetCatalogued:
		return res.Title + " hat noch niemand in die Resourcenliste eingetragen :/"
	case query.FoundInGrid:
		return res.Title + " gibt es in " + res.Grid + " auf " + strings.Join(res.Islands, ", ")
	case query.WrongGrid:
		return res.Title + " gibt es in " + res.Grid + " nicht. Aber auf " + strings.Join(res.OtherGrids, ", ") + "."
	default:
		return ""
	}
}

func (r *Router) countQuery(kind string, result query.Result) {
	var label string
	switch result.(type) {
	case query.Found, query.FoundInGrid:
		label = "found"
	case query.NotYetCatalogued:
		label = "not_yet_catalogued"
	case query.WrongGrid:
		label = "wrong_grid"
	default:
		label = "not_found"
	}
	r.metrics.QueriesTotal.WithLabelValues(kind, label).Inc()
}
