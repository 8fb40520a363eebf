// internal/originality/engine.go
package originality

import (
	"context"
	"math"
	"runtime"
	"sort"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"github.com/zeebo/xxh3"
	"golang.org/x/sync/errgroup"
)

const (
	DetailsMatchesFound = "Potential similarities found"
	DetailsNoMatches    = "No plagiarism detected"
)

type Config struct {
	ShingleSize         int
	MatchThreshold      float64
	PlagiarismThreshold int
	MaxExamplePhrases   int
	Workers             int
	CacheTTL            time.Duration
}

func DefaultConfig() Config {
	return Config{
		ShingleSize:         DefaultShingleSize,
		MatchThreshold:      0.15,
		PlagiarismThreshold: 40,
		MaxExamplePhrases:   20,
		Workers:             runtime.NumCPU(),
		CacheTTL:            30 * time.Minute,
	}
}

// Document is a corpus entry the candidate is compared against.
type Document struct {
	ID      string
	OwnerID string
	Title   string
	Content string
}

type Match struct {
	WorkID             string   `json:"work_id"`
	WorkTitle          string   `json:"work_title"`
	Similarity         float64  `json:"similarity"`
	OverlappingPhrases []string `json:"overlapping_phrases"`
}

type Result struct {
	IsPlagiarized bool    `json:"is_plagiarized"`
	Score         int     `json:"score"`
	Details       string  `json:"details"`
	Matches       []Match `json:"matches"`
}

func emptyResult() *Result {
	return &Result{Details: DetailsNoMatches, Matches: []Match{}}
}

type cachedShingles struct {
	hash uint64
	set  Set
}

// Engine scores a candidate text against a corpus by shingle containment.
// It never mutates the corpus it is given.
type Engine struct {
	config Config
	cache  *cache.Cache
	logger *logrus.Entry
}

func NewEngine(config Config) *Engine {
	defaults := DefaultConfig()
	if config.ShingleSize < 1 {
		config.ShingleSize = defaults.ShingleSize
	}
	if config.MaxExamplePhrases < 0 {
		config.MaxExamplePhrases = defaults.MaxExamplePhrases
	}
	if config.Workers < 1 {
		config.Workers = defaults.Workers
	}
	if config.CacheTTL <= 0 {
		config.CacheTTL = defaults.CacheTTL
	}

	return &Engine{
		config: config,
		cache:  cache.New(config.CacheTTL, 2*config.CacheTTL),
		logger: logrus.WithField("component", "originality"),
	}
}

func (e *Engine) Config() Config {
	return e.config
}

// Score compares candidate against every document not owned by
// excludeOwnerID. Containment is |S∩T| / max(|S|,1) where S are the
// candidate's shingles, so the measure is asymmetric.
func (e *Engine) Score(ctx context.Context, candidate, excludeOwnerID string, corpus []Document) (*Result, error) {
	others := make([]Document, 0, len(corpus))
	for _, doc := range corpus {
		if doc.OwnerID == excludeOwnerID {
			continue
		}
		others = append(others, doc)
	}

	if len(others) == 0 {
		e.logger.WithField("corpus_size", len(corpus)).Debug("No documents from other owners to compare against")
		return emptyResult(), nil
	}

	sequence := Sequence(Normalize(candidate), e.config.ShingleSize)
	denominator := float64(max(len(sequence), 1))

	found := make([]*Match, len(others))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.config.Workers)

	for i, doc := range others {
		i, doc := i, doc
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			found[i] = e.compare(sequence, denominator, doc)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	matches := make([]Match, 0, len(found))
	for _, m := range found {
		if m != nil {
			matches = append(matches, *m)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Similarity != matches[j].Similarity {
			return matches[i].Similarity > matches[j].Similarity
		}
		return matches[i].WorkID < matches[j].WorkID
	})

	best := 0.0
	for _, m := range matches {
		best = math.Max(best, m.Similarity)
	}

	score := int(math.Round(best * 100))
	result := &Result{
		IsPlagiarized: score >= e.config.PlagiarismThreshold,
		Score:         score,
		Details:       DetailsNoMatches,
		Matches:       matches,
	}
	if len(matches) > 0 {
		result.Details = DetailsMatchesFound
	}

	e.logger.WithFields(logrus.Fields{
		"compared":       len(others),
		"matches":        len(matches),
		"score":          score,
		"is_plagiarized": result.IsPlagiarized,
	}).Debug("Originality check completed")

	return result, nil
}

func (e *Engine) compare(sequence []string, denominator float64, doc Document) *Match {
	other, ok := e.shinglesFor(doc)
	if !ok {
		return nil
	}

	overlap := 0
	phrases := make([]string, 0, min(len(sequence), e.config.MaxExamplePhrases))
	for _, sh := range sequence {
		if !other.Contains(sh) {
			continue
		}
		overlap++
		if len(phrases) < e.config.MaxExamplePhrases {
			phrases = append(phrases, sh)
		}
	}

	containment := float64(overlap) / denominator
	if containment <= e.config.MatchThreshold {
		return nil
	}

	return &Match{
		WorkID:             doc.ID,
		WorkTitle:          doc.Title,
		Similarity:         math.Round(containment*1000) / 1000,
		OverlappingPhrases: phrases,
	}
}

// shinglesFor returns the shingle set of a corpus document, reusing the
// cached set while the content hash is unchanged. Documents that normalize to
// nothing are skipped.
func (e *Engine) shinglesFor(doc Document) (Set, bool) {
	hash := xxh3.HashString(doc.Content)
	if doc.ID != "" {
		if v, ok := e.cache.Get(doc.ID); ok {
			if entry := v.(cachedShingles); entry.hash == hash {
				return entry.set, entry.set != nil
			}
		}
	}

	normalized := Normalize(doc.Content)
	var set Set
	if normalized != "" {
		set = Shingles(normalized, e.config.ShingleSize)
	}

	if doc.ID != "" {
		e.cache.Set(doc.ID, cachedShingles{hash: hash, set: set}, cache.DefaultExpiration)
	}
	return set, set != nil
}

// Forget drops the cached shingles of a document.
func (e *Engine) Forget(id string) {
	e.cache.Delete(id)
}
