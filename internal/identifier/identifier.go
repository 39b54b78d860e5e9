package identifier

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dshills/chordid-mcp/internal/logging"
	"github.com/dshills/chordid-mcp/internal/matcher"
	"github.com/dshills/chordid-mcp/internal/parser"
	"github.com/dshills/chordid-mcp/internal/presenter"
	"github.com/dshills/chordid-mcp/internal/storage"
	"github.com/dshills/chordid-mcp/pkg/types"
)

// DefaultCacheSize is the LRU capacity used when Options.CacheSize is negative
const DefaultCacheSize = 1000

// Options configures an Identifier
type Options struct {
	CacheSize int             // LRU entries; 0 disables caching, negative uses DefaultCacheSize
	History   storage.Storage // Optional; every identification is recorded when set
	Logger    logging.Logger  // Optional
}

// Stats reports cache effectiveness
type Stats struct {
	CacheHits   int64
	CacheMisses int64
	CacheSize   int
	CacheCap    int
}

// HitRate returns hits / (hits + misses), or 0 before any lookup
func (s Stats) HitRate() float64 {
	total := s.CacheHits + s.CacheMisses
	if total == 0 {
		return 0
	}
	return float64(s.CacheHits) / float64(total)
}

// Identifier runs the identification pipeline with caching and optional history
type Identifier struct {
	history  storage.Storage
	logger   logging.Logger
	cache    *lru.Cache[[32]byte, *types.Identification]
	cacheCap int
	cacheMu  sync.RWMutex
	hits     atomic.Int64
	misses   atomic.Int64
}

// New creates an Identifier
func New(opts Options) (*Identifier, error) {
	id := &Identifier{
		history: opts.History,
		logger:  logging.OrNoOp(opts.Logger),
	}

	size := opts.CacheSize
	if size < 0 {
		size = DefaultCacheSize
	}
	if size > 0 {
		cache, err := lru.New[[32]byte, *types.Identification](size)
		if err != nil {
			return nil, fmt.Errorf("failed to create LRU cache: %w", err)
		}
		id.cache = cache
		id.cacheCap = size
	}

	return id, nil
}

// identifyConfig holds per-call settings
type identifyConfig struct {
	record bool
}

// IdentifyOption customizes a single Identify call
type IdentifyOption func(*identifyConfig)

// WithoutHistory skips recording the call. Callers that record in bulk,
// such as progressions, use it to write their own transaction.
func WithoutHistory() IdentifyOption {
	return func(c *identifyConfig) {
		c.record = false
	}
}

// Identify names the chord spelled by text. The returned value is owned by
// the caller.
func (i *Identifier) Identify(ctx context.Context, text string, opts ...IdentifyOption) (*types.Identification, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg := identifyConfig{record: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	startTime := time.Now()
	key := HashInput(text)

	result, hit := i.checkCache(key)
	if hit {
		result.Input = text
		result.CacheHit = true
	} else {
		result = Analyze(text)
		i.storeInCache(key, result)
	}
	result.Duration = time.Since(startTime)

	if cfg.record && i.history != nil {
		i.record(ctx, result, key)
	}

	i.logger.Debug("identified", logging.Fields{
		"outcome":   string(result.Outcome),
		"symbol":    result.Symbol(),
		"cache_hit": result.CacheHit,
	})

	return result, nil
}

// record writes result to history. Failures never reach the caller.
func (i *Identifier) record(ctx context.Context, result *types.Identification, key [32]byte) {
	rec := storage.FromTypesIdentification(result, key)
	if err := i.history.RecordIdentification(ctx, rec); err != nil {
		i.logger.Warn("failed to record identification", logging.Fields{
			"input": result.Input,
			"error": err.Error(),
		})
		return
	}
	result.ID = rec.ID
}

// checkCache returns a copy of the cached identification for key
func (i *Identifier) checkCache(key [32]byte) (*types.Identification, bool) {
	if i.cache == nil {
		return nil, false
	}

	i.cacheMu.RLock()
	entry, found := i.cache.Get(key)
	var result *types.Identification
	if found {
		result = entry.Clone()
	}
	i.cacheMu.RUnlock()

	if !found {
		i.misses.Add(1)
		return nil, false
	}
	i.hits.Add(1)
	return result, true
}

// storeInCache saves a copy of result under key
func (i *Identifier) storeInCache(key [32]byte, result *types.Identification) {
	if i.cache == nil {
		return
	}

	entry := result.Clone()
	entry.ID = ""

	i.cacheMu.Lock()
	i.cache.Add(key, entry)
	i.cacheMu.Unlock()
}

// Stats returns cache counters
func (i *Identifier) Stats() Stats {
	stats := Stats{
		CacheHits:   i.hits.Load(),
		CacheMisses: i.misses.Load(),
		CacheCap:    i.cacheCap,
	}
	if i.cache != nil {
		i.cacheMu.RLock()
		stats.CacheSize = i.cache.Len()
		i.cacheMu.RUnlock()
	}
	return stats
}

// Purge empties the cache
func (i *Identifier) Purge() {
	if i.cache == nil {
		return
	}
	i.cacheMu.Lock()
	i.cache.Purge()
	i.cacheMu.Unlock()
}

// HashInput returns the cache and history key for text. Inputs that fold to
// the same NFKC form share a key.
func HashInput(text string) [32]byte {
	return sha256.Sum256([]byte(parser.Fold(text)))
}

// Analyze runs the full pipeline on text without caching or history
func Analyze(text string) *types.Identification {
	parsed := parser.Parse(text)
	result := &types.Identification{
		Input:        text,
		Tokens:       parsed.Tokens,
		PitchClasses: parsed.PitchClasses,
		PreferFlats:  parsed.PreferFlats,
	}

	if lowest, ok := parsed.PitchClasses.Lowest(); ok {
		result.Intervals = matcher.IntervalsFromRoot(parsed.PitchClasses, lowest)
	}

	candidates, err := matcher.MatchAll(parsed.PitchClasses)
	switch {
	case len(parsed.Tokens) == 0:
		// Tokens that name no pitch class (Cb, E#) fall through to insufficient
		result.Outcome = types.OutcomeNoNotes
	case err != nil:
		result.Outcome = types.OutcomeInsufficient
	case len(candidates) == 0:
		result.Outcome = types.OutcomeUnmatched
	default:
		lowest, _ := parsed.PitchClasses.Lowest()
		result.Outcome = types.OutcomeMatched
		result.TotalCandidates = len(candidates)
		result.Candidates = matcher.Rank(candidates, lowest, matcher.MaxCandidates)
		result.SlashChord = presenter.SlashChord(result.Candidates[0], lowest, parsed.PreferFlats)
	}

	result.Text = presenter.Render(result)
	return result
}

// Turn is one prior message in a conversation
type Turn struct {
	Role    string
	Content string
}

// Answer returns the reply text for a chat message. history is accepted for
// chat front ends and does not influence the reply.
func Answer(message string, history []Turn) string {
	return Analyze(message).Text
}
