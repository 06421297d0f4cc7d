package services

import (
	"sort"
	"strings"

	"github.com/JawdatSaleh/ContractorPro-sub000/internal/core/domain"
)

type ratePair struct {
	from string
	to   string
}

// RateCache is the immutable lookup built from the raw exchange-rate records
// of a session. It is keyed by the ordered (from, to) pair; when duplicate
// pairs exist, only the entry with the latest effective date is retained.
type RateCache struct {
	rates map[ratePair]domain.ExchangeRate
}

// BuildRateCache constructs a RateCache from raw exchange-rate records.
// Currency codes are normalized to upper case; records with a non-positive
// rate are ignored as malformed.
func BuildRateCache(rates []domain.ExchangeRate) *RateCache {
	cache := &RateCache{rates: make(map[ratePair]domain.ExchangeRate, len(rates))}
	for _, r := range rates {
		if r.Rate <= 0 {
			continue
		}
		key := ratePair{
			from: strings.ToUpper(r.FromCurrencyCode),
			to:   strings.ToUpper(r.ToCurrencyCode),
		}
		existing, ok := cache.rates[key]
		if !ok || r.DateEffective.After(existing.DateEffective) {
			cache.rates[key] = r
		}
	}
	return cache
}

// Size reports the number of distinct currency pairs in the cache.
func (c *RateCache) Size() int {
	if c == nil {
		return 0
	}
	return len(c.rates)
}

func (c *RateCache) lookup(from, to string) (float64, bool) {
	if c == nil {
		return 0, false
	}
	r, ok := c.rates[ratePair{from: from, to: to}]
	if !ok {
		return 0, false
	}
	return r.Rate, true
}

// Converter applies the conversion policy of one evaluation pass over a
// RateCache and records every currency pair for which no rate was available
// in either direction. The numeric output for a missing pair is the amount
// unchanged; callers surface the recorded misses as data-quality flags.
type Converter struct {
	cache  *RateCache
	misses map[ratePair]struct{}
}

// NewConverter creates a tracking converter over cache. A nil cache behaves
// like an empty one: every cross-currency conversion is a recorded miss.
func NewConverter(cache *RateCache) *Converter {
	return &Converter{cache: cache, misses: make(map[ratePair]struct{})}
}

// Convert converts amount from one currency to another.
// Same-currency and zero amounts short-circuit; a direct pair multiplies, an
// inverse pair divides, and a pair missing in both directions passes the
// amount through unchanged while recording the miss. Convert never fails.
func (cv *Converter) Convert(amount float64, from, to string) float64 {
	from = strings.ToUpper(from)
	to = strings.ToUpper(to)
	if from == to || amount == 0 {
		return amount
	}
	if rate, ok := cv.cache.lookup(from, to); ok {
		return amount * rate
	}
	if rate, ok := cv.cache.lookup(to, from); ok {
		return amount / rate
	}
	cv.misses[ratePair{from: from, to: to}] = struct{}{}
	return amount
}

// MissingPairs returns the distinct currency pairs that had no rate in either
// direction during this evaluation, sorted for stable output.
func (cv *Converter) MissingPairs() []domain.RatePair {
	if len(cv.misses) == 0 {
		return nil
	}
	pairs := make([]domain.RatePair, 0, len(cv.misses))
	for p := range cv.misses {
		pairs = append(pairs, domain.RatePair{From: p.from, To: p.to})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].From != pairs[j].From {
			return pairs[i].From < pairs[j].From
		}
		return pairs[i].To < pairs[j].To
	})
	return pairs
}
