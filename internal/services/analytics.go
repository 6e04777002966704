package services

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/questkit/jobscout/internal/logger"
	log "github.com/sirupsen/logrus"
)

const analyticsDataKey = "search_analytics"

type dataRepository interface {
	Save(ctx context.Context, id string, data []byte) error
	Load(ctx context.Context, id string) ([]byte, error)
}

// SearchStatsSnapshot is the serialized and exported form of the
// observability counters. They never influence scoring.
type SearchStatsSnapshot struct {
	TotalSearches   int64            `json:"totalSearches"`
	SourceSuccesses map[string]int64 `json:"sourceSuccesses"`
	SourceFailures  map[string]int64 `json:"sourceFailures"`
	PopularTerms    map[string]int64 `json:"popularTerms"`
}

// SearchAnalytics accumulates search counters in memory and persists
// them through the key-value repository so they survive restarts.
type SearchAnalytics struct {
	mu    sync.Mutex
	stats SearchStatsSnapshot
	data  dataRepository
}

func NewSearchAnalytics(data dataRepository) *SearchAnalytics {

	analytics := &SearchAnalytics{
		data: data,
		stats: SearchStatsSnapshot{
			SourceSuccesses: map[string]int64{},
			SourceFailures:  map[string]int64{},
			PopularTerms:    map[string]int64{},
		},
	}

	if data == nil {
		return analytics
	}

	raw, err := data.Load(context.Background(), analyticsDataKey)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
			Errorf("failed to load search analytics: %v", err)
		return analytics
	}
	if raw != nil {
		if err = json.Unmarshal(raw, &analytics.stats); err != nil {
			log.Errorf("failed to decode search analytics: %v", err)
		}
	}
	return analytics
}

func (a *SearchAnalytics) RecordSearch(query string) {
	a.mu.Lock()
	a.stats.TotalSearches++
	for _, term := range strings.Fields(strings.ToLower(query)) {
		if len(term) >= 3 {
			a.stats.PopularTerms[term]++
		}
	}
	a.mu.Unlock()

	a.persist()
}

func (a *SearchAnalytics) RecordSourceResult(source string, success bool) {
	a.mu.Lock()
	if success {
		a.stats.SourceSuccesses[source]++
	} else {
		a.stats.SourceFailures[source]++
	}
	a.mu.Unlock()
}

// Snapshot returns a deep copy safe for the caller to keep.
func (a *SearchAnalytics) Snapshot() SearchStatsSnapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	snapshot := SearchStatsSnapshot{
		TotalSearches:   a.stats.TotalSearches,
		SourceSuccesses: make(map[string]int64, len(a.stats.SourceSuccesses)),
		SourceFailures:  make(map[string]int64, len(a.stats.SourceFailures)),
		PopularTerms:    make(map[string]int64, len(a.stats.PopularTerms)),
	}
	for k, v := range a.stats.SourceSuccesses {
		snapshot.SourceSuccesses[k] = v
	}
	for k, v := range a.stats.SourceFailures {
		snapshot.SourceFailures[k] = v
	}
	for k, v := range a.stats.PopularTerms {
		snapshot.PopularTerms[k] = v
	}
	return snapshot
}

func (a *SearchAnalytics) persist() {
	if a.data == nil {
		return
	}

	snapshot := a.Snapshot()
	raw, err := json.Marshal(snapshot)
	if err != nil {
		log.Errorf("failed to encode search analytics: %v", err)
		return
	}

	if err = a.data.Save(context.Background(), analyticsDataKey, raw); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
			Errorf("failed to persist search analytics: %v", err)
	}
}
