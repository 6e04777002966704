package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	gocache "github.com/patrickmn/go-cache"
	"github.com/questkit/jobscout/internal/entities"
	"github.com/questkit/jobscout/internal/logger"
	"github.com/questkit/jobscout/internal/metrics"
	"github.com/questkit/jobscout/internal/sources"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

const (
	defaultCacheTTL      = 5 * time.Minute
	defaultConcurrency   = 3
	defaultSourceTimeout = 15 * time.Second
	defaultMaxResults    = 50

	// fallback entries expire fast so a recovered source is retried soon
	fallbackCacheTTL = 30 * time.Second
)

// AggregatorOptions tune the orchestrator; zero values fall back to the
// defaults above.
type AggregatorOptions struct {
	CacheTTL      time.Duration
	Concurrency   int
	SourceTimeout time.Duration
	MaxResults    int
}

// Aggregator fans a search out across source adapters under a
// concurrency cap, merges and deduplicates the results, and ranks them.
// A search never fails on source outages: when every source comes back
// empty or broken the deterministic fallback list is served instead.
type Aggregator struct {
	adapters      []sources.Adapter
	scorer        *Scorer
	cache         *gocache.Cache
	cacheTTL      time.Duration
	concurrency   int
	sourceTimeout time.Duration
	maxResults    int
	validate      *validator.Validate
	analytics     *SearchAnalytics
}

func NewAggregator(adapters []sources.Adapter, scorer *Scorer, analytics *SearchAnalytics,
	opts AggregatorOptions) *Aggregator {

	if opts.CacheTTL == 0 {
		opts.CacheTTL = defaultCacheTTL
	}
	if opts.Concurrency == 0 {
		opts.Concurrency = defaultConcurrency
	}
	if opts.SourceTimeout == 0 {
		opts.SourceTimeout = defaultSourceTimeout
	}
	if opts.MaxResults == 0 {
		opts.MaxResults = defaultMaxResults
	}

	return &Aggregator{
		adapters:      adapters,
		scorer:        scorer,
		cache:         gocache.New(opts.CacheTTL, 2*opts.CacheTTL),
		cacheTTL:      opts.CacheTTL,
		concurrency:   opts.Concurrency,
		sourceTimeout: opts.SourceTimeout,
		maxResults:    opts.MaxResults,
		validate:      validator.New(),
		analytics:     analytics,
	}
}

// Search runs the full pipeline: cache check, bounded fan-out, dedup,
// hard filters, scoring, sort and truncation. The returned slice is
// owned by the caller.
func (a *Aggregator) Search(ctx context.Context, query string, criteria entities.SearchCriteria) ([]entities.Job, error) {

	if err := a.validate.Struct(criteria); err != nil {
		return nil, err
	}

	start := time.Now()
	defer func() {
		metrics.SearchDuration.Observe(time.Since(start).Seconds())
	}()

	metrics.SearchesCounter.Inc()
	a.analytics.RecordSearch(query)

	maxResults := criteria.MaxResults
	if maxResults == 0 {
		maxResults = a.maxResults
	}
	sortBy := criteria.SortBy
	if sortBy == "" {
		sortBy = entities.SortByRelevance
	}

	// the cache holds the raw merged fetch: filters, sorting and the
	// result cap are cheap and reapplied per call, so criteria that do
	// not change the fetched set can share one entry
	cacheKey := hashCacheKey(criteria.CacheKey(query))
	var merged []entities.Job
	if cached, found := a.cache.Get(cacheKey); found {
		metrics.CacheHitsCounter.Inc()
		merged = copyJobs(cached.([]entities.Job))
	} else {
		merged = a.fetchAll(ctx, query, criteria)

		ttl := a.cacheTTL
		if len(merged) == 0 {
			log.Warnf("no source produced results for query %q, serving fallback", query)
			merged = sources.FallbackJobs(time.Now())
			if ttl > fallbackCacheTTL {
				ttl = fallbackCacheTTL
			}
		}

		a.cache.Set(cacheKey, copyJobs(merged), ttl)
	}

	jobs := dedupeJobs(merged)
	jobs = a.applyFilters(jobs, criteria)

	scoreStart := time.Now()
	for i := range jobs {
		jobs[i].RelevanceScore = a.scorer.Relevance(jobs[i], query)
		jobs[i].QualityScore = a.scorer.Quality(jobs[i])
	}
	metrics.SearchStepDuration.WithLabelValues("scoring").Observe(time.Since(scoreStart).Seconds())

	sortJobs(jobs, sortBy)

	if len(jobs) > maxResults {
		jobs = jobs[:maxResults]
	}

	return jobs, nil
}

// fetchAll executes the enabled adapters with bounded concurrency and
// allSettled semantics: one failing source never aborts the others.
// Merge order follows adapter registration order, keeping results
// deterministic regardless of which goroutine finished first.
func (a *Aggregator) fetchAll(ctx context.Context, query string, criteria entities.SearchCriteria) []entities.Job {

	adapters := a.enabledAdapters(criteria.Sources)

	fetchStart := time.Now()
	defer func() {
		metrics.SearchStepDuration.WithLabelValues("fetch").Observe(time.Since(fetchStart).Seconds())
	}()

	results := make([][]entities.Job, len(adapters))
	semaphore := make(chan struct{}, a.concurrency)

	var wg sync.WaitGroup
	for i, adapter := range adapters {
		wg.Add(1)
		go func(i int, adapter sources.Adapter) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			fetchCtx, cancel := context.WithTimeout(ctx, a.sourceTimeout)
			defer cancel()

			jobs, err := adapter.Fetch(fetchCtx, query, criteria.Location)
			if err != nil {
				log.WithField(logger.ErrorTypeField, logger.ErrorTypeSourceApi).
					Errorf("source %v failed: %v", adapter.Name(), err)
				metrics.SourceRequestsCounter.WithLabelValues(adapter.Name(), "failure").Inc()
				a.analytics.RecordSourceResult(adapter.Name(), false)
				return
			}

			metrics.SourceRequestsCounter.WithLabelValues(adapter.Name(), "success").Inc()
			a.analytics.RecordSourceResult(adapter.Name(), true)
			results[i] = jobs
		}(i, adapter)
	}
	wg.Wait()

	var merged []entities.Job
	for _, jobs := range results {
		merged = append(merged, jobs...)
	}
	return merged
}

func (a *Aggregator) enabledAdapters(allowList []string) []sources.Adapter {
	if len(allowList) == 0 {
		return a.adapters
	}

	return lo.Filter(a.adapters, func(adapter sources.Adapter, _ int) bool {
		return lo.Contains(allowList, adapter.Name())
	})
}

// dedupeJobs keeps the first occurrence of each (title, company) pair.
func dedupeJobs(jobs []entities.Job) []entities.Job {
	seen := make(map[string]struct{}, len(jobs))
	deduped := make([]entities.Job, 0, len(jobs))
	for _, job := range jobs {
		key := job.DedupKey()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		deduped = append(deduped, job)
	}
	return deduped
}

func (a *Aggregator) applyFilters(jobs []entities.Job, criteria entities.SearchCriteria) []entities.Job {
	return lo.Filter(jobs, func(job entities.Job, _ int) bool {

		if criteria.Remote && !job.ParsedLocation.Remote {
			return false
		}

		if criteria.SalaryMin > 0 && !job.ParsedSalary.IsZero() && job.ParsedSalary.Max < criteria.SalaryMin {
			return false
		}

		if criteria.SalaryMax > 0 && !job.ParsedSalary.IsZero() && job.ParsedSalary.Min > criteria.SalaryMax {
			return false
		}

		if criteria.JobType != "" && job.Type != criteria.JobType {
			return false
		}

		if criteria.Experience != entities.LevelAny && InferJobLevel(job.Title) != criteria.Experience {
			return false
		}

		if criteria.Industry != "" {
			text := strings.ToLower(job.Title + " " + job.Description + " " + strings.Join(job.Tags, " "))
			if !strings.Contains(text, strings.ToLower(criteria.Industry)) {
				return false
			}
		}

		return true
	})
}

// sortJobs orders in place; sort.SliceStable keeps insertion order on
// ties so identical inputs always produce identical output.
func sortJobs(jobs []entities.Job, mode entities.SortMode) {
	switch mode {
	case entities.SortByDate:
		sort.SliceStable(jobs, func(i, j int) bool {
			return jobs[i].PublishedAt.After(jobs[j].PublishedAt)
		})
	case entities.SortBySalary:
		sort.SliceStable(jobs, func(i, j int) bool {
			return jobs[i].ParsedSalary.Midpoint() > jobs[j].ParsedSalary.Midpoint()
		})
	case entities.SortByQuality:
		sort.SliceStable(jobs, func(i, j int) bool {
			return jobs[i].QualityScore > jobs[j].QualityScore
		})
	case entities.SortByCompany:
		sort.SliceStable(jobs, func(i, j int) bool {
			return strings.ToLower(jobs[i].Company) < strings.ToLower(jobs[j].Company)
		})
	case entities.SortByCompetition:
		// least contested first: fresh, highly relevant posts draw the
		// biggest applicant pools
		sort.SliceStable(jobs, func(i, j int) bool {
			return competitionEstimate(jobs[i]) < competitionEstimate(jobs[j])
		})
	default:
		sort.SliceStable(jobs, func(i, j int) bool {
			return jobs[i].RelevanceScore > jobs[j].RelevanceScore
		})
	}
}

func competitionEstimate(job entities.Job) int {
	estimate := job.RelevanceScore
	if time.Since(job.PublishedAt) < 72*time.Hour {
		estimate += 20
	}
	if job.ParsedLocation.Remote {
		estimate += 10
	}
	return estimate
}

func hashCacheKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

func copyJobs(jobs []entities.Job) []entities.Job {
	return append([]entities.Job(nil), jobs...)
}
