// internal/engine/extraction/extractor.go
package extraction

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"talentmatch-workers/internal/common/logger"
	"talentmatch-workers/internal/common/metrics"
	"talentmatch-workers/internal/corpus"
	"talentmatch-workers/internal/engine/contamination"
	"talentmatch-workers/internal/models"
)

const (
	exactMatchBoost   = 1.5
	contextCueBoost   = 1.2
	technicalBoost    = 1.1
	contextCueWindow  = 50
	searchLimitFactor = 2
)

// contextCues are proficiency markers that upgrade a match's score when they
// appear within the cue window around the matched span.
var contextCues = []string{
	"experience", "experienced", "proficient", "proficiency", "expert",
	"advanced", "senior", "certified", "years",
}

// Extractor turns free text into ranked skill matches backed by the corpus.
type Extractor struct {
	corpus corpus.Searcher
	cache  Cache
	filter *contamination.Filter
	logger logger.Logger
}

// New creates an Extractor. cache and filter may be nil to disable
// memoization and contamination filtering respectively.
func New(searcher corpus.Searcher, cache Cache, filter *contamination.Filter, log logger.Logger) *Extractor {
	return &Extractor{
		corpus: searcher,
		cache:  cache,
		filter: filter,
		logger: log,
	}
}

// Extract runs the full term extraction, corpus ranking, re-ranking and
// contamination pipeline. It never returns an error: a corpus failure is
// reported inside the Result with Success=false.
func (e *Extractor) Extract(ctx context.Context, text string, domain models.Domain, maxResults int, minScore float64) *Result {
	start := time.Now()

	key := CacheKey(text, domain, maxResults, minScore)
	if e.cache != nil {
		if cached, ok := e.cache.Get(ctx, key); ok {
			hit := *cached
			hit.Cached = true
			return &hit
		}
	}

	terms := ExtractTerms(text)
	if len(terms) == 0 {
		return e.finish(ctx, &Result{Success: true, Skills: []models.SkillMatch{}, Domains: []string{}}, domain, start, key)
	}

	hits, err := e.corpus.Search(ctx, terms, domain, maxResults*searchLimitFactor)
	if err != nil {
		e.logger.Error("skill corpus search failed", map[string]interface{}{
			"domain": string(domain),
			"terms":  len(terms),
			"error":  err.Error(),
		})
		metrics.ExtractionsTotal.WithLabelValues(string(domain), "corpus_error").Inc()
		return &Result{
			Success:   false,
			Skills:    []models.SkillMatch{},
			Domains:   []string{},
			Error:     err.Error(),
			ElapsedMS: time.Since(start).Milliseconds(),
		}
	}

	lowerText := strings.ToLower(text)
	matches := make([]models.SkillMatch, 0, len(hits))
	for _, hit := range hits {
		score := normalizeScore(hit.Relevance)
		matchType, span, snippet := classifyMatch(lowerText, hit.Record)

		if matchType == models.MatchExact {
			score *= exactMatchBoost
		}
		if span != nil && hasContextCue(lowerText, span[0], span[1]) {
			score *= contextCueBoost
		}
		if hit.Record.Category == models.CategoryTechnical && hit.Record.Domain == models.DomainTechnology {
			score *= technicalBoost
		}
		if score > 1.0 {
			score = 1.0
		}
		if score < minScore {
			continue
		}

		matches = append(matches, models.SkillMatch{
			Skill:      hit.Record,
			MatchScore: score,
			MatchType:  matchType,
			Snippet:    snippet,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].MatchScore != matches[j].MatchScore {
			return matches[i].MatchScore > matches[j].MatchScore
		}
		return matches[i].Skill.Title < matches[j].Skill.Title
	})
	if len(matches) > maxResults {
		matches = matches[:maxResults]
	}

	result := &Result{Success: true, Skills: matches}
	if e.filter != nil {
		allowed, report := e.filter.Apply(matches, domain, text)
		result.Skills = allowed
		result.Blocked = report.BlockedCount
		result.Flagged = report.FlaggedCount
		result.Reasons = report.Reasons
	}

	result.Domains = domainSet(result.Skills)
	return e.finish(ctx, result, domain, start, key)
}

func (e *Extractor) finish(ctx context.Context, result *Result, domain models.Domain, start time.Time, key string) *Result {
	result.TotalSkills = len(result.Skills)
	result.ElapsedMS = time.Since(start).Milliseconds()

	metrics.ExtractionsTotal.WithLabelValues(string(domain), "success").Inc()
	metrics.ExtractionDuration.WithLabelValues(string(domain)).Observe(time.Since(start).Seconds())
	metrics.SkillsExtracted.WithLabelValues(string(domain)).Observe(float64(result.TotalSkills))

	if e.cache != nil {
		e.cache.Set(ctx, key, result)
	}

	e.logger.Debug("extraction complete", map[string]interface{}{
		"domain":    string(domain),
		"skills":    result.TotalSkills,
		"blocked":   result.Blocked,
		"elapsedMs": result.ElapsedMS,
	})
	return result
}

// normalizeScore compresses the corpus relevance score into [0.1, 1.0] so
// weak matches never floor to exactly zero and strong matches saturate.
func normalizeScore(raw float64) float64 {
	s := math.Exp(raw / 2)
	if s < 0.1 {
		return 0.1
	}
	if s > 1.0 {
		return 1.0
	}
	return s
}

// classifyMatch determines the match type and, for literal matches, the span
// of the matched text along with a highlight snippet.
func classifyMatch(lowerText string, rec models.SkillRecord) (models.MatchType, []int, string) {
	title := rec.NormalizedTitle()
	if title != "" {
		if idx := strings.Index(lowerText, title); idx >= 0 {
			return models.MatchExact, []int{idx, idx + len(title)}, snippet(lowerText, idx, len(title))
		}
	}
	for _, alt := range rec.AltLabels {
		label := strings.ToLower(alt)
		if label == "" {
			continue
		}
		if idx := strings.Index(lowerText, label); idx >= 0 {
			return models.MatchPartial, []int{idx, idx + len(label)}, snippet(lowerText, idx, len(label))
		}
	}
	return models.MatchSemantic, nil, ""
}

func hasContextCue(lowerText string, matchStart, matchEnd int) bool {
	start := matchStart - contextCueWindow
	if start < 0 {
		start = 0
	}
	end := matchEnd + contextCueWindow
	if end > len(lowerText) {
		end = len(lowerText)
	}
	window := lowerText[start:end]
	for _, cue := range contextCues {
		if strings.Contains(window, cue) {
			return true
		}
	}
	return false
}

func snippet(lowerText string, idx, matchLen int) string {
	start := idx - contextCueWindow
	if start < 0 {
		start = 0
	}
	end := idx + matchLen + contextCueWindow
	if end > len(lowerText) {
		end = len(lowerText)
	}
	return strings.TrimSpace(lowerText[start:end])
}

func domainSet(matches []models.SkillMatch) []string {
	seen := make(map[string]struct{}, 4)
	domains := make([]string, 0, 4)
	for _, m := range matches {
		d := string(m.Skill.Domain)
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		domains = append(domains, d)
	}
	return domains
}
