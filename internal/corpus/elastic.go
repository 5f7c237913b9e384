// internal/corpus/elastic.go
package corpus

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"talentmatch-workers/internal/common/errors"
	"talentmatch-workers/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// ElasticCorpus is the Elasticsearch-backed Searcher implementation.
type ElasticCorpus struct {
	client  *elasticsearch.Client
	index   string
	version string
}

func NewElasticCorpus(client *elasticsearch.Client, index, version string) *ElasticCorpus {
	return &ElasticCorpus{
		client:  client,
		index:   index,
		version: version,
	}
}

func (c *ElasticCorpus) Version() string {
	return c.version
}

// searchEnvelope mirrors the subset of the ES response the searcher reads.
type searchEnvelope struct {
	Hits struct {
		Hits []struct {
			Score  float64            `json:"_score"`
			Source models.SkillRecord `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func (c *ElasticCorpus) Search(ctx context.Context, terms []string, domain models.Domain, limit int) ([]Hit, error) {
	if len(terms) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}

	queryBody := BuildSearchQuery(terms, domain)
	body, _ := json.Marshal(queryBody)

	req := esapi.SearchRequest{
		Index: []string{c.index},
		Body:  strings.NewReader(string(body)),
		Size:  &limit,
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, errors.NewSearchTimeoutError()
		}
		return nil, errors.NewCorpusUnavailableError(err)
	}
	defer res.Body.Close()

	if res.IsError() {
		if res.StatusCode == 404 {
			return nil, errors.NewIndexNotFoundError(c.index)
		}
		return nil, errors.NewSearchQueryFailedError(fmt.Errorf("search status %s", res.Status()))
	}

	var envelope searchEnvelope
	if err := json.NewDecoder(res.Body).Decode(&envelope); err != nil {
		return nil, errors.NewSearchQueryFailedError(fmt.Errorf("decode response: %w", err))
	}

	hits := make([]Hit, 0, len(envelope.Hits.Hits))
	for _, h := range envelope.Hits.Hits {
		hits = append(hits, Hit{
			Record:    h.Source,
			Relevance: h.Score,
		})
	}

	return hits, nil
}
