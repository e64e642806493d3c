package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/candyline/sweet-shop/internal/models"
)

const Index = "sweets"

// IndexSweet upserts one sweet document. Best-effort: callers log failures
// and move on, the database stays the source of truth.
func IndexSweet(ctx context.Context, es *elasticsearch.Client, sweet models.Sweet) error {
	if es == nil {
		return nil
	}
	data, err := json.Marshal(sweet)
	if err != nil {
		return fmt.Errorf("index sweet: %w", err)
	}
	res, err := es.Index(
		Index,
		bytes.NewReader(data),
		es.Index.WithContext(ctx),
		es.Index.WithDocumentID(strconv.FormatUint(uint64(sweet.ID), 10)),
	)
	if err != nil {
		return fmt.Errorf("index sweet: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index sweet: %s", res.Status())
	}
	return nil
}

func DeleteSweet(ctx context.Context, es *elasticsearch.Client, id uint) error {
	if es == nil {
		return nil
	}
	res, err := es.Delete(
		Index,
		strconv.FormatUint(uint64(id), 10),
		es.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("delete sweet from index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("delete sweet from index: %s", res.Status())
	}
	return nil
}

func Search(ctx context.Context, es *elasticsearch.Client, query string) ([]models.Sweet, error) {
	body := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     query,
				"fields":    []string{"name^2", "category"},
				"fuzziness": "AUTO",
			},
		},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	res, err := es.Search(
		es.Search.WithContext(ctx),
		es.Search.WithIndex(Index),
		es.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Hits []struct {
				Source models.Sweet `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	sweets := make([]models.Sweet, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		sweets[i] = hit.Source
	}
	return sweets, nil
}
