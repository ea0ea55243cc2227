package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/kmazurov/order_service/internal/models"
)

// Client mirrors orders into an index and answers fuzzy lookups over
// customer fields.
type Client struct {
	ES    *elasticsearch.Client
	Index string
}

func (c *Client) IndexOrder(ctx context.Context, order *models.Order) error {
	data, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("search: marshal order: %w", err)
	}

	res, err := c.ES.Index(
		c.Index,
		bytes.NewReader(data),
		c.ES.Index.WithContext(ctx),
		c.ES.Index.WithDocumentID(order.ID.String()),
	)
	if err != nil {
		return fmt.Errorf("search: index order: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("search: index order: %s", res.Status())
	}
	return nil
}

func (c *Client) Search(ctx context.Context, query string, from, size int) (int64, []models.Order, error) {
	body := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     query,
				"fields":    []string{"customerName^2", "customerEmail", "notes"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("search: encode query: %w", err)
	}

	res, err := c.ES.Search(
		c.ES.Search.WithContext(ctx),
		c.ES.Search.WithIndex(c.Index),
		c.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, nil, fmt.Errorf("search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct{ Value int64 } `json:"total"`
			Hits  []struct {
				Source models.Order `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, err
	}

	orders := make([]models.Order, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		orders[i] = hit.Source
	}
	return r.Hits.Total.Value, orders, nil
}
