// Package search holds the Elasticsearch-backed tour catalog adapter. Catalog
// writes happen elsewhere; this core only reads pricing, cancellation policy
// and display data.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"tourly/internal/config"
	"tourly/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

type TourIndex struct {
	client *elasticsearch.Client
	config config.ElasticsearchConfig
}

func NewTourIndex(cfg config.ElasticsearchConfig) (*TourIndex, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:     []string{cfg.URL},
		Username:      cfg.Username,
		Password:      cfg.Password,
		RetryOnStatus: []int{502, 503, 504, 429},
		MaxRetries:    cfg.MaxRetries,
	})

	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	index := &TourIndex{
		client: es,
		config: cfg,
	}

	if err := index.ensureIndex(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ensure index exists: %w", err)
	}

	return index, nil
}

// ensureIndex creates the tours index if it does not exist
func (t *TourIndex) ensureIndex(ctx context.Context) error {
	req := esapi.IndicesExistsRequest{
		Index: []string{t.config.Index},
	}

	res, err := req.Do(ctx, t.client)
	if err != nil {
		return fmt.Errorf("failed to check index existence: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == 200 {
		slog.Info("Elasticsearch index already exists", "index", t.config.Index)
		return nil
	}

	mapping := map[string]interface{}{
		"settings": map[string]interface{}{
			"number_of_shards":   1,
			"number_of_replicas": 0,
		},
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"id": map[string]interface{}{
					"type": "keyword",
				},
				"title": map[string]interface{}{
					"type": "text",
					"fields": map[string]interface{}{
						"keyword": map[string]interface{}{
							"type":         "keyword",
							"ignore_above": 256,
						},
					},
				},
				"description": map[string]interface{}{
					"type": "text",
				},
				"destination": map[string]interface{}{
					"type": "keyword",
				},
				"duration_days": map[string]interface{}{
					"type": "integer",
				},
				"pricing": map[string]interface{}{
					"properties": map[string]interface{}{
						"adult":  map[string]interface{}{"type": "long"},
						"teen":   map[string]interface{}{"type": "long"},
						"child":  map[string]interface{}{"type": "long"},
						"infant": map[string]interface{}{"type": "long"},
					},
				},
				"free_cancellation": map[string]interface{}{
					"type": "boolean",
				},
				"occurrences": map[string]interface{}{
					"type":   "date",
					"format": "strict_date_optional_time||epoch_millis",
				},
			},
		},
	}

	mappingJSON, err := json.Marshal(mapping)
	if err != nil {
		return fmt.Errorf("failed to marshal mapping: %w", err)
	}

	createReq := esapi.IndicesCreateRequest{
		Index: t.config.Index,
		Body:  strings.NewReader(string(mappingJSON)),
	}

	createRes, err := createReq.Do(ctx, t.client)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	defer createRes.Body.Close()

	if createRes.IsError() {
		body, _ := io.ReadAll(createRes.Body)
		return fmt.Errorf("failed to create index: %s", string(body))
	}

	slog.Info("Created Elasticsearch index", "index", t.config.Index)
	return nil
}

// GetByID fetches one tour document. Missing tours return nil, nil.
func (t *TourIndex) GetByID(ctx context.Context, tourID string) (*models.Tour, error) {
	req := esapi.GetRequest{
		Index:      t.config.Index,
		DocumentID: tourID,
	}

	res, err := req.Do(ctx, t.client)
	if err != nil {
		return nil, fmt.Errorf("failed to get tour: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == 404 {
		return nil, nil
	}
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("tour lookup failed: %s", string(body))
	}

	var doc struct {
		Source models.Tour `json:"_source"`
	}
	if err := json.NewDecoder(res.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode tour document: %w", err)
	}

	doc.Source.ID = tourID
	return &doc.Source, nil
}

// ResolveOccurrence checks that the requested date range matches exactly one
// published occurrence of the tour and returns its start date.
func (t *TourIndex) ResolveOccurrence(ctx context.Context, tour *models.Tour, start, end time.Time) (time.Time, error) {
	var matched []time.Time
	for _, occ := range tour.Occurrences {
		if sameDay(occ, start) {
			matched = append(matched, occ)
		}
	}

	if len(matched) != 1 {
		return time.Time{}, fmt.Errorf("date range resolves to %d occurrences of tour %s", len(matched), tour.ID)
	}

	if tour.DurationDays > 0 {
		expectedEnd := matched[0].AddDate(0, 0, tour.DurationDays-1)
		if !sameDay(expectedEnd, end) {
			return time.Time{}, fmt.Errorf("end date does not match tour duration of %d days", tour.DurationDays)
		}
	}

	return matched[0], nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
