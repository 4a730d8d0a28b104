package application

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/teambuilder/internal/domain/entity"
	"github.com/oksasatya/teambuilder/internal/domain/repository"
)

// SearchIndexer mirrors projects into Elasticsearch. With no client it falls
// back to a substring match over the store.
type SearchIndexer struct {
	ES     *elasticsearch.Client
	Index  string
	Store  *Store
	Logger *logrus.Logger
}

func (s *SearchIndexer) enabled() bool {
	return s != nil && s.ES != nil && s.Index != ""
}

// HandleChange indexes the changed project.
func (s *SearchIndexer) HandleChange(ev ChangeEvent) {
	if !s.enabled() || ev.Kind != repository.KindProjects {
		return
	}
	p, ok := s.Store.FindProject(ev.ID)
	if !ok {
		return
	}
	_ = s.IndexProject(context.Background(), p)
}

func (s *SearchIndexer) IndexProject(ctx context.Context, p entity.Project) error {
	if !s.enabled() {
		return nil
	}
	doc := map[string]any{
		"id":          p.ID,
		"authorId":    p.AuthorID,
		"title":       p.Title,
		"description": p.Description,
		"createdAt":   time.UnixMilli(p.CreatedAt).UTC().Format(time.RFC3339Nano),
		"accepted":    len(p.AcceptedUsers),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.Index, DocumentID: p.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("project_id", p.ID).Warn("es index failed")
		}
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		if s.Logger != nil {
			s.Logger.WithField("status", res.Status()).WithField("project_id", p.ID).Warn("es index response error")
		}
		return fmt.Errorf("es index: %s", res.Status())
	}
	return nil
}

// Reindex pushes every project; used after a bulk load.
func (s *SearchIndexer) Reindex(ctx context.Context) int {
	if !s.enabled() {
		return 0
	}
	n := 0
	for _, p := range s.Store.Projects() {
		if err := s.IndexProject(ctx, p); err == nil {
			n++
		}
	}
	return n
}

// Search returns the ids of projects matching q, best match first.
func (s *SearchIndexer) Search(ctx context.Context, q string, size int) ([]string, error) {
	q = strings.TrimSpace(q)
	if size <= 0 || size > 50 {
		size = 10
	}
	if q == "" {
		return []string{}, nil
	}
	if !s.enabled() {
		return s.searchLocal(q, size), nil
	}

	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"title^2", "description"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(s.ES.Search.WithContext(c), s.ES.Search.WithIndex(s.Index), s.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("es search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.ID)
	}
	return out, nil
}

func (s *SearchIndexer) searchLocal(q string, size int) []string {
	if s == nil || s.Store == nil {
		return []string{}
	}
	needle := strings.ToLower(q)
	out := make([]string, 0, size)
	for _, p := range s.Store.Projects() {
		if strings.Contains(strings.ToLower(p.Title), needle) || strings.Contains(strings.ToLower(p.Description), needle) {
			out = append(out, p.ID)
			if len(out) == size {
				break
			}
		}
	}
	return out
}
