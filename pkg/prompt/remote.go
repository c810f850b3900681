package prompt

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/patrickmn/go-cache"
)

// RemoteStore pulls templates from an external prompt service so prompt
// copy can be iterated on without redeploying. Fetched templates are cached
// for a short TTL, and any fetch failure falls back to the given Store
// (normally the builtin Registry).
type RemoteStore struct {
	baseURL  string
	apiKey   string
	client   *http.Client
	cache    *cache.Cache
	fallback Store
}

func NewRemoteStore(baseURL, apiKey string, fallback Store) *RemoteStore {
	return &RemoteStore{
		baseURL: baseURL,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		cache:    cache.New(5*time.Minute, 10*time.Minute),
		fallback: fallback,
	}
}

func (s *RemoteStore) Get(ctx context.Context, name string) (*Template, error) {
	if cached, found := s.cache.Get(name); found {
		return cached.(*Template), nil
	}

	t, err := s.fetch(ctx, name)
	if err != nil {
		if s.fallback != nil {
			return s.fallback.Get(ctx, name)
		}
		return nil, err
	}

	s.cache.Set(name, t, cache.DefaultExpiration)
	return t, nil
}

func (s *RemoteStore) fetch(ctx context.Context, name string) (*Template, error) {
	url := fmt.Sprintf("%s/prompts/%s", s.baseURL, name)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if s.apiKey != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.apiKey))
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("prompt fetch failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("prompt service error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var t Template
	if err := json.Unmarshal(bodyBytes, &t); err != nil {
		return nil, fmt.Errorf("failed to decode template %s: %w", name, err)
	}
	if t.Name == "" {
		t.Name = name
	}
	if len(t.Messages) == 0 {
		return nil, fmt.Errorf("template %s has no messages", name)
	}

	return &t, nil
}
