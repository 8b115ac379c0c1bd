// Package graphql implements the business data backend ports over a
// GraphQL-over-HTTP endpoint.
package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	jmespath "github.com/jmespath-community/go-jmespath"

	"github.com/target/shopfront-ui-api/internal/domain/model"
)

const (
	defaultTimeout     = 10 * time.Second
	defaultSearchLimit = 25
	maxSearchLimit     = 100
)

// Extraction paths into GraphQL response documents.
const (
	customerTitlePath  = "data.customer.title"
	customerSearchPath = "data.customerSearch"
	customerOrdersPath = "data.customer.orders"
	errorMessagePath   = "errors[0].message"
)

// Config configures the backend client.
type Config struct {
	// URL is the GraphQL endpoint.
	URL string

	// Token is an optional bearer token attached to every request.
	Token string

	// Timeout bounds individual requests. Defaults to 10s.
	Timeout time.Duration
}

// Client talks to the storefront business data backend. It implements
// ports.CustomerDirectory and ports.OrderReader.
type Client struct {
	httpClient *http.Client
	url        string
	token      string
}

// NewClient creates a backend client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("backend URL is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		url:        cfg.URL,
		token:      cfg.Token,
	}, nil
}

const customerTitleQuery = `
query CustomerTitle($id: ID!) {
  customer(id: $id) {
    id
    title
  }
}`

// Title returns the display title for a customer id.
func (c *Client) Title(ctx context.Context, customerID string) (string, error) {
	if customerID == "" {
		return "", errors.New("customer id is required")
	}

	doc, err := c.execute(ctx, customerTitleQuery, map[string]any{"id": customerID})
	if err != nil {
		return "", err
	}

	title, err := searchString(customerTitlePath, doc)
	if err != nil {
		return "", err
	}
	if title == "" {
		return "", fmt.Errorf("customer %s not found in backend", customerID)
	}
	return title, nil
}

const customerSearchQuery = `
query CustomerSearch($query: String!, $limit: Int!) {
  customerSearch(query: $query, limit: $limit) {
    id
    title
  }
}`

// Search finds customers matching a query, for the impersonation picker.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]model.CustomerSummary, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	doc, err := c.execute(ctx, customerSearchQuery, map[string]any{
		"query": query,
		"limit": limit,
	})
	if err != nil {
		return nil, err
	}

	items, err := searchSlice(customerSearchPath, doc)
	if err != nil {
		return nil, err
	}

	summaries := make([]model.CustomerSummary, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		s := model.CustomerSummary{
			ID:    stringField(m, "id"),
			Title: stringField(m, "title"),
		}
		if s.ID == "" {
			continue
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}

const customerOrdersQuery = `
query CustomerOrders($id: ID!, $limit: Int!) {
  customer(id: $id) {
    orders(limit: $limit) {
      id
      number
      status
      total
      placedAt
    }
  }
}`

// ListOrders lists the most recent orders for a customer account.
func (c *Client) ListOrders(ctx context.Context, customerID string, limit int) ([]model.Order, error) {
	if customerID == "" {
		return nil, errors.New("customer id is required")
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	doc, err := c.execute(ctx, customerOrdersQuery, map[string]any{
		"id":    customerID,
		"limit": limit,
	})
	if err != nil {
		return nil, err
	}

	items, err := searchSlice(customerOrdersPath, doc)
	if err != nil {
		return nil, err
	}

	orders := make([]model.Order, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		o := model.Order{
			ID:     stringField(m, "id"),
			Number: stringField(m, "number"),
			Status: stringField(m, "status"),
			Total:  stringField(m, "total"),
		}
		if placedAt := stringField(m, "placedAt"); placedAt != "" {
			if ts, parseErr := time.Parse(time.RFC3339, placedAt); parseErr == nil {
				o.PlacedAt = ts
			}
		}
		if o.ID == "" {
			continue
		}
		orders = append(orders, o)
	}
	return orders, nil
}

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// execute posts a GraphQL request and returns the decoded response document.
// A non-2xx status or a populated errors array fails the call.
func (c *Client) execute(ctx context.Context, query string, variables map[string]any) (map[string]any, error) {
	body, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("backend returned status %d", resp.StatusCode)
	}

	var doc map[string]any
	if decodeErr := json.NewDecoder(resp.Body).Decode(&doc); decodeErr != nil {
		return nil, fmt.Errorf("decode response: %w", decodeErr)
	}

	if msg, searchErr := searchString(errorMessagePath, doc); searchErr == nil && msg != "" {
		return nil, fmt.Errorf("backend error: %s", msg)
	}

	return doc, nil
}

func searchString(expr string, doc map[string]any) (string, error) {
	v, err := jmespath.Search(expr, doc)
	if err != nil {
		return "", fmt.Errorf("search %q: %w", expr, err)
	}
	s, _ := v.(string)
	return s, nil
}

func searchSlice(expr string, doc map[string]any) ([]any, error) {
	v, err := jmespath.Search(expr, doc)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", expr, err)
	}
	if v == nil {
		return nil, nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("unexpected result shape for %q", expr)
	}
	return items, nil
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}
