package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/wishlisted-app/wishlisted-backend/pkg/config"
)

const nodesQuery = `query WishlistNodes($ids: [ID!]!) {
  nodes(ids: $ids) {
    __typename
    ... on ProductVariant {
      id
      title
      image { url }
      price { amount currencyCode }
      product { title handle }
    }
    ... on Product {
      id
      title
      handle
      featuredImage { url }
      priceRange { minVariantPrice { amount currencyCode } }
    }
  }
}`

// Money is a catalog price amount.
type Money struct {
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currency_code"`
}

// Node is one resolved catalog reference.
type Node struct {
	ID           string
	Title        string
	VariantTitle string
	Handle       string
	ImageURL     string
	Price        *Money
}

// Client issues Storefront GraphQL requests against the configured shop domain.
type Client struct {
	httpClient  *http.Client
	domain      string
	accessToken string
	apiVersion  string
}

// NewClient validates the storefront configuration and builds a client
// bounded by the configured request timeout.
func NewClient(cfg config.StorefrontConfig) (*Client, error) {
	if cfg.Domain == "" {
		return nil, fmt.Errorf("storefront domain is required")
	}
	if cfg.AccessToken == "" {
		return nil, fmt.Errorf("storefront access token is required")
	}
	return &Client{
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		domain:      cfg.Domain,
		accessToken: cfg.AccessToken,
		apiVersion:  cfg.APIVersion,
	}, nil
}

func (c *Client) endpoint() string {
	return fmt.Sprintf("https://%s/api/%s/graphql.json", c.domain, c.apiVersion)
}

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type moneyPayload struct {
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currencyCode"`
}

type imagePayload struct {
	URL string `json:"url"`
}

type nodePayload struct {
	Typename      string        `json:"__typename"`
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	Handle        string        `json:"handle"`
	Image         *imagePayload `json:"image"`
	FeaturedImage *imagePayload `json:"featuredImage"`
	Price         *moneyPayload `json:"price"`
	PriceRange    *struct {
		MinVariantPrice moneyPayload `json:"minVariantPrice"`
	} `json:"priceRange"`
	Product *struct {
		Title  string `json:"title"`
		Handle string `json:"handle"`
	} `json:"product"`
}

type nodesResponse struct {
	Data struct {
		Nodes []*nodePayload `json:"nodes"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// NodesByID resolves the given catalog references in one batched query.
// Unresolvable references are simply absent from the returned map.
func (c *Client) NodesByID(ctx context.Context, ids []string) (map[string]Node, error) {
	if len(ids) == 0 {
		return map[string]Node{}, nil
	}

	payload, err := json.Marshal(graphqlRequest{
		Query:     nodesQuery,
		Variables: map[string]any{"ids": ids},
	})
	if err != nil {
		return nil, fmt.Errorf("encode nodes query: %w", err)
	}

	body, status, err := c.post(ctx, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("storefront responded with status %d", status)
	}

	var decoded nodesResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decode nodes response: %w", err)
	}
	if len(decoded.Errors) > 0 {
		return nil, fmt.Errorf("storefront query error: %s", decoded.Errors[0].Message)
	}

	nodes := make(map[string]Node, len(decoded.Data.Nodes))
	for _, payload := range decoded.Data.Nodes {
		if payload == nil || payload.ID == "" {
			continue
		}
		nodes[payload.ID] = payload.toNode()
	}
	return nodes, nil
}

// Forward proxies a raw GraphQL request body and returns the upstream
// status and response verbatim.
func (c *Client) Forward(ctx context.Context, body io.Reader) (int, []byte, error) {
	respBody, status, err := c.post(ctx, body)
	if err != nil {
		return 0, nil, err
	}
	return status, respBody, nil
}

func (c *Client) post(ctx context.Context, body io.Reader) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), body)
	if err != nil {
		return nil, 0, fmt.Errorf("build storefront request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Storefront-Access-Token", c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("storefront request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("read storefront response: %w", err)
	}
	return respBody, resp.StatusCode, nil
}

func (p *nodePayload) toNode() Node {
	node := Node{
		ID:     p.ID,
		Title:  p.Title,
		Handle: p.Handle,
	}

	if p.Product != nil {
		// Variant nodes carry the parent product's title for display.
		node.VariantTitle = p.Title
		node.Title = p.Product.Title
		node.Handle = p.Product.Handle
	}

	if p.Image != nil {
		node.ImageURL = p.Image.URL
	} else if p.FeaturedImage != nil {
		node.ImageURL = p.FeaturedImage.URL
	}

	if p.Price != nil {
		node.Price = &Money{Amount: p.Price.Amount, CurrencyCode: p.Price.CurrencyCode}
	} else if p.PriceRange != nil {
		node.Price = &Money{
			Amount:       p.PriceRange.MinVariantPrice.Amount,
			CurrencyCode: p.PriceRange.MinVariantPrice.CurrencyCode,
		}
	}

	return node
}
