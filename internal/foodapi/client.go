// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package foodapi is the client for the third-party food CO2 reference API
// (Open Food Facts with Agribalyse environmental data). All calls are bounded
// by a fixed timeout and surface failures as errors; the server never retries.
package foodapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const requestTimeout = 10 * time.Second

// ErrNotFound is returned when a barcode or search term yields no product.
var ErrNotFound = errors.New("product not found")

// Product is a food item with its carbon footprint per kilogramme.
type Product struct {
	Barcode  string   `json:"barcode"`
	Nom      string   `json:"nom"`
	Tags     []string `json:"tags,omitempty"`
	CO2PerKg float64  `json:"co2_per_kg"`
}

// Client queries the food CO2 API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the API at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// searchResponse mirrors the upstream search payload.
type searchResponse struct {
	Products []productPayload `json:"products"`
}

type barcodeResponse struct {
	Status  int            `json:"status"`
	Product productPayload `json:"product"`
}

type productPayload struct {
	Code           string   `json:"code"`
	ProductName    string   `json:"product_name"`
	CategoriesTags []string `json:"categories_tags"`
	Ecoscore       struct {
		Agribalyse struct {
			CO2Total float64 `json:"co2_total"`
		} `json:"agribalyse"`
	} `json:"ecoscore_data"`
}

func (p productPayload) toProduct() Product {
	return Product{
		Barcode:  p.Code,
		Nom:      p.ProductName,
		Tags:     p.CategoriesTags,
		CO2PerKg: p.Ecoscore.Agribalyse.CO2Total,
	}
}

// SearchText looks up products by free-text search.
func (c *Client) SearchText(ctx context.Context, text string) ([]Product, error) {
	u := fmt.Sprintf("%s/cgi/search.pl?search_terms=%s&json=1&page_size=20", c.baseURL, url.QueryEscape(text))

	var payload searchResponse
	if err := c.getJSON(ctx, u, &payload); err != nil {
		return nil, err
	}
	if len(payload.Products) == 0 {
		return nil, ErrNotFound
	}

	products := make([]Product, 0, len(payload.Products))
	for _, p := range payload.Products {
		products = append(products, p.toProduct())
	}
	return products, nil
}

// SearchBarcode looks up one product by barcode.
func (c *Client) SearchBarcode(ctx context.Context, barcode string) (Product, error) {
	u := fmt.Sprintf("%s/api/v2/product/%s.json", c.baseURL, url.PathEscape(barcode))

	var payload barcodeResponse
	if err := c.getJSON(ctx, u, &payload); err != nil {
		return Product{}, err
	}
	if payload.Status != 1 {
		return Product{}, ErrNotFound
	}
	return payload.Product.toProduct(), nil
}

func (c *Client) getJSON(ctx context.Context, u string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "carbon-track/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("food api request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("food api returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decoding food api response: %w", err)
	}
	return nil
}
