// Package remote is the record-store persistence variant: the same ports as
// the local store, served over the budget HTTP API (GET/PUT /budget,
// GET/POST/DELETE /transactions).
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"pennywise/internal/core"
	"pennywise/internal/store"
)

// Client talks to a pennywise record-store API. Failures surface as errors;
// the resolver and ledger decide how to degrade.
type Client struct {
	base string
	http *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		base: baseURL,
		http: &http.Client{Timeout: timeout},
	}
}

// Load implements store.SettingsStore.
func (c *Client) Load(ctx context.Context) (core.BudgetSettings, error) {
	var out core.BudgetSettings
	if err := c.do(ctx, http.MethodGet, "/budget", nil, &out); err != nil {
		return core.BudgetSettings{}, err
	}
	return out, nil
}

// Save implements store.SettingsStore; the server performs the partial merge.
func (c *Client) Save(ctx context.Context, patch core.SettingsPatch) (core.BudgetSettings, error) {
	if err := patch.Validate(); err != nil {
		return core.BudgetSettings{}, err
	}
	var out core.BudgetSettings
	if err := c.do(ctx, http.MethodPut, "/budget", patch, &out); err != nil {
		return core.BudgetSettings{}, err
	}
	return out, nil
}

// List implements store.TransactionStore. The server pre-filters to the
// trailing window; the bounds are re-applied here so the port contract holds
// regardless of server version.
func (c *Client) List(ctx context.Context, from, to time.Time) ([]core.Transaction, error) {
	var payload struct {
		Transactions []core.Transaction `json:"transactions"`
	}
	if err := c.do(ctx, http.MethodGet, "/transactions", nil, &payload); err != nil {
		return nil, err
	}
	out := make([]core.Transaction, 0, len(payload.Transactions))
	for _, t := range payload.Transactions {
		if t.Date.Before(from) || t.Date.After(to) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// Insert implements store.TransactionStore; the server assigns id and date.
func (c *Client) Insert(ctx context.Context, fund string, amount core.Money, category string) (core.Transaction, error) {
	body := struct {
		Fund     string     `json:"fund"`
		Amount   core.Money `json:"amount"`
		Category string     `json:"category"`
	}{Fund: fund, Amount: amount, Category: category}

	var out core.Transaction
	if err := c.do(ctx, http.MethodPost, "/transactions", body, &out); err != nil {
		return core.Transaction{}, err
	}
	return out, nil
}

// Delete implements store.TransactionStore.
func (c *Client) Delete(ctx context.Context, id string) error {
	path := "/transactions?id=" + url.QueryEscape(id)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound && path == "/budget" {
		return store.ErrNoSettings
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
