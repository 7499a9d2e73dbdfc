/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// apiResponse mirrors pkg/api.APIResponse; it is redeclared here rather
// than imported so the CLI client has no compile-time dependency on the
// server package, matching how a thin HTTP client is expected to treat
// the wire format as external contract, not shared Go types.
type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

type apiClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func newAPIClient(cmd *cobra.Command) (*apiClient, error) {
	addr, _ := cmd.Flags().GetString("addr")
	apiKey, _ := cmd.Flags().GetString("api-key")
	if addr == "" {
		return nil, fmt.Errorf("--addr is required")
	}
	return &apiClient{
		baseURL: strings.TrimRight(addr, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
	}, nil
}

func (c *apiClient) do(method, path string, body io.Reader) (*apiResponse, int, error) {
	req, err := http.NewRequest(method, c.baseURL+path, body)
	if err != nil {
		return nil, 0, err
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("contacting %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	var out apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("decoding response: %w", err)
	}
	return &out, resp.StatusCode, nil
}

func (c *apiClient) query(name string) (string, error) {
	resp, status, err := c.do(http.MethodGet, "/api/v1/kv/"+url.PathEscape(name), nil)
	if err != nil {
		return "", err
	}
	if status == http.StatusNotFound {
		return "", fmt.Errorf("not found")
	}
	if !resp.Success {
		return "", fmt.Errorf("%s", resp.Error)
	}
	var body struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(resp.Data, &body); err != nil {
		return "", err
	}
	return body.Value, nil
}

func (c *apiClient) add(name, value string) (string, error) {
	resp, _, err := c.do(http.MethodPut, "/api/v1/kv/"+url.PathEscape(name), strings.NewReader(value))
	if err != nil {
		return "", err
	}
	if !resp.Success {
		return "", fmt.Errorf("%s", resp.Error)
	}
	var body struct {
		Result string `json:"result"`
	}
	if err := json.Unmarshal(resp.Data, &body); err != nil {
		return "", err
	}
	return body.Result, nil
}

func (c *apiClient) remove(name string) (bool, error) {
	resp, status, err := c.do(http.MethodDelete, "/api/v1/kv/"+url.PathEscape(name), nil)
	if err != nil {
		return false, err
	}
	if status == http.StatusNotFound {
		return false, nil
	}
	if !resp.Success {
		return false, fmt.Errorf("%s", resp.Error)
	}
	return true, nil
}
