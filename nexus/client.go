// Copyright 2022 Hewlett Packard Enterprise Development LP. All Rights Reserved.
// SPDX-License-Identifier: MIT

// Package nexus is a thin client for the Nexus repository manager REST API
// and for the Docker registry v2 API it fronts. It covers only the calls the
// install utilities need: group repository membership updates, repository
// and component deletion, and image deletion.
package nexus

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	cleanhttp "github.com/hashicorp/go-cleanhttp"
	pkgerrors "github.com/pkg/errors"
)

const (
	// DefaultNexusURL is the in-cluster base URL of the Nexus REST API.
	DefaultNexusURL = "http://nexus.nexus:8081"
	// DefaultDockerRegistryURL is the in-cluster base URL of the Docker
	// registry fronted by Nexus.
	DefaultDockerRegistryURL = "http://registry.local"
)

// Credentials are HTTP basic-auth credentials for Nexus.
type Credentials struct {
	Username string
	Password string
}

// APIError is a non-2xx response from Nexus or the Docker registry.
type APIError struct {
	Method     string
	URL        string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s %s: %s", e.Method, e.URL, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("%s %s: %s: %s", e.Method, e.URL, http.StatusText(e.StatusCode), e.Message)
}

// IsNotFound reports whether err is an APIError for a 404 response.
func IsNotFound(err error) bool {
	apiErr := &APIError{}
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Client is a base HTTP client shared by the Nexus and Docker registry APIs.
type Client struct {
	baseURL    string
	httpClient *http.Client
	creds      *Credentials
}

// NewClient returns a client for the API rooted at baseURL. creds may be nil
// for anonymous access.
func NewClient(baseURL string, creds *Credentials) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: cleanhttp.DefaultClient(),
		creds:      creds,
	}
}

// do issues a JSON request against the API. A nil out discards the response
// body; a non-2xx status is returned as an *APIError.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var payload io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrapf(err, "error encoding request body for %s %s", method, u)
		}
		payload = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, payload)
	if err != nil {
		return pkgerrors.Wrapf(err, "error creating request for %s %s", method, u)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.roundTrip(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return pkgerrors.Wrapf(err, "error decoding response from %s %s", method, u)
		}
	}
	return nil
}

// roundTrip sends req with credentials attached and maps non-2xx responses
// to *APIError. On success the caller owns the response body.
func (c *Client) roundTrip(req *http.Request) (*http.Response, error) {
	if c.creds != nil {
		req.SetBasicAuth(c.creds.Username, c.creds.Password)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "error calling %s %s", req.Method, req.URL)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, &APIError{
			Method:     req.Method,
			URL:        req.URL.String(),
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(msg)),
		}
	}
	return resp, nil
}
