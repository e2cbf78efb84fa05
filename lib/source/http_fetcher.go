// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/bureau-foundation/palette/lib/command"
	"github.com/bureau-foundation/palette/lib/netutil"
)

// DefaultQueryParam is the query-string parameter carrying the search
// text when none is configured.
const DefaultQueryParam = "s"

// DefaultHTTPTimeout bounds one fetch, including reading the body.
const DefaultHTTPTimeout = 10 * time.Second

// etagCacheSize is the number of per-query responses kept for
// conditional requests.
const etagCacheSize = 64

// HTTPFetcher fetches descriptors with GET <endpoint>?<param>=<query>.
// The response body is a JSON (or JSONC) array of descriptors.
//
// Responses carrying an ETag are remembered per query; repeating the
// query sends If-None-Match and reuses the remembered descriptors on
// 304 Not Modified.
type HTTPFetcher struct {
	endpoint   *url.URL
	queryParam string
	client     *http.Client
	responses  *lru.Cache[string, cachedResponse]
}

type cachedResponse struct {
	etag        string
	descriptors []command.Descriptor
}

// HTTPFetcherConfig configures an HTTPFetcher.
type HTTPFetcherConfig struct {
	// Endpoint is the absolute http(s) URL to query. Required.
	Endpoint string

	// QueryParam defaults to DefaultQueryParam.
	QueryParam string

	// Client defaults to an http.Client with DefaultHTTPTimeout.
	Client *http.Client
}

// NewHTTPFetcher validates config and returns a fetcher.
func NewHTTPFetcher(config HTTPFetcherConfig) (*HTTPFetcher, error) {
	endpoint, err := url.Parse(config.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("parsing endpoint %q: %w", config.Endpoint, err)
	}
	if endpoint.Scheme != "http" && endpoint.Scheme != "https" {
		return nil, fmt.Errorf("endpoint %q: scheme must be http or https", config.Endpoint)
	}
	if endpoint.Host == "" {
		return nil, fmt.Errorf("endpoint %q: missing host", config.Endpoint)
	}

	queryParam := config.QueryParam
	if queryParam == "" {
		queryParam = DefaultQueryParam
	}
	client := config.Client
	if client == nil {
		client = &http.Client{Timeout: DefaultHTTPTimeout}
	}

	responses, err := lru.New[string, cachedResponse](etagCacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating response cache: %w", err)
	}

	return &HTTPFetcher{
		endpoint:   endpoint,
		queryParam: queryParam,
		client:     client,
		responses:  responses,
	}, nil
}

// URL returns the request URL for query.
func (fetcher *HTTPFetcher) URL(query string) string {
	requestURL := *fetcher.endpoint
	values := requestURL.Query()
	values.Set(fetcher.queryParam, query)
	requestURL.RawQuery = values.Encode()
	return requestURL.String()
}

// Fetch implements Fetcher.
func (fetcher *HTTPFetcher) Fetch(ctx context.Context, query string) ([]command.Descriptor, error) {
	requestURL := fetcher.URL(query)
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	request.Header.Set("Accept", "application/json")

	cached, haveCached := fetcher.responses.Get(requestURL)
	if haveCached {
		request.Header.Set("If-None-Match", cached.etag)
	}

	response, err := fetcher.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", fetcher.endpoint.Redacted(), err)
	}
	defer response.Body.Close()

	switch {
	case response.StatusCode == http.StatusNotModified && haveCached:
		return cached.descriptors, nil
	case response.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("GET %s: %s: %s", fetcher.endpoint.Redacted(), response.Status, netutil.ErrorBody(response.Body))
	}

	var descriptors []command.Descriptor
	if err := netutil.DecodeResponse(response.Body, &descriptors); err != nil {
		return nil, fmt.Errorf("decoding response from %s: %w", fetcher.endpoint.Redacted(), err)
	}

	if etag := response.Header.Get("ETag"); etag != "" {
		fetcher.responses.Add(requestURL, cachedResponse{etag: etag, descriptors: descriptors})
	} else if haveCached {
		fetcher.responses.Remove(requestURL)
	}
	return descriptors, nil
}
