// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bureau-foundation/palette/lib/testutil"
)

func TestHTTPServerServesAndShutsDown(t *testing.T) {
	server := NewHTTPServer(HTTPServerConfig{
		Address: "127.0.0.1:0",
		Handler: http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			io.WriteString(writer, "query="+request.URL.Query().Get("s"))
		}),
		Logger: testLogger(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Serve(ctx) }()
	testutil.RequireClosed(t, server.Ready(), 5*time.Second, "http server ready")

	response, err := http.Get("http://" + server.Addr().String() + "/?s=go")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	body, _ := io.ReadAll(response.Body)
	response.Body.Close()
	if string(body) != "query=go" {
		t.Errorf("body = %q, want %q", body, "query=go")
	}

	cancel()
	if err := testutil.RequireReceive(t, done, 5*time.Second, "Serve did not return"); err != nil {
		t.Errorf("Serve returned error: %v", err)
	}
}

func TestNewHTTPServerRequiresFields(t *testing.T) {
	tests := []struct {
		name   string
		config HTTPServerConfig
	}{
		{"address", HTTPServerConfig{Handler: http.NotFoundHandler(), Logger: testLogger()}},
		{"handler", HTTPServerConfig{Address: ":0", Logger: testLogger()}},
		{"logger", HTTPServerConfig{Address: ":0", Handler: http.NotFoundHandler()}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("NewHTTPServer without %s did not panic", test.name)
				}
			}()
			NewHTTPServer(test.config)
		})
	}
}

func TestLogRequestsRecordsStatus(t *testing.T) {
	var output bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&output, &slog.HandlerOptions{Level: slog.LevelDebug}))
	handler := logRequests(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusTeapot)
		io.WriteString(writer, "short and stout")
	}), logger)

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/commands?s=tea", nil))

	if recorder.Code != http.StatusTeapot {
		t.Errorf("status = %d, want %d", recorder.Code, http.StatusTeapot)
	}
	for _, want := range []string{"path=/commands", "status=418", "bytes=15"} {
		if !strings.Contains(output.String(), want) {
			t.Errorf("log missing %q:\n%s", want, output.String())
		}
	}
}
