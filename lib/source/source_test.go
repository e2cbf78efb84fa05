// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/bureau-foundation/palette/lib/command"
	"github.com/bureau-foundation/palette/lib/match"
	"github.com/bureau-foundation/palette/lib/testutil"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func navigateDescriptor(name string, aliases ...string) command.Descriptor {
	return command.Descriptor{
		Name:    name,
		Aliases: aliases,
		Action:  command.ActionDescriptor{Kind: "navigate", URL: "https://example.com/{argument}"},
	}
}

func names(commands []*command.Command) []string {
	result := make([]string, len(commands))
	for index, candidate := range commands {
		result[index] = candidate.Name
	}
	return result
}

// collect returns a deliver callback that forwards to a channel.
func collect() (func([]*command.Command), <-chan []*command.Command) {
	delivered := make(chan []*command.Command, 8)
	return func(commands []*command.Command) { delivered <- commands }, delivered
}

func requireNoDelivery(t *testing.T, delivered <-chan []*command.Command) {
	t.Helper()
	select {
	case commands := <-delivered:
		t.Fatalf("unexpected delivery: %v", names(commands))
	default:
	}
}

func TestLocalDeliversFilteredCatalog(t *testing.T) {
	catalog, err := command.BuildCatalog([]command.Descriptor{
		navigateDescriptor("Google Search", "Search"),
		navigateDescriptor("Go To URL"),
		navigateDescriptor("Logout"),
	}, nil)
	if err != nil {
		t.Fatalf("BuildCatalog: %v", err)
	}
	local := NewLocal("builtin", catalog, match.New(0))
	if local.Name() != "builtin" {
		t.Errorf("Name() = %q", local.Name())
	}

	deliver, delivered := collect()
	local.Search(context.Background(), "go", deliver)
	got := testutil.RequireReceive(t, delivered, 5*time.Second, "local delivery")
	if want := []string{"Google Search", "Go To URL"}; !slices.Equal(names(got), want) {
		t.Errorf("delivered %v, want %v", names(got), want)
	}

	local.Search(context.Background(), "zzz", deliver)
	got = testutil.RequireReceive(t, delivered, 5*time.Second, "empty local delivery")
	if got == nil || len(got) != 0 {
		t.Errorf("no-match delivery = %#v, want empty non-nil slice", got)
	}
}

// gatedFetcher blocks each Fetch until the test releases that query.
type gatedFetcher struct {
	mutex   sync.Mutex
	gates   map[string]chan fetchResult
	started chan string
}

type fetchResult struct {
	descriptors []command.Descriptor
	err         error
}

func newGatedFetcher() *gatedFetcher {
	return &gatedFetcher{gates: make(map[string]chan fetchResult), started: make(chan string, 8)}
}

func (fetcher *gatedFetcher) gate(query string) chan fetchResult {
	fetcher.mutex.Lock()
	defer fetcher.mutex.Unlock()
	gate, ok := fetcher.gates[query]
	if !ok {
		gate = make(chan fetchResult, 1)
		fetcher.gates[query] = gate
	}
	return gate
}

func (fetcher *gatedFetcher) Fetch(ctx context.Context, query string) ([]command.Descriptor, error) {
	fetcher.started <- query
	result := <-fetcher.gate(query)
	return result.descriptors, result.err
}

func (fetcher *gatedFetcher) release(query string, descriptors []command.Descriptor, err error) {
	fetcher.gate(query) <- fetchResult{descriptors: descriptors, err: err}
}

func newTestRemote(fetcher Fetcher) *Remote {
	return NewRemote(RemoteConfig{
		Name:    "remote",
		Fetcher: fetcher,
		Matcher: match.New(0),
		Logger:  testLogger(),
	})
}

func TestRemoteDropsSupersededResponse(t *testing.T) {
	fetcher := newGatedFetcher()
	remote := newTestRemote(fetcher)

	staleDeliver, staleDelivered := collect()
	freshDeliver, freshDelivered := collect()

	remote.Search(context.Background(), "go", staleDeliver)
	testutil.RequireReceive(t, fetcher.started, 5*time.Second, "first fetch started")
	remote.Search(context.Background(), "goo", freshDeliver)
	testutil.RequireReceive(t, fetcher.started, 5*time.Second, "second fetch started")

	// The newer request answers first, then the stale one.
	fetcher.release("goo", []command.Descriptor{navigateDescriptor("Google Search")}, nil)
	got := testutil.RequireReceive(t, freshDelivered, 5*time.Second, "fresh delivery")
	if !slices.Equal(names(got), []string{"Google Search"}) {
		t.Errorf("fresh delivery = %v", names(got))
	}

	fetcher.release("go", []command.Descriptor{navigateDescriptor("Go To URL")}, nil)
	// Issue one more search and let it complete; the stale goroutine
	// finished its latest check long before this delivery lands.
	finalDeliver, finalDelivered := collect()
	remote.Search(context.Background(), "log", finalDeliver)
	testutil.RequireReceive(t, fetcher.started, 5*time.Second, "third fetch started")
	fetcher.release("log", nil, nil)
	testutil.RequireReceive(t, finalDelivered, 5*time.Second, "final delivery")

	requireNoDelivery(t, staleDelivered)
}

func TestRemoteFailureDeliversEmpty(t *testing.T) {
	fetcher := newGatedFetcher()
	remote := newTestRemote(fetcher)

	deliver, delivered := collect()
	remote.Search(context.Background(), "go", deliver)
	fetcher.release("go", nil, errors.New("connection refused"))

	got := testutil.RequireReceive(t, delivered, 5*time.Second, "delivery after failure")
	if len(got) != 0 {
		t.Errorf("delivery after failure = %v, want empty", names(got))
	}
}

func TestRemoteFiltersSupersetAndSkipsInvalid(t *testing.T) {
	fetcher := newGatedFetcher()
	remote := newTestRemote(fetcher)

	deliver, delivered := collect()
	remote.Search(context.Background(), "go", deliver)
	fetcher.release("go", []command.Descriptor{
		navigateDescriptor("Logout"),
		{Name: "Go Broken", Action: command.ActionDescriptor{Kind: "navigate"}},
		navigateDescriptor("Google Search"),
		navigateDescriptor("Go To URL"),
	}, nil)

	got := testutil.RequireReceive(t, delivered, 5*time.Second, "filtered delivery")
	if want := []string{"Google Search", "Go To URL"}; !slices.Equal(names(got), want) {
		t.Errorf("delivered %v, want %v", names(got), want)
	}
}

func TestRemoteUnresolvedInvokeIsNotExecutable(t *testing.T) {
	fetcher := newGatedFetcher()
	remote := newTestRemote(fetcher)

	deliver, delivered := collect()
	remote.Search(context.Background(), "", deliver)
	fetcher.release("", []command.Descriptor{{
		Name:   "Restart",
		Action: command.ActionDescriptor{Kind: "invoke", Fn: "restart"},
	}}, nil)

	got := testutil.RequireReceive(t, delivered, 5*time.Second, "delivery")
	if len(got) != 1 {
		t.Fatalf("delivered %v, want [Restart]", names(got))
	}
	if err := got[0].Action.Function(context.Background(), ""); !errors.Is(err, command.ErrNotExecutable) {
		t.Errorf("Function() = %v, want ErrNotExecutable", err)
	}
}

func TestUnavailableErrorUnwraps(t *testing.T) {
	cause := errors.New("timeout")
	err := error(&UnavailableError{Source: "remote", Query: "go", Err: cause})
	if !errors.Is(err, cause) {
		t.Error("UnavailableError does not unwrap to its cause")
	}
	if got := err.Error(); got != `source remote unavailable for query "go": timeout` {
		t.Errorf("Error() = %q", got)
	}
}
