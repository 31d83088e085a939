package refloader

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
)

// pagedFetch serves fixed pages of 2 items per term.
func pagedFetch(data map[string][]string) Fetch[string] {
	const perPage = 2
	return func(_ context.Context, term string, page int) ([]string, int, error) {
		all := data[term]
		start := (page - 1) * perPage
		if start > len(all) {
			start = len(all)
		}
		end := start + perPage
		if end > len(all) {
			end = len(all)
		}
		return all[start:end], len(all), nil
	}
}

func TestLoadAll_AppendsInRequestOrder(t *testing.T) {
	l := New(pagedFetch(map[string][]string{
		"den": {"dengue clásico", "dengue grave", "dengue hemorrágico", "dengue con alarma", "denv-2"},
	}), zap.NewNop())

	l.SetTerm("den")
	items, err := l.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}
	if len(items) != 5 {
		t.Fatalf("items = %d, want 5", len(items))
	}
	want := []string{"dengue clásico", "dengue grave", "dengue hemorrágico", "dengue con alarma", "denv-2"}
	for i := range want {
		if items[i] != want[i] {
			t.Errorf("items[%d] = %q, want %q", i, items[i], want[i])
		}
	}
	if l.Total() != 5 {
		t.Errorf("total = %d, want 5", l.Total())
	}
}

func TestLoadNext_DiscardsStaleTermResponse(t *testing.T) {
	var l *Loader[string]

	// Fetch for the first term switches the loader to a new term while its
	// own response is still "in flight", making that response stale.
	fetch := func(_ context.Context, term string, page int) ([]string, int, error) {
		if term == "old" {
			l.SetTerm("new")
			return []string{"stale-a", "stale-b"}, 2, nil
		}
		return []string{"fresh"}, 1, nil
	}
	l = New(fetch, zap.NewNop())

	l.SetTerm("old")
	done, err := l.LoadNext(context.Background())
	if err != nil {
		t.Fatalf("LoadNext() error = %v", err)
	}
	if done {
		t.Error("stale page reported done")
	}
	if n := len(l.Items()); n != 0 {
		t.Errorf("stale items appended: %v", l.Items())
	}

	// Driving again now loads the new term cleanly.
	items, err := l.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}
	if len(items) != 1 || items[0] != "fresh" {
		t.Errorf("items = %v, want [fresh]", items)
	}
}

func TestSetTerm_SameTermKeepsAccumulation(t *testing.T) {
	l := New(pagedFetch(map[string][]string{"a": {"x", "y", "z"}}), zap.NewNop())

	l.SetTerm("a")
	if _, err := l.LoadNext(context.Background()); err != nil {
		t.Fatal(err)
	}
	l.SetTerm("a") // no-op: same term
	if n := len(l.Items()); n != 2 {
		t.Errorf("items = %d, want 2 after re-setting same term", n)
	}

	l.SetTerm("b") // different term resets
	if n := len(l.Items()); n != 0 {
		t.Errorf("items = %d, want 0 after term change", n)
	}
}

func TestLoadNext_EmptyResult(t *testing.T) {
	l := New(pagedFetch(map[string][]string{}), zap.NewNop())
	l.SetTerm("nothing")

	done, err := l.LoadNext(context.Background())
	if err != nil {
		t.Fatalf("LoadNext() error = %v", err)
	}
	if !done {
		t.Error("empty result not reported done")
	}
}

func TestLoadAll_PropagatesFetchError(t *testing.T) {
	wantErr := errors.New("backend down")
	l := New(func(context.Context, string, int) ([]string, int, error) {
		return nil, 0, wantErr
	}, zap.NewNop())

	l.SetTerm("x")
	if _, err := l.LoadAll(context.Background()); !errors.Is(err, wantErr) {
		t.Errorf("LoadAll() error = %v, want %v", err, wantErr)
	}
}

func TestLoadAll_HonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	l := New(pagedFetch(map[string][]string{"a": {"x"}}), zap.NewNop())
	l.SetTerm("a")
	if _, err := l.LoadAll(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("LoadAll() error = %v, want context.Canceled", err)
	}
}
