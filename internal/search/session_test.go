package search

import (
	"context"
	"errors"
	"testing"

	"github.com/desertthunder/vibevault/internal/models"
	"github.com/desertthunder/vibevault/internal/shared"
	tu "github.com/desertthunder/vibevault/internal/testing"
)

func tracks(ids ...string) []models.Track {
	out := make([]models.Track, len(ids))
	for i, id := range ids {
		out[i] = tu.MakeTrack(id, "Song "+id, "Artist", "")
	}
	return out
}

func TestSession(t *testing.T) {
	t.Run("Starts Idle", func(t *testing.T) {
		s := NewSession(nil)
		if s.State() != Idle {
			t.Errorf("expected idle, got %s", s.State())
		}
		if len(s.Results()) != 0 {
			t.Error("expected no results")
		}
	})

	t.Run("Query Then Resolve", func(t *testing.T) {
		s := NewSession(nil)
		req, ok := s.SetQuery("abba")
		if !ok {
			t.Fatal("expected a request for a non-empty query")
		}
		if s.State() != Searching {
			t.Errorf("expected searching, got %s", s.State())
		}

		if !s.Resolve(req, tracks("1", "2"), nil) {
			t.Fatal("expected response to be applied")
		}
		if s.State() != Ready || len(s.Results()) != 2 {
			t.Errorf("expected ready with 2 results, got %s with %d", s.State(), len(s.Results()))
		}
	})

	t.Run("Empty Query Clears Results", func(t *testing.T) {
		s := NewSession(nil)
		req, _ := s.SetQuery("abba")
		s.Resolve(req, tracks("1"), nil)

		if _, ok := s.SetQuery(""); ok {
			t.Error("expected no request for empty query")
		}
		if s.State() != Idle || len(s.Results()) != 0 {
			t.Errorf("expected idle with no results, got %s with %d", s.State(), len(s.Results()))
		}
	})

	t.Run("Late Response After Clear Is Discarded", func(t *testing.T) {
		s := NewSession(nil)
		req, _ := s.SetQuery("abba")
		s.SetQuery("")

		if s.Resolve(req, tracks("1"), nil) {
			t.Error("expected stale response to be discarded")
		}
		if len(s.Results()) != 0 {
			t.Errorf("expected results to stay empty, got %d", len(s.Results()))
		}
		if s.State() != Idle {
			t.Errorf("expected idle, got %s", s.State())
		}
	})

	t.Run("Out Of Order Responses", func(t *testing.T) {
		s := NewSession(nil)
		first, _ := s.SetQuery("ab")
		second, _ := s.SetQuery("abba")

		if !s.Resolve(second, tracks("new"), nil) {
			t.Fatal("expected latest response to be applied")
		}
		if s.Resolve(first, tracks("old"), nil) {
			t.Error("expected superseded response to be discarded")
		}
		if got := s.Results(); len(got) != 1 || got[0].ID != "new" {
			t.Errorf("expected latest results, got %+v", got)
		}
	})

	t.Run("Same Query Retyped Supersedes Earlier Request", func(t *testing.T) {
		s := NewSession(nil)
		first, _ := s.SetQuery("abba")
		s.SetQuery("abb")
		third, _ := s.SetQuery("abba")

		if s.Resolve(first, tracks("old"), nil) {
			t.Error("expected earlier request for the same text to be discarded")
		}
		if !s.Resolve(third, tracks("new"), nil) {
			t.Error("expected current request to be applied")
		}
	})

	t.Run("Duplicate Resolve Is Ignored", func(t *testing.T) {
		s := NewSession(nil)
		req, _ := s.SetQuery("abba")
		s.Resolve(req, tracks("1"), nil)

		if s.Resolve(req, tracks("2"), nil) {
			t.Error("expected second resolution of the same request to be discarded")
		}
	})

	t.Run("Failure Clears Results", func(t *testing.T) {
		s := NewSession(nil)
		req, _ := s.SetQuery("abba")
		s.Resolve(req, tracks("1"), nil)

		req, _ = s.SetQuery("abba gold")
		if !s.Resolve(req, nil, shared.ErrUpstream) {
			t.Fatal("expected failure to be applied")
		}
		if s.State() != Failed || len(s.Results()) != 0 {
			t.Errorf("expected failed with no results, got %s with %d", s.State(), len(s.Results()))
		}
		if !errors.Is(s.Err(), shared.ErrUpstream) {
			t.Errorf("expected ErrUpstream, got %v", s.Err())
		}
	})

	t.Run("Requery Restarts Cycle From Failed", func(t *testing.T) {
		s := NewSession(nil)
		req, _ := s.SetQuery("x")
		s.Resolve(req, nil, errors.New("boom"))

		s.SetQuery("xy")
		if s.State() != Searching || s.Err() != nil {
			t.Errorf("expected searching with no error, got %s / %v", s.State(), s.Err())
		}
	})

	t.Run("Hung Request Stays Searching", func(t *testing.T) {
		s := NewSession(nil)
		s.SetQuery("abba")
		if s.State() != Searching {
			t.Errorf("expected searching, got %s", s.State())
		}
	})
}

func TestSessionRun(t *testing.T) {
	t.Run("Uses Searcher", func(t *testing.T) {
		client := &tu.MockClient{SearchFunc: func(ctx context.Context, q string) ([]models.Track, error) {
			return tracks("1"), nil
		}}
		s := NewSession(nil)
		req, _ := s.SetQuery("abba")

		if !s.Run(context.Background(), client, req) {
			t.Fatal("expected outcome to be applied")
		}
		if len(client.Queries) != 1 || client.Queries[0] != "abba" {
			t.Errorf("expected one search for 'abba', got %v", client.Queries)
		}
		if s.State() != Ready {
			t.Errorf("expected ready, got %s", s.State())
		}
	})

	t.Run("Idempotent For Same Query", func(t *testing.T) {
		client := &tu.MockClient{SearchFunc: func(ctx context.Context, q string) ([]models.Track, error) {
			return tracks("1", "2"), nil
		}}
		s := NewSession(nil)

		req, _ := s.SetQuery("abba")
		s.Run(context.Background(), client, req)
		first := s.Results()

		req, _ = s.SetQuery("abba")
		s.Run(context.Background(), client, req)
		second := s.Results()

		if len(first) != len(second) || first[0].ID != second[0].ID {
			t.Errorf("expected identical results, got %v and %v", first, second)
		}
	})

	t.Run("Empty Input From Searcher Resolves Empty", func(t *testing.T) {
		client := &tu.MockClient{SearchFunc: func(ctx context.Context, q string) ([]models.Track, error) {
			return nil, shared.ErrEmptyInput
		}}
		s := NewSession(nil)
		req, _ := s.SetQuery("abba")
		s.Run(context.Background(), client, req)

		if s.State() != Ready || len(s.Results()) != 0 {
			t.Errorf("expected ready with no results, got %s", s.State())
		}
	})
}
