package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vibevault/internal/models"
	"github.com/desertthunder/vibevault/internal/repositories"
	"github.com/desertthunder/vibevault/internal/server"
	"github.com/desertthunder/vibevault/internal/shared"
	tu "github.com/desertthunder/vibevault/internal/testing"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

// runApp runs the CLI with args against a fresh config path in a temp dir unless one is given.
func runApp(t *testing.T, r *Runner, args ...string) error {
	t.Helper()
	if r.configPath == "" {
		r.configPath = filepath.Join(t.TempDir(), "config.toml")
	}
	argv := append([]string{"vibevault", "--config", r.configPath}, args...)
	return newApp(r).Run(context.Background(), argv)
}

// gatewayServer serves the gateway routes over gw.
func gatewayServer(t *testing.T, gw *tu.MockGateway) *httptest.Server {
	t.Helper()
	srv := server.New(shared.DefaultConfig().Server, gw, quietLogger())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := quietLogger()
			output := &bytes.Buffer{}
			httpClient := &http.Client{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				ConfigPath: "/test/path/config.toml",
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.configPath != "/test/path/config.toml" {
				t.Errorf("expected configPath to be set, got %s", runner.configPath)
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
		})

		t.Run("with nil options uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
			if runner.httpClient != http.DefaultClient {
				t.Error("expected httpClient to default to http.DefaultClient")
			}
			if runner.getenv == nil {
				t.Error("expected getenv to default to os.Getenv")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if result := output.String(); result != expected {
				t.Errorf("expected %q, got %q", expected, result)
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			// channels cannot be marshaled to JSON
			err := runner.writeJSON(make(chan int), false)
			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("Hello %s, you have %d messages", "Alice", 5); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := "Hello Alice, you have 5 messages"
			if result := output.String(); result != expected {
				t.Errorf("expected %q, got %q", expected, result)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			if err := runner.writePlain("test"); err == nil {
				t.Error("expected write error")
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{Logger: quietLogger()})
		commands := runner.register()

		want := []string{"serve", "tui", "search", "playlist", "play", "setup", "cache"}
		if len(commands) != len(want) {
			t.Fatalf("expected %d commands, got %d", len(want), len(commands))
		}
		for i, name := range want {
			if commands[i].Name != name {
				t.Errorf("expected command %d to be %q, got %q", i, name, commands[i].Name)
			}
		}
	})
}

func TestLoadConfig(t *testing.T) {
	t.Run("missing file keeps defaults and applies env", func(t *testing.T) {
		env := map[string]string{"CLIENT_ID": "env-id", "VIBEVAULT_PORT": "4000"}
		runner := NewRunner(RunnerOpts{
			Logger: quietLogger(),
			Output: &bytes.Buffer{},
			Getenv: func(k string) string { return env[k] },
		})

		if err := runApp(t, runner, "setup", "config"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if runner.config.Credentials.Spotify.ClientID != "env-id" {
			t.Errorf("expected env client id, got %q", runner.config.Credentials.Spotify.ClientID)
		}
		if runner.config.Server.Port != 4000 {
			t.Errorf("expected env port 4000, got %d", runner.config.Server.Port)
		}
	})

	t.Run("reads file", func(t *testing.T) {
		path := writeConfig(t, "[server]\nport = 5005\n")
		runner := NewRunner(RunnerOpts{ConfigPath: path, Logger: quietLogger(), Output: &bytes.Buffer{}})

		if err := runApp(t, runner, "setup", "config"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if runner.config.Server.Port != 5005 {
			t.Errorf("expected port 5005, got %d", runner.config.Server.Port)
		}
		if runner.config.Gateway.PlaylistCap != 25 {
			t.Errorf("expected default playlist cap, got %d", runner.config.Gateway.PlaylistCap)
		}
	})

	t.Run("malformed file fails", func(t *testing.T) {
		path := writeConfig(t, "[server\nport = ")
		runner := NewRunner(RunnerOpts{ConfigPath: path, Logger: quietLogger(), Output: &bytes.Buffer{}})

		if err := runApp(t, runner, "setup", "config"); !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestClientCommands(t *testing.T) {
	t.Run("search", func(t *testing.T) {
		ts := gatewayServer(t, &tu.MockGateway{
			SearchFunc: func(ctx context.Context, q string, limit int) ([]models.Track, error) {
				return []models.Track{tu.MakeTrack("t1", "Dancing Queen", "ABBA", "")}, nil
			},
		})

		t.Run("plain output", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Logger: quietLogger(), Output: output})

			if err := runApp(t, runner, "search", "--server", ts.URL, "abba"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !strings.Contains(output.String(), "Dancing Queen") || !strings.Contains(output.String(), "id: t1") {
				t.Errorf("expected result line, got %q", output.String())
			}
		})

		t.Run("json output", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Logger: quietLogger(), Output: output})

			if err := runApp(t, runner, "search", "--server", ts.URL, "--json", "abba"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			var tracks []models.Track
			if err := json.Unmarshal(output.Bytes(), &tracks); err != nil {
				t.Fatalf("expected JSON output, got %q: %v", output.String(), err)
			}
			if len(tracks) != 1 || tracks[0].ID != "t1" {
				t.Errorf("unexpected tracks %+v", tracks)
			}
		})

		t.Run("requires query", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: quietLogger(), Output: &bytes.Buffer{}})
			if err := runApp(t, runner, "search", "--server", ts.URL); !errors.Is(err, shared.ErrMissingArgument) {
				t.Errorf("expected ErrMissingArgument, got %v", err)
			}
		})
	})

	t.Run("playlist", func(t *testing.T) {
		var expanded []string
		ts := gatewayServer(t, &tu.MockGateway{
			ExpandFunc: func(ctx context.Context, id string) ([]models.PlaylistRecord, error) {
				expanded = append(expanded, id)
				return []models.PlaylistRecord{
					{Song: "One", Artist: "A", AlbumCover: tu.Cover("https://img/1")},
					{Song: "Two", Artist: "B"},
				}, nil
			},
		})

		t.Run("url", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Logger: quietLogger(), Output: output})

			if err := runApp(t, runner, "playlist", "--server", ts.URL, "https://open.spotify.com/playlist/abc123?si=x"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if expanded[len(expanded)-1] != "abc123" {
				t.Errorf("expected playlist id 'abc123', got %v", expanded)
			}
			if !strings.Contains(output.String(), "One - A") {
				t.Errorf("expected record line, got %q", output.String())
			}
		})

		t.Run("export", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Logger: quietLogger(), Output: output})
			path := filepath.Join(t.TempDir(), "out.csv")

			if err := runApp(t, runner, "playlist", "--server", ts.URL, "--export", "csv", "--output", path, "abc123"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			content := tu.MustReadFile(t, path)
			if !strings.Contains(content, "One,A,,https://img/1") || !strings.Contains(content, "Two,B,,") {
				t.Errorf("unexpected export %q", content)
			}
			if !strings.Contains(output.String(), "Exported 2 tracks") {
				t.Errorf("expected export summary, got %q", output.String())
			}
		})

		t.Run("invalid url", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: quietLogger(), Output: &bytes.Buffer{}})
			err := runApp(t, runner, "playlist", "--server", ts.URL, "https://example.com/playlist/")
			if !errors.Is(err, shared.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	})

	t.Run("play", func(t *testing.T) {
		t.Run("success", func(t *testing.T) {
			ts := gatewayServer(t, &tu.MockGateway{
				PlaybackFunc: func(ctx context.Context, id string) (*models.Track, error) {
					track := tu.MakeTrack(id, "Waterloo", "ABBA", "")
					return &track, nil
				},
			})
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Logger: quietLogger(), Output: output})

			if err := runApp(t, runner, "play", "--server", ts.URL, "t9"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !strings.Contains(output.String(), "Playing") || !strings.Contains(output.String(), "Waterloo") {
				t.Errorf("expected playing line, got %q", output.String())
			}
		})

		t.Run("upstream failure", func(t *testing.T) {
			ts := gatewayServer(t, &tu.MockGateway{
				PlaybackFunc: func(ctx context.Context, id string) (*models.Track, error) {
					return nil, shared.ErrUpstream
				},
			})
			runner := NewRunner(RunnerOpts{Logger: quietLogger(), Output: &bytes.Buffer{}})

			if err := runApp(t, runner, "play", "--server", ts.URL, "t9"); !errors.Is(err, shared.ErrUpstream) {
				t.Errorf("expected ErrUpstream, got %v", err)
			}
		})
	})
}

func TestSetupCommands(t *testing.T) {
	t.Run("setup config", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{ConfigPath: path, Logger: quietLogger(), Output: output})

		if err := runApp(t, runner, "setup", "config"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		tu.AssertFileExists(t, path)

		output.Reset()
		if err := runApp(t, runner, "setup", "config"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "already exists") {
			t.Errorf("expected existing file notice, got %q", output.String())
		}
	})

	t.Run("setup database", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "cache.db")
		path := writeConfig(t, "[database]\npath = \""+filepath.ToSlash(dbPath)+"\"\n")
		runner := NewRunner(RunnerOpts{ConfigPath: path, Logger: quietLogger(), Output: &bytes.Buffer{}})

		if err := runApp(t, runner, "setup", "database"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		tu.AssertFileExists(t, dbPath)
	})

	t.Run("setup database requires path", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{Logger: quietLogger(), Output: &bytes.Buffer{}})
		if err := runApp(t, runner, "setup", "database"); !errors.Is(err, shared.ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}
	})
}

func TestCacheCommands(t *testing.T) {
	seed := func(t *testing.T, dbPath string, ids ...string) {
		t.Helper()
		db, err := shared.OpenCache(shared.DatabaseConfig{Path: dbPath})
		if err != nil {
			t.Fatalf("failed to open cache: %v", err)
		}
		defer db.Close()
		repo := repositories.NewTrackRepository(db)
		for _, id := range ids {
			if err := repo.Upsert(context.Background(), tu.MakeTrack(id, "Song "+id, "Artist", "")); err != nil {
				t.Fatalf("failed to seed track: %v", err)
			}
		}
	}

	t.Run("list and clear", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "cache.db")
		seed(t, dbPath, "a", "b")
		path := writeConfig(t, "[database]\npath = \""+filepath.ToSlash(dbPath)+"\"\n")

		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{ConfigPath: path, Logger: quietLogger(), Output: output})

		if err := runApp(t, runner, "cache", "list"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "Cached tracks (2 of 2)") || !strings.Contains(output.String(), "Song a") {
			t.Errorf("unexpected listing %q", output.String())
		}

		output.Reset()
		if err := runApp(t, runner, "cache", "clear"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "Removed 2 cached tracks") {
			t.Errorf("unexpected clear output %q", output.String())
		}
	})

	t.Run("disabled cache", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{Logger: quietLogger(), Output: &bytes.Buffer{}})
		if err := runApp(t, runner, "cache", "list"); !errors.Is(err, shared.ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}
	})
}

func TestBuildServer(t *testing.T) {
	fake := tu.NewFakeSpotify(t)
	fake.AddTrack(tu.MakeTrack("t1", "Dancing Queen", "ABBA", ""))
	fake.AddPlaylist("p1", "t1")

	cfg := shared.DefaultConfig()
	cfg.Credentials.Spotify.ClientID = "id"
	cfg.Credentials.Spotify.ClientSecret = "secret"
	cfg.Gateway.APIURL = fake.APIURL()
	cfg.Gateway.TokenURL = fake.TokenURL()
	cfg.Database.Path = ":memory:"

	runner := NewRunner(RunnerOpts{Logger: quietLogger()})
	srv, closer, err := runner.buildServer(cfg)
	if err != nil {
		t.Fatalf("failed to build server: %v", err)
	}
	defer closer.Close()

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	for range 2 {
		resp, err := http.Get(ts.URL + "/playlists/p1")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
	}

	if got := fake.TrackRequests.Load(); got != 1 {
		t.Errorf("expected second expansion to be served from the cache, got %d track requests", got)
	}
}
