package provider

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/desertthunder/trackdown/internal/shared"
)

// fakeRunner records invocations and replays canned output.
type fakeRunner struct {
	stdout string
	stderr string
	err    error
	calls  [][]string
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) (string, string, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	return f.stdout, f.stderr, f.err
}

func newTestProvider(r Runner) *YTDLP {
	y := NewYTDLP(shared.ProviderConfig{RateLimit: 1000})
	y.SetRunner(r)
	return y
}

func TestSearch(t *testing.T) {
	tc := []struct {
		name     string
		stdout   string
		err      error
		limit    int
		wantLen  int
		wantErr  bool
		wantSpec string
	}{
		{
			name: "two entries",
			stdout: `{"entries":[` +
				`{"id":"a1","title":"Song A","uploader":"Up A","duration":240,"webpage_url":"https://www.youtube.com/watch?v=a1"},` +
				`{"id":"b2","title":"Song B","uploader":"Up B","duration":180,"webpage_url":"https://www.youtube.com/watch?v=b2"}]}`,
			limit:    3,
			wantLen:  2,
			wantSpec: "ytsearch3:hello world",
		},
		{
			name:     "malformed json degrades to empty",
			stdout:   "WARNING: not json at all",
			limit:    1,
			wantLen:  0,
			wantSpec: "ytsearch1:hello world",
		},
		{
			name:    "entries without ids skipped",
			stdout:  `{"entries":[{"title":"ghost"},{"id":"x","title":"real"}]}`,
			limit:   3,
			wantLen: 1,
		},
		{
			name:    "hard failure with no output",
			err:     errors.New("exit status 1"),
			limit:   1,
			wantErr: true,
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{stdout: tt.stdout, err: tt.err}
			y := newTestProvider(runner)

			tracks, err := y.Search(context.Background(), "hello world", tt.limit)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Search() expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Search() unexpected error: %v", err)
			}
			if len(tracks) != tt.wantLen {
				t.Errorf("len(tracks) = %d, want %d", len(tracks), tt.wantLen)
			}
			if tt.wantSpec != "" {
				args := runner.calls[0]
				if args[len(args)-1] != tt.wantSpec {
					t.Errorf("search spec = %q, want %q", args[len(args)-1], tt.wantSpec)
				}
			}
		})
	}
}

func TestFetch(t *testing.T) {
	t.Run("full metadata", func(t *testing.T) {
		runner := &fakeRunner{stdout: `{"id":"a1","title":"Song A","uploader":"Up","duration":200.5,"webpage_url":"https://www.youtube.com/watch?v=a1"}`}
		y := newTestProvider(runner)

		track, err := y.Fetch(context.Background(), "https://www.youtube.com/watch?v=a1")
		if err != nil {
			t.Fatalf("Fetch() unexpected error: %v", err)
		}
		if track.Title != "Song A" || track.Duration != 200.5 {
			t.Errorf("Fetch() = %+v", track)
		}
	})

	t.Run("age restriction from stderr", func(t *testing.T) {
		runner := &fakeRunner{stderr: "ERROR: Sign in to confirm your age", err: errors.New("exit status 1")}
		y := newTestProvider(runner)

		_, err := y.Fetch(context.Background(), "https://www.youtube.com/watch?v=a1")
		if !errors.Is(err, shared.ErrAgeRestricted) {
			t.Errorf("Fetch() error = %v, want ErrAgeRestricted", err)
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		runner := &fakeRunner{stdout: "nope"}
		y := newTestProvider(runner)

		_, err := y.Fetch(context.Background(), "https://www.youtube.com/watch?v=a1")
		if !errors.Is(err, shared.ErrProviderParse) {
			t.Errorf("Fetch() error = %v, want ErrProviderParse", err)
		}
	})
}

func TestDownload(t *testing.T) {
	t.Run("flag assembly", func(t *testing.T) {
		runner := &fakeRunner{}
		y := newTestProvider(runner)

		err := y.Download(context.Background(), DownloadRequest{
			Target:               "https://www.youtube.com/watch?v=a1",
			ArchivePath:          "/out/pl/downloaded.txt",
			OutputTemplate:       "/out/pl/001 - Song.%(ext)s",
			TranscodeMP3:         true,
			ExcludeInstrumentals: true,
		})
		if err != nil {
			t.Fatalf("Download() unexpected error: %v", err)
		}

		joined := strings.Join(runner.calls[0], " ")
		for _, want := range []string{
			"--download-archive /out/pl/downloaded.txt",
			"-f bestaudio[ext=m4a]/bestaudio",
			"--audio-format mp3",
			"--reject-title instrumental",
		} {
			if !strings.Contains(joined, want) {
				t.Errorf("args missing %q: %s", want, joined)
			}
		}
		if strings.Contains(joined, "--remux-video") {
			t.Error("transcode run should not remux")
		}
	})

	t.Run("remux default", func(t *testing.T) {
		runner := &fakeRunner{}
		y := newTestProvider(runner)

		if err := y.Download(context.Background(), DownloadRequest{
			Target:         SearchSpec("some song"),
			ArchivePath:    "a.txt",
			OutputTemplate: "t.%(ext)s",
		}); err != nil {
			t.Fatalf("Download() unexpected error: %v", err)
		}

		joined := strings.Join(runner.calls[0], " ")
		if !strings.Contains(joined, "--remux-video m4a") {
			t.Errorf("args missing remux flag: %s", joined)
		}
		if !strings.Contains(joined, "ytsearch1:some song") {
			t.Errorf("args missing search spec target: %s", joined)
		}
	})

	t.Run("age restricted download", func(t *testing.T) {
		runner := &fakeRunner{stderr: "ERROR: Sign in to confirm your age ...", err: errors.New("exit status 1")}
		y := newTestProvider(runner)

		err := y.Download(context.Background(), DownloadRequest{Target: "x", ArchivePath: "a", OutputTemplate: "t"})
		if !errors.Is(err, shared.ErrAgeRestricted) {
			t.Errorf("Download() error = %v, want ErrAgeRestricted", err)
		}
	})

	t.Run("other failure wraps stderr", func(t *testing.T) {
		runner := &fakeRunner{stderr: "ERROR: video unavailable", err: errors.New("exit status 1")}
		y := newTestProvider(runner)

		err := y.Download(context.Background(), DownloadRequest{Target: "x", ArchivePath: "a", OutputTemplate: "t"})
		if !errors.Is(err, shared.ErrProviderFailed) {
			t.Errorf("Download() error = %v, want ErrProviderFailed", err)
		}
		if !strings.Contains(err.Error(), "video unavailable") {
			t.Errorf("Download() error should carry diagnostic text: %v", err)
		}
	})
}
