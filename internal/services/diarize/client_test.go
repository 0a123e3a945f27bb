package diarize

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func writeAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audio.wav")
	if err := os.WriteFile(path, []byte("RIFF"), 0o644); err != nil {
		t.Fatalf("write audio: %v", err)
	}
	return path
}

func TestDiarizeFlatObjects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("expected multipart form: %v", err)
		}
		if _, _, err := r.FormFile("file"); err != nil {
			t.Errorf("expected file part: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"turns":[{"speaker":"SPEAKER_00","start":0.5,"end":2.0},{"speaker":"SPEAKER_01","start":2.4,"end":4.1}]}`))
	}))
	defer server.Close()

	client := NewClient(Config{URL: server.URL})
	turns, err := client.Diarize(context.Background(), writeAudio(t))
	if err != nil {
		t.Fatalf("Diarize: %v", err)
	}
	if len(turns) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(turns))
	}
	if turns[0].Speaker != "SPEAKER_00" || turns[0].Start != 0.5 {
		t.Fatalf("unexpected first turn: %#v", turns[0])
	}
	if turns[1].Speaker != "SPEAKER_01" || turns[1].End != 4.1 {
		t.Fatalf("unexpected second turn: %#v", turns[1])
	}
}

func TestDiarizeTupleShapes(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"flat tuple", `[[{"start":1.0,"end":3.0},"A","SPEAKER_00"]]`},
		{"nested tuple", `[[[{"start":1.0,"end":3.0},"A"],"SPEAKER_00"]]`},
		{"segment pair", `[[[1.0,3.0],"SPEAKER_00"]]`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tc.body))
			}))
			defer server.Close()

			client := NewClient(Config{URL: server.URL})
			turns, err := client.Diarize(context.Background(), writeAudio(t))
			if err != nil {
				t.Fatalf("Diarize: %v", err)
			}
			if len(turns) != 1 {
				t.Fatalf("expected 1 turn, got %d", len(turns))
			}
			if turns[0].Speaker != "SPEAKER_00" || turns[0].Start != 1.0 || turns[0].End != 3.0 {
				t.Fatalf("unexpected turn: %#v", turns[0])
			}
		})
	}
}

func TestDiarizeEmptyTurns(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient(Config{URL: server.URL})
	turns, err := client.Diarize(context.Background(), writeAudio(t))
	if err != nil {
		t.Fatalf("Diarize: %v", err)
	}
	if len(turns) != 0 {
		t.Fatalf("expected no turns, got %d", len(turns))
	}
}

func TestDiarizeServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(Config{URL: server.URL})
	if _, err := client.Diarize(context.Background(), writeAudio(t)); err == nil {
		t.Fatal("expected error on http 500")
	}
}

func TestDiarizeUnexpectedTupleLength(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[[1,2,3,4]]`))
	}))
	defer server.Close()

	client := NewClient(Config{URL: server.URL})
	if _, err := client.Diarize(context.Background(), writeAudio(t)); err == nil {
		t.Fatal("expected error for unexpected tuple length")
	}
}

func TestDiarizeRequiresURL(t *testing.T) {
	client := NewClient(Config{})
	if _, err := client.Diarize(context.Background(), "/tmp/a.wav"); err == nil {
		t.Fatal("expected error when URL missing")
	}
}

func TestDiarizeTrackIndex(t *testing.T) {
	cases := []struct {
		name string
		body string
		want int
	}{
		{"flat object", `[{"speaker":"SPEAKER_00","start":1.0,"end":3.0,"track_index":2}]`, 2},
		{"numeric tuple id", `[[{"start":1.0,"end":3.0},2,"SPEAKER_00"]]`, 2},
		{"numeric string id", `[[[{"start":1.0,"end":3.0},"2"],"SPEAKER_00"]]`, 2},
		{"opaque id", `[[[{"start":1.0,"end":3.0},"A"],"SPEAKER_00"]]`, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tc.body))
			}))
			defer server.Close()

			client := NewClient(Config{URL: server.URL})
			turns, err := client.Diarize(context.Background(), writeAudio(t))
			if err != nil {
				t.Fatalf("Diarize: %v", err)
			}
			if len(turns) != 1 || turns[0].TrackIndex != tc.want {
				t.Fatalf("expected track index %d, got %#v", tc.want, turns)
			}
		})
	}
}
