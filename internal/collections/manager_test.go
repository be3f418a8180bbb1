package collections

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/skipify/internal/models"
	"github.com/desertthunder/skipify/internal/repositories"
	"github.com/desertthunder/skipify/internal/services"
	"github.com/desertthunder/skipify/internal/shared"
	tu "github.com/desertthunder/skipify/internal/testing"
)

var online = tu.StaticSession{Online: true, Token: "tok1"}

func newPlaylistManager(t *testing.T, store repositories.KeyValueStore, remote Remote[*models.Playlist], session Session) *Manager[*models.Playlist] {
	t.Helper()
	m, err := NewManager(Config[*models.Playlist]{
		Kind:       "playlists",
		StorageKey: PlaylistsKey,
		Store:      store,
		Remote:     remote,
		Session:    session,
	})
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}
	return m
}

func TestNewManager(t *testing.T) {
	t.Run("Requires dependencies", func(t *testing.T) {
		_, err := NewManager(Config[*models.Song]{StorageKey: SongsKey})
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("Requires storage key", func(t *testing.T) {
		_, err := NewManager(Config[*models.Song]{
			Store:   repositories.NewMemoryStore(),
			Remote:  &tu.FakeRemote[*models.Song]{},
			Session: online,
		})
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("Starts empty and not ready", func(t *testing.T) {
		m := newPlaylistManager(t, repositories.NewMemoryStore(), &tu.FakeRemote[*models.Playlist]{}, online)
		snap := m.Snapshot()
		if snap.Ready || snap.Loading || len(snap.Local) != 0 || len(snap.Remote) != 0 {
			t.Errorf("unexpected initial snapshot %+v", snap)
		}
	})
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()

	t.Run("Connected loads both sequences", func(t *testing.T) {
		store := repositories.NewMemoryStore()
		store.Set(ctx, PlaylistsKey, `[{"id":"local_1","name":"Morning","songs":[]}]`)
		remote := &tu.FakeRemote[*models.Playlist]{Items: []*models.Playlist{{ID: "p1", Name: "Road Trip"}}}

		m := newPlaylistManager(t, store, remote, online)
		if err := m.Initialize(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		snap := m.Snapshot()
		if !snap.Ready || snap.Loading {
			t.Errorf("expected ready and not loading, got %+v", snap)
		}
		if len(snap.Local) != 1 || snap.Local[0].Provenance() != models.SourceLocal {
			t.Errorf("unexpected local items %+v", snap.Local)
		}
		if len(snap.Remote) != 1 || snap.Remote[0].Provenance() != models.SourceRemote {
			t.Errorf("unexpected remote items %+v", snap.Remote)
		}
	})

	t.Run("Disconnected never touches the network", func(t *testing.T) {
		store := repositories.NewMemoryStore()
		store.Set(ctx, SongsKey, `[{"id":"local_a","title":"A"},{"id":"local_b","title":"B"}]`)

		counter := &tu.CountingTransport{}
		client := services.NewClient("http://127.0.0.1:1", services.WithHTTPClient(&http.Client{Transport: counter}))

		lib, err := NewLibrary(Config[*models.Song]{
			Store:   store,
			Remote:  client.Songs(),
			Session: tu.StaticSession{Online: false},
		}, nil)
		if err != nil {
			t.Fatalf("failed to create library: %v", err)
		}

		if err := lib.Initialize(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		snap := lib.Snapshot()
		if len(snap.Local) != 2 {
			t.Errorf("expected 2 local songs, got %d", len(snap.Local))
		}
		if len(snap.Remote) != 0 {
			t.Errorf("expected no remote songs, got %d", len(snap.Remote))
		}
		if counter.Calls() != 0 {
			t.Errorf("expected no network calls, got %d", counter.Calls())
		}
	})

	t.Run("Connected without credential skips fetch", func(t *testing.T) {
		remote := &tu.FakeRemote[*models.Playlist]{}
		m := newPlaylistManager(t, repositories.NewMemoryStore(), remote, tu.StaticSession{Online: true})

		if err := m.Refresh(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if remote.CallCount() != 0 {
			t.Errorf("expected no remote calls, got %d", remote.CallCount())
		}
	})

	t.Run("Fetch failure clears remote", func(t *testing.T) {
		remote := &tu.FakeRemote[*models.Playlist]{Items: []*models.Playlist{{ID: "p1", Name: "Road Trip"}}}
		m := newPlaylistManager(t, repositories.NewMemoryStore(), remote, online)
		m.Initialize(ctx)

		remote.Err = shared.Timeout(context.DeadlineExceeded)
		err := m.Refresh(ctx)

		if !errors.Is(err, shared.ErrTimeout) {
			t.Errorf("expected ErrTimeout, got %v", err)
		}
		if snap := m.Snapshot(); len(snap.Remote) != 0 || !snap.Ready {
			t.Errorf("expected empty remote and ready, got %+v", snap)
		}
	})

	t.Run("Timeout against a slow server", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}))
		defer server.Close()

		client := services.NewClient(server.URL, services.WithTimeouts(50*time.Millisecond, 0))
		m := newPlaylistManager(t, repositories.NewMemoryStore(), client.Playlists(), online)

		err := m.Refresh(ctx)
		f, ok := shared.AsFailure(err)
		if !ok || f.Kind != shared.FailureTimeout {
			t.Errorf("expected timeout failure, got %v", err)
		}
		if len(m.Snapshot().Remote) != 0 {
			t.Error("expected empty remote sequence")
		}
	})

	t.Run("Local load survives storage failure", func(t *testing.T) {
		remote := &tu.FakeRemote[*models.Playlist]{Items: []*models.Playlist{{ID: "p1"}}}
		m := newPlaylistManager(t, tu.FailingStore{}, remote, online)

		if err := m.Refresh(ctx); err != nil {
			t.Fatalf("storage failure should not surface: %v", err)
		}
		snap := m.Snapshot()
		if snap.Local == nil || len(snap.Local) != 0 || len(snap.Remote) != 1 {
			t.Errorf("unexpected snapshot %+v", snap)
		}
	})
}

func TestLocalMutations(t *testing.T) {
	ctx := context.Background()

	t.Run("CreateLocal then Refresh keeps item at head exactly once", func(t *testing.T) {
		store := repositories.NewMemoryStore()
		m := newPlaylistManager(t, store, &tu.FakeRemote[*models.Playlist]{}, online)
		m.Initialize(ctx)

		m.CreateLocal(ctx, &models.Playlist{ID: "local_1", Name: "First"})
		m.CreateLocal(ctx, &models.Playlist{ID: "local_2", Name: "Second"})

		if err := m.Refresh(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		ids := models.IDs(m.Snapshot().Local)
		if strings.Join(ids, ",") != "local_2,local_1" {
			t.Errorf("expected newest first, got %v", ids)
		}
	})

	t.Run("Snapshots and lookups are copies", func(t *testing.T) {
		remote := &tu.FakeRemote[*models.Playlist]{Items: []*models.Playlist{{ID: "p1", Name: "Road Trip", Songs: []string{"s1"}}}}
		m := newPlaylistManager(t, repositories.NewMemoryStore(), remote, online)
		m.Initialize(ctx)
		m.CreateLocal(ctx, &models.Playlist{ID: "local_1", Name: "First", Songs: []string{"s1"}})

		snap := m.Snapshot()
		snap.Local[0].Name = "Edited"
		snap.Local[0].Songs[0] = "s9"
		snap.Remote[0].Name = "Edited"

		found, _ := m.FindLocal("local_1")
		found.Songs = append(found.Songs, "s2")

		local, _ := m.FindLocal("local_1")
		if local.Name != "First" || strings.Join(local.Songs, ",") != "s1" {
			t.Errorf("local entity changed through a copy: %+v", local)
		}
		if remote, _ := m.FindRemote("p1"); remote.Name != "Road Trip" {
			t.Errorf("remote entity changed through a snapshot: %+v", remote)
		}
	})

	t.Run("Duplicate CreateLocal is a no-op", func(t *testing.T) {
		m := newPlaylistManager(t, repositories.NewMemoryStore(), &tu.FakeRemote[*models.Playlist]{}, online)

		if !m.CreateLocal(ctx, &models.Playlist{ID: "local_1", Name: "First"}) {
			t.Fatal("first create should succeed")
		}
		if m.CreateLocal(ctx, &models.Playlist{ID: "local_1", Name: "Renamed"}) {
			t.Error("duplicate create should report false")
		}

		snap := m.Snapshot()
		if len(snap.Local) != 1 || snap.Local[0].Name != "First" {
			t.Errorf("duplicate create changed state: %+v", snap.Local)
		}
	})

	t.Run("Double DeleteLocal is a no-op", func(t *testing.T) {
		store := repositories.NewMemoryStore()
		m := newPlaylistManager(t, store, &tu.FakeRemote[*models.Playlist]{}, online)
		m.CreateLocal(ctx, &models.Playlist{ID: "local_1"})
		m.CreateLocal(ctx, &models.Playlist{ID: "local_2"})

		if !m.DeleteLocal(ctx, "local_1") {
			t.Fatal("first delete should succeed")
		}
		before, _, _ := store.Get(ctx, PlaylistsKey)

		if m.DeleteLocal(ctx, "local_1") {
			t.Error("second delete should report false")
		}
		after, _, _ := store.Get(ctx, PlaylistsKey)

		if before != after {
			t.Errorf("second delete changed storage: %s -> %s", before, after)
		}
		if ids := models.IDs(m.Snapshot().Local); len(ids) != 1 || ids[0] != "local_2" {
			t.Errorf("unexpected local ids %v", ids)
		}
	})

	t.Run("Mutations persist verbatim", func(t *testing.T) {
		store := repositories.NewMemoryStore()
		m := newPlaylistManager(t, store, &tu.FakeRemote[*models.Playlist]{}, online)
		m.CreateLocal(ctx, &models.Playlist{ID: "local_1", Name: "Morning", Songs: []string{"s1"}})

		raw, _, _ := store.Get(ctx, PlaylistsKey)
		var stored []models.Playlist
		if err := json.Unmarshal([]byte(raw), &stored); err != nil {
			t.Fatalf("stored value is not JSON: %v", err)
		}
		if len(stored) != 1 || stored[0].Name != "Morning" || stored[0].Origin != models.SourceLocal {
			t.Errorf("unexpected stored value %+v", stored)
		}
	})

	t.Run("UpdateLocal replaces by id", func(t *testing.T) {
		m := newPlaylistManager(t, repositories.NewMemoryStore(), &tu.FakeRemote[*models.Playlist]{}, online)
		m.CreateLocal(ctx, &models.Playlist{ID: "local_1", Name: "Old"})

		if !m.UpdateLocal(ctx, &models.Playlist{ID: "local_1", Name: "New"}) {
			t.Fatal("update should succeed")
		}
		if m.UpdateLocal(ctx, &models.Playlist{ID: "local_9", Name: "Ghost"}) {
			t.Error("update of absent id should report false")
		}
		if p, _ := m.FindLocal("local_1"); p.Name != "New" {
			t.Errorf("expected New, got %s", p.Name)
		}
	})

	t.Run("Storage failure keeps memory authoritative", func(t *testing.T) {
		m := newPlaylistManager(t, tu.FailingStore{}, &tu.FakeRemote[*models.Playlist]{}, online)

		if !m.CreateLocal(ctx, &models.Playlist{ID: "local_1"}) {
			t.Fatal("create should succeed in memory")
		}
		if len(m.Snapshot().Local) != 1 {
			t.Error("expected item in memory despite failed persistence")
		}
	})

	t.Run("Empty id is rejected", func(t *testing.T) {
		m := newPlaylistManager(t, repositories.NewMemoryStore(), &tu.FakeRemote[*models.Playlist]{}, online)
		if m.CreateLocal(ctx, &models.Playlist{Name: "No id"}) {
			t.Error("create without id should report false")
		}
	})

	t.Run("Snapshots are isolated", func(t *testing.T) {
		m := newPlaylistManager(t, repositories.NewMemoryStore(), &tu.FakeRemote[*models.Playlist]{}, online)
		m.CreateLocal(ctx, &models.Playlist{ID: "local_1"})

		snap := m.Snapshot()
		m.DeleteLocal(ctx, "local_1")

		if len(snap.Local) != 1 {
			t.Error("earlier snapshot changed after delete")
		}
	})

	t.Run("Concurrent creates all land", func(t *testing.T) {
		m := newPlaylistManager(t, repositories.NewMemoryStore(), &tu.FakeRemote[*models.Playlist]{}, online)

		var wg sync.WaitGroup
		for i := range 20 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				m.CreateLocal(ctx, &models.Playlist{ID: fmt.Sprintf("local_%d", i)})
			}()
		}
		wg.Wait()

		if n := len(m.Snapshot().Local); n != 20 {
			t.Errorf("expected 20 playlists, got %d", n)
		}
	})
}

// apiStub serves the playlist endpoints from a slice and records the request order.
type apiStub struct {
	mu        sync.Mutex
	playlists []*models.Playlist
	requests  []string
	deleteErr int
}

func (s *apiStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, r.Method+" "+r.URL.Path)

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/playlists/list":
		json.NewEncoder(w).Encode(s.playlists)
	case r.Method == http.MethodPost && r.URL.Path == "/playlists/create":
		var body struct {
			Name  string   `json:"name"`
			Songs []string `json:"songs"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		p := &models.Playlist{ID: fmt.Sprintf("p%d", len(s.playlists)+1), Name: body.Name, Songs: body.Songs}
		s.playlists = append(s.playlists, p)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"playlist": p})
	case r.Method == http.MethodPut && strings.HasPrefix(r.URL.Path, "/playlists/"):
		var body struct {
			Songs []string `json:"songs"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		id := strings.TrimPrefix(r.URL.Path, "/playlists/")
		for _, p := range s.playlists {
			if p.ID == id {
				p.Songs = body.Songs
			}
		}
	case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/playlists/"):
		if s.deleteErr != 0 {
			w.WriteHeader(s.deleteErr)
			w.Write([]byte(`{"error":"not found"}`))
			return
		}
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (s *apiStub) log() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return strings.Join(s.requests, "|")
}

func TestRemoteMutations(t *testing.T) {
	ctx := context.Background()

	t.Run("CreateRemote re-fetches the server's set", func(t *testing.T) {
		stub := &apiStub{}
		server := httptest.NewServer(stub)
		defer server.Close()

		m := newPlaylistManager(t, repositories.NewMemoryStore(), services.NewClient(server.URL).Playlists(), online)

		if err := m.CreateRemote(ctx, &models.Playlist{ID: "ignored", Name: "Road Trip"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		remote := m.Snapshot().Remote
		if len(remote) != 1 || remote[0].ID != "p1" || remote[0].Name != "Road Trip" {
			t.Errorf("expected exactly the server's p1, got %+v", remote)
		}
		if got := stub.log(); got != "POST /playlists/create|GET /playlists/list" {
			t.Errorf("unexpected request order %q", got)
		}
	})

	t.Run("DeleteRemote failure leaves remote unchanged", func(t *testing.T) {
		stub := &apiStub{playlists: []*models.Playlist{{ID: "p1", Name: "Road Trip"}}, deleteErr: http.StatusNotFound}
		server := httptest.NewServer(stub)
		defer server.Close()

		m := newPlaylistManager(t, repositories.NewMemoryStore(), services.NewClient(server.URL).Playlists(), online)
		m.Initialize(ctx)

		err := m.DeleteRemote(ctx, "p1")
		f, ok := shared.AsFailure(err)
		if !ok || f.Kind != shared.FailureRejected || f.Status != 404 || f.Detail != "not found" {
			t.Fatalf("expected Rejected(404, \"not found\"), got %v", err)
		}
		if !IsNotFound(err) {
			t.Error("expected IsNotFound to recognise the rejection")
		}
		if _, ok := m.FindRemote("p1"); !ok {
			t.Error("p1 should still be in the remote sequence")
		}
	})

	t.Run("DeleteRemote success drops without re-fetch", func(t *testing.T) {
		stub := &apiStub{playlists: []*models.Playlist{{ID: "p1"}, {ID: "p2"}}}
		server := httptest.NewServer(stub)
		defer server.Close()

		m := newPlaylistManager(t, repositories.NewMemoryStore(), services.NewClient(server.URL).Playlists(), online)
		m.Initialize(ctx)

		if err := m.DeleteRemote(ctx, "p1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ids := models.IDs(m.Snapshot().Remote); len(ids) != 1 || ids[0] != "p2" {
			t.Errorf("expected only p2, got %v", ids)
		}
		if got := stub.log(); got != "GET /playlists/list|DELETE /playlists/p1" {
			t.Errorf("unexpected request order %q", got)
		}
	})

	t.Run("Remote operations require a credential", func(t *testing.T) {
		remote := &tu.FakeRemote[*models.Playlist]{}
		m := newPlaylistManager(t, repositories.NewMemoryStore(), remote, tu.StaticSession{})

		errs := []error{
			m.CreateRemote(ctx, &models.Playlist{Name: "x"}),
			m.DeleteRemote(ctx, "p1"),
			m.UpdateRemote(ctx, &models.Playlist{ID: "p1"}),
		}
		for i, err := range errs {
			if !errors.Is(err, shared.ErrNotAuthenticated) {
				t.Errorf("call %d: expected ErrNotAuthenticated, got %v", i, err)
			}
		}
		if remote.CallCount() != 0 {
			t.Errorf("expected no remote calls, got %d", remote.CallCount())
		}
	})

	t.Run("UpdateRemote needs an updater", func(t *testing.T) {
		m, err := NewManager(Config[*models.FavoriteMark]{
			StorageKey: FavoritesKey,
			Store:      repositories.NewMemoryStore(),
			Remote:     services.NewClient("").Favorites(),
			Session:    online,
		})
		if err != nil {
			t.Fatalf("failed to create manager: %v", err)
		}
		if err := m.UpdateRemote(ctx, models.NewFavoriteMark("s1")); !errors.Is(err, shared.ErrNotImplemented) {
			t.Errorf("expected ErrNotImplemented, got %v", err)
		}
	})
}

func TestEvents(t *testing.T) {
	ctx := context.Background()

	t.Run("Emits tagged events", func(t *testing.T) {
		events := make(chan Event, 8)
		m, _ := NewManager(Config[*models.Playlist]{
			Kind:       "playlists",
			StorageKey: PlaylistsKey,
			Store:      repositories.NewMemoryStore(),
			Remote:     &tu.FakeRemote[*models.Playlist]{},
			Session:    online,
			Events:     events,
		})

		m.CreateLocal(ctx, &models.Playlist{ID: "local_1", Name: "Morning"})

		ev := <-events
		if ev.Kind != "playlists" || ev.Op != OpCreateLocal || ev.ID != "local_1" {
			t.Errorf("unexpected event %+v", ev)
		}
		if !strings.Contains(ev.String(), "create_local") {
			t.Errorf("unexpected event string %q", ev.String())
		}
	})

	t.Run("Full channel never blocks", func(t *testing.T) {
		events := make(chan Event)
		m, _ := NewManager(Config[*models.Playlist]{
			StorageKey: PlaylistsKey,
			Store:      repositories.NewMemoryStore(),
			Remote:     &tu.FakeRemote[*models.Playlist]{},
			Session:    online,
			Events:     events,
		})

		done := make(chan struct{})
		go func() {
			m.CreateLocal(ctx, &models.Playlist{ID: "local_1"})
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("CreateLocal blocked on an unread event channel")
		}
	})

	t.Run("Failure events carry the error", func(t *testing.T) {
		ev := Event{Kind: "songs", Op: OpFetchRemote, Err: shared.Unauthenticated()}
		if !strings.Contains(ev.String(), "failed") {
			t.Errorf("unexpected string %q", ev.String())
		}
	})
}

func TestMergedView(t *testing.T) {
	local := []*models.Song{{ID: "local_1", Title: "Local Title"}}
	remote := []*models.Song{{ID: "s1", Title: "Intro"}, {ID: "local_1", Title: "Shadowed"}}

	view := MergedView([]string{"s1", "unknown", "local_1"}, local, remote)

	want := []Resolved{
		{ID: "s1", Label: "Intro", Source: models.SourceRemote},
		{ID: "unknown", Label: "unknown"},
		{ID: "local_1", Label: "Local Title", Source: models.SourceLocal},
	}
	if len(view) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(view))
	}
	for i := range want {
		if view[i] != want[i] {
			t.Errorf("entry %d: expected %+v, got %+v", i, want[i], view[i])
		}
	}
	if view[1].Found() {
		t.Error("unknown id should not be found")
	}
}
