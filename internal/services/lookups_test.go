package services

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/desertthunder/ytcat/internal/models"
	"github.com/desertthunder/ytcat/internal/shared"
	th "github.com/desertthunder/ytcat/internal/testing"
)

func TestSearch(t *testing.T) {
	t.Run("hydrates ids and passes the page token through", func(t *testing.T) {
		fake := th.NewFakeCatalog(t)
		fake.Respond("search", http.StatusOK, `{"nextPageToken":"CAUQAA","items":[{"id":{"videoId":"a"}},{"id":{"videoId":"b"}}]}`)
		fake.Respond("videos", http.StatusOK, videos(video("b", "PT1M", true), video("a", "PT3M5S", true)))
		c := newTestClient(t, fake)

		result, err := c.Search(context.Background(), SearchOptions{Text: "  lofi  ", PageToken: "CAIQAA"}).Wait()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if result.NextPageToken != "CAUQAA" {
			t.Errorf("expected next page token CAUQAA, got %q", result.NextPageToken)
		}
		if result.Songs.Len() != 2 || result.Songs[0].ID != "b" || result.Songs[1].ID != "a" {
			t.Errorf("expected songs in hydration order [b a], got %v", result.Songs.IDs())
		}
		if result.Songs[1].Duration != 185 {
			t.Errorf("expected duration 185, got %d", result.Songs[1].Duration)
		}

		search := fake.CallsTo("search")[0].Query
		checks := map[string]string{
			"q":               "lofi",
			"pageToken":       "CAIQAA",
			"maxResults":      "50",
			"type":            "video",
			"part":            "id",
			"safeSearch":      "none",
			"videoEmbeddable": "true",
			"fields":          "nextPageToken,items/id/videoId",
		}
		for k, want := range checks {
			if got := search.Get(k); got != want {
				t.Errorf("search param %s = %q, want %q", k, got, want)
			}
		}

		hydrate := fake.CallsTo("videos")[0].Query
		if hydrate.Get("id") != "a,b" {
			t.Errorf("expected ids a,b, got %q", hydrate.Get("id"))
		}
		if hydrate.Get("part") != "contentDetails,snippet,status" {
			t.Errorf("unexpected part %q", hydrate.Get("part"))
		}
		if hydrate.Get("fields") != hydrateFields {
			t.Errorf("unexpected fields %q", hydrate.Get("fields"))
		}
	})

	t.Run("drops unplayable items", func(t *testing.T) {
		fake := th.NewFakeCatalog(t)
		fake.Respond("search", http.StatusOK, `{"items":[{"id":{"videoId":"a"}},{"id":{"videoId":"b"}},{"id":{"videoId":"c"}}]}`)
		fake.Respond("videos", http.StatusOK, videos(
			video("a", "PT3M", false),
			video("b", "PT0S", true),
			video("c", "PT2M", true),
		))
		c := newTestClient(t, fake)

		result, err := c.Search(context.Background(), SearchOptions{Text: "x"}).Wait()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.Songs.Len() != 1 || result.Songs[0].ID != "c" {
			t.Errorf("expected only c, got %v", result.Songs.IDs())
		}
	})

	t.Run("empty primary result skips hydration", func(t *testing.T) {
		fake := th.NewFakeCatalog(t)
		fake.Respond("search", http.StatusOK, `{"items":[]}`)
		c := newTestClient(t, fake)

		result, err := c.Search(context.Background(), SearchOptions{Text: "nothing"}).Wait()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.Songs == nil || result.Songs.Len() != 0 {
			t.Errorf("expected empty non-nil song set, got %v", result.Songs)
		}
		if result.HasNextPage() {
			t.Error("expected no next page")
		}
		if n := len(fake.CallsTo("videos")); n != 0 {
			t.Errorf("expected no hydration call, got %d", n)
		}
	})

	t.Run("primary failure ends the chain", func(t *testing.T) {
		fake := th.NewFakeCatalog(t)
		fake.Respond("search", http.StatusBadRequest, `{"error":{"message":"bad"}}`)
		c := newTestClient(t, fake)

		req := c.Search(context.Background(), SearchOptions{Text: "x"})
		if _, err := req.Wait(); !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
		if req.Stage() != StageFailed {
			t.Errorf("expected stage failed, got %s", req.Stage())
		}
		if n := len(fake.CallsTo("videos")); n != 0 {
			t.Errorf("expected no hydration call, got %d", n)
		}
	})

	t.Run("abort during primary never hydrates", func(t *testing.T) {
		fake := th.NewFakeCatalog(t)
		started := make(chan struct{})
		fake.Handle("search", func(w http.ResponseWriter, r *http.Request) {
			close(started)
			<-r.Context().Done()
		})
		fake.Respond("videos", http.StatusOK, videos(video("a", "PT1M", true)))
		c := newTestClient(t, fake)

		fired := make(chan string, 3)
		req := c.Search(context.Background(), SearchOptions{Text: "slow"})
		req.Then(Callbacks[models.SearchResult]{
			Success:  func(models.SearchResult) { fired <- "success" },
			Error:    func(error) { fired <- "error" },
			Complete: func() { fired <- "complete" },
		})

		<-started
		req.Abort()

		if _, err := req.Wait(); !errors.Is(err, ErrAborted) {
			t.Errorf("expected ErrAborted, got %v", err)
		}

		select {
		case cb := <-fired:
			t.Errorf("expected no callbacks after abort, got %s", cb)
		case <-time.After(100 * time.Millisecond):
		}
		if n := len(fake.CallsTo("videos")); n != 0 {
			t.Errorf("expected no hydration call after abort, got %d", n)
		}
	})

	t.Run("abort during hydration cancels the hydration call", func(t *testing.T) {
		fake := th.NewFakeCatalog(t)
		fake.Respond("search", http.StatusOK, `{"items":[{"id":{"videoId":"a"}}]}`)
		started := make(chan struct{})
		cancelled := make(chan struct{})
		fake.Handle("videos", func(w http.ResponseWriter, r *http.Request) {
			close(started)
			<-r.Context().Done()
			close(cancelled)
		})
		c := newTestClient(t, fake)

		req := c.Search(context.Background(), SearchOptions{Text: "slow"})
		<-started
		if req.Stage() != StageHydrating {
			t.Errorf("expected stage hydrating, got %s", req.Stage())
		}
		req.Abort()

		select {
		case <-cancelled:
		case <-time.After(2 * time.Second):
			t.Fatal("expected hydration request to be cancelled")
		}
		if _, err := req.Wait(); !errors.Is(err, ErrAborted) {
			t.Errorf("expected ErrAborted, got %v", err)
		}
	})
}

func TestPlaylistSongs(t *testing.T) {
	t.Run("reads ids from content details", func(t *testing.T) {
		fake := th.NewFakeCatalog(t)
		fake.Respond("playlistItems", http.StatusOK, `{"nextPageToken":"P2","items":[{"contentDetails":{"videoId":"x"}},{"contentDetails":{"videoId":"y"}}]}`)
		fake.Respond("videos", http.StatusOK, videos(video("x", "PT1M", true), video("y", "PT2M", true)))
		c := newTestClient(t, fake)

		result, err := c.PlaylistSongs(context.Background(), "PL1", "").Wait()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.Songs.Len() != 2 || result.NextPageToken != "P2" {
			t.Errorf("unexpected result %+v", result)
		}

		q := fake.CallsTo("playlistItems")[0].Query
		if q.Get("playlistId") != "PL1" || q.Get("part") != "contentDetails" || q.Get("maxResults") != "50" {
			t.Errorf("unexpected playlistItems params %v", q)
		}
		if q.Has("pageToken") {
			t.Error("expected no pageToken on the first page")
		}
		if fake.CallsTo("videos")[0].Query.Get("id") != "x,y" {
			t.Errorf("unexpected hydration ids %q", fake.CallsTo("videos")[0].Query.Get("id"))
		}
	})

	t.Run("requires a playlist id", func(t *testing.T) {
		c := NewClient(ClientOpts{})
		if _, err := c.PlaylistSongs(context.Background(), "", "").Wait(); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})
}

func TestRelatedSongs(t *testing.T) {
	t.Run("returns hydrated songs", func(t *testing.T) {
		fake := th.NewFakeCatalog(t)
		fake.Respond("search", http.StatusOK, `{"items":[{"id":{"videoId":"r1"}}]}`)
		fake.Respond("videos", http.StatusOK, videos(video("r1", "PT4M", true)))
		c := newTestClient(t, fake)

		songs, err := c.RelatedSongs(context.Background(), "seed", 0).Wait()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if songs.Len() != 1 || songs[0].ID != "r1" {
			t.Errorf("unexpected songs %v", songs.IDs())
		}

		q := fake.CallsTo("search")[0].Query
		if q.Get("relatedToVideoId") != "seed" || q.Get("maxResults") != "5" || q.Get("type") != "video" {
			t.Errorf("unexpected related params %v", q)
		}
	})

	t.Run("empty body is a protocol violation", func(t *testing.T) {
		fake := th.NewFakeCatalog(t)
		fake.Respond("search", http.StatusOK, "")
		c := newTestClient(t, fake)

		_, err := c.RelatedSongs(context.Background(), "gone", 5).Wait()
		if !errors.Is(err, shared.ErrProtocolViolation) {
			t.Errorf("expected ErrProtocolViolation, got %v", err)
		}
		if n := len(fake.CallsTo("videos")); n != 0 {
			t.Errorf("expected no hydration call, got %d", n)
		}
	})

	t.Run("empty item list is an empty result", func(t *testing.T) {
		fake := th.NewFakeCatalog(t)
		fake.Respond("search", http.StatusOK, `{"items":[]}`)
		c := newTestClient(t, fake)

		songs, err := c.RelatedSongs(context.Background(), "lonely", 5).Wait()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if songs.Len() != 0 {
			t.Errorf("expected no songs, got %v", songs.IDs())
		}
	})
}

func TestHydration(t *testing.T) {
	t.Run("missing items reports song not found for one id", func(t *testing.T) {
		fake := th.NewFakeCatalog(t)
		fake.Respond("videos", http.StatusOK, `{}`)
		c := newTestClient(t, fake)

		_, err := c.GetSongs(context.Background(), []string{"a"}).Wait()

		var nf *NotFoundError
		if !errors.As(err, &nf) {
			t.Fatalf("expected NotFoundError, got %v", err)
		}
		if nf.Message != "Failed to find song" {
			t.Errorf("unexpected message %q", nf.Message)
		}
		if !errors.Is(err, shared.ErrSongNotFound) || !errors.Is(err, shared.ErrProtocolViolation) {
			t.Errorf("expected song not found protocol violation, got %v", err)
		}
	})

	t.Run("missing items reports songs not found for several ids", func(t *testing.T) {
		fake := th.NewFakeCatalog(t)
		fake.Respond("videos", http.StatusOK, `{}`)
		c := newTestClient(t, fake)

		_, err := c.GetSongs(context.Background(), []string{"a", "b"}).Wait()
		if !errors.Is(err, shared.ErrSongsNotFound) {
			t.Fatalf("expected ErrSongsNotFound, got %v", err)
		}
		if err.Error() != "Failed to find songs" {
			t.Errorf("unexpected message %q", err.Error())
		}
	})

	t.Run("localizes messages", func(t *testing.T) {
		fake := th.NewFakeCatalog(t)
		fake.Respond("videos", http.StatusOK, `{}`)
		c := NewClient(ClientOpts{BaseURL: fake.URL, Messages: shared.NewMessages("es")})

		_, err := c.GetSongs(context.Background(), []string{"a"}).Wait()
		if err == nil || err.Error() != "No se encontró la canción" {
			t.Errorf("expected Spanish message, got %v", err)
		}
	})

	for _, body := range []string{"", "null"} {
		t.Run("body "+body+" is a protocol violation", func(t *testing.T) {
			fake := th.NewFakeCatalog(t)
			fake.Respond("videos", http.StatusOK, body)
			c := newTestClient(t, fake)

			if _, err := c.GetSongs(context.Background(), []string{"a"}).Wait(); !errors.Is(err, shared.ErrProtocolViolation) {
				t.Errorf("expected ErrProtocolViolation, got %v", err)
			}
		})
	}

	t.Run("GetSongs requires ids", func(t *testing.T) {
		fake := th.NewFakeCatalog(t)
		c := newTestClient(t, fake)

		if _, err := c.GetSongs(context.Background(), nil).Wait(); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
		if len(fake.Calls()) != 0 {
			t.Error("expected no calls")
		}
	})

	t.Run("skips items with unreadable durations", func(t *testing.T) {
		fake := th.NewFakeCatalog(t)
		fake.Respond("videos", http.StatusOK, videos(video("a", "soon", true), video("b", "PT5S", true)))
		c := newTestClient(t, fake)

		songs, err := c.GetSongs(context.Background(), []string{"a", "b"}).Wait()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if songs.Len() != 1 || songs[0].ID != "b" {
			t.Errorf("expected only b, got %v", songs.IDs())
		}
	})
}

func TestSingleLookups(t *testing.T) {
	t.Run("GetSong", func(t *testing.T) {
		fake := th.NewFakeCatalog(t)
		fake.Respond("videos", http.StatusOK, videos(video("abc", "PT3M5S", true)))
		c := newTestClient(t, fake)

		song, err := c.GetSong(context.Background(), "abc").Wait()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if song.Title != "Title abc" || song.Author != "Channel abc" {
			t.Errorf("unexpected song %+v", song)
		}
	})

	t.Run("GetSong includes the id when unplayable", func(t *testing.T) {
		fake := th.NewFakeCatalog(t)
		fake.Respond("videos", http.StatusOK, videos(video("abc", "PT0S", true)))
		c := newTestClient(t, fake)

		_, err := c.GetSong(context.Background(), "abc").Wait()
		if !errors.Is(err, shared.ErrSongNotFound) || err.Error() != "Failed to find song abc" {
			t.Errorf("unexpected error %v", err)
		}
		if errors.Is(err, shared.ErrProtocolViolation) {
			t.Error("an empty hydration result is not a protocol violation")
		}
	})

	t.Run("SongByTitle", func(t *testing.T) {
		fake := th.NewFakeCatalog(t)
		fake.Respond("search", http.StatusOK, `{"items":[{"id":{"videoId":"t1"}}]}`)
		fake.Respond("videos", http.StatusOK, videos(video("t1", "PT2M", true)))
		c := newTestClient(t, fake)

		song, err := c.SongByTitle(context.Background(), "Song t1").Wait()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if song.ID != "t1" {
			t.Errorf("expected t1, got %s", song.ID)
		}
		if got := fake.CallsTo("search")[0].Query.Get("maxResults"); got != "10" {
			t.Errorf("expected maxResults 10, got %s", got)
		}
	})

	t.Run("SongByTitle without matches", func(t *testing.T) {
		fake := th.NewFakeCatalog(t)
		fake.Respond("search", http.StatusOK, `{"items":[]}`)
		c := newTestClient(t, fake)

		if _, err := c.SongByTitle(context.Background(), "nope").Wait(); !errors.Is(err, shared.ErrSongNotFound) {
			t.Errorf("expected ErrSongNotFound, got %v", err)
		}
	})

	t.Run("UploadsPlaylistID", func(t *testing.T) {
		tests := []struct {
			name  string
			ref   ChannelRef
			param string
			value string
		}{
			{"by id", ChannelRef{ID: "UC1"}, "id", "UC1"},
			{"by username", ChannelRef{ForUsername: "someone"}, "forUsername", "someone"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				fake := th.NewFakeCatalog(t)
				fake.Respond("channels", http.StatusOK, `{"items":[{"contentDetails":{"relatedPlaylists":{"uploads":"UU1"}}}]}`)
				c := newTestClient(t, fake)

				id, err := c.UploadsPlaylistID(context.Background(), tt.ref).Wait()
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				if id != "UU1" {
					t.Errorf("expected UU1, got %s", id)
				}
				if got := fake.CallsTo("channels")[0].Query.Get(tt.param); got != tt.value {
					t.Errorf("expected %s=%s, got %q", tt.param, tt.value, got)
				}
			})
		}

		t.Run("no items", func(t *testing.T) {
			fake := th.NewFakeCatalog(t)
			fake.Respond("channels", http.StatusOK, `{"items":[]}`)
			c := newTestClient(t, fake)

			_, err := c.UploadsPlaylistID(context.Background(), ChannelRef{ID: "UC0"}).Wait()
			if !errors.Is(err, shared.ErrChannelNotFound) || err.Error() != "Failed to find channel uploads" {
				t.Errorf("unexpected error %v", err)
			}
		})

		t.Run("needs a reference", func(t *testing.T) {
			c := NewClient(ClientOpts{})
			if _, err := c.UploadsPlaylistID(context.Background(), ChannelRef{}).Wait(); !errors.Is(err, shared.ErrMissingArgument) {
				t.Errorf("expected ErrMissingArgument, got %v", err)
			}
		})
	})

	t.Run("Title", func(t *testing.T) {
		for _, kind := range []Resource{ResourceChannels, ResourcePlaylists, ResourceVideos} {
			t.Run(string(kind), func(t *testing.T) {
				fake := th.NewFakeCatalog(t)
				fake.Respond(string(kind), http.StatusOK, `{"items":[{"snippet":{"title":"Hello"}}]}`)
				c := newTestClient(t, fake)

				title, err := c.Title(context.Background(), TitleRef{ID: "X1", Kind: kind}).Wait()
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				if title != "Hello" {
					t.Errorf("expected Hello, got %q", title)
				}
				if q := fake.CallsTo(string(kind))[0].Query; q.Get("part") != "snippet" || q.Get("id") != "X1" {
					t.Errorf("unexpected params %v", q)
				}
			})
		}

		t.Run("empty items", func(t *testing.T) {
			fake := th.NewFakeCatalog(t)
			fake.Respond("playlists", http.StatusOK, `{"items":[]}`)
			c := newTestClient(t, fake)

			_, err := c.Title(context.Background(), TitleRef{ID: "PL0", Kind: ResourcePlaylists}).Wait()
			if !errors.Is(err, shared.ErrTitleNotFound) {
				t.Errorf("expected ErrTitleNotFound, got %v", err)
			}
		})

		t.Run("unsupported kind", func(t *testing.T) {
			c := NewClient(ClientOpts{})
			if _, err := c.Title(context.Background(), TitleRef{ID: "x", Kind: ResourceSearch}).Wait(); !errors.Is(err, shared.ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
		})
	})
}
