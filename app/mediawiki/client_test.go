package mediawiki

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL+"/w/api.php", "article-history-test/1.0", 5*time.Second)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	return client
}

func TestPageText(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "article-history-test/1.0" {
			t.Errorf("Expected User-Agent header, got %q", r.Header.Get("User-Agent"))
		}
		if r.URL.Query().Get("titles") != "Talk:Foo" {
			t.Errorf("Unexpected titles %q", r.URL.Query().Get("titles"))
		}
		w.Write([]byte(`{"query":{"pages":[{"title":"Talk:Foo","revisions":[{"revid":42,"timestamp":"2020-05-01T10:00:00Z","slots":{"main":{"content":"hello"}}}]}]}}`))
	})

	rev, err := client.PageText(context.Background(), "Talk:Foo")
	if err != nil {
		t.Fatalf("PageText failed: %v", err)
	}
	if rev.Text != "hello" || rev.RevID != 42 {
		t.Errorf("Unexpected revision %+v", rev)
	}
	if !rev.Timestamp.Equal(time.Date(2020, 5, 1, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("Unexpected timestamp %v", rev.Timestamp)
	}
}

func TestPageTextMissing(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"query":{"pages":[{"title":"Talk:Nope","missing":true}]}}`))
	})
	if _, err := client.PageText(context.Background(), "Talk:Nope"); !errors.Is(err, ErrPageMissing) {
		t.Errorf("Expected ErrPageMissing, got %v", err)
	}
}

func TestAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":{"code":"badtoken","info":"Invalid token"}}`))
	})
	_, err := client.PageText(context.Background(), "Talk:Foo")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Code != "badtoken" {
		t.Errorf("Expected API error, got %v", err)
	}
}

func TestRedirectsFollowsContinuation(t *testing.T) {
	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.URL.Query().Get("blcontinue") == "" {
			w.Write([]byte(`{"continue":{"blcontinue":"10|5","continue":"-||"},"query":{"backlinks":[{"title":"Template:DYKtalk"}]}}`))
			return
		}
		w.Write([]byte(`{"query":{"backlinks":[{"title":"Template:Dyktalk"}]}}`))
	})

	titles, err := client.Redirects(context.Background(), "Template:DYK talk")
	if err != nil {
		t.Fatalf("Redirects failed: %v", err)
	}
	if len(titles) != 2 || calls != 2 {
		t.Errorf("Expected 2 titles over 2 calls, got %v over %d", titles, calls)
	}
}

func TestCheckExistence(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"query":{"normalized":[{"from":"Template talk:Did_you_know/Foo","to":"Template talk:Did you know/Foo"}],` +
			`"pages":[{"title":"Template:Did you know nominations/Foo","missing":true},{"title":"Template talk:Did you know/Foo"}]}}`))
	})

	primary, backup, err := client.CheckExistence(context.Background(), "Template:Did you know nominations/Foo", "Template talk:Did_you_know/Foo")
	if err != nil {
		t.Fatalf("CheckExistence failed: %v", err)
	}
	if primary || !backup {
		t.Errorf("Expected only backup to exist, got %v %v", primary, backup)
	}
}

func TestCheckExistenceUnknownTitle(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"query":{"pages":[{"title":"Something else"}]}}`))
	})
	if _, _, err := client.CheckExistence(context.Background(), "A", "B"); err == nil {
		t.Error("Expected error for unrecognized title")
	}
}

func TestEmbeddedIn(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("einamespace") != "1" {
			t.Errorf("Expected namespace 1, got %q", q.Get("einamespace"))
		}
		if q.Get("eicontinue") == "" {
			w.Write([]byte(`{"continue":{"eicontinue":"1|99","continue":"-||"},"query":{"embeddedin":[{"title":"Talk:A"},{"title":"Talk:B"}]}}`))
			return
		}
		w.Write([]byte(`{"query":{"embeddedin":[{"title":"Talk:C"}]}}`))
	})

	titles, cont, err := client.EmbeddedIn(context.Background(), "Template:Article history", 1, "")
	if err != nil {
		t.Fatalf("EmbeddedIn failed: %v", err)
	}
	if len(titles) != 2 || cont != "1|99" {
		t.Errorf("Unexpected first batch %v %q", titles, cont)
	}

	titles, cont, err = client.EmbeddedIn(context.Background(), "Template:Article history", 1, cont)
	if err != nil {
		t.Fatalf("EmbeddedIn failed: %v", err)
	}
	if len(titles) != 1 || cont != "" {
		t.Errorf("Unexpected last batch %v %q", titles, cont)
	}
}

func TestLoginAndEdit(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == "GET" {
			if r.URL.Query().Get("type") == "login" {
				http.SetCookie(w, &http.Cookie{Name: "session", Value: "abc", Path: "/"})
				w.Write([]byte(`{"query":{"tokens":{"logintoken":"LT"}}}`))
				return
			}
			w.Write([]byte(`{"query":{"tokens":{"csrftoken":"CT"}}}`))
			return
		}

		if err := r.ParseForm(); err != nil {
			t.Errorf("Failed to parse form: %v", err)
			return
		}
		switch r.PostForm.Get("action") {
		case "login":
			if r.PostForm.Get("lgtoken") != "LT" {
				t.Errorf("Expected login token, got %q", r.PostForm.Get("lgtoken"))
			}
			w.Write([]byte(`{"login":{"result":"Success"}}`))
		case "edit":
			if c, err := r.Cookie("session"); err != nil || c.Value != "abc" {
				t.Errorf("Expected session cookie on edit")
			}
			if r.PostForm.Get("token") != "CT" || r.PostForm.Get("basetimestamp") != "2020-05-01T10:00:00Z" {
				t.Errorf("Unexpected edit form %v", r.PostForm)
			}
			w.Write([]byte(`{"edit":{"result":"Success","newrevid":43}}`))
		}
	})

	if err := client.Login(context.Background(), "Bot@merge", "secret"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	revid, err := client.Edit(context.Background(), EditRequest{
		Title:         "Talk:Foo",
		Text:          "new text",
		Summary:       "merging",
		BaseTimestamp: time.Date(2020, 5, 1, 10, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Edit failed: %v", err)
	}
	if revid != 43 {
		t.Errorf("Expected revid 43, got %d", revid)
	}
}

func TestRenderedHTML(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("action") != "parse" {
			t.Errorf("Expected parse action")
		}
		w.Write([]byte(`{"parse":{"text":"<div>closed 3 May 2020</div>"}}`))
	})
	html, err := client.RenderedHTML(context.Background(), "Wikipedia:Articles for deletion/Foo")
	if err != nil {
		t.Fatalf("RenderedHTML failed: %v", err)
	}
	if html != "<div>closed 3 May 2020</div>" {
		t.Errorf("Unexpected html %q", html)
	}
}
