package submission

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func janeRecord() Record {
	rec, _ := Assemble(janeContact(), fixedNow)
	return rec
}

func TestResult(t *testing.T) {
	ok := Success("done")
	assert.True(t, ok.OK())
	assert.Equal(t, "done", ok.Notice())

	bad := Failure(nil)
	assert.False(t, bad.OK())
	assert.Error(t, bad.Err())
}

func TestDirectTransport_PostsForm(t *testing.T) {
	var got url.Values
	var contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		assert.NoError(t, r.ParseForm())
		got = r.PostForm
		w.Write([]byte(`{"status":"success","message":"Data saved successfully"}`))
	}))
	defer srv.Close()

	res := NewDirectTransport(srv.URL, srv.Client()).Deliver(context.Background(), janeRecord())
	require.True(t, res.OK(), "%v", res.Err())
	assert.Equal(t, SuccessNotice, res.Notice())
	assert.Equal(t, "application/x-www-form-urlencoded", contentType)
	assert.Equal(t, "Jane Doe", got.Get("name"))
	assert.Equal(t, "+1 5551234", got.Get("phone"))
	assert.Equal(t, "SEO, Web", got.Get("services"))
}

func TestDirectTransport_NonOKFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusFound)
	}))
	defer srv.Close()

	res := NewDirectTransport(srv.URL, srv.Client()).Deliver(context.Background(), janeRecord())
	assert.False(t, res.OK())
	assert.ErrorContains(t, res.Err(), "unexpected status 302")
}

func TestDirectTransport_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer srv.Close()
	defer close(release)

	client := srv.Client()
	client.Timeout = 50 * time.Millisecond
	res := NewDirectTransport(srv.URL, client).Deliver(context.Background(), janeRecord())
	assert.False(t, res.OK())
}

func TestFrameTransport_SucceedsAfterDelay(t *testing.T) {
	var mu sync.Mutex
	var gotQuery url.Values
	var method string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		method, gotQuery = r.Method, r.URL.Query()
		mu.Unlock()
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ft := NewFrameTransport(srv.URL, srv.Client(), 50*time.Millisecond)
	res := ft.Deliver(context.Background(), janeRecord())
	ft.Wait()

	require.True(t, res.OK(), "%v", res.Err())
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, http.MethodGet, method)
	assert.Equal(t, "jane@x.com", gotQuery.Get("email"))
	assert.Equal(t, "3/7/2026, 2:05:09 PM", gotQuery.Get("timestamp"))
}

func TestFrameTransport_ConnectionErrorFailsFast(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL
	srv.Close()

	ft := NewFrameTransport(endpoint, nil, 5*time.Second)
	start := time.Now()
	res := ft.Deliver(context.Background(), janeRecord())
	ft.Wait()

	assert.False(t, res.OK())
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestFrameTransport_CancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ft := NewFrameTransport(srv.URL, srv.Client(), time.Second)
	res := ft.Deliver(ctx, janeRecord())
	ft.Wait()
	assert.False(t, res.OK())
}

func TestMailtoURL(t *testing.T) {
	u := MailtoURL("metalstreetmedia@gmail.com", janeRecord())
	require.True(t, strings.HasPrefix(u, "mailto:metalstreetmedia@gmail.com?subject="))
	assert.NotContains(t, u, "+")

	parsed, err := url.Parse(u)
	require.NoError(t, err)
	q, err := url.ParseQuery(parsed.RawQuery)
	require.NoError(t, err)
	assert.Equal(t, "New Contact Form Submission - Metal Streets Media", q.Get("subject"))
	body := q.Get("body")
	for _, line := range []string{"Name: Jane Doe", "Email: jane@x.com", "Phone: +1 5551234", "Country: US", "Business Type: Startup", "Services: SEO, Web"} {
		assert.Contains(t, body, line)
	}
}

func TestMailtoTransport(t *testing.T) {
	var opened []string
	opener := OpenerFunc(func(_ context.Context, u string) error {
		opened = append(opened, u)
		return nil
	})
	res := NewMailtoTransport("owner@example.com", opener).Deliver(context.Background(), janeRecord())
	require.True(t, res.OK())
	assert.Equal(t, MailtoNotice, res.Notice())
	require.Len(t, opened, 1)
	assert.True(t, strings.HasPrefix(opened[0], "mailto:owner@example.com?"))

	failing := OpenerFunc(func(context.Context, string) error { return errors.New("no handler for mailto") })
	res = NewMailtoTransport("owner@example.com", failing).Deliver(context.Background(), janeRecord())
	assert.False(t, res.OK())
}
