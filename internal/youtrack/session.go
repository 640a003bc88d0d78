package youtrack

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// request describes one HTTP exchange with the tracker.
type request struct {
	Method      string
	URL         string
	Session     *Session
	Body        []byte
	ContentType string
}

// response is what the caller gets back when the server answered at all.
type response struct {
	StatusOK          bool
	StatusCode        int
	StatusDescription string
	Header            http.Header
	Body              []byte
	// Cookies holds every Set-Cookie of the response, whatever its
	// Path, Domain or Secure attributes.
	Cookies           []*http.Cookie
}

// httpSession performs single exchanges. It keeps no cookies between calls:
// every request gets its own jar, seeded from the supplied Session.
type httpSession struct {
	transport http.RoundTripper
	timeout   time.Duration
}

func (s *httpSession) do(ctx context.Context, r request) (*response, error) {
	u, err := url.Parse(r.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing url %q: %w", r.URL, err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}
	if !r.Session.Empty() {
		jar.SetCookies(u, r.Session.Cookies())
	}

	client := &http.Client{
		Transport: s.transport,
		Jar:       jar,
		Timeout:   s.timeout,
	}

	var body io.Reader
	if r.Body != nil {
		body = bytes.NewReader(r.Body)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if r.ContentType != "" {
		req.Header.Set("Content-Type", r.ContentType)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request %s %s: %w", r.Method, u.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	return &response{
		StatusOK:          resp.StatusCode >= 200 && resp.StatusCode < 300,
		StatusCode:        resp.StatusCode,
		StatusDescription: reasonPhrase(resp),
		Header:            resp.Header,
		Body:              data,
		Cookies:           resp.Cookies(),
	}, nil
}

// reasonPhrase returns the text after the status code, e.g. "Forbidden".
func reasonPhrase(resp *http.Response) string {
	phrase := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if phrase == "" {
		phrase = http.StatusText(resp.StatusCode)
	}
	return phrase
}
