package youtrack

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"
)

const (
	loginAcknowledgement = "<login>ok</login>"
	formContentType      = "application/x-www-form-urlencoded"
	defaultTimeout       = 60 * time.Second
)

// createIssueFiller is sent as the PUT body; the API rejects an empty one.
var createIssueFiller = []byte("--")

// Client talks to the legacy YouTrack REST API (/rest/...).
// It holds no authentication state; every call takes the base URL and the
// Session to use.
type Client struct {
	http   *httpSession
	logger arbor.ILogger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.timeout = d }
}

// WithTransport replaces the HTTP transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) { c.http.transport = rt }
}

// NewClient creates a YouTrack client.
func NewClient(logger arbor.ILogger, opts ...Option) *Client {
	c := &Client{
		http:   &httpSession{timeout: defaultTimeout},
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Login posts the credentials to /rest/user/login.
//
// The form body is built without percent-encoding, so credentials containing
// '&' or '=' are sent as-is.
func (c *Client) Login(ctx context.Context, baseURL, username, password string) LoginResult {
	body := fmt.Sprintf("login=%s&password=%s", username, password)

	resp, err := c.http.do(ctx, request{
		Method:      http.MethodPost,
		URL:         endpoint(baseURL, "/rest/user/login"),
		Body:        []byte(body),
		ContentType: formContentType,
	})
	if err != nil {
		c.logger.Warn().Err(err).Str("url", baseURL).Msg("Login request failed")
		return LoginResult{}
	}
	if !resp.StatusOK {
		c.logger.Warn().Int("status", resp.StatusCode).Str("url", baseURL).Msg("Login rejected")
		return LoginResult{}
	}

	if strings.EqualFold(string(resp.Body), loginAcknowledgement) {
		c.logger.Debug().Int("cookies", len(resp.Cookies)).Msg("Login acknowledged")
		return LoginResult{Success: true, Session: NewSession(resp.Cookies)}
	}

	c.logger.Debug().Msg("Login answered without acknowledgement")
	return LoginResult{Success: true}
}

// ListProjects returns every <project> element of /rest/project/all in
// document order.
func (c *Client) ListProjects(ctx context.Context, baseURL string, session *Session) ([]Project, error) {
	const op = "list projects"

	resp, err := c.http.do(ctx, request{
		Method:  http.MethodGet,
		URL:     endpoint(baseURL, "/rest/project/all"),
		Session: session,
	})
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	if !resp.StatusOK {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("server returned %d %s", resp.StatusCode, resp.StatusDescription)}
	}

	projects, err := parseProjects(resp.Body)
	if err != nil {
		return nil, &ProtocolError{Op: op, Err: err}
	}

	c.logger.Debug().Int("count", len(projects)).Msg("Fetched projects")
	return projects, nil
}

func parseProjects(data []byte) ([]Project, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	projects := []Project{}
	sawRoot := false
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing xml: %w", err)
		}

		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		sawRoot = true
		if se.Name.Local != "project" {
			continue
		}

		id, ok := attr(se, "shortName")
		if !ok {
			return nil, errors.New("project element without shortName attribute")
		}
		name, ok := attr(se, "name")
		if !ok {
			return nil, fmt.Errorf("project %s has no name attribute", id)
		}
		projects = append(projects, Project{ID: id, Name: name})
	}

	if !sawRoot {
		return nil, errors.New("document has no root element")
	}
	return projects, nil
}

func attr(se xml.StartElement, name string) (string, bool) {
	for _, a := range se.Attr {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// CreateIssue creates an issue with PUT /rest/issue. The new issue ID is
// taken from the last path segment of the Location header.
func (c *Client) CreateIssue(ctx context.Context, baseURL string, session *Session, projectID, summary, description string) (CreateIssueResult, error) {
	const op = "create issue"

	query := "project=" + url.QueryEscape(projectID) +
		"&summary=" + url.QueryEscape(summary) +
		"&description=" + url.QueryEscape(description)

	resp, err := c.http.do(ctx, request{
		Method:  http.MethodPut,
		URL:     endpoint(baseURL, "/rest/issue") + "?" + query,
		Session: session,
		Body:    createIssueFiller,
	})
	if err != nil {
		return CreateIssueResult{}, &TransportError{Op: op, Err: err}
	}
	if !resp.StatusOK {
		c.logger.Warn().Int("status", resp.StatusCode).Str("project", projectID).Msg("Issue creation rejected")
		return CreateIssueResult{FaultMessage: resp.StatusDescription}, nil
	}

	location := resp.Header.Get("Location")
	if location == "" {
		return CreateIssueResult{}, &ProtocolError{Op: op, Err: errors.New("missing Location header")}
	}
	issueID := location[strings.LastIndex(location, "/")+1:]

	c.logger.Info().Str("issue", issueID).Str("project", projectID).Msg("Created issue")
	return CreateIssueResult{Success: true, IssueID: issueID}, nil
}

// UploadAttachment posts the file as a single multipart/form-data part to
// /rest/issue/{id}/attachment.
func (c *Client) UploadAttachment(ctx context.Context, baseURL string, session *Session, issueID, fileName string, content []byte, mimeType string) (AddAttachmentResult, error) {
	const op = "upload attachment"

	boundary := newBoundary(content)

	resp, err := c.http.do(ctx, request{
		Method:      http.MethodPost,
		URL:         endpoint(baseURL, "/rest/issue/"+issueID+"/attachment"),
		Session:     session,
		Body:        multipartBody(boundary, fileName, content, mimeType),
		ContentType: "multipart/form-data; boundary=" + boundary,
	})
	if err != nil {
		return AddAttachmentResult{}, &TransportError{Op: op, Err: err}
	}
	if !resp.StatusOK {
		c.logger.Warn().Int("status", resp.StatusCode).Str("issue", issueID).Msg("Attachment rejected")
		return AddAttachmentResult{FaultMessage: resp.StatusDescription}, nil
	}

	c.logger.Info().Str("issue", issueID).Str("file", fileName).Int("bytes", len(content)).Msg("Uploaded attachment")
	return AddAttachmentResult{Success: true}, nil
}

// multipartBody writes the single part by hand so the header order and
// Content-Transfer-Encoding line match what the server expects.
func multipartBody(boundary, fileName string, content []byte, mimeType string) []byte {
	var b bytes.Buffer
	b.Grow(len(content) + 256)

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	fmt.Fprintf(&b, "Content-Disposition: form-data; name=\"%s\"; filename=\"%s\"\r\n", fileName, fileName)
	fmt.Fprintf(&b, "Content-Type: %s\r\n", mimeType)
	b.WriteString("Content-Transfer-Encoding: binary\r\n")
	b.WriteString("\r\n")
	b.Write(content)
	fmt.Fprintf(&b, "\r\n--%s--\r\n", boundary)

	return b.Bytes()
}

// newBoundary derives a boundary from the clock and a random UUID, retrying
// until it does not occur in content.
func newBoundary(content []byte) string {
	for {
		id := uuid.New()
		boundary := "----------" +
			strconv.FormatInt(time.Now().UnixNano(), 16) +
			hex.EncodeToString(id[:])
		if !bytes.Contains(content, []byte(boundary)) {
			return boundary
		}
	}
}

func endpoint(baseURL, path string) string {
	return strings.TrimRight(baseURL, "/") + path
}
