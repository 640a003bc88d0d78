package youtrack

import "net/http"

// Session holds the cookies issued by a successful login.
// It is an immutable value: callers thread it explicitly through every call
// and it never outlives one submission run.
type Session struct {
	cookies []*http.Cookie
}

// NewSession keeps only the name/value pairs of the given cookies.
func NewSession(cookies []*http.Cookie) *Session {
	s := &Session{cookies: make([]*http.Cookie, 0, len(cookies))}
	for _, c := range cookies {
		if c == nil || c.Name == "" {
			continue
		}
		s.cookies = append(s.cookies, &http.Cookie{Name: c.Name, Value: c.Value})
	}
	return s
}

// Cookies returns a copy of the session cookies.
func (s *Session) Cookies() []*http.Cookie {
	if s == nil {
		return nil
	}
	out := make([]*http.Cookie, len(s.cookies))
	for i, c := range s.cookies {
		out[i] = &http.Cookie{Name: c.Name, Value: c.Value}
	}
	return out
}

// Empty reports whether the session carries no cookies (nil included).
func (s *Session) Empty() bool {
	return s == nil || len(s.cookies) == 0
}

// LoginResult is the outcome of POST /rest/user/login.
//
// Success is true whenever the server answered with a 2xx status, even if the
// body was not the expected acknowledgement. In that case Session is nil, so
// callers must check Session before treating the user as authenticated.
type LoginResult struct {
	Success bool
	Session *Session
}

// Authenticated reports whether the login produced a usable session.
func (r LoginResult) Authenticated() bool {
	return r.Success && !r.Session.Empty()
}

// Project is one entry of GET /rest/project/all.
type Project struct {
	ID   string // shortName attribute, e.g. "DEMO"
	Name string
}

// CreateIssueResult is the outcome of PUT /rest/issue.
type CreateIssueResult struct {
	Success      bool
	IssueID      string
	FaultMessage string
}

// AddAttachmentResult is the outcome of POST /rest/issue/{id}/attachment.
type AddAttachmentResult struct {
	Success      bool
	FaultMessage string
}
