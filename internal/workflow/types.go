package workflow

import (
	"context"
	"errors"

	"github.com/dt-pm-tools/ytshot/internal/config"
	"github.com/dt-pm-tools/ytshot/internal/youtrack"
)

// ErrCanceled is returned by a Host prompt when the user dismissed it.
var ErrCanceled = errors.New("canceled by user")

// ErrAuthenticationExhausted ends a run whose login attempts hit
// Options.MaxLoginAttempts.
var ErrAuthenticationExhausted = errors.New("authentication attempts exhausted")

// FaultError carries the status description of a request the server rejected.
// Its message is the server's text, unchanged.
type FaultError struct {
	Op      string
	Message string
}

func (e *FaultError) Error() string { return e.Message }

// Credentials as entered on the credential prompt.
type Credentials struct {
	Username string
	Password string
	Remember bool
}

// CredentialRequest seeds the credential prompt.
type CredentialRequest struct {
	URL      string
	Username string
	Password string
	Remember bool
	// Attempt counts the failed logins so far in this run.
	Attempt int
}

// Mode selects between creating an issue and attaching to an existing one.
type Mode int

const (
	ModeCreateNew Mode = iota
	ModeUseExisting
)

func (m Mode) String() string {
	if m == ModeUseExisting {
		return "use-existing"
	}
	return "create-new"
}

// SubmissionRequest seeds the submission prompt.
type SubmissionRequest struct {
	URL           string
	LastProjectID string
	LastIssueID   string
	Projects      []youtrack.Project
	FileName      string
}

// SubmissionChoice is what the user picked on the submission prompt.
// ProjectID, Summary and Description apply to ModeCreateNew; IssueID to
// ModeUseExisting.
type SubmissionChoice struct {
	Mode        Mode
	ProjectID   string
	Summary     string
	Description string
	IssueID     string
	FileName    string
}

// IssueReference identifies the issue the attachment went to.
type IssueReference struct {
	ProjectID string
	IssueID   string
}

// Tracker is the YouTrack REST surface the workflow drives.
type Tracker interface {
	Login(ctx context.Context, baseURL, username, password string) youtrack.LoginResult
	ListProjects(ctx context.Context, baseURL string, session *youtrack.Session) ([]youtrack.Project, error)
	CreateIssue(ctx context.Context, baseURL string, session *youtrack.Session, projectID, summary, description string) (youtrack.CreateIssueResult, error)
	UploadAttachment(ctx context.Context, baseURL string, session *youtrack.Session, issueID, fileName string, content []byte, mimeType string) (youtrack.AddAttachmentResult, error)
}

// Host is what the embedding application provides: the two prompts and a
// way to show the resulting issue. Prompts return ErrCanceled when dismissed.
type Host interface {
	PromptCredentials(ctx context.Context, req CredentialRequest) (Credentials, error)
	PromptSubmission(ctx context.Context, req SubmissionRequest) (SubmissionChoice, error)
	OpenURL(url string) error
}

// Capture supplies the screenshot being sent.
type Capture interface {
	FileName(template string) string
	Bytes(format string) ([]byte, error)
	MimeType(format string) string
	Extension(format string) string
}

// Status is the terminal state of a run.
type Status int

const (
	StatusSuccess Status = iota
	StatusCanceled
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusCanceled:
		return "canceled"
	default:
		return "failed"
	}
}

// Outcome is returned to the host after a run.
// Config and Remembered are only meaningful on StatusSuccess; Message and
// Err only on StatusFailed. Remembered reports that Config carries the
// credentials of the final login for saving.
type Outcome struct {
	Status     Status
	Config     config.Output
	Issue      IssueReference
	Remembered bool
	Message    string
	Err        error
}
