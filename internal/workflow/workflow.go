// Package workflow sequences login, project listing, issue resolution and
// attachment upload for one screenshot submission.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dt-pm-tools/ytshot/internal/config"
	"github.com/ternarybob/arbor"
)

// State names the step a run is in.
type State string

const (
	StateAwaitingCredentials State = "awaiting-credentials"
	StateAuthenticating      State = "authenticating"
	StateFetchingProjects    State = "fetching-projects"
	StateAwaitingChoice      State = "awaiting-choice"
	StateCreatingIssue       State = "creating-issue"
	StateUploading           State = "uploading-attachment"
	StateDone                State = "done"
)

// Options tunes a Workflow.
type Options struct {
	// MaxLoginAttempts caps failed logins per run. Zero means no cap, which
	// is only sensible when the host re-prompts a person.
	MaxLoginAttempts int
	// OnState, if set, is called on every state change.
	OnState func(State)
}

// Workflow runs submissions. It holds no per-run state, so one Workflow can
// serve several runs, even concurrently.
type Workflow struct {
	tracker Tracker
	host    Host
	logger  arbor.ILogger
	opts    Options
}

// New creates a Workflow.
func New(tracker Tracker, host Host, logger arbor.ILogger, opts Options) *Workflow {
	return &Workflow{
		tracker: tracker,
		host:    host,
		logger:  logger,
		opts:    opts,
	}
}

// Run submits capture according to cfg. On success the returned Outcome
// carries an updated copy of cfg; cfg itself is never modified.
func (w *Workflow) Run(ctx context.Context, cfg config.Output, capture Capture) Outcome {
	ref, creds, err := w.run(ctx, cfg, capture)
	w.enter(StateDone)

	switch {
	case errors.Is(err, ErrCanceled):
		w.logger.Info().Msg("Submission canceled")
		return Outcome{Status: StatusCanceled}
	case err != nil:
		w.logger.Error().Err(err).Msg("Submission failed")
		return Outcome{Status: StatusFailed, Message: err.Error(), Err: err}
	}

	updated := cfg
	if creds.Remember {
		updated.Username = creds.Username
		updated.Password = creds.Password
	}
	updated.LastProjectID = ref.ProjectID
	updated.LastIssueID = ref.IssueID

	w.logger.Info().Str("issue", ref.IssueID).Msg("Submission complete")
	return Outcome{Status: StatusSuccess, Config: updated, Issue: ref, Remembered: creds.Remember}
}

func (w *Workflow) run(ctx context.Context, cfg config.Output, capture Capture) (IssueReference, Credentials, error) {
	creds := Credentials{Username: cfg.Username, Password: cfg.Password}
	showLogin := creds.Username == "" || creds.Password == ""
	fileName := capture.FileName(cfg.FileName)
	failedLogins := 0

	// Requests already issued run to completion; cancellation is only
	// observed at the prompts and between login attempts.
	netCtx := context.WithoutCancel(ctx)

	for {
		if err := ctx.Err(); err != nil {
			return IssueReference{}, creds, fmt.Errorf("%w: %v", ErrCanceled, err)
		}

		if showLogin {
			w.enter(StateAwaitingCredentials)
			entered, err := w.host.PromptCredentials(ctx, CredentialRequest{
				URL:      cfg.URL,
				Username: creds.Username,
				Password: creds.Password,
				Remember: creds.Remember,
				Attempt:  failedLogins,
			})
			if err != nil {
				return IssueReference{}, creds, err
			}
			creds = entered
		}

		w.enter(StateAuthenticating)
		login := w.tracker.Login(netCtx, cfg.URL, creds.Username, creds.Password)
		if !login.Authenticated() {
			failedLogins++
			w.logger.Warn().Int("attempt", failedLogins).Str("user", creds.Username).Msg("Login failed")
			if w.opts.MaxLoginAttempts > 0 && failedLogins >= w.opts.MaxLoginAttempts {
				return IssueReference{}, creds, fmt.Errorf("%w after %d attempts", ErrAuthenticationExhausted, failedLogins)
			}
			showLogin = true
			continue
		}
		session := login.Session

		w.enter(StateFetchingProjects)
		projects, err := w.tracker.ListProjects(netCtx, cfg.URL, session)
		if err != nil {
			return IssueReference{}, creds, err
		}

		w.enter(StateAwaitingChoice)
		choice, err := w.host.PromptSubmission(ctx, SubmissionRequest{
			URL:           cfg.URL,
			LastProjectID: cfg.LastProjectID,
			LastIssueID:   cfg.LastIssueID,
			Projects:      projects,
			FileName:      fileName,
		})
		if err != nil {
			return IssueReference{}, creds, err
		}

		var ref IssueReference
		if choice.Mode == ModeCreateNew {
			w.enter(StateCreatingIssue)
			created, err := w.tracker.CreateIssue(netCtx, cfg.URL, session, choice.ProjectID, choice.Summary, choice.Description)
			if err != nil {
				return IssueReference{}, creds, err
			}
			if !created.Success {
				return IssueReference{}, creds, &FaultError{Op: "create issue", Message: created.FaultMessage}
			}
			ref = IssueReference{ProjectID: choice.ProjectID, IssueID: created.IssueID}
		} else {
			ref = IssueReference{ProjectID: cfg.LastProjectID, IssueID: choice.IssueID}
		}

		name := choice.FileName
		if name == "" {
			name = fileName
		}
		fullName := fmt.Sprintf("%s.%s", name, capture.Extension(cfg.FileFormat))

		content, err := capture.Bytes(cfg.FileFormat)
		if err != nil {
			return IssueReference{}, creds, fmt.Errorf("encoding screenshot: %w", err)
		}

		w.enter(StateUploading)
		uploaded, err := w.tracker.UploadAttachment(netCtx, cfg.URL, session, ref.IssueID, fullName, content, capture.MimeType(cfg.FileFormat))
		if err != nil {
			return IssueReference{}, creds, err
		}
		if !uploaded.Success {
			return IssueReference{}, creds, &FaultError{Op: "upload attachment", Message: uploaded.FaultMessage}
		}

		if cfg.OpenInBrowser {
			issueURL := IssueURL(cfg.URL, ref.IssueID)
			if err := w.host.OpenURL(issueURL); err != nil {
				w.logger.Warn().Err(err).Str("url", issueURL).Msg("Could not open issue in browser")
			}
		}

		return ref, creds, nil
	}
}

func (w *Workflow) enter(s State) {
	w.logger.Debug().Str("state", string(s)).Msg("Workflow state")
	if w.opts.OnState != nil {
		w.opts.OnState(s)
	}
}

// IssueURL is the browser address of an issue.
func IssueURL(baseURL, issueID string) string {
	return strings.TrimRight(baseURL, "/") + "/issue/" + issueID
}
