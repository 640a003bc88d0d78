package host

import (
	"context"
	"errors"
	"fmt"

	"github.com/dt-pm-tools/ytshot/internal/workflow"
	"github.com/ternarybob/arbor"
)

// ErrNoCredentials is returned by Scripted when it has nothing to log in with.
var ErrNoCredentials = errors.New("no credentials: pass --username/--password or set YOUTRACK_USERNAME/YOUTRACK_PASSWORD")

// Scripted answers the prompts from preset values, for unattended use.
// It returns the same credentials on every prompt, so it should be paired
// with workflow.Options.MaxLoginAttempts.
type Scripted struct {
	Credentials workflow.Credentials
	Choice      workflow.SubmissionChoice

	open   func(string) error
	logger arbor.ILogger
}

// NewScripted creates a Scripted host.
func NewScripted(creds workflow.Credentials, choice workflow.SubmissionChoice, logger arbor.ILogger) *Scripted {
	return &Scripted{
		Credentials: creds,
		Choice:      choice,
		open:        OpenBrowser,
		logger:      logger,
	}
}

func (s *Scripted) PromptCredentials(_ context.Context, req workflow.CredentialRequest) (workflow.Credentials, error) {
	if s.Credentials.Username == "" || s.Credentials.Password == "" {
		return workflow.Credentials{}, ErrNoCredentials
	}
	s.logger.Debug().Int("attempt", req.Attempt).Msg("Using preset credentials")
	return s.Credentials, nil
}

func (s *Scripted) PromptSubmission(_ context.Context, req workflow.SubmissionRequest) (workflow.SubmissionChoice, error) {
	choice := s.Choice
	if choice.FileName == "" {
		choice.FileName = req.FileName
	}
	if choice.Mode == workflow.ModeCreateNew && choice.ProjectID == "" {
		choice.ProjectID = req.LastProjectID
	}

	if err := ValidateChoice(choice); err != nil {
		return workflow.SubmissionChoice{}, fmt.Errorf("incomplete submission: %w", err)
	}
	if choice.Mode == workflow.ModeCreateNew && !hasProject(req.Projects, choice.ProjectID) {
		return workflow.SubmissionChoice{}, fmt.Errorf("project %q is not accessible", choice.ProjectID)
	}
	return choice, nil
}

func (s *Scripted) OpenURL(url string) error {
	return s.open(url)
}
