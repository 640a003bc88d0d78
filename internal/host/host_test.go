package host

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/dt-pm-tools/ytshot/internal/workflow"
	"github.com/dt-pm-tools/ytshot/internal/youtrack"
	"github.com/pkg/browser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var projects = []youtrack.Project{
	{ID: "DEMO", Name: "Demo"},
	{ID: "OPS", Name: "Operations"},
}

func TestValidateChoice(t *testing.T) {
	tests := []struct {
		name    string
		choice  workflow.SubmissionChoice
		wantErr string
	}{
		{
			name:   "complete new issue",
			choice: workflow.SubmissionChoice{Mode: workflow.ModeCreateNew, ProjectID: "DEMO", Summary: "s", Description: "d", FileName: "f"},
		},
		{
			name:    "new issue without description",
			choice:  workflow.SubmissionChoice{Mode: workflow.ModeCreateNew, ProjectID: "DEMO", Summary: "s", FileName: "f"},
			wantErr: "description is required",
		},
		{
			name:    "new issue without project",
			choice:  workflow.SubmissionChoice{Mode: workflow.ModeCreateNew, Summary: "s", Description: "d", FileName: "f"},
			wantErr: "project is required",
		},
		{
			name:   "existing issue",
			choice: workflow.SubmissionChoice{Mode: workflow.ModeUseExisting, IssueID: "DEMO-1", FileName: "f"},
		},
		{
			name:    "existing issue without ID",
			choice:  workflow.SubmissionChoice{Mode: workflow.ModeUseExisting, IssueID: "  ", FileName: "f"},
			wantErr: "issue ID is required",
		},
		{
			name:    "missing file name",
			choice:  workflow.SubmissionChoice{Mode: workflow.ModeUseExisting, IssueID: "DEMO-1"},
			wantErr: "file name is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateChoice(tt.choice)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func newTestScripted(creds workflow.Credentials, choice workflow.SubmissionChoice) (*Scripted, *[]string) {
	s := NewScripted(creds, choice, quietLogger())
	var opened []string
	s.open = func(url string) error {
		opened = append(opened, url)
		return nil
	}
	return s, &opened
}

func TestScriptedCredentials(t *testing.T) {
	s, _ := newTestScripted(workflow.Credentials{Username: "alice"}, workflow.SubmissionChoice{})
	_, err := s.PromptCredentials(context.Background(), workflow.CredentialRequest{})
	assert.ErrorIs(t, err, ErrNoCredentials)
	assert.False(t, errors.Is(err, workflow.ErrCanceled))

	want := workflow.Credentials{Username: "alice", Password: "pw", Remember: true}
	s, _ = newTestScripted(want, workflow.SubmissionChoice{})
	for attempt := 0; attempt < 2; attempt++ {
		got, err := s.PromptCredentials(context.Background(), workflow.CredentialRequest{Attempt: attempt})
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestScriptedSubmissionDefaults(t *testing.T) {
	s, _ := newTestScripted(workflow.Credentials{}, workflow.SubmissionChoice{
		Mode:        workflow.ModeCreateNew,
		Summary:     "Bug",
		Description: "desc",
	})

	choice, err := s.PromptSubmission(context.Background(), workflow.SubmissionRequest{
		LastProjectID: "OPS",
		Projects:      projects,
		FileName:      "Screenshot 2026-01-01",
	})
	require.NoError(t, err)
	assert.Equal(t, "OPS", choice.ProjectID)
	assert.Equal(t, "Screenshot 2026-01-01", choice.FileName)
}

func TestScriptedSubmissionErrors(t *testing.T) {
	t.Run("inaccessible project", func(t *testing.T) {
		s, _ := newTestScripted(workflow.Credentials{}, workflow.SubmissionChoice{
			Mode: workflow.ModeCreateNew, ProjectID: "SECRET", Summary: "s", Description: "d",
		})
		_, err := s.PromptSubmission(context.Background(), workflow.SubmissionRequest{Projects: projects, FileName: "f"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"SECRET"`)
	})

	t.Run("existing issue needs ID", func(t *testing.T) {
		s, _ := newTestScripted(workflow.Credentials{}, workflow.SubmissionChoice{Mode: workflow.ModeUseExisting})
		_, err := s.PromptSubmission(context.Background(), workflow.SubmissionRequest{LastIssueID: "DEMO-1", FileName: "f"})
		assert.Error(t, err)
	})
}

func TestScriptedExistingIssueSkipsProjectCheck(t *testing.T) {
	s, opened := newTestScripted(workflow.Credentials{}, workflow.SubmissionChoice{Mode: workflow.ModeUseExisting, IssueID: "ELSE-9"})
	choice, err := s.PromptSubmission(context.Background(), workflow.SubmissionRequest{FileName: "f"})
	require.NoError(t, err)
	assert.Equal(t, "ELSE-9", choice.IssueID)

	require.NoError(t, s.OpenURL("https://yt.example/issue/ELSE-9"))
	assert.Equal(t, []string{"https://yt.example/issue/ELSE-9"}, *opened)
}

func TestTerminalProgress(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(&out, quietLogger())

	for _, s := range []workflow.State{
		workflow.StateAwaitingCredentials,
		workflow.StateAuthenticating,
		workflow.StateFetchingProjects,
		workflow.StateAwaitingChoice,
		workflow.StateCreatingIssue,
		workflow.StateUploading,
		workflow.StateDone,
	} {
		term.Progress(s)
	}

	assert.Equal(t, "Logging in...\nFetching projects...\nCreating issue...\nUploading screenshot...\n", out.String())
}

func TestTerminalOpenURL(t *testing.T) {
	term := NewTerminal(&bytes.Buffer{}, quietLogger())
	var got string
	term.open = func(url string) error {
		got = url
		return errors.New("no display")
	}

	err := term.OpenURL("https://yt.example/issue/DEMO-1")
	assert.Error(t, err)
	assert.Equal(t, "https://yt.example/issue/DEMO-1", got)
}

func TestBrowserOutputDiscardedAtInit(t *testing.T) {
	assert.Equal(t, io.Discard, browser.Stdout)
	assert.Equal(t, io.Discard, browser.Stderr)
}
