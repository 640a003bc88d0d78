package host

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/huh"
	"github.com/dt-pm-tools/ytshot/internal/workflow"
	"github.com/ternarybob/arbor"
)

// Terminal asks the user through interactive forms.
type Terminal struct {
	out    io.Writer
	open   func(string) error
	logger arbor.ILogger
}

// NewTerminal creates a Terminal host that reports progress on out.
func NewTerminal(out io.Writer, logger arbor.ILogger) *Terminal {
	return &Terminal{
		out:    out,
		open:   OpenBrowser,
		logger: logger,
	}
}

// PromptCredentials shows the login form.
func (t *Terminal) PromptCredentials(ctx context.Context, req workflow.CredentialRequest) (workflow.Credentials, error) {
	creds := workflow.Credentials{
		Username: req.Username,
		Password: req.Password,
		Remember: req.Remember,
	}

	description := req.URL
	if req.Attempt > 0 {
		description += "\nLogin failed. Check your user name and password."
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("YouTrack login").
				Description(description),
			huh.NewInput().
				Title("User name").
				Value(&creds.Username).
				Validate(validateRequired("User name")),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&creds.Password).
				Validate(validateRequired("Password")),
			huh.NewConfirm().
				Title("Remember credentials?").
				Affirmative("Yes").
				Negative("No").
				Value(&creds.Remember),
		),
	)

	if err := runForm(ctx, form); err != nil {
		return workflow.Credentials{}, err
	}
	return creds, nil
}

// PromptSubmission shows the issue form.
func (t *Terminal) PromptSubmission(ctx context.Context, req workflow.SubmissionRequest) (workflow.SubmissionChoice, error) {
	choice := workflow.SubmissionChoice{
		Mode:     workflow.ModeCreateNew,
		IssueID:  req.LastIssueID,
		FileName: req.FileName,
	}
	if hasProject(req.Projects, req.LastProjectID) {
		choice.ProjectID = req.LastProjectID
	} else if len(req.Projects) > 0 {
		choice.ProjectID = req.Projects[0].ID
	}

	projectOptions := make([]huh.Option[string], 0, len(req.Projects))
	for _, p := range req.Projects {
		projectOptions = append(projectOptions, huh.NewOption(fmt.Sprintf("%s (%s)", p.Name, p.ID), p.ID))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Send screenshot to YouTrack").
				Description(req.URL),
			huh.NewSelect[workflow.Mode]().
				Title("Issue").
				Options(
					huh.NewOption("Create a new issue", workflow.ModeCreateNew),
					huh.NewOption("Attach to an existing issue", workflow.ModeUseExisting),
				).
				Value(&choice.Mode),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Project").
				Options(projectOptions...).
				Value(&choice.ProjectID).
				Validate(validateRequired("Project")),
			huh.NewInput().
				Title("Summary").
				Value(&choice.Summary).
				Validate(validateRequired("Summary")),
			huh.NewText().
				Title("Description").
				Value(&choice.Description).
				Validate(validateRequired("Description")),
		).WithHideFunc(func() bool { return choice.Mode != workflow.ModeCreateNew }),
		huh.NewGroup(
			huh.NewInput().
				Title("Issue ID").
				Placeholder("DEMO-42").
				Value(&choice.IssueID).
				Validate(validateRequired("Issue ID")),
		).WithHideFunc(func() bool { return choice.Mode != workflow.ModeUseExisting }),
		huh.NewGroup(
			huh.NewInput().
				Title("File name").
				Description("Without extension").
				Value(&choice.FileName).
				Validate(validateRequired("File name")),
		),
	)

	if err := runForm(ctx, form); err != nil {
		return workflow.SubmissionChoice{}, err
	}
	return choice, nil
}

// OpenURL opens the issue in the default browser.
func (t *Terminal) OpenURL(url string) error {
	t.logger.Debug().Str("url", url).Msg("Opening browser")
	return t.open(url)
}

// Progress prints a line for the network states of a run.
func (t *Terminal) Progress(s workflow.State) {
	var msg string
	switch s {
	case workflow.StateAuthenticating:
		msg = "Logging in..."
	case workflow.StateFetchingProjects:
		msg = "Fetching projects..."
	case workflow.StateCreatingIssue:
		msg = "Creating issue..."
	case workflow.StateUploading:
		msg = "Uploading screenshot..."
	default:
		return
	}
	fmt.Fprintln(t.out, msg)
}

func runForm(ctx context.Context, form *huh.Form) error {
	err := form.RunWithContext(ctx)
	if errors.Is(err, huh.ErrUserAborted) || errors.Is(err, context.Canceled) {
		return workflow.ErrCanceled
	}
	if err != nil {
		return fmt.Errorf("running form: %w", err)
	}
	return nil
}
