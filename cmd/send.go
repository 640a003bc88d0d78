package cmd

import (
	"fmt"
	"os"

	"github.com/dt-pm-tools/ytshot/internal/capture"
	"github.com/dt-pm-tools/ytshot/internal/config"
	"github.com/dt-pm-tools/ytshot/internal/draft"
	"github.com/dt-pm-tools/ytshot/internal/host"
	"github.com/dt-pm-tools/ytshot/internal/workflow"
	"github.com/dt-pm-tools/ytshot/internal/youtrack"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	sendProject          string
	sendSummary          string
	sendDescription      string
	sendIssue            string
	sendFileName         string
	sendFrom             string
	sendFormat           string
	sendUsername         string
	sendPassword         string
	sendRemember         bool
	sendOpen             bool
	sendNonInteractive   bool
	sendMaxLoginAttempts int
)

var sendCmd = &cobra.Command{
	Use:   "send <image-file>",
	Short: "Attach a screenshot to a YouTrack issue",
	Long: `Logs in to YouTrack, lets you pick a project and create a new issue or name an
existing one, and uploads the image as an attachment.

When stdin is a terminal the login and issue details are asked for in
interactive forms, and a failed login asks again until you cancel. With
--non-interactive (or without a terminal) the details come from flags:

  ytshot send shot.png --non-interactive --project DEMO --summary "Crash" --description "Steps..."
  ytshot send shot.png --non-interactive --issue DEMO-42
  ytshot send shot.png --from crash.md

--from reads an issue draft (see "ytshot draft") and implies --non-interactive;
flags given explicitly win over the draft.

--username/--password are only used when the stored credentials are missing
or rejected. On success the last used project and issue are saved.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}

		cfg := appConfig
		if cmd.Flags().Changed("format") {
			cfg.FileFormat = config.NormalizeFormat(sendFormat)
			if err := cfg.Validate(); err != nil {
				return err
			}
		}
		if cmd.Flags().Changed("open") {
			cfg.OpenInBrowser = sendOpen
		}

		img, err := capture.Load(args[0])
		if err != nil {
			return err
		}

		choice, err := scriptedChoice(cmd)
		if err != nil {
			return err
		}

		var h workflow.Host
		opts := workflow.Options{}
		if sendFrom == "" && !sendNonInteractive && term.IsTerminal(int(os.Stdin.Fd())) {
			t := host.NewTerminal(os.Stderr, logger)
			h = t
			opts.OnState = t.Progress
		} else {
			h = host.NewScripted(
				workflow.Credentials{Username: sendUsername, Password: sendPassword, Remember: sendRemember},
				choice,
				logger,
			)
			// Preset credentials never change; cap the login loop.
			opts.MaxLoginAttempts = max(sendMaxLoginAttempts, 1)
		}

		client := youtrack.NewClient(logger)
		outcome := workflow.New(client, h, logger, opts).Run(cmd.Context(), cfg, img)

		switch outcome.Status {
		case workflow.StatusCanceled:
			fmt.Fprintln(os.Stderr, "Canceled.")
			return nil
		case workflow.StatusFailed:
			return fmt.Errorf("sending screenshot: %s", outcome.Message)
		}

		if err := config.Persist(configPath(), outcome.Config, outcome.Remembered); err != nil {
			return fmt.Errorf("saving last used issue: %w", err)
		}

		fmt.Printf("Attached to %s\n", workflow.IssueURL(cfg.URL, outcome.Issue.IssueID))
		return nil
	},
}

// scriptedChoice builds the preset answer from the --from draft, with
// explicitly set flags taking precedence.
func scriptedChoice(cmd *cobra.Command) (workflow.SubmissionChoice, error) {
	var choice workflow.SubmissionChoice
	if sendFrom != "" {
		content, err := os.ReadFile(sendFrom)
		if err != nil {
			return choice, fmt.Errorf("reading draft: %w", err)
		}
		d, err := draft.Unmarshal(string(content))
		if err != nil {
			return choice, fmt.Errorf("parsing draft %s: %w", sendFrom, err)
		}
		choice = d.Choice()
	}

	flags := cmd.Flags()
	if flags.Changed("issue") {
		choice.Mode = workflow.ModeUseExisting
		choice.IssueID = sendIssue
	} else if flags.Changed("project") || flags.Changed("summary") || flags.Changed("description") {
		choice.Mode = workflow.ModeCreateNew
	}
	if flags.Changed("project") {
		choice.ProjectID = sendProject
	}
	if flags.Changed("summary") {
		choice.Summary = sendSummary
	}
	if flags.Changed("description") {
		choice.Description = sendDescription
	}
	if flags.Changed("file-name") {
		choice.FileName = sendFileName
	}
	return choice, nil
}

func init() {
	sendCmd.Flags().StringVar(&sendProject, "project", "", "project short name for a new issue (default: last used)")
	sendCmd.Flags().StringVar(&sendSummary, "summary", "", "summary of the new issue")
	sendCmd.Flags().StringVar(&sendDescription, "description", "", "description of the new issue")
	sendCmd.Flags().StringVar(&sendIssue, "issue", "", "attach to this existing issue instead of creating one")
	sendCmd.Flags().StringVar(&sendFileName, "file-name", "", "attachment name without extension (default: from the configured template)")
	sendCmd.Flags().StringVarP(&sendFrom, "from", "f", "", "read project, summary and description from an issue draft file")
	sendCmd.Flags().StringVar(&sendFormat, "format", "", "attachment format for this run (png, jpg, gif, bmp, tiff)")
	sendCmd.Flags().StringVar(&sendUsername, "username", "", "user name when stored credentials are missing or rejected")
	sendCmd.Flags().StringVar(&sendPassword, "password", "", "password when stored credentials are missing or rejected")
	sendCmd.Flags().BoolVar(&sendRemember, "remember", false, "save --username/--password after a successful send")
	sendCmd.Flags().BoolVar(&sendOpen, "open", true, "open the issue in the browser afterwards")
	sendCmd.Flags().BoolVar(&sendNonInteractive, "non-interactive", false, "never show forms; take all input from flags")
	sendCmd.Flags().IntVar(&sendMaxLoginAttempts, "max-login-attempts", 2, "failed logins allowed in non-interactive mode")
	rootCmd.AddCommand(sendCmd)
}
