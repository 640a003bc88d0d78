package cmd

import (
	"fmt"
	"os"

	"github.com/dt-pm-tools/ytshot/internal/draft"
	"github.com/spf13/cobra"
)

var (
	draftOutput string
	draftIssue  string
)

var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Write an issue draft for 'ytshot send --from'",
	Long: `Writes a Markdown skeleton with YAML frontmatter. Edit the title heading
(the issue summary) and the body (the description), then pass the file to
'ytshot send <image> --from <file>'. The project defaults to the last one used.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}

		d := &draft.Draft{
			Summary:     "Summary",
			Description: "What happened, and what you expected.",
		}
		if draftIssue != "" {
			d = &draft.Draft{Issue: draftIssue}
		} else {
			d.Project = appConfig.LastProjectID
		}

		content, err := draft.Marshal(d)
		if err != nil {
			return err
		}

		if draftOutput == "" {
			fmt.Print(content)
			return nil
		}
		if _, err := os.Stat(draftOutput); err == nil {
			return fmt.Errorf("%s already exists", draftOutput)
		}
		if err := os.WriteFile(draftOutput, []byte(content), 0644); err != nil {
			return fmt.Errorf("writing file: %w", err)
		}
		fmt.Printf("Wrote %s\n", draftOutput)
		return nil
	},
}

func init() {
	draftCmd.Flags().StringVarP(&draftOutput, "output", "o", "", "file to write (default: stdout)")
	draftCmd.Flags().StringVar(&draftIssue, "issue", "", "draft an attachment to this existing issue")
	rootCmd.AddCommand(draftCmd)
}
