package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dt-pm-tools/ytshot/internal/youtrack"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var projectsOutput string

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List the YouTrack projects you can attach to",
	Long:  `Logs in with the stored credentials (or YOUTRACK_USERNAME/YOUTRACK_PASSWORD) and prints the accessible projects. Use it to find the short name for 'ytshot send --project'.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}
		if !appConfig.HasCredentials() {
			return fmt.Errorf("no stored credentials; run 'ytshot config' or set YOUTRACK_USERNAME and YOUTRACK_PASSWORD")
		}

		client := youtrack.NewClient(logger)
		login := client.Login(cmd.Context(), appConfig.URL, appConfig.Username, appConfig.Password)
		if !login.Authenticated() {
			return fmt.Errorf("login to %s failed", appConfig.URL)
		}

		projects, err := client.ListProjects(cmd.Context(), appConfig.URL, login.Session)
		if err != nil {
			return fmt.Errorf("fetching projects: %w", err)
		}

		switch projectsOutput {
		case "yaml":
			type entry struct {
				ID   string `yaml:"id"`
				Name string `yaml:"name"`
			}
			entries := make([]entry, len(projects))
			for i, p := range projects {
				entries[i] = entry{ID: p.ID, Name: p.Name}
			}
			enc := yaml.NewEncoder(os.Stdout)
			defer enc.Close()
			return enc.Encode(entries)
		case "text":
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME")
			for _, p := range projects {
				fmt.Fprintf(w, "%s\t%s\n", p.ID, p.Name)
			}
			return w.Flush()
		default:
			return fmt.Errorf("unknown output format %q (want text or yaml)", projectsOutput)
		}
	},
}

func init() {
	projectsCmd.Flags().StringVarP(&projectsOutput, "output", "o", "text", "output format (text or yaml)")
	rootCmd.AddCommand(projectsCmd)
}
