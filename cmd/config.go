package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/dt-pm-tools/ytshot/internal/config"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configure YouTrack connection settings",
	Long:  `Interactively set up the YouTrack URL, credentials, attachment file name template and format. Settings are saved to ~/.ytshot.yaml. Press Enter to keep the value shown in brackets, or enter "-" to clear it; a cleared user name or password is asked for at every send.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reader := bufio.NewReader(os.Stdin)

		// Load the stored file for defaults; env overrides are not saved
		existing, err := config.LoadStored(cfgFile)
		if err != nil {
			existing = config.Default()
		}

		url := ask(reader, "YouTrack URL", existing.URL, "e.g., https://youtrack.example.com")
		username := ask(reader, "User name", existing.Username, "empty to be asked every time")

		// Password (masked input)
		fmt.Print("Password (input hidden, empty keeps the current one, - clears it): ")
		passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println() // newline after hidden input
		if err != nil {
			return fmt.Errorf("reading password: %w", err)
		}
		password := strings.TrimSpace(string(passwordBytes))
		switch password {
		case "":
			password = existing.Password
		case clearValue:
			password = ""
		}

		fmt.Println("File name placeholders: <Date> <Time> <DateTime> <User> <Computer> <Source>")
		fileName := ask(reader, "File name", existing.FileName, "")
		format := config.NormalizeFormat(ask(reader, "File format ("+strings.Join(config.Formats, ", ")+")", existing.FileFormat, ""))

		openDefault := "n"
		if existing.OpenInBrowser {
			openDefault = "y"
		}
		open := strings.HasPrefix(strings.ToLower(ask(reader, "Open issue in browser after sending (y/n)", openDefault, "")), "y")

		cfg := existing
		cfg.URL = strings.TrimRight(url, "/")
		cfg.Username = username
		cfg.Password = password
		cfg.FileName = fileName
		cfg.FileFormat = format
		cfg.OpenInBrowser = open

		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		path := configPath()
		if err := config.Save(cfg, path); err != nil {
			return err
		}

		fmt.Printf("Configuration saved to %s\n", path)
		return nil
	},
}

// clearValue as an answer empties the setting.
const clearValue = "-"

// ask prints a prompt with the current value as default and returns the
// trimmed answer, the default when the answer is empty, or "" for clearValue.
func ask(reader *bufio.Reader, label, current, hint string) string {
	switch {
	case current != "":
		fmt.Printf("%s [%s]: ", label, current)
	case hint != "":
		fmt.Printf("%s (%s): ", label, hint)
	default:
		fmt.Printf("%s: ", label)
	}
	answer, _ := reader.ReadString('\n')
	switch answer = strings.TrimSpace(answer); answer {
	case "":
		return current
	case clearValue:
		return ""
	}
	return answer
}

func init() {
	rootCmd.AddCommand(configCmd)
}
