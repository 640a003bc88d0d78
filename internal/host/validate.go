// Package host provides the collaborators the submission workflow needs from
// its environment: credential and submission prompts and a URL opener.
package host

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dt-pm-tools/ytshot/internal/workflow"
	"github.com/dt-pm-tools/ytshot/internal/youtrack"
	"github.com/pkg/browser"
)

func validateRequired(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

// ValidateChoice checks that a submission choice is complete for its mode.
func ValidateChoice(c workflow.SubmissionChoice) error {
	var errs []error
	switch c.Mode {
	case workflow.ModeCreateNew:
		fields := []struct{ name, value string }{
			{"project", c.ProjectID},
			{"summary", c.Summary},
			{"description", c.Description},
		}
		for _, f := range fields {
			if err := validateRequired(f.name)(f.value); err != nil {
				errs = append(errs, err)
			}
		}
	case workflow.ModeUseExisting:
		if err := validateRequired("issue ID")(c.IssueID); err != nil {
			errs = append(errs, err)
		}
	default:
		errs = append(errs, fmt.Errorf("unknown mode %d", c.Mode))
	}
	if err := validateRequired("file name")(c.FileName); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func hasProject(projects []youtrack.Project, id string) bool {
	for _, p := range projects {
		if p.ID == id {
			return true
		}
	}
	return false
}

func init() {
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
}

// OpenBrowser opens url in the default browser.
func OpenBrowser(url string) error {
	return browser.OpenURL(url)
}
