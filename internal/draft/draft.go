// Package draft reads and writes issue drafts: Markdown files with YAML
// frontmatter that describe where a screenshot goes.
package draft

import (
	"fmt"
	"strings"

	"github.com/dt-pm-tools/ytshot/internal/workflow"
	"gopkg.in/yaml.v3"
)

// Draft is a prepared submission.
type Draft struct {
	Project     string
	Issue       string
	Summary     string
	FileName    string
	Description string
}

// frontmatter is the YAML header of a draft file.
type frontmatter struct {
	Project  string `yaml:"project,omitempty"`
	Issue    string `yaml:"issue,omitempty"`
	Summary  string `yaml:"summary,omitempty"`
	FileName string `yaml:"file_name,omitempty"`
}

// Unmarshal parses a draft file.
func Unmarshal(content string) (*Draft, error) {
	fm, body, err := splitFrontmatter(strings.ReplaceAll(content, "\r\n", "\n"))
	if err != nil {
		return nil, err
	}

	var meta frontmatter
	if err := yaml.Unmarshal([]byte(fm), &meta); err != nil {
		return nil, fmt.Errorf("parsing frontmatter: %w", err)
	}
	if meta.Project != "" && meta.Issue != "" {
		return nil, fmt.Errorf("frontmatter sets both 'project' and 'issue'")
	}

	heading, body := splitTitleHeading(body)
	summary := strings.TrimSpace(meta.Summary)
	if summary == "" {
		summary = heading
	}

	return &Draft{
		Project:     strings.TrimSpace(meta.Project),
		Issue:       strings.TrimSpace(meta.Issue),
		Summary:     summary,
		FileName:    strings.TrimSpace(meta.FileName),
		Description: strings.TrimSpace(stripDescriptionHeading(body)),
	}, nil
}

// Marshal renders a draft file. The summary becomes the title heading.
func Marshal(d *Draft) (string, error) {
	meta, err := yaml.Marshal(frontmatter{
		Project:  d.Project,
		Issue:    d.Issue,
		FileName: d.FileName,
	})
	if err != nil {
		return "", fmt.Errorf("marshaling frontmatter: %w", err)
	}

	var b strings.Builder
	b.WriteString("---\n")
	if string(meta) != "{}\n" {
		b.Write(meta)
	}
	b.WriteString("---\n\n")
	b.WriteString(fmt.Sprintf("# %s\n\n", d.Summary))
	if d.Description != "" {
		b.WriteString(d.Description)
		b.WriteString("\n")
	}
	return b.String(), nil
}

// Choice converts the draft to a submission choice.
func (d *Draft) Choice() workflow.SubmissionChoice {
	if d.Issue != "" {
		return workflow.SubmissionChoice{
			Mode:     workflow.ModeUseExisting,
			IssueID:  d.Issue,
			FileName: d.FileName,
		}
	}
	return workflow.SubmissionChoice{
		Mode:        workflow.ModeCreateNew,
		ProjectID:   d.Project,
		Summary:     d.Summary,
		Description: d.Description,
		FileName:    d.FileName,
	}
}

func splitFrontmatter(content string) (string, string, error) {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "---") {
		return "", "", fmt.Errorf("no YAML frontmatter found (must start with ---)")
	}

	rest := strings.TrimLeft(content[3:], "\n")
	if strings.HasPrefix(rest, "---") {
		return "", strings.TrimLeft(rest[3:], "\n"), nil
	}
	idx := strings.Index(rest, "\n---")
	if idx < 0 {
		return "", "", fmt.Errorf("no closing --- for frontmatter")
	}

	return rest[:idx], strings.TrimLeft(rest[idx+4:], "\n"), nil
}

// splitTitleHeading takes a leading "# Title" line off the body.
func splitTitleHeading(body string) (string, string) {
	lines := strings.SplitN(body, "\n", 2)
	first := strings.TrimSpace(lines[0])
	if first != "#" && !strings.HasPrefix(first, "# ") {
		return "", body
	}
	title := strings.TrimSpace(strings.TrimPrefix(first, "#"))
	if len(lines) == 1 {
		return title, ""
	}
	return title, strings.TrimLeft(lines[1], "\n")
}

func stripDescriptionHeading(body string) string {
	trimmed := strings.TrimLeft(body, "\n")
	lines := strings.SplitN(trimmed, "\n", 2)
	if !strings.EqualFold(strings.TrimSpace(lines[0]), "## Description") {
		return body
	}
	if len(lines) == 1 {
		return ""
	}
	return lines[1]
}
