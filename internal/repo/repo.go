// Package repo guesses a repository's display name for scan submissions.
package repo

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	// originURL matches the remote "origin" url line in .git/config.
	originURL = regexp.MustCompile(`(?i)\[remote "origin"\][\s\S]*?url\s*=\s*(.+)`)

	// ownerRepo extracts "owner/repo" from SSH and HTTPS git URLs.
	ownerRepo = regexp.MustCompile(`[:/]([^/]+/[^/]+?)(?:\.git)?$`)

	// githubRepo extracts "owner/repo" from a package.json repository URL.
	githubRepo = regexp.MustCompile(`github\.com[:/](.+?)(?:\.git)?$`)
)

// DetectName returns the best available name for the repository at dir:
// the git remote origin, then the package.json name, then the directory
// basename.
func DetectName(dir string) string {
	if name := fromGitConfig(dir); name != "" {
		return name
	}
	if name := fromPackageJSON(dir); name != "" {
		return name
	}
	return filepath.Base(dir)
}

// fromGitConfig extracts owner/repo from the origin URL, handling both
// SSH (git@host:owner/repo.git) and HTTPS forms.
func fromGitConfig(dir string) string {
	data, err := os.ReadFile(filepath.Join(dir, ".git", "config"))
	if err != nil {
		return ""
	}

	match := originURL.FindSubmatch(data)
	if match == nil {
		return ""
	}
	url := strings.TrimSpace(string(match[1]))

	if m := ownerRepo.FindStringSubmatch(url); m != nil {
		return m[1]
	}
	return ""
}

// fromPackageJSON prefers the repository field, then the package name.
func fromPackageJSON(dir string) string {
	data, err := os.ReadFile(filepath.Join(dir, "package.json"))
	if err != nil {
		return ""
	}

	var pkg struct {
		Name       string          `json:"name"`
		Repository json.RawMessage `json:"repository"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return ""
	}

	if name := repositoryName(pkg.Repository); name != "" {
		return name
	}
	return pkg.Name
}

// repositoryName handles both string and {url: ...} repository fields.
func repositoryName(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var url string
	if err := json.Unmarshal(raw, &url); err != nil {
		var obj struct {
			URL string `json:"url"`
		}
		if err := json.Unmarshal(raw, &obj); err != nil {
			return ""
		}
		url = obj.URL
	}

	if m := githubRepo.FindStringSubmatch(url); m != nil {
		return m[1]
	}
	return ""
}
