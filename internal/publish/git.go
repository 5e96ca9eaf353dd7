// Package publish commits the generated artifacts and pushes them upstream.
package publish

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Committer records a set of changed files under a commit message and
// publishes the result.
type Committer interface {
	Commit(ctx context.Context, paths []string, message string) error
}

// GitCommitter drives the git binary inside a working tree.
type GitCommitter struct {
	Dir       string // working tree
	RemoteURL string // push destination, may embed credentials
	Branch    string // remote branch to update
	UserName  string
	UserEmail string
	Token     string // redacted from any error output
}

// RemoteURL builds the authenticated HTTPS push URL for a GitHub repository
// given as "owner/name".
func RemoteURL(token, repo string) string {
	if token == "" {
		return fmt.Sprintf("https://github.com/%s.git", repo)
	}
	return fmt.Sprintf("https://%s@github.com/%s.git", token, repo)
}

// Commit stages paths, commits them, and pushes HEAD to the remote branch.
func (g *GitCommitter) Commit(ctx context.Context, paths []string, message string) error {
	add := append([]string{"add", "--"}, paths...)
	if err := g.run(ctx, add...); err != nil {
		return err
	}

	if err := g.run(ctx,
		"-c", "user.name="+g.UserName,
		"-c", "user.email="+g.UserEmail,
		"commit", "-m", message,
	); err != nil {
		return err
	}

	return g.run(ctx, "push", "-q", g.RemoteURL, "HEAD:"+g.Branch)
}

func (g *GitCommitter) run(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = g.Dir
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("git %s failed: %w (output: %s)",
			g.redact(args[firstVerb(args)]), err, g.redact(strings.TrimSpace(string(output))))
	}
	return nil
}

func (g *GitCommitter) redact(s string) string {
	if g.Token == "" {
		return s
	}
	return strings.ReplaceAll(s, g.Token, "***")
}

// firstVerb skips leading "-c key=value" pairs so errors name the subcommand.
func firstVerb(args []string) int {
	i := 0
	for i+1 < len(args) && args[i] == "-c" {
		i += 2
	}
	return i
}
