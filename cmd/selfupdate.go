package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"
)

// githubRepoSlug is the repository whose releases carry the binaries.
const githubRepoSlug = "giantswarm/mcp-k8s-workloads"

// errNoRelease is returned when the repository has no usable release for
// this platform.
var errNoRelease = errors.New("no release found")

// releaseChecker finds and applies the newest release.
type releaseChecker interface {
	// Check returns the latest released version and whether it is newer
	// than current.
	Check(ctx context.Context, current string) (latest string, newer bool, err error)
	// Update replaces the running binary with the release found by Check.
	Update(ctx context.Context) error
}

// githubReleases checks GitHub releases of slug.
type githubReleases struct {
	slug   string
	latest *selfupdate.Release
}

func (g *githubReleases) Check(ctx context.Context, current string) (string, bool, error) {
	latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(g.slug))
	if err != nil {
		return "", false, err
	}
	if !found {
		return "", false, fmt.Errorf("%w for %s", errNoRelease, g.slug)
	}
	g.latest = latest
	return latest.Version(), !latest.LessOrEqual(current), nil
}

func (g *githubReleases) Update(ctx context.Context) error {
	if g.latest == nil {
		return errNoRelease
	}
	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("failed to locate executable: %w", err)
	}
	return selfupdate.UpdateTo(ctx, g.latest.AssetURL, g.latest.AssetName, exe)
}

// newReleaseChecker is replaced in tests.
var newReleaseChecker = func() releaseChecker {
	return &githubReleases{slug: githubRepoSlug}
}

// newSelfUpdateCmd creates the Cobra command that replaces the running binary
// with the latest GitHub release.
func newSelfUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "self-update",
		Short: "Update mcp-k8s-workloads to the latest version",
		Long: `Check GitHub releases for a newer version of mcp-k8s-workloads and,
if one exists, replace the running binary with it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			current := rootCmd.Version
			if current == "" || current == "dev" {
				return errors.New("cannot self-update a development version")
			}

			ctx := cmd.Context()
			checker := newReleaseChecker()

			latest, newer, err := checker.Check(ctx, current)
			if err != nil {
				return fmt.Errorf("failed to detect latest version: %w", err)
			}
			if !newer {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "mcp-k8s-workloads %s is already the latest version\n", current)
				return nil
			}

			if err := checker.Update(ctx); err != nil {
				return fmt.Errorf("failed to update binary: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated mcp-k8s-workloads to %s\n", latest)
			return nil
		},
	}
}
