package cmd

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubReleases struct {
	latest    string
	newer     bool
	checkErr  error
	updateErr error

	checkedWith string
	updated     bool
}

func (s *stubReleases) Check(_ context.Context, current string) (string, bool, error) {
	s.checkedWith = current
	return s.latest, s.newer, s.checkErr
}

func (s *stubReleases) Update(context.Context) error {
	s.updated = true
	return s.updateErr
}

func withReleases(t *testing.T, stub *stubReleases, version string) {
	t.Helper()
	origChecker, origVersion := newReleaseChecker, rootCmd.Version
	t.Cleanup(func() {
		newReleaseChecker = origChecker
		rootCmd.Version = origVersion
	})
	newReleaseChecker = func() releaseChecker { return stub }
	rootCmd.Version = version
}

func TestSelfUpdateCmd(t *testing.T) {
	tests := []struct {
		name        string
		version     string
		stub        stubReleases
		wantErr     string
		wantOutput  string
		wantChecked bool
		wantUpdated bool
	}{
		{
			name:    "dev build is refused",
			version: "dev",
			wantErr: "cannot self-update a development version",
		},
		{
			name:    "unversioned build is refused",
			version: "",
			wantErr: "cannot self-update a development version",
		},
		{
			name:        "already on the latest release",
			version:     "v1.4.0",
			stub:        stubReleases{latest: "1.4.0"},
			wantOutput:  "mcp-k8s-workloads v1.4.0 is already the latest version\n",
			wantChecked: true,
		},
		{
			name:        "newer release is installed",
			version:     "v1.4.0",
			stub:        stubReleases{latest: "1.5.0", newer: true},
			wantOutput:  "Updated mcp-k8s-workloads to 1.5.0\n",
			wantChecked: true,
			wantUpdated: true,
		},
		{
			name:        "release lookup fails",
			version:     "v1.4.0",
			stub:        stubReleases{checkErr: errNoRelease},
			wantErr:     "failed to detect latest version: no release found",
			wantChecked: true,
		},
		{
			name:        "binary replacement fails",
			version:     "v1.4.0",
			stub:        stubReleases{latest: "1.5.0", newer: true, updateErr: errors.New("permission denied")},
			wantErr:     "failed to update binary: permission denied",
			wantChecked: true,
			wantUpdated: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := tt.stub
			withReleases(t, &stub, tt.version)

			cmd := newSelfUpdateCmd()
			var out bytes.Buffer
			cmd.SetOut(&out)
			cmd.SetArgs([]string{})

			err := cmd.Execute()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantOutput, out.String())
			}
			assert.Equal(t, tt.wantChecked, stub.checkedWith != "")
			if tt.wantChecked {
				assert.Equal(t, tt.version, stub.checkedWith)
			}
			assert.Equal(t, tt.wantUpdated, stub.updated)
		})
	}
}

func TestGithubReleasesUpdateWithoutCheck(t *testing.T) {
	g := &githubReleases{slug: githubRepoSlug}
	assert.ErrorIs(t, g.Update(context.Background()), errNoRelease)
}

func TestSelfUpdateCmdProperties(t *testing.T) {
	cmd := newSelfUpdateCmd()

	assert.Equal(t, "self-update", cmd.Use)
	assert.Equal(t, "Update mcp-k8s-workloads to the latest version", cmd.Short)
	assert.Contains(t, cmd.Long, "GitHub")
	assert.Equal(t, "giantswarm/mcp-k8s-workloads", githubRepoSlug)
}
