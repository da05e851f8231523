package app

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/go-github/v45/github"
	"github.com/spf13/cobra"
)

// Version is set at compile time
var Version = ""

const (
	Owner = "pouriyajamshidi"
	Repo  = "optionalize"
)

var releaseTag = regexp.MustCompile(`^v?(\d+\.\d+\.\d+)$`)

// PrintUsage prints how optionalize should be run
func PrintUsage(w io.Writer) {
	cmd := newCommand(&flags{}, func(*cobra.Command, []string) error { return nil })

	fmt.Fprintf(w, "\nOPTIONALIZE version %s\n\n", Version)
	fmt.Fprint(w, cmd.UsageString())
}

func compareVersions(v1, v2 string) int {
	parts1 := strings.Split(v1, ".")
	parts2 := strings.Split(v2, ".")

	for i := range min(len(parts1), len(parts2)) {
		n1, _ := strconv.Atoi(parts1[i])
		n2, _ := strconv.Atoi(parts2[i])

		if n1 < n2 {
			return -1
		}
		if n1 > n2 {
			return 1
		}
	}

	// for cases in which version numbers differ in length
	if len(parts1) < len(parts2) {
		return -1
	}

	if len(parts1) > len(parts2) {
		return 1
	}

	return 0
}

// PrintVersion displays the version
func PrintVersion(w io.Writer) {
	fmt.Fprintf(w, "OPTIONALIZE version %s\n", Version)
}

// CheckForUpdates checks for newer versions of optionalize and returns update message
func CheckForUpdates(ctx context.Context) (string, error) {
	return checkForUpdates(ctx, github.NewClient(nil))
}

func checkForUpdates(ctx context.Context, c *github.Client) (string, error) {
	// unauthenticated requests from the same IP are limited to 60 per hour
	latestRelease, _, err := c.Repositories.GetLatestRelease(ctx, Owner, Repo)
	if err != nil {
		return "", fmt.Errorf("check for updates: %w", err)
	}

	latestTagName := latestRelease.GetTagName()
	latestVersion := releaseTag.FindStringSubmatch(latestTagName)

	if len(latestVersion) == 0 {
		return "", fmt.Errorf("version name does not match expected format: %s", latestTagName)
	}

	switch compareVersions(Version, latestVersion[1]) {
	case -1:
		return fmt.Sprintf("Found newer version %s\nPlease update OPTIONALIZE from the URL below:\nhttps://github.com/%s/%s/releases/tag/%s",
			latestVersion[1], Owner, Repo, latestTagName), nil
	case 1:
		return fmt.Sprintf("Current version %s is newer than the latest release %s",
			Version, latestVersion[1]), nil
	default:
		return fmt.Sprintf("OPTIONALIZE is on the latest version: %s", Version), nil
	}
}
