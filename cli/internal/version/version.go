// Package version holds the git-suggest version string. Release builds set it via
// go build -ldflags "-X gitsuggest/cli/internal/version.Version=v1.0.0".
package version

// Version is the release version; "dev" for local builds.
var Version = "dev"

// Commit is the short git commit hash of a dev build, set by ldflags.
var Commit = ""

// String returns the version shown by --version: "dev (abc1234)" for dev
// builds with a known commit, otherwise Version.
func String() string {
	if Version != "dev" || Commit == "" {
		return Version
	}
	return Version + " (" + Commit + ")"
}

// UserAgent is sent with provider HTTP requests.
func UserAgent() string {
	return "git-suggest/" + String()
}
