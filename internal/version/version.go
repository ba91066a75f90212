// Package version holds the build version. Overridable at link time:
//
//	go build -ldflags "-X scamscan/internal/version.Version=v1.2.3"
package version

var Version = "v0.3.0"
