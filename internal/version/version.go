// internal/version/version.go
//
// Package version contains the crawler's version string, used in the
// fetcher's User-Agent header and the CLI's --version output.
package version

// Version is the current version of aio-crawler.
//
// During early development this may be a "-dev" version. For tagged
// releases it should follow semantic versioning, e.g. "v1.0.0".
const Version = "v0.1.0-dev"
