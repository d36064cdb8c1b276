// Package preview serves the latest content build over HTTP and rebuilds
// when files under the content root change.
//
// A failed rebuild never replaces the last good result; the error is
// reported alongside it until the next successful build.
package preview
