// Package build provides the canonical content build for sitegraph.
//
// The CLI build command and the preview server both route through Service:
// it loads the content model, reuses the cached reference index for an
// unchanged schema, runs the pipeline and, when asked, writes the result and
// its manifest to the output directory.
package build
