// Package errors provides the classified error primitives used across sitegraph.
//
// A ClassifiedError carries a category (what part of the content build failed),
// a severity (whether the run must stop), and structured context such as the
// file that was being read. Adapters translate classified errors into CLI exit
// codes and HTTP responses for the preview server.
//
// Example usage:
//
//	err := errors.WrapError(cause, errors.CategoryParse, "malformed frontmatter").
//		Fatal().
//		WithContext("file", path).
//		Build()
package errors
