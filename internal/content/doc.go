// Package content defines the in-memory model of a loaded content corpus.
//
// A content file decodes into a *Record: an ordered set of fields whose values
// are one of four variants (Scalar, List, *Record, Ref). Reference resolution
// replaces identifier strings with Ref values pointing at other root records,
// so a resolved corpus is a graph that may contain cycles. Clone turns such a
// graph back into independent trees before anything mutates it per node.
package content
