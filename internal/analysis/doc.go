// Package analysis derives findings from a finished network snapshot.
//
// Analysis is read-only and runs after crawling completes. It answers
// two questions about a snapshot: which director identities hold more
// than one appointment (shared directors, ranked by appointment count),
// and which groups of companies are transitively connected through
// those identities (clusters).
//
// Design decision: analysis operates on the snapshot alone and never
// touches the registry. Rankings and cluster membership are therefore
// reproducible from a stored snapshot without network access.
package analysis
