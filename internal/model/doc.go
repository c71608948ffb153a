// Package model defines the data structures that make up a director
// network snapshot: companies, director identities, appointments, and
// the connections between them.
//
// The Network type is the sole externally visible artifact of a crawl.
// It is assembled incrementally while the crawl runs and finalized once
// the frontier empties, at which point summary statistics are computed
// over the finished snapshot.
package model
