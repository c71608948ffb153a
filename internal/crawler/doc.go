// Package crawler implements the director network discovery engine: a
// depth-bounded, breadth-first expansion over registry data, starting
// from seed companies and fanning out through shared officers.
//
// # Architecture
//
// The Scanner coordinates the crawl. It owns a FIFO frontier of
// (company, depth) work items and two visited sets (companies already
// expanded and officer identities already searched) which together
// guarantee each company is expanded at most once and each officer is
// searched at most once per crawl. Expansion results stream into a
// model.Network snapshot, finalized when the frontier empties or the
// company cap is reached.
//
// Breadth-first order is a correctness requirement, not a preference:
// a company's recorded depth is the distance at which it is first
// dequeued, so FIFO processing is what makes depth equal the minimum
// officer-hop distance from any seed.
//
// # Failure tolerance
//
// Registry access is expected to fail for individual items. Any fetch
// failure is logged and the item yields nothing; the crawl continues.
// Not-found responses for officer appointment lookups are routine
// (dissolved and corporate officers) and are logged at debug level.
// The only crawl-aborting condition besides the hard caps is context
// cancellation, checked at every dequeue.
//
// # Corporate officers
//
// Officers whose names carry corporate-entity markers (LIMITED, LLP,
// and so on) are companies themselves and have no searchable officer
// record. They are recorded as connections but never searched, which
// avoids burning rate-limit quota on lookups that always miss. The
// detection predicate is pluggable via WithCorporateOfficerPredicate.
package crawler
