// Package batch runs network scans for many seed companies concurrently.
//
// Each seed produces an independent network snapshot. Scans run under an
// errgroup with a concurrency limit, and a JSON checkpoint file records
// which seeds have completed so an interrupted run can resume without
// re-spending API quota on finished seeds.
//
// Design decision: We use errgroup.SetLimit rather than a hand-rolled
// worker pool because it is simpler and handles context propagation
// correctly. Per-seed failures are recorded in the result rather than
// returned to the group, so one bad seed never cancels the rest.
package batch
