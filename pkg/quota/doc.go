// Package quota resolves a client identity to its rate-limit budget.
//
// A Quota pairs a request limit with the time window the limit applies to.
// A TierTable maps tier names (or individual identities) to quotas and
// carries one default quota for everything else. The Resolver is a pure
// lookup: it performs no I/O, has no error path, and treats an unknown
// identity as policy (fall back to the default), not as a failure.
//
// All quotas are validated once, when the Resolver is constructed. A limit
// or window that is not positive is fatal misconfiguration and never
// surfaces on the per-request path.
package quota
