// Package selector resolves label-selector relationships between workload
// resources.
//
// Two relationship views are computed from a single point-in-time snapshot
// of a namespace:
//
//   - Membership: which pods (or other labeled resources) a selector picks
//     out of a candidate pool. An empty selector matches every candidate.
//   - Service dependencies: which services a service selects (its
//     dependencies) and which services select it (its dependents). A service
//     without a selector declares no relationship and therefore has no
//     dependencies.
//
// Matching is exact key=value subset matching. Set-based operators such as
// In, NotIn and Exists are not supported.
//
// The functions in this package are pure and never fail. Fetching the
// snapshot is delegated to a Source; Resolver combines the two.
package selector
