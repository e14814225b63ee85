// Package semantic abstracts the external label provider behind a minimal
// capability interface so the clustering core has no compile-time dependency
// on any concrete vision service and can run fully degraded.
//
// Wrappers add the operational concerns every real provider needs: an
// explicit timeout (a stalled provider must never stall a batch) and
// rate limiting for providers with call quotas.
package semantic
