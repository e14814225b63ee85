// Package cluster turns a similarity graph into product groups and keeps the
// result mutable under manual curation.
//
// Initial grouping is connected components; oversized components are cut by
// repeatedly removing the weakest internal edge and recomputing components.
// The greedy rule is the contract: it is deterministic and fast at
// session-sized batches, not an approximation of an optimal partition.
//
// All mutations on a Result are serialized by a single writer lock and fail
// with typed errors naming the violated precondition; reads are safe
// concurrently and return copies.
package cluster
