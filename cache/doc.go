// Package cache provides a bounded, TTL-aware LRU cache safe for concurrent
// use. The clustering core instantiates it as a content-addressed FeatureSet
// cache: identical bytes always hit the same entry regardless of the image id
// they arrived under.
//
// The cache is an explicit, injectable service owned by the caller's process
// lifetime. There is no package-level singleton.
package cache
