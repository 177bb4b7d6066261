// Package cache stores pipeline products keyed by content hashes.
//
// A [Cache] is a byte store with TTLs. [FileCache] backs the CLI,
// [RedisCache] backs shared server deployments, and [NullCache] disables
// caching. [Keyer] derives keys for the three cached products:
//
//   - graphs, keyed by the moveset content hash
//   - layouts, keyed by the graph hash plus mode, engine and style sizing
//   - artifacts (SVG, PNG, PDF, ...), keyed by the layout hash plus format
//     and render options
//
// Because every key embeds a hash of its inputs, entries never need
// explicit invalidation: an edited moveset simply produces new keys.
//
// [Instrument] wraps any cache so hits, misses and writes reach the hooks
// registered in the observability package.
package cache
