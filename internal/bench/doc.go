// Package bench drives an rwmap.Map with a configurable read/write mix.
//
// A Runner owns one map and a pool of workers. Each worker picks a key
// from a fixed key space and issues either a read (Get, ContainsKey, a
// bounded scan under the read handle) or a write (Put, Merge, Compute,
// Delete) according to WorkloadSection.ReadRatio. A shared rate limiter
// caps the total operation rate when one is configured.
//
// Run returns a Result with per-kind counts and throughput. WriteSnapshot
// and ReadSnapshot persist the map through an rwmap.Codec.
package bench
