// Package storage declares the durable record store interfaces the
// funding core depends on, and the sentinel errors every backend maps
// its failures to. Backends live in the sqlite, bbolt, and memory
// subpackages.
package storage
