// Package storage holds the ports.KeyValueStore implementations backing
// bookmarks and preferences: bolt (default), sqlite and memory.
package storage
