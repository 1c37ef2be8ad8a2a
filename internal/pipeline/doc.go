// Package pipeline runs several independent crawls concurrently.
//
// Each seed origin gets its own crawler.Driver built by a factory, so no
// frontier, visited set or result sequence is shared between runs. The
// BatchRunner only bounds how many drivers are active at once.
package pipeline
