// Package directory downloads institution directories and stores them in a
// storage.DirectoryRepository.
//
// A directory file is a JSON array of institution records. Records with
// malformed optional fields are tolerated; records that cannot be decoded at
// all are skipped. Status tiers are assigned once, at load time, from the
// fixed name and address rules in core.StatusFor.
//
// Loader serves one source at a time and fetches each source at most once.
// Pipeline preloads several sources concurrently on an ants worker pool.
package directory
