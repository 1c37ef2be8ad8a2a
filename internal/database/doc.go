// Package database provides the SQLite run history for webcrawler.
//
// RunStore saves every finished crawl run: a runs row with the full report
// as JSON, the ordered matches and the fetched pages with their content
// fingerprints. The history and compare commands read it back.
//
// Design decision: We use SQLite (via modernc.org/sqlite) because:
//  1. The database is a single file under the XDG data directory
//  2. The CGO-free driver keeps cross-compilation easy
//  3. WAL mode lets concurrent batch runs save while history is read
package database
