// Package database provides SQLite-based storage for scanmark.
//
// The annotation registry lives in memory; AnnotationDB keeps a snapshot of
// it between runs so marks and tags made in one session are still there in
// the next. Each CLI invocation loads the snapshot, applies its change and
// saves it back.
//
// SQLite (via modernc.org/sqlite) keeps the database a single CGO-free file
// in the XDG data directory.
package database
