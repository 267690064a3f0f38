// Package annotation provides the in-memory registry that records, per
// canonical URL, whether the resource has been scanned and which tags it
// carries.
//
// A Registry is created explicitly with NewRegistry and handed to every
// collaborator that needs it. All methods are safe for concurrent use. No
// method returns an error: URLs are keyed through the canonical package,
// which falls back to the raw string for malformed input.
//
// Status carries more information as it moves from NotScanned through
// ScannedManual to ScannedActive. A manual mark never downgrades an actively
// scanned record, and toggling the synthetic "Scanned" tag on such a record
// does nothing.
package annotation
