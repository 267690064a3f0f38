// Package audit implements the active scan check that records which
// resources an active audit has touched.
//
// The first time an active audit reaches a resource, the check marks it as
// actively scanned in the registry and returns a single informational
// Finding so the host tool shows it in its issue list. Later audits of the
// same canonical URL return nothing.
package audit
