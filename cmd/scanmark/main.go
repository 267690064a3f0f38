// Package main provides the entry point for the scanmark CLI.
//
// scanmark records which URLs of a target have been scanned, by what
// means, and with which tags, treating URLs that differ only in default
// port, query string or fragment as the same resource.
//
// Usage:
//
//	scanmark observe --file urls.txt
//	scanmark mark https://target.example/login
//	scanmark tag https://target.example/login XSS
//	scanmark list --markdown -o coverage.md
//
// See --help for all available options.
package main

func main() {
	Execute()
}
