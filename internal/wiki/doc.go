// Package wiki provides a MediaWiki API client for searching page
// titles and collecting the external reference links of a page.
// Failures are classified into the outcome taxonomy (disambiguation,
// not found, network timeout, unknown) via FetchError so callers can
// record them without string matching.
package wiki
