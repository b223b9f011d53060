// Package aptscan provides a generic extraction pipeline that turns raw
// apartment-listing pages from heterogeneous real-estate sites into typed,
// validated, deduplicated records. It locates listings without per-site
// selectors by trying an ordered list of strategies (embedded structured
// data, XHR JSON endpoints, DOM heuristics) and normalizing whatever raw
// fields each strategy captures.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, sqlite/, rod/).
package aptscan
