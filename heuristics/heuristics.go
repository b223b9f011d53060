// Package heuristics provides the pure text-to-value functions the
// extraction strategies share: money, bed/bath/sqft counts, availability
// dates, address likeness, and neighborhood cleanup. Every function is
// stateless and tolerant of the many phrasings real listing sites use.
//
// The token tables are exported as data so tests and callers can extend
// them without touching the parsing logic.
package heuristics
