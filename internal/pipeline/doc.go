// Package pipeline implements the COVID-19 statistics pipeline: joining the
// WHO daily dataset with the country-code crosswalk and population reference
// tables, deriving the case-fatality ratio and the day-over-day case ratio
// per entity, aggregating countries into WHO regions, rescaling counts to a
// per-million view, and unifying the country- and region-level tables into
// one combined output.
//
// Every stage returns a new table rather than mutating a shared one; the
// pipeline is stateless across runs and single-threaded apart from the
// concurrent load of the three source files.
package pipeline
