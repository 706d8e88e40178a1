// Package export turns workflow, batch and comparison results into JSON and
// CSV artifacts and plain-text summaries.
//
// The functions are pure data-to-text transforms apart from the export
// timestamp and WriteFile. Field names, column order and number formats are
// a stable file format: percentages and seconds use two decimals, free-text
// CSV fields are always quoted with embedded quotes doubled, and timestamps
// are ISO-8601 UTC with millisecond precision.
package export
