// Package output renders query results for people and for machines.
//
// Markdown renderers produce the default tool and CLI output: support tables,
// Baseline labels, comparison grids and paginated listings. JSON output is
// built from the same result types, wrapped with pagination fields by
// Paginated. Every rendered text is subject to a character limit; Truncate
// cuts oversized text and appends a notice telling the caller how to narrow
// the request.
package output
