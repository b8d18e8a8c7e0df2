// Package dataset turns an uploaded byte stream into a typed table and
// derives filtered views from it.
//
// The three stages are pure functions over in-memory data:
//
//   - Loader parses delimited text into a dataset.Table, inferring one kind
//     per column.
//   - Classify partitions the columns into numeric and categorical sets for
//     the selection widgets.
//   - Apply evaluates a FilterSpec and returns a new table; the source table
//     is never modified.
package dataset
