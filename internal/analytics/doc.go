// Package analytics derives the dashboard views from a loaded dataset
// table: the KPI summary, top-N outlier ranking, wide-to-long z-score
// reshape, per-area mean-score rollup, historical trend series, and the
// map point layer.
//
// Every function is a pure read over an immutable *dataset.Table; no
// view mutates shared state or another view's output, so the snapshot
// builder runs them concurrently without coordination. Missing values
// are excluded per view, never coerced to zero.
package analytics
