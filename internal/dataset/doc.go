// Package dataset loads the pre-scored election results table that every
// derived view is computed from.
//
// The dataset is one flat table with a fixed, named column set: polling
// unit identifiers, geospatial coordinates, per-party vote tallies,
// registration/accreditation counts, and precomputed cluster labels,
// z-scores, and composite anomaly scores. The package validates the
// column set once at load time against an explicit schema descriptor and
// fails fast on violations; downstream consumers then use typed
// accessors only. Loading is all-or-nothing: a parse or schema failure
// leaves no partial table behind.
//
// Sources may be http(s) URLs or local files, in CSV (UTF-8 BOM
// tolerated) or XLSX form. Repeated loads within a process are served
// from an injectable, TTL-bounded cache owned by the caller.
package dataset
