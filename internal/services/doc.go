// Package services wires the dataset loader and the analytics views
// into the read-only query surface the transport layer exposes.
package services
