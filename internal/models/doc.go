// Package models defines the persisted domain records for Snapsplit.
//
// The split engine (internal/calculator) consumes these records but owns its
// own input types; the service layer converts between the two. Records keep
// the nullable user/friend foreign keys exactly as stored; resolving them
// into a tagged participant happens at that conversion boundary.
//
// Conventions, shared with the storage layer:
//   - IDs are UUID strings generated on insert.
//   - Timestamps are Unix seconds (CreatedAt, UpdatedAt).
//   - Monetary amounts are float64 in a single implicit currency unit;
//     formatting to 2 decimals happens at the computation output boundary,
//     never here.
package models
