// Package dataset loads the static list of support-ticket records a sync run
// pushes upstream.
//
// A dataset is a JSON array of objects with the keys name (company), email,
// subject, status and createdAt (DD/MM/YYYY). It can live on the local
// filesystem or in object storage, addressed as s3://bucket/object.
//
// Loading is all-or-nothing: a missing file, malformed JSON, or any record with an
// unknown status or impossible date fails the whole load with
// ErrDatasetUnreadable.
package dataset
