// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind a small interface covering what a sync run
// needs: reading a dataset object, writing the run summary, and checking bucket
// access. This abstraction supports both AWS S3 and self-hosted MinIO instances.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it easier
// to mock storage interactions for unit testing (see core/storage/mocks).
//
// # Object URIs
//
// Locations of the form "s3://bucket/path/object.json" address objects in storage.
// ParseObjectURI splits them into bucket and object name.
//
// # Usage
//
//	client, err := storage.NewClient(config)
//	exists, err := client.BucketExists(ctx, "datasets")
package storage
