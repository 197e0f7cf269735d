// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	store, err := s3.NewStoreFromEnv(ctx, "my-bucket",
//	    s3.WithPrefix("filters/"),
//	    s3.WithRegion("us-east-1"),
//	)
//
// Or with an existing client:
//
//	store := s3.NewStore(s3.NewFromConfig(cfg), "my-bucket", s3.WithPrefix("filters/"))
//
// # Features
//
//   - Range reads for partial fetches
//   - CRC32C integrity checksums on every upload
//   - Multipart uploads for blobs larger than one part
//   - Automatic pagination for listing
//   - Custom endpoints for S3-compatible services
package s3
