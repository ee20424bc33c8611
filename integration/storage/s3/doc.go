// Package s3 stores opaque blobs in Amazon S3 or an S3-compatible service
// (MinIO, DigitalOcean Spaces, Wasabi) using the AWS SDK v2.
//
// It backs the S3 response cache backend:
//
//	st, err := s3.New(ctx, s3.Config{
//		Bucket: "psfs-cache",
//		Region: "eu-west-1",
//		Prefix: "cache",
//	})
//	if err != nil {
//		return err
//	}
//	err = st.Put(ctx, "json/ab/cd/abcd...", body, map[string]string{"expires-at": "1700000000"})
//
// Static credentials are optional; without them the default AWS credential
// chain (environment, shared config, IAM role) is used. Errors are mapped to
// package sentinels such as ErrNotFound so callers can use errors.Is.
package s3
