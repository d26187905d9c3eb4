// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storage persists rendered pins and maps their public URLs back to
// storage locations. Two backends exist: a local directory served by the
// HTTP server, and an S3-compatible bucket.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// keyPrefix groups rendered pins inside the bucket.
const keyPrefix = "pins"

// S3 writes pins to a public bucket on an S3-compatible service, using
// path-style addressing (required by CEPH/Hetzner).
type S3 struct {
	s3        *s3.Client
	bucket    string
	endpoint  string
	publicURL string // optional CDN/direct URL for public files
	now       func() time.Time
}

// NewS3 creates an S3 asset store. Returns (nil, nil) if endpoint or
// credentials are empty, letting the caller fall back to local storage.
func NewS3(endpoint, region, accessKey, secretKey, bucket, publicURL string) (*S3, error) {
	if endpoint == "" || accessKey == "" || secretKey == "" {
		return nil, nil
	}
	if bucket == "" {
		return nil, fmt.Errorf("s3: bucket name is required")
	}

	endpoint = strings.TrimRight(endpoint, "/")

	client := s3.New(s3.Options{
		Region:       region,
		BaseEndpoint: aws.String(endpoint),
		Credentials:  credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		UsePathStyle: true,
	})

	return &S3{
		s3:        client,
		bucket:    bucket,
		endpoint:  endpoint,
		publicURL: strings.TrimRight(publicURL, "/"),
		now:       time.Now,
	}, nil
}

// Write uploads a PNG under pins/YYYY/MM/filename with a public-read ACL.
// The returned path is the object key.
func (c *S3) Write(ctx context.Context, data []byte, filename string) (string, string, error) {
	if err := checkFilename(filename); err != nil {
		return "", "", err
	}
	key := keyPrefix + "/" + c.now().Format("2006/01") + "/" + filename

	_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String("image/png"),
		ACL:           s3types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", "", fmt.Errorf("s3 upload %s/%s: %w", c.bucket, key, err)
	}
	return key, c.FileURL(key), nil
}

// FileURL returns the public URL for a key. Uses the configured public URL
// if set, otherwise builds a path-style URL.
func (c *S3) FileURL(key string) string {
	if c.publicURL != "" {
		return c.publicURL + "/" + key
	}
	return c.endpoint + "/" + c.bucket + "/" + key
}

// ResolveLocal always reports false: bucket objects are loaded over HTTP.
func (c *S3) ResolveLocal(string) (string, bool) {
	return "", false
}

// Bucket returns the bucket pins are written to.
func (c *S3) Bucket() string {
	return c.bucket
}
