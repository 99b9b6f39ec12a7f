// Copyright 2025 Innovation Lab Inc. <dev+marketplace@innovationlab.ai>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package media signs time-limited URLs for demo assets held in an
// S3-compatible object store.
package media

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "marketplace/media")

// ErrNotConfigured is returned when signing is requested but no object store
// is configured.
var ErrNotConfigured = errors.New("no media store configured")

// Options holds the object store configuration of the signer.
type Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Secure    bool
	URLExpiry time.Duration
}

// DefaultOptions are the default signer options, matching the original
// 1 hour link validity.
var DefaultOptions = Options{
	Secure:    true,
	URLExpiry: 1 * time.Hour,
}

// Configured returns true when the options designate a usable object store.
func (options Options) Configured() bool {
	return options.Endpoint != "" &&
		options.AccessKey != "" &&
		options.SecretKey != "" &&
		options.Bucket != ""
}

type cachedURL struct {
	url       string
	expiresAt time.Time
}

// Signer produces presigned GET URLs for demo assets.
//
// An unconfigured Signer is valid, SignedURL then returns ErrNotConfigured.
type Signer struct {
	options Options
	cache   *lru.Cache
	now     func() time.Time
	presign func(ctx context.Context, object string, expiry time.Duration) (*url.URL, error)

	warnedObjects sync.Map
}

const signedURLCacheSize = 1024

// CreateSigner creates a Signer from the given options.
func CreateSigner(options Options) (*Signer, error) {
	if options.URLExpiry <= 0 {
		options.URLExpiry = DefaultOptions.URLExpiry
	}

	signer := &Signer{
		options: options,
		now:     time.Now,
	}

	if !options.Configured() {
		return signer, nil
	}

	client, err := minio.New(options.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(options.AccessKey, options.SecretKey, ""),
		Secure: options.Secure,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to create the media store client for %q (%w)", options.Endpoint, err)
	}

	cache, err := lru.New(signedURLCacheSize)
	if err != nil {
		return nil, err
	}

	signer.cache = cache
	signer.presign = func(ctx context.Context, object string, expiry time.Duration) (*url.URL, error) {
		return client.PresignedGetObject(ctx, options.Bucket, object, expiry, nil)
	}
	return signer, nil
}

// Configured returns true when the signer can actually sign.
func (s *Signer) Configured() bool {
	return s.presign != nil
}

func isAbsoluteURL(value string) bool {
	return strings.HasPrefix(value, "http://") ||
		strings.HasPrefix(value, "https://") ||
		strings.HasPrefix(value, "data:")
}

// warnOnce logs the dropped demo link warning once per object.
func (s *Signer) warnOnce(object string) {
	if _, alreadyWarned := s.warnedObjects.LoadOrStore(object, struct{}{}); !alreadyWarned {
		log.WithField("object", object).Warn(
			"No media store configured, the demo link is dropped",
		)
	}
}

// SignedURL returns a time-limited URL for the given demo asset.
//
// Absolute URLs pass through unsigned with a zero expiry time. Signed URLs
// are cached and re-signed when less than 10% of their lifetime remains.
func (s *Signer) SignedURL(ctx context.Context, object string) (string, time.Time, error) {
	object = strings.TrimSpace(object)
	if object == "" {
		return "", time.Time{}, fmt.Errorf("no object to sign")
	}

	if isAbsoluteURL(object) {
		return object, time.Time{}, nil
	}

	if !s.Configured() {
		s.warnOnce(object)
		return "", time.Time{}, ErrNotConfigured
	}

	renewalMargin := s.options.URLExpiry / 10
	if cached, ok := s.cache.Get(object); ok {
		entry := cached.(cachedURL)
		if s.now().Before(entry.expiresAt.Add(-renewalMargin)) {
			return entry.url, entry.expiresAt, nil
		}
	}

	signedURL, err := s.presign(ctx, object, s.options.URLExpiry)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("unable to sign a url for %q (%w)", object, err)
	}

	expiresAt := s.now().Add(s.options.URLExpiry)
	s.cache.Add(object, cachedURL{url: signedURL.String(), expiresAt: expiresAt})
	return signedURL.String(), expiresAt, nil
}
