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

package media

import (
	"context"
	"fmt"
	"net/url"
	"testing"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnconfiguredSigner(t *testing.T) {
	signer, err := CreateSigner(Options{})
	require.NoError(t, err)
	assert.False(t, signer.Configured())

	_, _, err = signer.SignedURL(context.Background(), "demos/portfolio-copilot.mp4")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestAbsoluteURLPassthrough(t *testing.T) {
	signer, err := CreateSigner(Options{})
	require.NoError(t, err)

	for _, absolute := range []string{
		"https://videos.example.com/demo.mp4",
		"http://videos.example.com/demo.mp4",
		"data:video/mp4;base64,AAAA",
	} {
		signedURL, expiresAt, err := signer.SignedURL(context.Background(), absolute)
		assert.NoError(t, err)
		assert.Equal(t, absolute, signedURL)
		assert.True(t, expiresAt.IsZero())
	}
}

func TestEmptyObject(t *testing.T) {
	signer, err := CreateSigner(Options{})
	require.NoError(t, err)

	_, _, err = signer.SignedURL(context.Background(), "  ")
	assert.Error(t, err)
}

// makeStubbedSigner builds a configured signer backed by a counting presign
// stub instead of an actual object store.
func makeStubbedSigner(t *testing.T, expiry time.Duration) (*Signer, *int) {
	cache, err := lru.New(signedURLCacheSize)
	require.NoError(t, err)

	presignCalls := 0
	signer := &Signer{
		options: Options{
			Endpoint:  "store.example.com",
			AccessKey: "access",
			SecretKey: "secret",
			Bucket:    "demos",
			URLExpiry: expiry,
		},
		cache: cache,
		now:   time.Now,
		presign: func(_ context.Context, object string, expiry time.Duration) (*url.URL, error) {
			presignCalls++
			return url.Parse(fmt.Sprintf(
				"https://store.example.com/demos/%s?signature=%d", object, presignCalls,
			))
		},
	}
	return signer, &presignCalls
}

func TestSignedURLIsCached(t *testing.T) {
	signer, presignCalls := makeStubbedSigner(t, 1*time.Hour)

	first, firstExpiry, err := signer.SignedURL(context.Background(), "portfolio-copilot.mp4")
	require.NoError(t, err)
	assert.Equal(t, 1, *presignCalls)
	assert.WithinDuration(t, time.Now().Add(1*time.Hour), firstExpiry, 5*time.Second)

	second, _, err := signer.SignedURL(context.Background(), "portfolio-copilot.mp4")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, *presignCalls)

	// A different object is signed separately
	_, _, err = signer.SignedURL(context.Background(), "kyc-assistant.mp4")
	require.NoError(t, err)
	assert.Equal(t, 2, *presignCalls)
}

func TestSignedURLIsRenewedCloseToExpiry(t *testing.T) {
	signer, presignCalls := makeStubbedSigner(t, 1*time.Hour)

	_, _, err := signer.SignedURL(context.Background(), "portfolio-copilot.mp4")
	require.NoError(t, err)
	assert.Equal(t, 1, *presignCalls)

	// Move the clock to within 10% of the link lifetime
	signer.now = func() time.Time { return time.Now().Add(55 * time.Minute) }

	_, _, err = signer.SignedURL(context.Background(), "portfolio-copilot.mp4")
	require.NoError(t, err)
	assert.Equal(t, 2, *presignCalls)
}
