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

package bolt

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/innovationlab/marketplace/services/marketplace/backend"
	"github.com/innovationlab/marketplace/services/marketplace/backend/test"
)

func TestSuiteBoltBackend(t *testing.T) {
	test.RunSuite(
		t,
		func() backend.Backend {
			file, err := os.CreateTemp("", "catalog-*.db")
			require.NoError(t, err)
			require.NoError(t, file.Close())
			b, err := CreateBoltBackend(file.Name())
			require.NoError(t, err)
			return b
		},
		func(b backend.Backend) {
			filePath := b.(*boltBackend).filePath
			b.Destroy()
			os.Remove(filePath)
		},
	)
}

func TestCatalogSurvivesReopen(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "catalog.db")

	{
		b, err := CreateBoltBackend(filePath)
		require.NoError(t, err)
		err = b.CreateOrUpdateApplications(context.Background(), []*backend.Application{
			{
				ID:          "kyc-assistant",
				Title:       "KYC Assistant",
				Description: "Document screening helper.",
				Function:    "KYC & Risk",
			},
		})
		require.NoError(t, err)
		b.Destroy()
	}

	{
		b, err := CreateBoltBackend(filePath)
		require.NoError(t, err)
		defer b.Destroy()

		apps, err := b.GetApplications(context.Background(), []string{"kyc-assistant"})
		require.NoError(t, err)
		assert.Equal(t, "KYC Assistant", apps[0].Title)
		assert.Equal(t, "KYC & Risk", apps[0].Function)
	}
}
