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

package test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/innovationlab/marketplace/services/marketplace/backend"
)

var aiTypes = []string{"Generative AI", "Predictive Analytics", "NLP"}
var businessLines = []string{"Wealth Management", "Asset Management", "Investment Bank"}
var functions = []string{"Advisory", "Research", "KYC & Risk", "Productivity"}

func generateApplication(idx int) *backend.Application {
	return &backend.Application{
		ID:           fmt.Sprintf("application-%d", idx),
		Title:        fmt.Sprintf("Application %d", idx),
		Description:  fmt.Sprintf("Description of application %d", idx),
		Image:        fmt.Sprintf("https://cdn.example.com/app-%d.png", idx),
		AppURL:       fmt.Sprintf("https://apps.example.com/app-%d", idx),
		BusinessLine: businessLines[idx%len(businessLines)],
		Function:     functions[idx%len(functions)],
		AIType:       aiTypes[idx%len(aiTypes)],
		Status:       "beta",
	}
}

func generateApplications(count int) []*backend.Application {
	apps := make([]*backend.Application, count)
	for idx := range apps {
		apps[idx] = generateApplication(idx)
	}
	return apps
}

func extractApplicationIDs(apps []*backend.Application) []string {
	ids := []string{}
	for _, app := range apps {
		ids = append(ids, app.ID)
	}
	return ids
}

func noFilter() backend.ApplicationFilter {
	return backend.NewApplicationFilter("", nil, nil, nil, nil)
}

// RunSuite runs the full backend test suite
func RunSuite(t *testing.T, createBackend func() backend.Backend, destroyBackend func(backend.Backend)) {
	t.Run("TestCreateBackend", func(t *testing.T) {
		b := createBackend()
		defer destroyBackend(b)

		assert.NotNil(t, b)
	})
	t.Run("TestCreateOrUpdateApplications", func(t *testing.T) {
		b := createBackend()
		defer destroyBackend(b)

		{
			err := b.CreateOrUpdateApplications(context.Background(), generateApplications(2))
			assert.NoError(t, err)
		}

		{
			r, err := b.RetrieveApplications(context.Background(), noFilter(), -1, -1)
			assert.NoError(t, err)

			assert.Len(t, r.Applications, 2)
			assert.ElementsMatch(
				t,
				extractApplicationIDs(r.Applications),
				[]string{"application-0", "application-1"},
			)
		}
	})
	t.Run("TestUpdatePreservesInsertionOrder", func(t *testing.T) {
		b := createBackend()
		defer destroyBackend(b)

		apps := generateApplications(3)
		require.NoError(t, b.CreateOrUpdateApplications(context.Background(), apps))

		// Update the first inserted application
		updated := generateApplication(0)
		updated.Title = "Updated Application 0"
		require.NoError(
			t,
			b.CreateOrUpdateApplications(context.Background(), []*backend.Application{updated}),
		)

		r, err := b.RetrieveApplications(context.Background(), noFilter(), -1, -1)
		assert.NoError(t, err)
		assert.Equal(
			t,
			[]string{"application-0", "application-1", "application-2"},
			extractApplicationIDs(r.Applications),
		)
		assert.Equal(t, "Updated Application 0", r.Applications[0].Title)
	})
	t.Run("TestRetrieveApplicationsPagination", func(t *testing.T) {
		b := createBackend()
		defer destroyBackend(b)

		require.NoError(t, b.CreateOrUpdateApplications(context.Background(), generateApplications(5)))

		retrievedIDs := []string{}
		fromApplicationIdx := -1
		for i := 0; i < 3; i++ {
			r, err := b.RetrieveApplications(context.Background(), noFilter(), fromApplicationIdx, 2)
			assert.NoError(t, err)
			retrievedIDs = append(retrievedIDs, extractApplicationIDs(r.Applications)...)
			fromApplicationIdx = r.NextApplicationIdx
		}

		assert.Equal(t, []string{
			"application-0",
			"application-1",
			"application-2",
			"application-3",
			"application-4",
		}, retrievedIDs)

		// The catalog is exhausted
		r, err := b.RetrieveApplications(context.Background(), noFilter(), fromApplicationIdx, 2)
		assert.NoError(t, err)
		assert.Empty(t, r.Applications)
	})
	t.Run("TestRetrieveApplicationsFilter", func(t *testing.T) {
		b := createBackend()
		defer destroyBackend(b)

		require.NoError(t, b.CreateOrUpdateApplications(context.Background(), generateApplications(6)))

		{
			// "Generative AI" is assigned to applications 0 and 3
			filter := backend.NewApplicationFilter("", []string{"Generative AI"}, nil, nil, nil)
			r, err := b.RetrieveApplications(context.Background(), filter, -1, -1)
			assert.NoError(t, err)
			assert.Equal(
				t,
				[]string{"application-0", "application-3"},
				extractApplicationIDs(r.Applications),
			)
		}

		{
			filter := backend.NewApplicationFilter("application 4", nil, nil, nil, nil)
			r, err := b.RetrieveApplications(context.Background(), filter, -1, -1)
			assert.NoError(t, err)
			assert.Equal(t, []string{"application-4"}, extractApplicationIDs(r.Applications))
		}

		{
			filter := backend.NewApplicationFilter("no such application", nil, nil, nil, nil)
			r, err := b.RetrieveApplications(context.Background(), filter, -1, -1)
			assert.NoError(t, err)
			assert.Empty(t, r.Applications)
		}
	})
	t.Run("TestGetApplications", func(t *testing.T) {
		b := createBackend()
		defer destroyBackend(b)

		require.NoError(t, b.CreateOrUpdateApplications(context.Background(), generateApplications(3)))

		{
			apps, err := b.GetApplications(context.Background(), []string{"application-2", "application-0"})
			assert.NoError(t, err)
			assert.Equal(t, []string{"application-2", "application-0"}, extractApplicationIDs(apps))
		}

		{
			_, err := b.GetApplications(context.Background(), []string{"application-0", "application-42"})
			assert.Error(t, err)
			unknownErr := &backend.UnknownApplicationError{}
			assert.ErrorAs(t, err, &unknownErr)
			assert.Equal(t, "application-42", unknownErr.ApplicationID)
		}
	})
	t.Run("TestDeleteApplications", func(t *testing.T) {
		b := createBackend()
		defer destroyBackend(b)

		require.NoError(t, b.CreateOrUpdateApplications(context.Background(), generateApplications(3)))

		{
			err := b.DeleteApplications(context.Background(), []string{"application-1", "application-42"})
			assert.NoError(t, err)
		}

		{
			// Deletion is idempotent
			err := b.DeleteApplications(context.Background(), []string{"application-1"})
			assert.NoError(t, err)
		}

		{
			r, err := b.RetrieveApplications(context.Background(), noFilter(), -1, -1)
			assert.NoError(t, err)
			assert.Equal(
				t,
				[]string{"application-0", "application-2"},
				extractApplicationIDs(r.Applications),
			)
		}
	})
	t.Run("TestListFacets", func(t *testing.T) {
		b := createBackend()
		defer destroyBackend(b)

		require.NoError(t, b.CreateOrUpdateApplications(context.Background(), generateApplications(4)))

		facets, err := b.ListFacets(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, []string{"Generative AI", "NLP", "Predictive Analytics"}, facets.AITypes)
		assert.Equal(
			t,
			[]string{"Asset Management", "Investment Bank", "Wealth Management"},
			facets.BusinessLines,
		)
		assert.Equal(
			t,
			[]string{"Advisory", "KYC & Risk", "Productivity", "Research"},
			facets.Functions,
		)
		assert.Equal(t, []string{"beta"}, facets.Statuses)
	})
}
