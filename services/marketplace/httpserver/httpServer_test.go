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

package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/innovationlab/marketplace/services/marketplace/backend"
	"github.com/innovationlab/marketplace/services/marketplace/backend/memory"
	"github.com/innovationlab/marketplace/services/marketplace/catalog"
	"github.com/innovationlab/marketplace/services/marketplace/media"
)

const testAdminSecret = "test_admin_secret"

func createTestServer(t *testing.T) (*Server, backend.Backend) {
	b, err := memory.CreateMemoryBackend()
	require.NoError(t, err)
	t.Cleanup(b.Destroy)

	signer, err := media.CreateSigner(media.DefaultOptions)
	require.NoError(t, err)

	server, err := New(0, b, signer, catalog.DefaultContent(), testAdminSecret)
	require.NoError(t, err)

	err = b.CreateOrUpdateApplications(context.Background(), []*backend.Application{
		{
			ID:           "portfolio-copilot",
			Title:        "Portfolio Copilot",
			Description:  "Conversational portfolio analysis",
			Image:        "https://cdn.example.com/images/portfolio-copilot.png",
			AppURL:       "https://apps.example.com/portfolio-copilot",
			DemoURL:      "https://cdn.example.com/demos/portfolio-copilot.mp4",
			BusinessLine: "Wealth Management",
			Function:     "Advisory",
			AIType:       "Generative AI",
			Status:       "ga",
		},
		{
			ID:           "risk-summarizer",
			Title:        "Risk Summarizer",
			Description:  "Summarize risk reports",
			DemoURL:      "demos/risk-summarizer.mp4",
			BusinessLine: "Asset Management",
			Function:     "Risk",
			AIType:       "Generative AI",
			Status:       "beta",
		},
		{
			ID:           "entity-extractor",
			Title:        "Entity Extractor",
			Description:  "Extract entities from filings",
			BusinessLine: "Investment Banking",
			Function:     "Research",
			AIType:       "Machine Learning",
			Status:       "ga",
		},
	})
	require.NoError(t, err)

	return server, b
}

func doRequest(server *Server, method string, target string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var bodyReader *bytes.Reader
	if body != nil {
		serializedBody, err := json.Marshal(body)
		if err != nil {
			panic(err)
		}
		bodyReader = bytes.NewReader(serializedBody)
	} else {
		bodyReader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, bodyReader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	w := httptest.NewRecorder()
	server.Handler.ServeHTTP(w, req)
	return w
}

func TestGetInfo(t *testing.T) {
	server, _ := createTestServer(t)

	w := doRequest(server, http.MethodGet, "/", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	body := infoResponse{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Message)
	assert.NotEmpty(t, body.Version)
}

func TestHealth(t *testing.T) {
	server, _ := createTestServer(t)

	for _, route := range []string{"/health", "/_stcore/health"} {
		w := doRequest(server, http.MethodGet, route, nil, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		body := healthResponse{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "ok", body.Status)
	}
}

func TestListApplications(t *testing.T) {
	server, _ := createTestServer(t)

	w := doRequest(server, http.MethodGet, "/applications", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := listApplicationsResponse{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Applications, 3)

	// Insertion order is preserved
	assert.Equal(t, "portfolio-copilot", body.Applications[0].ID)
	assert.Equal(t, "risk-summarizer", body.Applications[1].ID)
	assert.Equal(t, "entity-extractor", body.Applications[2].ID)

	// Display fields are computed
	assert.Equal(t, "Preview", body.Applications[1].DisplayStatus)
	assert.Equal(t, []string{"Asset Management", "Risk"}, body.Applications[1].DisplayTags)
	assert.Empty(t, body.Applications[0].DisplayStatus)
}

func TestListApplicationsQuery(t *testing.T) {
	server, _ := createTestServer(t)

	w := doRequest(server, http.MethodGet, "/applications?query=RISK", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := listApplicationsResponse{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Applications, 1)
	assert.Equal(t, "risk-summarizer", body.Applications[0].ID)
}

func TestListApplicationsFacets(t *testing.T) {
	server, _ := createTestServer(t)

	w := doRequest(
		server,
		http.MethodGet,
		"/applications?ai_type=Generative+AI&business_line=Wealth+Management&business_line=Asset+Management",
		nil,
		nil,
	)
	require.Equal(t, http.StatusOK, w.Code)

	body := listApplicationsResponse{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Applications, 2)
	assert.Equal(t, "portfolio-copilot", body.Applications[0].ID)
	assert.Equal(t, "risk-summarizer", body.Applications[1].ID)
}

func TestListApplicationsPagination(t *testing.T) {
	server, _ := createTestServer(t)

	w := doRequest(server, http.MethodGet, "/applications?count=2", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	firstPage := listApplicationsResponse{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &firstPage))
	require.Len(t, firstPage.Applications, 2)

	w = doRequest(
		server,
		http.MethodGet,
		fmt.Sprintf("/applications?count=2&from_application_idx=%d", firstPage.NextApplicationIdx),
		nil,
		nil,
	)
	require.Equal(t, http.StatusOK, w.Code)

	secondPage := listApplicationsResponse{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &secondPage))
	require.Len(t, secondPage.Applications, 1)
	assert.Equal(t, "entity-extractor", secondPage.Applications[0].ID)
}

func TestGetApplication(t *testing.T) {
	server, _ := createTestServer(t)

	w := doRequest(server, http.MethodGet, "/applications/portfolio-copilot", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	card := applicationCard{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &card))
	assert.Equal(t, "Portfolio Copilot", card.Title)
	// A card without an explicit alt text falls back to its title
	assert.Equal(t, "Portfolio Copilot", card.Alt)

	w = doRequest(server, http.MethodGet, "/applications/nope", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpsertApplications(t *testing.T) {
	server, _ := createTestServer(t)

	token, err := MakeAndSerializeToken("tester", AdminRole, testAdminSecret)
	require.NoError(t, err)

	request := map[string]interface{}{
		"applications": []map[string]interface{}{
			{
				"title":       "KYC Assistant",
				"description": "Automate client onboarding checks",
				"status":      "preview",
			},
		},
	}

	// Missing token
	w := doRequest(server, http.MethodPost, "/applications", request, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Bad token
	w = doRequest(server, http.MethodPost, "/applications", request, map[string]string{
		adminTokenHeaderKey: "not-a-token",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Good token
	w = doRequest(server, http.MethodPost, "/applications", request, map[string]string{
		adminTokenHeaderKey: token,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	body := upsertApplicationsResponse{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []string{"kyc-assistant"}, body.ApplicationIDs)

	w = doRequest(server, http.MethodGet, "/applications/kyc-assistant", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	card := applicationCard{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &card))
	assert.Equal(t, "KYC Assistant", card.Title)
	assert.Equal(t, "Preview", card.DisplayStatus)
}

func TestUpsertInvalidApplications(t *testing.T) {
	server, _ := createTestServer(t)

	token, err := MakeAndSerializeToken("tester", AdminRole, testAdminSecret)
	require.NoError(t, err)

	w := doRequest(server, http.MethodPost, "/applications", map[string]interface{}{
		"applications": []map[string]interface{}{
			{"title": "No Description"},
		},
	}, map[string]string{
		adminTokenHeaderKey: token,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPatchApplication(t *testing.T) {
	server, _ := createTestServer(t)

	token, err := MakeAndSerializeToken("tester", AdminRole, testAdminSecret)
	require.NoError(t, err)

	w := doRequest(server, http.MethodPatch, "/applications/entity-extractor", map[string]interface{}{
		"status": "beta",
	}, map[string]string{
		adminTokenHeaderKey: token,
	})
	require.Equal(t, http.StatusOK, w.Code)

	card := applicationCard{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &card))
	assert.Equal(t, "beta", card.Status)
	assert.Equal(t, "Preview", card.DisplayStatus)
	// Untouched fields are preserved
	assert.Equal(t, "Entity Extractor", card.Title)
	assert.Equal(t, "Extract entities from filings", card.Description)

	// Unknown application
	w = doRequest(server, http.MethodPatch, "/applications/nope", map[string]interface{}{
		"status": "beta",
	}, map[string]string{
		adminTokenHeaderKey: token,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Mismatched id
	w = doRequest(server, http.MethodPatch, "/applications/entity-extractor", map[string]interface{}{
		"id": "something-else",
	}, map[string]string{
		adminTokenHeaderKey: token,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteApplication(t *testing.T) {
	server, _ := createTestServer(t)

	token, err := MakeAndSerializeToken("tester", AdminRole, testAdminSecret)
	require.NoError(t, err)

	w := doRequest(server, http.MethodDelete, "/applications/risk-summarizer", nil, map[string]string{
		adminTokenHeaderKey: token,
	})
	assert.Equal(t, http.StatusAccepted, w.Code)

	w = doRequest(server, http.MethodGet, "/applications/risk-summarizer", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminDisabled(t *testing.T) {
	b, err := memory.CreateMemoryBackend()
	require.NoError(t, err)
	t.Cleanup(b.Destroy)

	signer, err := media.CreateSigner(media.DefaultOptions)
	require.NoError(t, err)

	server, err := New(0, b, signer, catalog.DefaultContent(), "")
	require.NoError(t, err)

	token, err := MakeAndSerializeToken("tester", AdminRole, testAdminSecret)
	require.NoError(t, err)

	w := doRequest(server, http.MethodDelete, "/applications/whatever", nil, map[string]string{
		adminTokenHeaderKey: token,
	})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestGetApplicationDemo(t *testing.T) {
	server, _ := createTestServer(t)

	// Absolute demo urls pass through untouched
	w := doRequest(server, http.MethodGet, "/applications/portfolio-copilot/demo", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := applicationDemoResponse{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "https://cdn.example.com/demos/portfolio-copilot.mp4", body.DemoURL)
	assert.Nil(t, body.ExpiresAt)

	// A demo stored in the media store can't be signed without a configured store
	w = doRequest(server, http.MethodGet, "/applications/risk-summarizer/demo", nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	// No demo
	w = doRequest(server, http.MethodGet, "/applications/entity-extractor/demo", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Unknown application
	w = doRequest(server, http.MethodGet, "/applications/nope/demo", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListFacets(t *testing.T) {
	server, _ := createTestServer(t)

	w := doRequest(server, http.MethodGet, "/facets", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	facets := backend.Facets{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &facets))
	assert.Equal(t, []string{"Generative AI", "Machine Learning"}, facets.AITypes)
	assert.Equal(t, []string{"Asset Management", "Investment Banking", "Wealth Management"}, facets.BusinessLines)
	assert.Equal(t, []string{"Advisory", "Research", "Risk"}, facets.Functions)
	assert.Equal(t, []string{"beta", "ga"}, facets.Statuses)
}

func TestCatalogPage(t *testing.T) {
	server, _ := createTestServer(t)

	w := doRequest(server, http.MethodGet, "/ui", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")

	page := w.Body.String()
	assert.Contains(t, page, "AI Application Marketplace")
	assert.Contains(t, page, "Portfolio Copilot")
	assert.Contains(t, page, "Risk Summarizer")
	assert.Contains(t, page, `alt="Portfolio Copilot"`)

	w = doRequest(server, http.MethodGet, "/ui?query=portfolio", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	page = w.Body.String()
	assert.Contains(t, page, "Portfolio Copilot")
	assert.False(t, strings.Contains(page, "Entity Extractor"))
}

func TestNoRoute(t *testing.T) {
	server, _ := createTestServer(t)

	w := doRequest(server, http.MethodGet, "/nothing/here", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOpenAPISpec(t *testing.T) {
	server, _ := createTestServer(t)

	w := doRequest(server, http.MethodGet, "/openapi.json", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	spec := w.Body.String()
	assert.Contains(t, spec, "AI Application Marketplace")
	// Both health routes are distinct operations in the generated document
	assert.Contains(t, spec, "/health")
	assert.Contains(t, spec, "/_stcore/health")
	assert.Contains(t, spec, "getHealthLegacy")
}
