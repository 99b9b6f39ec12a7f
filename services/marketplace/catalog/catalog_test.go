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

package catalog

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/innovationlab/marketplace/services/marketplace/backend"
)

func TestSlugifyTitle(t *testing.T) {
	assert.Equal(t, "portfolio-copilot", SlugifyTitle("Portfolio Copilot"))
	assert.Equal(t, "kyc-assistant", SlugifyTitle("  KYC Assistant  "))
	assert.Equal(t, "risk-summarizer-v2", SlugifyTitle("Risk Summarizer (v2)"))
	assert.Equal(t, "agentforge", SlugifyTitle("--AgentForge--"))
	assert.Equal(t, "", SlugifyTitle("***"))
}

func TestLoad(t *testing.T) {
	apps, err := Load(strings.NewReader(`[
		{
			"title": "Portfolio Copilot",
			"description": "Conversational portfolio insights.",
			"ai_type": "Generative AI",
			"business_line": "Wealth Management",
			"function": "Advisory",
			"status": "beta"
		},
		{
			"id": "client-signals",
			"title": "Client Signals",
			"description": "Predictive client attrition signals."
		}
	]`))
	require.NoError(t, err)
	require.Len(t, apps, 2)

	// The missing id is derived from the title
	assert.Equal(t, "portfolio-copilot", apps[0].ID)
	assert.Equal(t, "client-signals", apps[1].ID)
}

func TestLoadInvalidJSON(t *testing.T) {
	_, err := Load(strings.NewReader(`{not json`))
	assert.Error(t, err)
}

func TestLoadMissingTitle(t *testing.T) {
	_, err := Load(strings.NewReader(`[{"description": "No title here."}]`))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no title")
}

func TestLoadMissingDescription(t *testing.T) {
	_, err := Load(strings.NewReader(`[{"title": "Nameless"}]`))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no description")
}

func TestLoadDuplicateIDs(t *testing.T) {
	_, err := Load(strings.NewReader(`[
		{"title": "Entity Extractor", "description": "A."},
		{"id": "entity-extractor", "title": "Other", "description": "B."}
	]`))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate id")
}

func TestExportRoundTrip(t *testing.T) {
	apps := []*backend.Application{
		{
			ID:           "portfolio-copilot",
			Title:        "Portfolio Copilot",
			Description:  "Conversational portfolio insights.",
			BusinessLine: "Wealth Management",
			Function:     "Advisory",
			AIType:       "Generative AI",
			Status:       "beta",
		},
	}

	buf := &bytes.Buffer{}
	require.NoError(t, Export(buf, apps))

	loaded, err := Load(buf)
	require.NoError(t, err)
	assert.Equal(t, apps, loaded)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "apps.json"))
	assert.Error(t, err)
}

func TestExportFileLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "apps.json")
	apps := []*backend.Application{
		{ID: "kyc-assistant", Title: "KYC Assistant", Description: "Document screening helper."},
	}
	require.NoError(t, ExportFile(path, apps))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, apps, loaded)
}

func TestExportFileUnwritable(t *testing.T) {
	apps := []*backend.Application{
		{ID: "kyc-assistant", Title: "KYC Assistant", Description: "Document screening helper."},
	}
	err := ExportFile(filepath.Join(t.TempDir(), "missing", "apps.json"), apps)
	assert.Error(t, err)
}

func TestLoadContentFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"hero:\n  header: A new hero header\ntoolbar:\n  header: Another marketplace\n",
	), 0600))

	content, err := LoadContentFile(path)
	require.NoError(t, err)

	// Provided fields override the defaults, the rest is kept
	assert.Equal(t, "A new hero header", content.Hero.Header)
	assert.Equal(t, "Another marketplace", content.Toolbar.Header)
	assert.Equal(t, "Explore more", content.Hero.Button)
	assert.Len(t, content.Services.Items, 3)
}

func TestLoadContentFileMissing(t *testing.T) {
	_, err := LoadContentFile(filepath.Join(t.TempDir(), "content.yaml"))
	assert.Error(t, err)
}
