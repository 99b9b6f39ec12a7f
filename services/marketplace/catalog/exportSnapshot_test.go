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
	"testing"

	"github.com/bradleyjkemp/cupaloy"
	"github.com/stretchr/testify/require"

	"github.com/innovationlab/marketplace/services/marketplace/backend"
)

func TestExportSnapshot(t *testing.T) {
	apps := []*backend.Application{
		{
			ID:           "portfolio-copilot",
			Title:        "Portfolio Copilot",
			Description:  "Conversational portfolio analysis",
			Image:        "images/portfolio-copilot.png",
			Alt:          "Portfolio Copilot card",
			AppURL:       "https://apps.example.com/portfolio-copilot",
			DemoURL:      "demos/portfolio-copilot.mp4",
			Tags:         []string{"internal", "pilot"},
			BusinessLine: "Wealth Management",
			Function:     "Advisory",
			AIType:       "Generative AI",
			Status:       "beta",
		},
		{
			ID:          "risk-summarizer",
			Title:       "Risk Summarizer",
			Description: "Summarize risk reports",
			Status:      "ga",
		},
	}

	buf := bytes.Buffer{}
	require.NoError(t, Export(&buf, apps))

	cupaloy.SnapshotT(t, buf.String())
}
