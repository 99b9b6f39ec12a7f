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

package marketplace

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	appsFilePath := filepath.Join(t.TempDir(), "apps.json")
	require.NoError(t, os.WriteFile(appsFilePath, []byte(`[
		{
			"title": "Portfolio Copilot",
			"description": "Conversational portfolio analysis",
			"status": "beta"
		}
	]`), 0o644))

	listener, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	serverURL := fmt.Sprintf("http://%s", listener.Addr().String())

	options := DefaultOptions
	options.CustomListener = listener
	options.AppsFilePath = appsFilePath

	ctx, cancel := context.WithCancel(context.Background())

	runResult := make(chan error)
	go func() {
		runResult <- Run(ctx, options)
	}()

	client := resty.New().SetBaseURL(serverURL)

	resp, err := client.R().Get("/_stcore/health")
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode())

	listBody := struct {
		Applications []struct {
			ID            string `json:"id"`
			Title         string `json:"title"`
			DisplayStatus string `json:"display_status"`
		} `json:"applications"`
	}{}
	resp, err = client.R().SetResult(&listBody).Get("/applications")
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode())
	require.Len(t, listBody.Applications, 1)
	assert.Equal(t, "portfolio-copilot", listBody.Applications[0].ID)
	assert.Equal(t, "Preview", listBody.Applications[0].DisplayStatus)

	cancel()
	err = <-runResult
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRunMissingAppsFile(t *testing.T) {
	options := DefaultOptions
	options.AppsFilePath = filepath.Join(t.TempDir(), "nope.json")

	err := Run(context.Background(), options)
	assert.Error(t, err)
}
