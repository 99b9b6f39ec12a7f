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

package client

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	marketplaceClient "github.com/innovationlab/marketplace/clients/marketplace"
	"github.com/innovationlab/marketplace/services/marketplace/backend"
	"github.com/innovationlab/marketplace/services/marketplace/catalog"
)

// marketplaceExportViper represents the configuration of the `marketplace client marketplace export` command
var marketplaceExportViper = viper.New()

const marketplaceExportFileKey = "file"

type marketplaceExportOutput struct {
	Bytes          int      `json:"bytes"`
	Message        string   `json:"message"`
	ApplicationIds []string `json:"application_ids"`
	FilePath       string   `json:"filepath"`
}

func init() {
	marketplaceExportViper.SetDefault(
		marketplaceExportFileKey,
		"",
	)

	marketplaceExportCmd.Flags().String(
		marketplaceExportFileKey,
		marketplaceExportViper.GetString(marketplaceExportFileKey),
		"Catalog output file path, if not defined, will write to stdout",
	)

	// Don't sort alphabetically, keep insertion order
	marketplaceExportCmd.Flags().SortFlags = false

	// Bind "cobra" flags defined in the CLI with viper
	_ = marketplaceExportViper.BindPFlags(marketplaceExportCmd.Flags())
}

type countingWriter struct {
	w io.Writer
	n int
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += n
	return n, err
}

// marketplaceExportCmd represents the `marketplace client marketplace export` command
var marketplaceExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the whole catalog in the `apps.json` format",
	Args:  cobra.NoArgs,
	RunE: func(_cmd *cobra.Command, _args []string) error {
		consoleOutputFormat, err := retrieveConsoleOutputFormat()
		if err != nil {
			return err
		}

		client, err := marketplaceClient.CreateClient(marketplaceViper.GetString(marketplaceURLKey))
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), clientViper.GetDuration(clientTimeoutKey))
		defer cancel()
		reply, err := client.ListApplications(ctx, marketplaceClient.ListApplicationsFilter{}, 0, 0)
		if err != nil {
			if err == context.DeadlineExceeded {
				return fmt.Errorf("timeout (%v) exceeded", clientViper.GetDuration(clientTimeoutKey))
			}
			return err
		}

		applicationIds := make([]string, 0, len(reply.Applications))
		apps := make([]*backend.Application, 0, len(reply.Applications))
		for applicationIdx := range reply.Applications {
			app := reply.Applications[applicationIdx].Application
			applicationIds = append(applicationIds, app.ID)
			apps = append(apps, &app)
		}

		filePath := marketplaceExportViper.GetString(marketplaceExportFileKey)
		if filePath == "" {
			return catalog.Export(os.Stdout, apps)
		}

		filePath, err = filepath.Abs(filePath)
		if err != nil {
			return err
		}

		f, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			return err
		}
		defer f.Close()

		cw := &countingWriter{w: f}
		if err := catalog.Export(cw, apps); err != nil {
			return err
		}

		message := fmt.Sprintf(
			"%d applications exported to %q (%s written)",
			len(apps),
			filePath,
			humanize.Bytes(uint64(cw.n)),
		)
		switch consoleOutputFormat {
		case text:
			fmt.Println(message)
		case json:
			err := renderJSON(&marketplaceExportOutput{
				Bytes:          cw.n,
				ApplicationIds: applicationIds,
				FilePath:       filePath,
				Message:        message,
			})
			if err != nil {
				return err
			}
		}
		return nil
	},
}
