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

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	marketplaceClient "github.com/innovationlab/marketplace/clients/marketplace"
	"github.com/innovationlab/marketplace/services/marketplace/catalog"
)

// marketplaceImportViper represents the configuration of the `marketplace client marketplace import` command
var marketplaceImportViper = viper.New()

const marketplaceImportFileKey = "file"

func init() {
	marketplaceImportViper.SetDefault(marketplaceImportFileKey, "apps.json")
	marketplaceImportCmd.Flags().String(
		marketplaceImportFileKey,
		marketplaceImportViper.GetString(marketplaceImportFileKey),
		"Catalog file to import",
	)

	// Don't sort alphabetically, keep insertion order
	marketplaceImportCmd.Flags().SortFlags = false

	// Bind "cobra" flags defined in the CLI with viper
	_ = marketplaceImportViper.BindPFlags(marketplaceImportCmd.Flags())
}

// marketplaceImportCmd represents the `marketplace client marketplace import` command
var marketplaceImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a catalog file into the marketplace",
	Args:  cobra.NoArgs,
	RunE: func(_cmd *cobra.Command, _args []string) error {
		consoleOutputFormat, err := retrieveConsoleOutputFormat()
		if err != nil {
			return err
		}

		filePath := marketplaceImportViper.GetString(marketplaceImportFileKey)
		apps, err := catalog.LoadFile(filePath)
		if err != nil {
			return err
		}

		client, err := marketplaceClient.CreateClient(marketplaceViper.GetString(marketplaceURLKey))
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), clientViper.GetDuration(clientTimeoutKey))
		defer cancel()
		reply, err := client.UpsertApplications(
			ctx,
			marketplaceViper.GetString(marketplaceAdminTokenKey),
			apps,
		)
		if err != nil {
			if err == context.DeadlineExceeded {
				return fmt.Errorf("timeout (%v) exceeded", clientViper.GetDuration(clientTimeoutKey))
			}
			return err
		}

		switch consoleOutputFormat {
		case text:
			fmt.Printf("%d applications imported from %q\n", len(reply.ApplicationIDs), filePath)
		case json:
			err := renderJSON(reply)
			if err != nil {
				return err
			}
		}
		return nil
	},
}
