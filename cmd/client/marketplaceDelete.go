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

	marketplaceClient "github.com/innovationlab/marketplace/clients/marketplace"
)

// marketplaceDeleteCmd represents the `marketplace client marketplace delete_applications` command
var marketplaceDeleteCmd = &cobra.Command{
	Use:     "delete_applications application_id...",
	Aliases: []string{"delete"},
	Short:   "Delete applications from the catalog",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(_cmd *cobra.Command, args []string) error {
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

		adminToken := marketplaceViper.GetString(marketplaceAdminTokenKey)
		for _, applicationID := range args {
			err := client.DeleteApplication(ctx, adminToken, applicationID)
			if err != nil {
				if err == context.DeadlineExceeded {
					return fmt.Errorf("timeout (%v) exceeded", clientViper.GetDuration(clientTimeoutKey))
				}
				return err
			}
		}

		switch consoleOutputFormat {
		case text:
			fmt.Printf("%d applications deleted\n", len(args))
		case json:
			err := renderJSON(map[string]interface{}{
				"message":         fmt.Sprintf("%d applications deleted", len(args)),
				"application_ids": args,
			})
			if err != nil {
				return err
			}
		}
		return nil
	},
}
