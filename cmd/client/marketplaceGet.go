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
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/spf13/cobra"

	marketplaceClient "github.com/innovationlab/marketplace/clients/marketplace"
)

// marketplaceGetCmd represents the `marketplace client marketplace get_application` command
var marketplaceGetCmd = &cobra.Command{
	Use:     "get_application application_id",
	Aliases: []string{"get"},
	Short:   "Retrieve one application of the catalog",
	Args:    cobra.ExactArgs(1),
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
		card, err := client.GetApplication(ctx, args[0])
		if err != nil {
			if err == context.DeadlineExceeded {
				return fmt.Errorf("timeout (%v) exceeded", clientViper.GetDuration(clientTimeoutKey))
			}
			return err
		}

		switch consoleOutputFormat {
		case text:
			table := tablewriter.NewWriter(os.Stdout)
			table.SetBorder(false)
			table.SetAlignment(tablewriter.ALIGN_LEFT)
			table.AppendBulk([][]string{
				{"id", card.ID},
				{"title", card.Title},
				{"description", card.Description},
				{"status", card.Status},
				{"display status", card.DisplayStatus},
				{"business line", card.BusinessLine},
				{"function", card.Function},
				{"ai type", card.AIType},
				{"tags", strings.Join(card.Tags, ",")},
				{"owner", card.Owner},
				{"app url", card.AppURL},
				{"demo url", card.DemoURL},
				{"docs url", card.DocsURL},
				{"image", card.Image},
			})
			table.Render()
		case json:
			err := renderJSON(card)
			if err != nil {
				return err
			}
		}
		return nil
	},
}
