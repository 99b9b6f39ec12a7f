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
	"github.com/spf13/viper"

	marketplaceClient "github.com/innovationlab/marketplace/clients/marketplace"
)

// marketplaceListViper represents the configuration of the `marketplace client marketplace list_applications` command
var marketplaceListViper = viper.New()

const (
	marketplaceListQueryKey        = "query"
	marketplaceListAITypeKey       = "ai_type"
	marketplaceListBusinessLineKey = "business_line"
	marketplaceListFunctionKey     = "function"
	marketplaceListStatusKey       = "status"
	marketplaceListCountKey        = "count"
	marketplaceListFromKey         = "from"
)

func init() {
	marketplaceListViper.SetDefault(marketplaceListQueryKey, "")
	marketplaceListCmd.Flags().String(
		marketplaceListQueryKey,
		marketplaceListViper.GetString(marketplaceListQueryKey),
		"Case-insensitive substring to match against application titles",
	)

	marketplaceListCmd.Flags().StringSlice(
		marketplaceListAITypeKey,
		nil,
		"AI type facet values to select, none means all",
	)

	marketplaceListCmd.Flags().StringSlice(
		marketplaceListBusinessLineKey,
		nil,
		"Business line facet values to select, none means all",
	)

	marketplaceListCmd.Flags().StringSlice(
		marketplaceListFunctionKey,
		nil,
		"Function facet values to select, none means all",
	)

	marketplaceListCmd.Flags().StringSlice(
		marketplaceListStatusKey,
		nil,
		"Status facet values to select, none means all",
	)

	marketplaceListViper.SetDefault(marketplaceListCountKey, 10)
	marketplaceListCmd.Flags().Uint(
		marketplaceListCountKey,
		marketplaceListViper.GetUint(marketplaceListCountKey),
		"Maximum number of applications to retrieve",
	)

	marketplaceListViper.SetDefault(marketplaceListFromKey, 0)
	marketplaceListCmd.Flags().Uint(
		marketplaceListFromKey,
		marketplaceListViper.GetUint(marketplaceListFromKey),
		"Index defining the first application to retrieve "+
			"(use the `next application index` retrieved from a previous call)",
	)

	// Don't sort alphabetically, keep insertion order
	marketplaceListCmd.Flags().SortFlags = false

	// Bind "cobra" flags defined in the CLI with viper
	_ = marketplaceListViper.BindPFlags(marketplaceListCmd.Flags())
}

// marketplaceListCmd represents the `marketplace client marketplace list_applications` command
var marketplaceListCmd = &cobra.Command{
	Use:     "list_applications",
	Aliases: []string{"list"},
	Short:   "List the applications of the catalog",
	Args:    cobra.NoArgs,
	RunE: func(_cmd *cobra.Command, _args []string) error {
		consoleOutputFormat, err := retrieveConsoleOutputFormat()
		if err != nil {
			return err
		}

		applicationsCount := marketplaceListViper.GetUint(marketplaceListCountKey)
		if applicationsCount == 0 {
			return fmt.Errorf(
				"invalid argument \"--%s\" specified, expected a strictly positive number",
				marketplaceListCountKey,
			)
		}

		client, err := marketplaceClient.CreateClient(marketplaceViper.GetString(marketplaceURLKey))
		if err != nil {
			return err
		}

		fromApplicationIdx := int(marketplaceListViper.GetUint(marketplaceListFromKey))

		ctx, cancel := context.WithTimeout(context.Background(), clientViper.GetDuration(clientTimeoutKey))
		defer cancel()
		reply, err := client.ListApplications(
			ctx,
			marketplaceClient.ListApplicationsFilter{
				Query:         marketplaceListViper.GetString(marketplaceListQueryKey),
				AITypes:       marketplaceListViper.GetStringSlice(marketplaceListAITypeKey),
				BusinessLines: marketplaceListViper.GetStringSlice(marketplaceListBusinessLineKey),
				Functions:     marketplaceListViper.GetStringSlice(marketplaceListFunctionKey),
				Statuses:      marketplaceListViper.GetStringSlice(marketplaceListStatusKey),
			},
			fromApplicationIdx,
			int(applicationsCount),
		)
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
			table.SetFooterAlignment(tablewriter.ALIGN_RIGHT)
			table.SetHeader([]string{
				"id",
				"title",
				"status",
				"business line",
				"function",
				"ai type",
				"tags",
			})
			for _, card := range reply.Applications {
				table.Append([]string{
					card.ID,
					card.Title,
					card.Status,
					card.BusinessLine,
					card.Function,
					card.AIType,
					strings.Join(card.Tags, ","),
				})
			}
			var caption string
			if fromApplicationIdx == 0 {
				caption = fmt.Sprintf(
					"%d applications retrieved",
					len(reply.Applications),
				)
			} else {
				caption = fmt.Sprintf(
					"%d applications retrieved from <%d>",
					len(reply.Applications),
					fromApplicationIdx,
				)
			}
			caption += fmt.Sprintf(
				", next application index is <%d>",
				reply.NextApplicationIdx,
			)
			table.SetCaption(true, caption)

			table.Render()
		case json:
			err := renderJSON(reply)
			if err != nil {
				return err
			}
		}
		return nil
	},
}
