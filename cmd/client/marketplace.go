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
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// marketplaceViper represents the configuration of the `marketplace client marketplace` command
var marketplaceViper = viper.New()

const (
	marketplaceURLKey        = "url"
	marketplaceAdminTokenKey = "admin_token"
)

// marketplaceCmd represents the `marketplace client marketplace` command
var marketplaceCmd = &cobra.Command{
	Use:   "marketplace",
	Short: "Interact with a marketplace service",
	Args:  cobra.NoArgs,
}

func init() {
	marketplaceViper.SetDefault(marketplaceURLKey, "http://localhost:8000")
	_ = marketplaceViper.BindEnv(marketplaceURLKey, "MARKETPLACE_URL")
	marketplaceCmd.PersistentFlags().String(
		marketplaceURLKey,
		marketplaceViper.GetString(marketplaceURLKey),
		"URL of the marketplace service",
	)

	_ = marketplaceViper.BindEnv(marketplaceAdminTokenKey, "MARKETPLACE_ADMIN_TOKEN")
	marketplaceCmd.PersistentFlags().String(
		marketplaceAdminTokenKey,
		marketplaceViper.GetString(marketplaceAdminTokenKey),
		"Admin token used by the catalog administration commands",
	)

	// Don't sort alphabetically, keep insertion order
	marketplaceCmd.PersistentFlags().SortFlags = false

	// Bind "cobra" flags defined in the CLI with viper
	_ = marketplaceViper.BindPFlags(marketplaceCmd.PersistentFlags())

	// Add the marketplace subcommands
	marketplaceCmd.AddCommand(marketplaceListCmd)
	marketplaceCmd.AddCommand(marketplaceGetCmd)
	marketplaceCmd.AddCommand(marketplaceImportCmd)
	marketplaceCmd.AddCommand(marketplaceExportCmd)
	marketplaceCmd.AddCommand(marketplaceDeleteCmd)
	marketplaceCmd.AddCommand(marketplaceDemoURLCmd)
	marketplaceCmd.AddCommand(marketplaceTokenCmd)
}
