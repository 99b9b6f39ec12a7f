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
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/innovationlab/marketplace/services/marketplace/httpserver"
)

// marketplaceTokenViper represents the configuration of the `marketplace client marketplace token` command
var marketplaceTokenViper = viper.New()

const (
	marketplaceTokenSecretKey  = "secret"
	marketplaceTokenSubjectKey = "subject"
)

func init() {
	_ = marketplaceTokenViper.BindEnv(marketplaceTokenSecretKey, "MARKETPLACE_ADMIN_SECRET")
	marketplaceTokenCmd.Flags().String(
		marketplaceTokenSecretKey,
		marketplaceTokenViper.GetString(marketplaceTokenSecretKey),
		"Secret the marketplace service was configured with",
	)

	marketplaceTokenViper.SetDefault(marketplaceTokenSubjectKey, "admin")
	marketplaceTokenCmd.Flags().String(
		marketplaceTokenSubjectKey,
		marketplaceTokenViper.GetString(marketplaceTokenSubjectKey),
		"Subject recorded in the generated token",
	)

	// Don't sort alphabetically, keep insertion order
	marketplaceTokenCmd.Flags().SortFlags = false

	// Bind "cobra" flags defined in the CLI with viper
	_ = marketplaceTokenViper.BindPFlags(marketplaceTokenCmd.Flags())
}

// marketplaceTokenCmd represents the `marketplace client marketplace token` command
var marketplaceTokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Generate an admin token for the catalog administration commands",
	Args:  cobra.NoArgs,
	RunE: func(_cmd *cobra.Command, _args []string) error {
		consoleOutputFormat, err := retrieveConsoleOutputFormat()
		if err != nil {
			return err
		}

		secret := marketplaceTokenViper.GetString(marketplaceTokenSecretKey)
		if secret == "" {
			return fmt.Errorf(
				"invalid argument \"--%s\" specified, expected a non-empty secret",
				marketplaceTokenSecretKey,
			)
		}

		tokenString, err := httpserver.MakeAndSerializeToken(
			marketplaceTokenViper.GetString(marketplaceTokenSubjectKey),
			httpserver.AdminRole,
			secret,
		)
		if err != nil {
			return err
		}

		switch consoleOutputFormat {
		case text:
			fmt.Println(tokenString)
		case json:
			err := renderJSON(map[string]string{"token": tokenString})
			if err != nil {
				return err
			}
		}
		return nil
	},
}
