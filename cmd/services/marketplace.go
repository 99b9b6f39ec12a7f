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

package services

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/innovationlab/marketplace/cmd/services/utils"
	"github.com/innovationlab/marketplace/services/marketplace"
	"github.com/innovationlab/marketplace/version"
)

// marketplaceViper represents the configuration of the marketplace command
var marketplaceViper = viper.New()

var marketplacePortKey = "port"
var marketplaceFileStoragePathKey = "file_storage"
var marketplaceAppsFileKey = "apps_file"
var marketplaceContentFileKey = "content_file"
var marketplaceAdminSecretKey = "admin_secret"
var marketplaceMediaEndpointKey = "media_endpoint"
var marketplaceMediaAccessKeyKey = "media_access_key"
var marketplaceMediaSecretKeyKey = "media_secret_key"
var marketplaceMediaBucketKey = "media_bucket"
var marketplaceMediaInsecureKey = "media_insecure"
var marketplaceMediaURLExpiryKey = "media_url_expiry"

// marketplaceCmd represents the marketplace command
var marketplaceCmd = &cobra.Command{
	Use:   "marketplace",
	Short: "Run the marketplace",
	Args:  cobra.NoArgs,
	RunE: func(_cmd *cobra.Command, _args []string) error {
		err := configureLog(servicesViper)
		if err != nil {
			return err
		}

		log.WithFields(logrus.Fields{
			"version": version.Version,
			"hash":    version.Hash,
		}).Info("starting the marketplace service")

		options := marketplace.Options{
			Storage:         marketplace.Memory,
			Port:            marketplaceViper.GetUint(marketplacePortKey),
			FileStoragePath: marketplaceViper.GetString(marketplaceFileStoragePathKey),
			AppsFilePath:    marketplaceViper.GetString(marketplaceAppsFileKey),
			ContentFilePath: marketplaceViper.GetString(marketplaceContentFileKey),
			AdminSecret:     marketplaceViper.GetString(marketplaceAdminSecretKey),
			Media:           marketplace.DefaultOptions.Media,
		}

		if marketplaceViper.IsSet(marketplaceFileStoragePathKey) {
			options.Storage = marketplace.File
		}

		options.Media.Endpoint = marketplaceViper.GetString(marketplaceMediaEndpointKey)
		options.Media.AccessKey = marketplaceViper.GetString(marketplaceMediaAccessKeyKey)
		options.Media.SecretKey = marketplaceViper.GetString(marketplaceMediaSecretKeyKey)
		options.Media.Bucket = marketplaceViper.GetString(marketplaceMediaBucketKey)
		options.Media.Secure = !marketplaceViper.GetBool(marketplaceMediaInsecureKey)
		options.Media.URLExpiry = marketplaceViper.GetDuration(marketplaceMediaURLExpiryKey)

		ctx := utils.ContextWithUserTermination(context.Background())

		err = marketplace.Run(ctx, options)
		if err != nil {
			if err == context.Canceled {
				log.Info("interrupted by user")
				return nil
			}
			return err
		}
		return nil
	},
}

func init() {
	marketplaceViper.SetDefault(marketplacePortKey, marketplace.DefaultOptions.Port)
	_ = marketplaceViper.BindEnv(marketplacePortKey, "MARKETPLACE_PORT")
	marketplaceCmd.Flags().Uint(
		marketplacePortKey,
		marketplaceViper.GetUint(marketplacePortKey),
		"The port to listen on",
	)

	_ = marketplaceViper.BindEnv(marketplaceFileStoragePathKey, "MARKETPLACE_FILE_STORAGE_PATH")
	marketplaceCmd.Flags().String(
		marketplaceFileStoragePathKey,
		marketplaceViper.GetString(marketplaceFileStoragePathKey),
		"If provided, the marketplace uses a file-based storage instead of "+
			"the default in-memory one with the provided file path as its location",
	)
	if !marketplaceViper.IsSet(marketplaceFileStoragePathKey) {
		marketplaceCmd.Flags().Lookup(marketplaceFileStoragePathKey).NoOptDefVal =
			marketplace.DefaultOptions.FileStoragePath
	}

	marketplaceViper.SetDefault(marketplaceAppsFileKey, marketplace.DefaultOptions.AppsFilePath)
	_ = marketplaceViper.BindEnv(marketplaceAppsFileKey, "MARKETPLACE_APPS_FILE")
	marketplaceCmd.Flags().String(
		marketplaceAppsFileKey,
		marketplaceViper.GetString(marketplaceAppsFileKey),
		"Path to the applications catalog file loaded at startup, \"\" disables the loading",
	)

	_ = marketplaceViper.BindEnv(marketplaceContentFileKey, "MARKETPLACE_CONTENT_FILE")
	marketplaceCmd.Flags().String(
		marketplaceContentFileKey,
		marketplaceViper.GetString(marketplaceContentFileKey),
		"Path to a yaml file overriding the built-in page content",
	)

	_ = marketplaceViper.BindEnv(marketplaceAdminSecretKey, "MARKETPLACE_ADMIN_SECRET")
	marketplaceCmd.Flags().String(
		marketplaceAdminSecretKey,
		marketplaceViper.GetString(marketplaceAdminSecretKey),
		"Secret used to verify admin tokens, if not provided catalog administration is disabled",
	)

	_ = marketplaceViper.BindEnv(marketplaceMediaEndpointKey, "MARKETPLACE_MEDIA_ENDPOINT")
	marketplaceCmd.Flags().String(
		marketplaceMediaEndpointKey,
		marketplaceViper.GetString(marketplaceMediaEndpointKey),
		"Endpoint of the s3 compatible object store holding the media files",
	)

	_ = marketplaceViper.BindEnv(marketplaceMediaAccessKeyKey, "MARKETPLACE_MEDIA_ACCESS_KEY")
	marketplaceCmd.Flags().String(
		marketplaceMediaAccessKeyKey,
		marketplaceViper.GetString(marketplaceMediaAccessKeyKey),
		"Access key of the media object store",
	)

	_ = marketplaceViper.BindEnv(marketplaceMediaSecretKeyKey, "MARKETPLACE_MEDIA_SECRET_KEY")
	marketplaceCmd.Flags().String(
		marketplaceMediaSecretKeyKey,
		marketplaceViper.GetString(marketplaceMediaSecretKeyKey),
		"Secret key of the media object store",
	)

	_ = marketplaceViper.BindEnv(marketplaceMediaBucketKey, "MARKETPLACE_MEDIA_BUCKET")
	marketplaceCmd.Flags().String(
		marketplaceMediaBucketKey,
		marketplaceViper.GetString(marketplaceMediaBucketKey),
		"Bucket of the media object store",
	)

	_ = marketplaceViper.BindEnv(marketplaceMediaInsecureKey, "MARKETPLACE_MEDIA_INSECURE")
	marketplaceCmd.Flags().Bool(
		marketplaceMediaInsecureKey,
		marketplaceViper.GetBool(marketplaceMediaInsecureKey),
		"Use plain http to reach the media object store",
	)

	marketplaceViper.SetDefault(marketplaceMediaURLExpiryKey, marketplace.DefaultOptions.Media.URLExpiry)
	_ = marketplaceViper.BindEnv(marketplaceMediaURLExpiryKey, "MARKETPLACE_MEDIA_URL_EXPIRY")
	marketplaceCmd.Flags().Duration(
		marketplaceMediaURLExpiryKey,
		marketplaceViper.GetDuration(marketplaceMediaURLExpiryKey),
		"Lifetime of the signed media urls",
	)

	// Don't sort alphabetically, keep insertion order
	marketplaceCmd.Flags().SortFlags = false

	// Bind "cobra" flags defined in the CLI with viper
	_ = marketplaceViper.BindPFlags(marketplaceCmd.Flags())
}
