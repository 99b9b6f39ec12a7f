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
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/innovationlab/marketplace/services/marketplace/backend"
	"github.com/innovationlab/marketplace/services/marketplace/backend/bolt"
	"github.com/innovationlab/marketplace/services/marketplace/backend/memory"
	"github.com/innovationlab/marketplace/services/marketplace/catalog"
	"github.com/innovationlab/marketplace/services/marketplace/httpserver"
	"github.com/innovationlab/marketplace/services/marketplace/media"
)

type StorageType int

const (
	Memory StorageType = iota
	File
)

type Options struct {
	Storage         StorageType
	Port            uint
	CustomListener  net.Listener
	FileStoragePath string
	AppsFilePath    string
	ContentFilePath string
	AdminSecret     string
	Media           media.Options
}

var DefaultOptions = Options{
	Storage:         Memory,
	Port:            8000,
	CustomListener:  nil,
	FileStoragePath: ".marketplace/marketplace.db",
	AppsFilePath:    "apps.json",
	ContentFilePath: "",
	AdminSecret:     "",
	Media:           media.DefaultOptions,
}

func Run(ctx context.Context, options Options) error {
	var marketplaceBackend backend.Backend
	switch options.Storage {
	case File:
		log.WithField("path", options.FileStoragePath).Info("using a file storage backend")
		var err error
		marketplaceBackend, err = bolt.CreateBoltBackend(options.FileStoragePath)
		if err != nil {
			return fmt.Errorf("unable to create the bolt backend: %w", err)
		}
	case Memory:
		log.Info("using an in-memory storage")
		var err error
		marketplaceBackend, err = memory.CreateMemoryBackend()
		if err != nil {
			return fmt.Errorf("unable to create the memory backend: %w", err)
		}
	}
	defer marketplaceBackend.Destroy()

	if options.AppsFilePath != "" {
		apps, err := catalog.LoadFile(options.AppsFilePath)
		if err != nil {
			return fmt.Errorf("unable to load the applications file: %w", err)
		}
		if err := marketplaceBackend.CreateOrUpdateApplications(ctx, apps); err != nil {
			return fmt.Errorf("unable to store the applications: %w", err)
		}
		log.WithField("nb_applications", len(apps)).Info("applications loaded")
	}

	content := catalog.DefaultContent()
	if options.ContentFilePath != "" {
		var err error
		content, err = catalog.LoadContentFile(options.ContentFilePath)
		if err != nil {
			return fmt.Errorf("unable to load the content file: %w", err)
		}
	}

	signer, err := media.CreateSigner(options.Media)
	if err != nil {
		return fmt.Errorf("unable to create the media signer: %w", err)
	}
	if !signer.Configured() {
		log.Info("no media store configured, media urls won't be signed")
	}

	if options.AdminSecret == "" {
		log.Info("no admin secret configured, catalog administration is disabled")
	}

	httpServer, err := httpserver.New(
		options.Port,
		marketplaceBackend,
		signer,
		content,
		options.AdminSecret,
	)
	if err != nil {
		return err
	}

	var listener net.Listener
	if options.CustomListener != nil {
		listener = options.CustomListener
	} else {
		listener, err = net.Listen("tcp", fmt.Sprintf(":%d", options.Port))
		if err != nil {
			return fmt.Errorf("unable to listen to tcp port %d: %w", options.Port, err)
		}
	}

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		log.WithField("port", options.Port).Info("http server listening")
		if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("unexpected error while serving http routes: %w", err)
		}
		return nil
	})

	group.Go(func() error {
		<-ctx.Done()
		log.Info("Gracefully stopping")

		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(stopCtx); err != nil {
			log.WithField("error", err).Warning("Error while stopping")
		}
		return ctx.Err()
	})

	return group.Wait()
}
