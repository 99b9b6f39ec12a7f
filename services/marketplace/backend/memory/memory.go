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

package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jinzhu/copier"

	"github.com/innovationlab/marketplace/services/marketplace/backend"
)

type applicationData struct {
	applicationIdx uint64
	app            *backend.Application
}

type memoryBackend struct {
	applications map[string]*applicationData
	nextIdx      uint64
	mutex        *sync.RWMutex
}

// CreateMemoryBackend creates a Backend that holds the catalog in memory.
//
// Catalog records are small and bounded so, unlike sample storage, nothing is
// ever evicted.
func CreateMemoryBackend() (backend.Backend, error) {
	b := &memoryBackend{
		applications: make(map[string]*applicationData),
		nextIdx:      1,
		mutex:        &sync.RWMutex{},
	}
	return b, nil
}

// Destroy terminates the underlying storage
func (b *memoryBackend) Destroy() {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.applications = nil
}

// copyApplication deep copies a record so that callers can't alias the stored
// data.
func copyApplication(app *backend.Application) (*backend.Application, error) {
	applicationCopy := &backend.Application{}
	if err := copier.Copy(applicationCopy, app); err != nil {
		return nil, backend.NewUnexpectedError("unable to copy application %q (%w)", app.ID, err)
	}
	// copier copies slice fields by reference
	applicationCopy.Tags = append([]string(nil), app.Tags...)
	return applicationCopy, nil
}

func (b *memoryBackend) CreateOrUpdateApplications(
	_ context.Context,
	apps []*backend.Application,
) error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	for _, app := range apps {
		appCopy, err := copyApplication(app)
		if err != nil {
			return err
		}
		if data, ok := b.applications[app.ID]; ok {
			// Existing application, its insertion index is preserved
			data.app = appCopy
			continue
		}
		b.applications[app.ID] = &applicationData{
			applicationIdx: b.nextIdx,
			app:            appCopy,
		}
		b.nextIdx++
	}
	return nil
}

func (b *memoryBackend) RetrieveApplications(
	_ context.Context,
	filter backend.ApplicationFilter,
	fromApplicationIdx int,
	count int,
) (backend.ApplicationsResult, error) {
	b.mutex.RLock()
	defer b.mutex.RUnlock()

	ordered := make([]*applicationData, 0, len(b.applications))
	for _, data := range b.applications {
		ordered = append(ordered, data)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].applicationIdx < ordered[j].applicationIdx
	})

	apps := []*backend.Application{}
	nextApplicationIdx := int(b.nextIdx) - 1
	for _, data := range ordered {
		// Internal indices start at 1, the exposed cursor is 0-based
		if int(data.applicationIdx) <= fromApplicationIdx {
			continue
		}
		if count > 0 && len(apps) >= count {
			nextApplicationIdx = int(data.applicationIdx) - 1
			break
		}
		if !filter.Selects(data.app) {
			continue
		}
		appCopy, err := copyApplication(data.app)
		if err != nil {
			return backend.ApplicationsResult{}, err
		}
		apps = append(apps, appCopy)
	}

	return backend.ApplicationsResult{
		Applications:       apps,
		NextApplicationIdx: nextApplicationIdx,
	}, nil
}

func (b *memoryBackend) GetApplications(
	_ context.Context,
	ids []string,
) ([]*backend.Application, error) {
	b.mutex.RLock()
	defer b.mutex.RUnlock()

	apps := []*backend.Application{}
	for _, id := range ids {
		data, ok := b.applications[id]
		if !ok {
			return nil, &backend.UnknownApplicationError{ApplicationID: id}
		}
		appCopy, err := copyApplication(data.app)
		if err != nil {
			return nil, err
		}
		apps = append(apps, appCopy)
	}
	return apps, nil
}

func (b *memoryBackend) DeleteApplications(_ context.Context, ids []string) error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	for _, id := range ids {
		delete(b.applications, id)
	}
	return nil
}

func (b *memoryBackend) ListFacets(_ context.Context) (backend.Facets, error) {
	b.mutex.RLock()
	defer b.mutex.RUnlock()

	apps := make([]*backend.Application, 0, len(b.applications))
	for _, data := range b.applications {
		apps = append(apps, data.app)
	}
	return backend.ComputeFacets(apps), nil
}
