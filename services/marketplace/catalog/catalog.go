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

// Package catalog deals with the `apps.json` catalog file format.
package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/innovationlab/marketplace/services/marketplace/backend"
)

// SlugifyTitle derives an application id from its title.
func SlugifyTitle(title string) string {
	var sb strings.Builder
	previousDash := true // Leading dashes are skipped
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
			previousDash = false
		default:
			if !previousDash {
				sb.WriteRune('-')
				previousDash = true
			}
		}
	}
	return strings.TrimSuffix(sb.String(), "-")
}

// Validate checks a batch of records and fills in derived fields.
//
// Titles and descriptions are required, missing ids are derived from the
// title, ids must end up unique within the batch.
func Validate(apps []*backend.Application) error {
	ids := map[string]struct{}{}
	for recordIdx, app := range apps {
		if strings.TrimSpace(app.Title) == "" {
			return fmt.Errorf("record #%d has no title", recordIdx)
		}
		if strings.TrimSpace(app.Description) == "" {
			return fmt.Errorf("record #%d (%q) has no description", recordIdx, app.Title)
		}
		if app.ID == "" {
			app.ID = SlugifyTitle(app.Title)
		}
		if _, ok := ids[app.ID]; ok {
			return fmt.Errorf("record #%d (%q) has a duplicate id %q", recordIdx, app.Title, app.ID)
		}
		ids[app.ID] = struct{}{}
	}
	return nil
}

// Load reads and validates a catalog from a reader.
func Load(r io.Reader) ([]*backend.Application, error) {
	apps := []*backend.Application{}
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&apps); err != nil {
		return nil, fmt.Errorf("unable to parse the catalog (%w)", err)
	}
	if err := Validate(apps); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return apps, nil
}

// LoadFile reads and validates a catalog from an `apps.json` file.
func LoadFile(path string) ([]*backend.Application, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open the catalog file %q (%w)", path, err)
	}
	defer file.Close()

	apps, err := Load(file)
	if err != nil {
		return nil, fmt.Errorf("unable to load the catalog file %q (%w)", path, err)
	}
	return apps, nil
}

// Export writes a catalog to a writer in the `apps.json` format.
func Export(w io.Writer, apps []*backend.Application) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(apps); err != nil {
		return fmt.Errorf("unable to serialize the catalog (%w)", err)
	}
	return nil
}

// ExportFile writes a catalog to an `apps.json` file.
func ExportFile(path string, apps []*backend.Application) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create the catalog file %q (%w)", path, err)
	}

	if err := Export(file, apps); err != nil {
		_ = file.Close()
		return err
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("unable to write the catalog file %q (%w)", path, err)
	}
	return nil
}
