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

package backend

import (
	"context"
	"strings"
)

// Application is a marketplace application card, its JSON encoding is the
// native `apps.json` record format.
type Application struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Image        string   `json:"image,omitempty"`
	Alt          string   `json:"alt,omitempty"`
	AppURL       string   `json:"app_url,omitempty"`
	DemoURL      string   `json:"demo_url,omitempty"`
	DocsURL      string   `json:"docs_url,omitempty"`
	Owner        string   `json:"owner,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	BusinessLine string   `json:"business_line,omitempty"`
	Function     string   `json:"function,omitempty"`
	AIType       string   `json:"ai_type,omitempty"`
	Status       string   `json:"status,omitempty"`
}

// DisplayStatus returns the status badge shown on a card, only the muted
// "Preview" badge is surfaced, any other status is hidden.
func (app *Application) DisplayStatus() string {
	switch strings.ToLower(strings.TrimSpace(app.Status)) {
	case "beta", "preview":
		return "Preview"
	default:
		return ""
	}
}

// DisplayTags returns the tags shown on a card, always the business line
// followed by the function, skipping empty ones.
func (app *Application) DisplayTags() []string {
	tags := []string{}
	if businessLine := strings.TrimSpace(app.BusinessLine); businessLine != "" {
		tags = append(tags, businessLine)
	}
	if function := strings.TrimSpace(app.Function); function != "" {
		tags = append(tags, function)
	}
	return tags
}

// ApplicationsResult is a page of applications in insertion order,
// NextApplicationIdx is the cursor to resume the retrieval from.
type ApplicationsResult struct {
	Applications       []*Application
	NextApplicationIdx int
}

// Facets lists the facet values present in the stored catalog.
type Facets struct {
	AITypes       []string `json:"ai_types"`
	BusinessLines []string `json:"business_lines"`
	Functions     []string `json:"functions"`
	Statuses      []string `json:"statuses"`
}

// Backend defines the interface for the storage of the application catalog.
type Backend interface {
	// Destroy terminates the underlying storage
	Destroy()

	// CreateOrUpdateApplications inserts or updates a batch of applications.
	//
	// The first insertion of an application assigns it a monotonically
	// increasing application index that is preserved by later updates.
	CreateOrUpdateApplications(ctx context.Context, apps []*Application) error

	// RetrieveApplications retrieves at most `count` applications matching
	// `filter`, in insertion order, starting at `fromApplicationIdx`.
	//
	// `count<=0` means no limit, `fromApplicationIdx<=0` means from the start.
	RetrieveApplications(
		ctx context.Context,
		filter ApplicationFilter,
		fromApplicationIdx int,
		count int,
	) (ApplicationsResult, error)

	// GetApplications retrieves the applications having the given ids.
	//
	// Returns an *UnknownApplicationError if one of the ids is unknown.
	GetApplications(ctx context.Context, ids []string) ([]*Application, error)

	// DeleteApplications removes the applications having the given ids, unknown
	// ids are ignored.
	DeleteApplications(ctx context.Context, ids []string) error

	// ListFacets returns the sorted distinct facet values of the stored catalog.
	ListFacets(ctx context.Context) (Facets, error)
}
