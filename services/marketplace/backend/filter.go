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

import "strings"

// FacetSelection is a selection of facet values, an empty selection selects
// everything.
type FacetSelection struct {
	values map[string]struct{}
}

// NewFacetSelection creates a FacetSelection from a list of values, empty
// values are ignored.
func NewFacetSelection(values []string) FacetSelection {
	selection := FacetSelection{values: map[string]struct{}{}}
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		selection.values[value] = struct{}{}
	}
	return selection
}

// Selects returns true if the given value belongs to the selection.
func (s FacetSelection) Selects(value string) bool {
	if len(s.values) == 0 {
		return true
	}
	_, ok := s.values[value]
	return ok
}

// SelectsFold is like Selects with case-insensitive matching.
func (s FacetSelection) SelectsFold(value string) bool {
	if len(s.values) == 0 {
		return true
	}
	for selected := range s.values {
		if strings.EqualFold(selected, value) {
			return true
		}
	}
	return false
}

// ApplicationFilter filters applications by free-text query and facet
// selections.
//
// The query is matched as a case-insensitive substring of the title only.
type ApplicationFilter struct {
	Query         string
	AITypes       FacetSelection
	BusinessLines FacetSelection
	Functions     FacetSelection
	Statuses      FacetSelection
}

// NewApplicationFilter creates an ApplicationFilter from raw values.
func NewApplicationFilter(
	query string,
	aiTypes []string,
	businessLines []string,
	functions []string,
	statuses []string,
) ApplicationFilter {
	return ApplicationFilter{
		Query:         strings.TrimSpace(query),
		AITypes:       NewFacetSelection(aiTypes),
		BusinessLines: NewFacetSelection(businessLines),
		Functions:     NewFacetSelection(functions),
		Statuses:      NewFacetSelection(statuses),
	}
}

// Selects returns true if the given application matches the filter.
func (f ApplicationFilter) Selects(app *Application) bool {
	if f.Query != "" &&
		!strings.Contains(strings.ToLower(app.Title), strings.ToLower(f.Query)) {
		return false
	}
	if !f.AITypes.Selects(app.AIType) {
		return false
	}
	if !f.BusinessLines.Selects(app.BusinessLine) {
		return false
	}
	if !f.Functions.Selects(app.Function) {
		return false
	}
	return f.Statuses.SelectsFold(app.Status)
}
