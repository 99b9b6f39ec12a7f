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

import "sort"

func sortedDistinct(values map[string]struct{}) []string {
	distinct := make([]string, 0, len(values))
	for value := range values {
		distinct = append(distinct, value)
	}
	sort.Strings(distinct)
	return distinct
}

// ComputeFacets computes the sorted distinct facet values of a catalog.
func ComputeFacets(apps []*Application) Facets {
	aiTypes := map[string]struct{}{}
	businessLines := map[string]struct{}{}
	functions := map[string]struct{}{}
	statuses := map[string]struct{}{}
	for _, app := range apps {
		if app.AIType != "" {
			aiTypes[app.AIType] = struct{}{}
		}
		if app.BusinessLine != "" {
			businessLines[app.BusinessLine] = struct{}{}
		}
		if app.Function != "" {
			functions[app.Function] = struct{}{}
		}
		if app.Status != "" {
			statuses[app.Status] = struct{}{}
		}
	}
	return Facets{
		AITypes:       sortedDistinct(aiTypes),
		BusinessLines: sortedDistinct(businessLines),
		Functions:     sortedDistinct(functions),
		Statuses:      sortedDistinct(statuses),
	}
}
