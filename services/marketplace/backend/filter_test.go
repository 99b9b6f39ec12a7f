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
	"testing"

	"github.com/stretchr/testify/assert"
)

func makeApplication() *Application {
	return &Application{
		ID:           "portfolio-copilot",
		Title:        "Portfolio Copilot",
		Description:  "Conversational portfolio insights for advisors.",
		BusinessLine: "Wealth Management",
		Function:     "Advisory",
		AIType:       "Generative AI",
		Status:       "beta",
	}
}

func TestFilterEmptySelectsEverything(t *testing.T) {
	filter := NewApplicationFilter("", nil, nil, nil, nil)
	assert.True(t, filter.Selects(makeApplication()))
}

func TestFilterQueryMatchesTitleOnly(t *testing.T) {
	app := makeApplication()

	assert.True(t, NewApplicationFilter("copilot", nil, nil, nil, nil).Selects(app))
	assert.True(t, NewApplicationFilter("PORTFOLIO", nil, nil, nil, nil).Selects(app))

	// The description is not searched
	assert.False(t, NewApplicationFilter("advisors", nil, nil, nil, nil).Selects(app))
}

func TestFilterFacets(t *testing.T) {
	app := makeApplication()

	assert.True(t, NewApplicationFilter(
		"", []string{"Generative AI"}, nil, nil, nil,
	).Selects(app))
	assert.False(t, NewApplicationFilter(
		"", []string{"Predictive Analytics"}, nil, nil, nil,
	).Selects(app))
	assert.True(t, NewApplicationFilter(
		"", []string{"Predictive Analytics", "Generative AI"}, nil, nil, nil,
	).Selects(app))

	assert.True(t, NewApplicationFilter(
		"", nil, []string{"Wealth Management"}, []string{"Advisory"}, nil,
	).Selects(app))
	assert.False(t, NewApplicationFilter(
		"", nil, []string{"Wealth Management"}, []string{"Research"}, nil,
	).Selects(app))
}

func TestFilterStatusIsCaseInsensitive(t *testing.T) {
	app := makeApplication()

	assert.True(t, NewApplicationFilter("", nil, nil, nil, []string{"Beta"}).Selects(app))
	assert.False(t, NewApplicationFilter("", nil, nil, nil, []string{"live"}).Selects(app))
}

func TestFilterQueryAndFacetsCombine(t *testing.T) {
	app := makeApplication()

	assert.True(t, NewApplicationFilter(
		"copilot", []string{"Generative AI"}, nil, nil, nil,
	).Selects(app))
	assert.False(t, NewApplicationFilter(
		"copilot", []string{"NLP"}, nil, nil, nil,
	).Selects(app))
}

func TestDisplayStatus(t *testing.T) {
	app := makeApplication()

	app.Status = "beta"
	assert.Equal(t, "Preview", app.DisplayStatus())

	app.Status = "Preview"
	assert.Equal(t, "Preview", app.DisplayStatus())

	app.Status = "live"
	assert.Equal(t, "", app.DisplayStatus())

	app.Status = ""
	assert.Equal(t, "", app.DisplayStatus())
}

func TestDisplayTags(t *testing.T) {
	app := makeApplication()
	assert.Equal(t, []string{"Wealth Management", "Advisory"}, app.DisplayTags())

	app.Function = ""
	assert.Equal(t, []string{"Wealth Management"}, app.DisplayTags())

	app.BusinessLine = " "
	assert.Empty(t, app.DisplayTags())
}
