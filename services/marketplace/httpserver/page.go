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

package httpserver

import (
	"bytes"
	_ "embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/innovationlab/marketplace/services/marketplace/backend"
	"github.com/innovationlab/marketplace/services/marketplace/catalog"
	"github.com/innovationlab/marketplace/version"
)

//go:embed templates/catalog.html.tmpl
var catalogPageTemplate string

var catalogTemplate = template.Must(template.New("catalog").Parse(catalogPageTemplate))

type catalogPageData struct {
	Content catalog.Content
	Version string

	Query  string
	Facets backend.Facets

	SelectedAITypes       map[string]bool
	SelectedBusinessLines map[string]bool
	SelectedFunctions     map[string]bool
	SelectedStatuses      map[string]bool

	Cards []applicationCard
}

func makeSelectedSet(values []string) map[string]bool {
	selected := map[string]bool{}
	for _, value := range values {
		selected[value] = true
	}
	return selected
}

func (server *Server) renderCatalogPage(c *gin.Context) {
	query := c.Query("query")
	aiTypes := c.QueryArray("ai_type")
	businessLines := c.QueryArray("business_line")
	functions := c.QueryArray("function")
	statuses := c.QueryArray("status")

	filter := backend.NewApplicationFilter(query, aiTypes, businessLines, functions, statuses)

	result, err := server.backend.RetrieveApplications(c, filter, 0, 0)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	facets, err := server.backend.ListFacets(c)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	cards := make([]applicationCard, 0, len(result.Applications))
	for _, app := range result.Applications {
		cards = append(cards, server.makeApplicationCard(c, app))
	}

	data := catalogPageData{
		Content:               server.content,
		Version:               version.Version,
		Query:                 query,
		Facets:                facets,
		SelectedAITypes:       makeSelectedSet(aiTypes),
		SelectedBusinessLines: makeSelectedSet(businessLines),
		SelectedFunctions:     makeSelectedSet(functions),
		SelectedStatuses:      makeSelectedSet(statuses),
		Cards:                 cards,
	}

	buf := bytes.Buffer{}
	if err := catalogTemplate.Execute(&buf, data); err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}
