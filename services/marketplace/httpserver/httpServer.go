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
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/imdario/mergo"
	"github.com/juju/errors"
	"github.com/loopfz/gadgeto/tonic"
	"github.com/sirupsen/logrus"
	"github.com/wI2L/fizz"
	"github.com/wI2L/fizz/openapi"

	"github.com/innovationlab/marketplace/services/marketplace/backend"
	"github.com/innovationlab/marketplace/services/marketplace/catalog"
	"github.com/innovationlab/marketplace/services/marketplace/media"
	"github.com/innovationlab/marketplace/version"
)

var infos = openapi.Info{
	Title: "AI Application Marketplace",
	Description: "The marketplace serves a curated catalog of AI applications." +
		" It implements a JSON HTTP API that can be easily used from a web application.\n" +
		"\n" +
		"The API is composed of two groups of routes:\n" +
		"- [Applications](#tag/Applications)\n" +
		"- [Facets](#tag/Facets)\n",
	Version: version.Version,
}

type Server struct {
	http.Server
	backend     backend.Backend
	signer      *media.Signer
	content     catalog.Content
	adminSecret string

	gin  *gin.Engine
	fizz *fizz.Fizz
}

func New(
	port uint,
	marketplaceBackend backend.Backend,
	signer *media.Signer,
	content catalog.Content,
	adminSecret string,
) (*Server, error) {
	// Debug mode can be helpful during development
	gin.SetMode(gin.ReleaseMode)
	//gin.SetMode(gin.DebugMode)

	tonic.SetErrorHook(tonicErrorHook)

	ginEngine := gin.New()
	fizzEngine := fizz.NewFromEngine(ginEngine)

	server := &Server{
		Server: http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: fizzEngine,
		},
		backend:     marketplaceBackend,
		signer:      signer,
		content:     content,
		adminSecret: adminSecret,
		gin:         ginEngine,
		fizz:        fizzEngine,
	}

	server.gin.HandleMethodNotAllowed = true

	// Allows all origins
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AddAllowHeaders(adminTokenHeaderKey)

	server.fizz.Use(cors.New(corsConfig))

	// Use a custom error handler
	server.fizz.Use(ginErrorHandlerMiddleware)

	// Use the custom logger middleware
	server.fizz.Use(ginLoggerMiddleware)

	// Recovery middleware recovers from any panics and writes a 500 if there was one.
	server.fizz.Use(gin.Recovery())

	server.fizz.GET("/", []fizz.OperationOption{
		fizz.Summary("Retrieve information about this API"),
	}, tonic.Handler(server.getInfo, http.StatusOK))

	server.fizz.GET("/openapi.json", []fizz.OperationOption{
		fizz.Summary("Retrieve the open api specification"),
		fizz.Response("500", "Bad server configuration or state", httpError{}, nil, nil),
	}, server.fizz.OpenAPI(&infos, "json"))

	// The legacy health route is kept because deployed container health checks
	// probe it.
	server.fizz.GET("/health", []fizz.OperationOption{
		fizz.Summary("Check the health of the service"),
	}, tonic.Handler(server.getHealth, http.StatusOK))
	server.fizz.GET("/_stcore/health", []fizz.OperationOption{
		// Both routes share a handler, fizz requires a distinct operation id
		fizz.ID("getHealthLegacy"),
		fizz.Summary("Check the health of the service (legacy route)"),
	}, tonic.Handler(server.getHealth, http.StatusOK))

	applicationsGroup := server.fizz.Group(
		"/applications",
		"Applications",
		"Browse and administrate the catalog of applications.",
	)
	applicationsGroup.GET("", []fizz.OperationOption{
		fizz.Summary("Retrieve applications"),
		fizz.Description("Retrieve the applications matching the given query and facet selection, " +
			"in catalog insertion order.\n" +
			"\n" +
			"Pagination is cursor based: pass the returned `next_application_idx` " +
			"as `from_application_idx` to retrieve the next page."),
		fizz.Response("500", "Bad server configuration or state", httpError{}, nil, nil),
	}, tonic.Handler(server.listApplications, http.StatusOK))

	applicationsGroup.POST("", []fizz.OperationOption{
		fizz.Summary("Create or update applications"),
		fizz.Description("Create or update a batch of applications.\n" +
			"\n" +
			"Applications without an explicit `id` get one derived from their title. " +
			"Existing applications keep their position in the catalog."),
		fizz.Response("400", "Invalid applications", httpError{}, nil, nil),
		fizz.Response("401", "Invalid admin token", httpError{}, nil, nil),
		fizz.Response("500", "Bad server configuration or state", httpError{}, nil, nil),
	}, tonic.Handler(server.upsertApplications, http.StatusCreated))

	applicationsGroup.GET("/:application_id", []fizz.OperationOption{
		fizz.Summary("Retrieve one application"),
		fizz.Response("404", "Application not found", httpError{}, nil, nil),
		fizz.Response("500", "Bad server configuration or state", httpError{}, nil, nil),
	}, tonic.Handler(server.getApplication, http.StatusOK))

	applicationsGroup.PATCH("/:application_id", []fizz.OperationOption{
		fizz.Summary("Update one application"),
		fizz.Description("Merge the provided fields into the stored application, " +
			"unset fields are left untouched."),
		fizz.Response("400", "Invalid patch", httpError{}, nil, nil),
		fizz.Response("401", "Invalid admin token", httpError{}, nil, nil),
		fizz.Response("404", "Application not found", httpError{}, nil, nil),
		fizz.Response("500", "Bad server configuration or state", httpError{}, nil, nil),
	}, tonic.Handler(server.patchApplication, http.StatusOK))

	applicationsGroup.DELETE("/:application_id", []fizz.OperationOption{
		fizz.Summary("Delete one application"),
		fizz.Response("401", "Invalid admin token", httpError{}, nil, nil),
		fizz.Response("500", "Bad server configuration or state", httpError{}, nil, nil),
	}, tonic.Handler(server.deleteApplication, http.StatusAccepted))

	applicationsGroup.GET("/:application_id/demo", []fizz.OperationOption{
		fizz.Summary("Retrieve a signed demo url for one application"),
		fizz.Description("Retrieve a time-limited signed url for the application demo video."),
		fizz.Response("404", "Application not found or has no demo", httpError{}, nil, nil),
		fizz.Response("503", "No media store configured", httpError{}, nil, nil),
		fizz.Response("500", "Bad server configuration or state", httpError{}, nil, nil),
	}, tonic.Handler(server.getApplicationDemo, http.StatusOK))

	facetsGroup := server.fizz.Group(
		"/facets",
		"Facets",
		"Retrieve the facet values available for filtering.",
	)
	facetsGroup.GET("", []fizz.OperationOption{
		fizz.Summary("Retrieve the facet values of the catalog"),
		fizz.Response("500", "Bad server configuration or state", httpError{}, nil, nil),
	}, tonic.Handler(server.listFacets, http.StatusOK))

	// The catalog page is rendered server side, outside of the JSON API.
	ginEngine.GET("/ui", server.renderCatalogPage)

	ginEngine.NoRoute(func(c *gin.Context) {
		_ = c.AbortWithError(http.StatusNotFound, fmt.Errorf("not found"))
	})

	ginEngine.NoMethod(func(c *gin.Context) {
		_ = c.AbortWithError(http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
	})

	return server, nil
}

type response struct {
	Message string `json:"message" description:"Human-readable response description"`
}

type infoResponse struct {
	response
	Version     string `json:"version" description:"Marketplace Version"`
	VersionHash string `json:"version_hash"`
}

func (server *Server) getInfo(*gin.Context) (infoResponse, error) {
	return infoResponse{
		response: response{
			Message: "This is the AI Application Marketplace",
		},
		Version:     version.Version,
		VersionHash: version.Hash,
	}, nil
}

type healthResponse struct {
	Status string `json:"status" description:"Always \"ok\" when the service is able to respond"`
}

func (server *Server) getHealth(*gin.Context) (healthResponse, error) {
	return healthResponse{Status: "ok"}, nil
}

//nolint:lll
type applicationCard struct {
	backend.Application
	DisplayStatus string   `json:"display_status,omitempty" description:"Status label to display on the card, empty when the status shouldn't be displayed"`
	DisplayTags   []string `json:"display_tags,omitempty" description:"Tag labels to display on the card"`
}

// signMediaURL exchanges a media object path for a signed url. Absolute urls
// pass through, unsigned paths are returned as-is when no media store is
// configured.
func (server *Server) signMediaURL(c *gin.Context, object string) string {
	if object == "" {
		return ""
	}
	signedURL, _, err := server.signer.SignedURL(c, object)
	if err != nil {
		if !errors.Is(err, media.ErrNotConfigured) {
			log.WithField("object", object).WithError(err).Warn("unable to sign media url")
		}
		return object
	}
	return signedURL
}

func (server *Server) makeApplicationCard(c *gin.Context, app *backend.Application) applicationCard {
	card := applicationCard{
		Application:   *app,
		DisplayStatus: app.DisplayStatus(),
		DisplayTags:   app.DisplayTags(),
	}
	if card.Alt == "" {
		card.Alt = card.Title
	}
	card.Image = server.signMediaURL(c, card.Image)
	card.DemoURL = server.signMediaURL(c, card.DemoURL)
	return card
}

//nolint:lll
type listApplicationsRequest struct {
	Query              string   `query:"query" description:"Case-insensitive substring to match against application titles"`
	AITypes            []string `query:"ai_type" description:"AI type facet values to select, none means all"`
	BusinessLines      []string `query:"business_line" description:"Business line facet values to select, none means all"`
	Functions          []string `query:"function" description:"Function facet values to select, none means all"`
	Statuses           []string `query:"status" description:"Status facet values to select, none means all"`
	FromApplicationIdx int      `query:"from_application_idx" default:"0" description:"Cursor to start from, as returned in next_application_idx by a previous request"`
	Count              int      `query:"count" default:"0" description:"Maximum number of applications to retrieve, 0 means no limit"`
}

//nolint:lll
type listApplicationsResponse struct {
	Applications       []applicationCard `json:"applications" description:"Matching applications, in catalog insertion order"`
	NextApplicationIdx int               `json:"next_application_idx" description:"Cursor to pass as from_application_idx to retrieve the next page"`
}

func (server *Server) listApplications(
	c *gin.Context,
	request *listApplicationsRequest,
) (*listApplicationsResponse, error) {
	filter := backend.NewApplicationFilter(
		request.Query,
		request.AITypes,
		request.BusinessLines,
		request.Functions,
		request.Statuses,
	)

	result, err := server.backend.RetrieveApplications(c, filter, request.FromApplicationIdx, request.Count)
	if err != nil {
		return nil, wrapError(http.StatusInternalServerError, err)
	}

	cards := make([]applicationCard, 0, len(result.Applications))
	for _, app := range result.Applications {
		cards = append(cards, server.makeApplicationCard(c, app))
	}

	return &listApplicationsResponse{
		Applications:       cards,
		NextApplicationIdx: result.NextApplicationIdx,
	}, nil
}

type getApplicationRequest struct {
	ApplicationID string `path:"application_id" description:"The application identifier"`
}

func (server *Server) getApplication(
	c *gin.Context,
	request *getApplicationRequest,
) (*applicationCard, error) {
	apps, err := server.backend.GetApplications(c, []string{request.ApplicationID})
	if err != nil {
		var unknownAppErr *backend.UnknownApplicationError
		if errors.As(err, &unknownAppErr) {
			return nil, wrapError(http.StatusNotFound, err)
		}
		return nil, wrapError(http.StatusInternalServerError, err)
	}

	card := server.makeApplicationCard(c, apps[0])
	return &card, nil
}

const adminTokenHeaderKey = "Marketplace-Admin-Token"

func (server *Server) checkAdminToken(tokenString string) error {
	if server.adminSecret == "" {
		return wrapError(
			http.StatusServiceUnavailable,
			fmt.Errorf("Catalog administration is not enabled"),
		)
	}

	claims, err := ParseAndVerifyToken(tokenString, server.adminSecret)
	if err != nil {
		return wrapError(
			http.StatusUnauthorized,
			fmt.Errorf("Unable to validate token from header [%s] (%w)", adminTokenHeaderKey, err),
		)
	}

	if claims.Role != AdminRole {
		return wrapError(
			http.StatusUnauthorized,
			fmt.Errorf("Provided token doesn't grant the [%s] role", AdminRole),
		)
	}
	return nil
}

//nolint:lll
type upsertApplicationsRequest struct {
	Token        string                 `header:"Marketplace-Admin-Token" validate:"required" description:"Admin token, as generated by the token client command"`
	Applications []*backend.Application `json:"applications" validate:"required" description:"Applications to create or update"`
}

type upsertApplicationsResponse struct {
	response
	ApplicationIDs []string `json:"application_ids" description:"Identifiers of the created or updated applications"`
}

func (server *Server) upsertApplications(
	c *gin.Context,
	request *upsertApplicationsRequest,
) (*upsertApplicationsResponse, error) {
	if err := server.checkAdminToken(request.Token); err != nil {
		return nil, err
	}

	if err := catalog.Validate(request.Applications); err != nil {
		return nil, wrapError(http.StatusBadRequest, err)
	}

	log.WithFields(logrus.Fields{
		"nb_applications": len(request.Applications),
	}).Info("updating applications")

	if err := server.backend.CreateOrUpdateApplications(c, request.Applications); err != nil {
		return nil, wrapError(http.StatusInternalServerError, err)
	}

	applicationIDs := make([]string, 0, len(request.Applications))
	for _, app := range request.Applications {
		applicationIDs = append(applicationIDs, app.ID)
	}

	return &upsertApplicationsResponse{
		response: response{
			Message: fmt.Sprintf("[%d] applications created or updated", len(applicationIDs)),
		},
		ApplicationIDs: applicationIDs,
	}, nil
}

//nolint:lll
type patchApplicationRequest struct {
	ApplicationID string `path:"application_id" description:"The application identifier"`
	Token         string `header:"Marketplace-Admin-Token" validate:"required" description:"Admin token, as generated by the token client command"`
	backend.Application
}

func (server *Server) patchApplication(
	c *gin.Context,
	request *patchApplicationRequest,
) (*applicationCard, error) {
	if err := server.checkAdminToken(request.Token); err != nil {
		return nil, err
	}

	if request.Application.ID != "" && request.Application.ID != request.ApplicationID {
		return nil, wrapError(
			http.StatusBadRequest,
			fmt.Errorf(
				"Patch id [%s] doesn't match application [%s]",
				request.Application.ID,
				request.ApplicationID,
			),
		)
	}

	apps, err := server.backend.GetApplications(c, []string{request.ApplicationID})
	if err != nil {
		var unknownAppErr *backend.UnknownApplicationError
		if errors.As(err, &unknownAppErr) {
			return nil, wrapError(http.StatusNotFound, err)
		}
		return nil, wrapError(http.StatusInternalServerError, err)
	}

	patched := *apps[0]
	if err := mergo.Merge(&patched, request.Application, mergo.WithOverride); err != nil {
		return nil, wrapError(http.StatusInternalServerError, err)
	}

	log.WithField("application_id", request.ApplicationID).Info("patching application")

	if err := server.backend.CreateOrUpdateApplications(c, []*backend.Application{&patched}); err != nil {
		return nil, wrapError(http.StatusInternalServerError, err)
	}

	card := server.makeApplicationCard(c, &patched)
	return &card, nil
}

//nolint:lll
type deleteApplicationRequest struct {
	ApplicationID string `path:"application_id" description:"The application identifier"`
	Token         string `header:"Marketplace-Admin-Token" validate:"required" description:"Admin token, as generated by the token client command"`
}

func (server *Server) deleteApplication(
	c *gin.Context,
	request *deleteApplicationRequest,
) (*response, error) {
	if err := server.checkAdminToken(request.Token); err != nil {
		return nil, err
	}

	log.WithField("application_id", request.ApplicationID).Info("deleting application")

	if err := server.backend.DeleteApplications(c, []string{request.ApplicationID}); err != nil {
		return nil, wrapError(http.StatusInternalServerError, err)
	}

	return &response{
		Message: fmt.Sprintf("Application [%s] deleted", request.ApplicationID),
	}, nil
}

//nolint:lll
type applicationDemoResponse struct {
	DemoURL   string     `json:"demo_url" description:"Url of the application demo video, signed when it points to the media store"`
	ExpiresAt *time.Time `json:"expires_at,omitempty" description:"Expiry of the signed url, absent for urls that don't expire"`
}

func (server *Server) getApplicationDemo(
	c *gin.Context,
	request *getApplicationRequest,
) (*applicationDemoResponse, error) {
	apps, err := server.backend.GetApplications(c, []string{request.ApplicationID})
	if err != nil {
		var unknownAppErr *backend.UnknownApplicationError
		if errors.As(err, &unknownAppErr) {
			return nil, wrapError(http.StatusNotFound, err)
		}
		return nil, wrapError(http.StatusInternalServerError, err)
	}

	app := apps[0]
	if app.DemoURL == "" {
		return nil, wrapError(
			http.StatusNotFound,
			fmt.Errorf("Application [%s] has no demo", request.ApplicationID),
		)
	}

	signedURL, expiresAt, err := server.signer.SignedURL(c, app.DemoURL)
	if err != nil {
		if errors.Is(err, media.ErrNotConfigured) {
			return nil, wrapError(http.StatusServiceUnavailable, err)
		}
		return nil, wrapError(http.StatusInternalServerError, err)
	}

	demoResponse := &applicationDemoResponse{DemoURL: signedURL}
	if !expiresAt.IsZero() {
		demoResponse.ExpiresAt = &expiresAt
	}
	return demoResponse, nil
}

func (server *Server) listFacets(c *gin.Context) (*backend.Facets, error) {
	facets, err := server.backend.ListFacets(c)
	if err != nil {
		return nil, wrapError(http.StatusInternalServerError, err)
	}
	return &facets, nil
}
