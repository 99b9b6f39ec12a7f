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
	"net/url"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/innovationlab/marketplace/services/marketplace/backend"
)

// Client wraps the marketplace http api.
type Client struct {
	resty *resty.Client
}

func CreateClient(serverURL string) (*Client, error) {
	parsedURL, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("[%s] is not a valid URL: %w", serverURL, err)
	}

	if (parsedURL.Scheme != "http" && parsedURL.Scheme != "https") || parsedURL.Host == "" {
		return nil, fmt.Errorf("expected an URL like \"http(s)://<host>:<port>\", got [%s]", serverURL)
	}

	return &Client{
		resty: resty.New().SetBaseURL(serverURL),
	}, nil
}

const adminTokenHeaderKey = "Marketplace-Admin-Token"

type errorReply struct {
	Message string `json:"message"`
}

func replyError(resp *resty.Response) error {
	if errReply, ok := resp.Error().(*errorReply); ok && errReply.Message != "" {
		return fmt.Errorf("request to [%s] failed with status [%s]: %s", resp.Request.URL, resp.Status(), errReply.Message)
	}
	return fmt.Errorf("request to [%s] failed with status [%s]", resp.Request.URL, resp.Status())
}

// ApplicationCard is an application as returned by the api, with its computed
// display fields.
type ApplicationCard struct {
	backend.Application
	DisplayStatus string   `json:"display_status,omitempty"`
	DisplayTags   []string `json:"display_tags,omitempty"`
}

type ListApplicationsFilter struct {
	Query         string
	AITypes       []string
	BusinessLines []string
	Functions     []string
	Statuses      []string
}

type ListApplicationsReply struct {
	Applications       []ApplicationCard `json:"applications"`
	NextApplicationIdx int               `json:"next_application_idx"`
}

func (client *Client) ListApplications(
	ctx context.Context,
	filter ListApplicationsFilter,
	fromApplicationIdx int,
	count int,
) (*ListApplicationsReply, error) {
	queryParams := url.Values{}
	if filter.Query != "" {
		queryParams.Set("query", filter.Query)
	}
	for _, value := range filter.AITypes {
		queryParams.Add("ai_type", value)
	}
	for _, value := range filter.BusinessLines {
		queryParams.Add("business_line", value)
	}
	for _, value := range filter.Functions {
		queryParams.Add("function", value)
	}
	for _, value := range filter.Statuses {
		queryParams.Add("status", value)
	}
	if fromApplicationIdx > 0 {
		queryParams.Set("from_application_idx", strconv.Itoa(fromApplicationIdx))
	}
	if count > 0 {
		queryParams.Set("count", strconv.Itoa(count))
	}

	reply := ListApplicationsReply{}
	resp, err := client.resty.R().
		SetContext(ctx).
		SetQueryParamsFromValues(queryParams).
		SetResult(&reply).
		SetError(&errorReply{}).
		Get("/applications")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, replyError(resp)
	}
	return &reply, nil
}

func (client *Client) GetApplication(ctx context.Context, applicationID string) (*ApplicationCard, error) {
	card := ApplicationCard{}
	resp, err := client.resty.R().
		SetContext(ctx).
		SetPathParam("application_id", applicationID).
		SetResult(&card).
		SetError(&errorReply{}).
		Get("/applications/{application_id}")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, replyError(resp)
	}
	return &card, nil
}

type UpsertApplicationsReply struct {
	Message        string   `json:"message"`
	ApplicationIDs []string `json:"application_ids"`
}

func (client *Client) UpsertApplications(
	ctx context.Context,
	adminToken string,
	apps []*backend.Application,
) (*UpsertApplicationsReply, error) {
	reply := UpsertApplicationsReply{}
	resp, err := client.resty.R().
		SetContext(ctx).
		SetHeader(adminTokenHeaderKey, adminToken).
		SetBody(map[string]interface{}{"applications": apps}).
		SetResult(&reply).
		SetError(&errorReply{}).
		Post("/applications")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, replyError(resp)
	}
	return &reply, nil
}

func (client *Client) DeleteApplication(ctx context.Context, adminToken string, applicationID string) error {
	resp, err := client.resty.R().
		SetContext(ctx).
		SetHeader(adminTokenHeaderKey, adminToken).
		SetPathParam("application_id", applicationID).
		SetError(&errorReply{}).
		Delete("/applications/{application_id}")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return replyError(resp)
	}
	return nil
}

type DemoReply struct {
	DemoURL   string     `json:"demo_url"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

func (client *Client) GetDemoURL(ctx context.Context, applicationID string) (*DemoReply, error) {
	reply := DemoReply{}
	resp, err := client.resty.R().
		SetContext(ctx).
		SetPathParam("application_id", applicationID).
		SetResult(&reply).
		SetError(&errorReply{}).
		Get("/applications/{application_id}/demo")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, replyError(resp)
	}
	return &reply, nil
}

func (client *Client) ListFacets(ctx context.Context) (*backend.Facets, error) {
	facets := backend.Facets{}
	resp, err := client.resty.R().
		SetContext(ctx).
		SetResult(&facets).
		SetError(&errorReply{}).
		Get("/facets")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, replyError(resp)
	}
	return &facets, nil
}
