// Copyright 2022 Hewlett Packard Enterprise Development LP. All Rights Reserved.
// SPDX-License-Identifier: MIT

package nexus

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// RepositoryStorage is the storage section of a repository's settings.
type RepositoryStorage struct {
	BlobStoreName               string `json:"blobStoreName"`
	StrictContentTypeValidation bool   `json:"strictContentTypeValidation"`
}

// RepositoryGroup is the group section of a group repository's settings.
type RepositoryGroup struct {
	MemberNames []string `json:"memberNames"`
}

// Repository is a repository's settings as reported by Nexus. Group
// repositories carry a non-nil Group section.
type Repository struct {
	Name    string             `json:"name"`
	Format  string             `json:"format"`
	Type    string             `json:"type"`
	Online  bool               `json:"online"`
	Storage *RepositoryStorage `json:"storage,omitempty"`
	Group   *RepositoryGroup   `json:"group,omitempty"`
}

// API wraps the Nexus repository manager REST API.
type API struct {
	client *Client
}

// NewAPI returns an API client rooted at baseURL, or at the in-cluster
// default when baseURL is empty.
func NewAPI(baseURL string, creds *Credentials) *API {
	if baseURL == "" {
		baseURL = DefaultNexusURL
	}
	return &API{client: NewClient(baseURL, creds)}
}

// ListRepos returns the settings of every repository known to Nexus.
func (a *API) ListRepos(ctx context.Context) ([]Repository, error) {
	var repos []Repository
	if err := a.client.do(ctx, http.MethodGet, "/service/rest/v1/repositorySettings", nil, nil, &repos); err != nil {
		return nil, err
	}
	return repos, nil
}

// GetRepo returns the settings of the named repository. A missing repository
// is reported as a 404 APIError, so IsNotFound applies.
func (a *API) GetRepo(ctx context.Context, name string) (*Repository, error) {
	repos, err := a.ListRepos(ctx)
	if err != nil {
		return nil, err
	}
	for i := range repos {
		if repos[i].Name == name {
			return &repos[i], nil
		}
	}
	return nil, &APIError{
		Method:     http.MethodGet,
		URL:        a.client.baseURL + "/service/rest/v1/repositorySettings",
		StatusCode: http.StatusNotFound,
		Message:    fmt.Sprintf("no repository named %s", name),
	}
}

// DeleteRepo deletes the named repository.
func (a *API) DeleteRepo(ctx context.Context, name string) error {
	return a.client.do(ctx, http.MethodDelete, "/service/rest/v1/repositories/"+url.PathEscape(name), nil, nil, nil)
}

// rawGroupUpdate is the request body for updating a raw group repository.
type rawGroupUpdate struct {
	Name    string            `json:"name"`
	Online  bool              `json:"online"`
	Storage RepositoryStorage `json:"storage"`
	Group   RepositoryGroup   `json:"group"`
}

// UpdateRawGroupMembers replaces the membership list of a raw group
// repository, keeping its current online and storage settings. Nexus rejects
// the update with a 400 when a named member does not exist.
func (a *API) UpdateRawGroupMembers(ctx context.Context, group Repository, members []string) error {
	update := rawGroupUpdate{
		Name:   group.Name,
		Online: group.Online,
		Group:  RepositoryGroup{MemberNames: members},
	}
	if group.Storage != nil {
		update.Storage = *group.Storage
	}
	return a.client.do(ctx, http.MethodPut,
		"/service/rest/v1/repositories/raw/group/"+url.PathEscape(group.Name), nil, update, nil)
}
