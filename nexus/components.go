// Copyright 2022 Hewlett Packard Enterprise Development LP. All Rights Reserved.
// SPDX-License-Identifier: MIT

package nexus

import (
	"context"
	"net/http"
	"net/url"
)

// Component is one component (for example a helm chart) stored in a Nexus
// repository. Deletion requires the component ID, not the name.
type Component struct {
	ID         string `json:"id"`
	Repository string `json:"repository"`
	Format     string `json:"format"`
	Name       string `json:"name"`
	Version    string `json:"version"`
}

type componentPage struct {
	Items             []Component `json:"items"`
	ContinuationToken string      `json:"continuationToken"`
}

// ListComponents returns every component of the named repository, following
// continuation tokens until the listing is exhausted.
func (a *API) ListComponents(ctx context.Context, repository string) ([]Component, error) {
	var components []Component
	token := ""
	for {
		query := url.Values{"repository": []string{repository}}
		if token != "" {
			query.Set("continuationToken", token)
		}
		var page componentPage
		if err := a.client.do(ctx, http.MethodGet, "/service/rest/v1/components", query, nil, &page); err != nil {
			return nil, err
		}
		components = append(components, page.Items...)
		if page.ContinuationToken == "" {
			return components, nil
		}
		token = page.ContinuationToken
	}
}

// DeleteComponent deletes a component by ID.
func (a *API) DeleteComponent(ctx context.Context, id string) error {
	return a.client.do(ctx, http.MethodDelete, "/service/rest/v1/components/"+url.PathEscape(id), nil, nil, nil)
}
