// Copyright 2022 Hewlett Packard Enterprise Development LP. All Rights Reserved.
// SPDX-License-Identifier: MIT

package nexus

import (
	"context"
	"fmt"
	"io"
	"net/http"

	pkgerrors "github.com/pkg/errors"
)

const manifestV2MediaType = "application/vnd.docker.distribution.manifest.v2+json"

// DockerAPI wraps the Docker registry v2 API fronted by Nexus.
type DockerAPI struct {
	client *Client
}

// NewDockerAPI returns a registry client rooted at baseURL, or at the
// in-cluster default when baseURL is empty.
func NewDockerAPI(baseURL string, creds *Credentials) *DockerAPI {
	if baseURL == "" {
		baseURL = DefaultDockerRegistryURL
	}
	return &DockerAPI{client: NewClient(baseURL, creds)}
}

// DeleteImage deletes an image from the registry. The registry only accepts
// deletion by manifest digest, so the tag is first resolved with a HEAD
// request. A missing image surfaces as a 404 APIError.
func (d *DockerAPI) DeleteImage(ctx context.Context, name, tag string) error {
	digest, err := d.manifestDigest(ctx, name, tag)
	if err != nil {
		return err
	}

	u := fmt.Sprintf("%s/v2/%s/manifests/%s", d.client.baseURL, name, digest)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, u, nil)
	if err != nil {
		return pkgerrors.Wrapf(err, "error creating request for DELETE %s", u)
	}
	resp, err := d.client.roundTrip(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// manifestDigest resolves a tag to its manifest digest.
func (d *DockerAPI) manifestDigest(ctx context.Context, name, tag string) (string, error) {
	u := fmt.Sprintf("%s/v2/%s/manifests/%s", d.client.baseURL, name, tag)
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, u, nil)
	if err != nil {
		return "", pkgerrors.Wrapf(err, "error creating request for HEAD %s", u)
	}
	req.Header.Set("Accept", manifestV2MediaType)

	resp, err := d.client.roundTrip(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	digest := resp.Header.Get("Docker-Content-Digest")
	if digest == "" {
		return "", &APIError{
			Method:     http.MethodHead,
			URL:        u,
			StatusCode: resp.StatusCode,
			Message:    "response did not include a Docker-Content-Digest header",
		}
	}
	return digest, nil
}
