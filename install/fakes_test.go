// Copyright 2022 Hewlett Packard Enterprise Development LP. All Rights Reserved.
// SPDX-License-Identifier: MIT

package install_test

import (
	"context"
	"net/http"

	"github.com/Cray-HPE/install-utility-common/nexus"
)

func notFoundErr(method, name string) error {
	return &nexus.APIError{Method: method, URL: name, StatusCode: http.StatusNotFound}
}

// fakeRepoManager is an in-memory stand-in for the Nexus API.
type fakeRepoManager struct {
	repos             map[string]nexus.Repository
	components        []nexus.Component
	groupUpdates      map[string][]string
	deletedRepos      []string
	deletedComponents []string
	failRepoDeletes   map[string]error
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		repos:           make(map[string]nexus.Repository),
		groupUpdates:    make(map[string][]string),
		failRepoDeletes: make(map[string]error),
	}
}

func (f *fakeRepoManager) addGroupRepo(name string, members ...string) {
	f.repos[name] = nexus.Repository{
		Name:    name,
		Format:  "raw",
		Type:    "group",
		Online:  true,
		Storage: &nexus.RepositoryStorage{BlobStoreName: "default"},
		Group:   &nexus.RepositoryGroup{MemberNames: members},
	}
}

func (f *fakeRepoManager) addHostedRepo(name string) {
	f.repos[name] = nexus.Repository{
		Name:    name,
		Format:  "raw",
		Type:    "hosted",
		Online:  true,
		Storage: &nexus.RepositoryStorage{BlobStoreName: "default"},
	}
}

func (f *fakeRepoManager) GetRepo(ctx context.Context, name string) (*nexus.Repository, error) {
	repo, ok := f.repos[name]
	if !ok {
		return nil, notFoundErr(http.MethodGet, name)
	}
	return &repo, nil
}

func (f *fakeRepoManager) DeleteRepo(ctx context.Context, name string) error {
	if err, ok := f.failRepoDeletes[name]; ok {
		return err
	}
	if _, ok := f.repos[name]; !ok {
		return notFoundErr(http.MethodDelete, name)
	}
	delete(f.repos, name)
	f.deletedRepos = append(f.deletedRepos, name)
	return nil
}

func (f *fakeRepoManager) UpdateRawGroupMembers(ctx context.Context, group nexus.Repository, members []string) error {
	stored, ok := f.repos[group.Name]
	if !ok {
		return notFoundErr(http.MethodPut, group.Name)
	}
	stored.Group = &nexus.RepositoryGroup{MemberNames: append([]string(nil), members...)}
	f.repos[group.Name] = stored
	f.groupUpdates[group.Name] = append([]string(nil), members...)
	return nil
}

func (f *fakeRepoManager) ListComponents(ctx context.Context, repository string) ([]nexus.Component, error) {
	var matches []nexus.Component
	for _, component := range f.components {
		if component.Repository == repository {
			matches = append(matches, component)
		}
	}
	return matches, nil
}

func (f *fakeRepoManager) DeleteComponent(ctx context.Context, id string) error {
	for i, component := range f.components {
		if component.ID == id {
			f.components = append(f.components[:i], f.components[i+1:]...)
			f.deletedComponents = append(f.deletedComponents, id)
			return nil
		}
	}
	return notFoundErr(http.MethodDelete, id)
}

// fakeImageRegistry is an in-memory stand-in for the Docker registry.
type fakeImageRegistry struct {
	images      map[string]struct{}
	deleted     []string
	failDeletes map[string]error
}

func newFakeImageRegistry(images ...string) *fakeImageRegistry {
	registry := &fakeImageRegistry{
		images:      make(map[string]struct{}),
		failDeletes: make(map[string]error),
	}
	for _, image := range images {
		registry.images[image] = struct{}{}
	}
	return registry
}

func (f *fakeImageRegistry) DeleteImage(ctx context.Context, name, tag string) error {
	ref := name + ":" + tag
	if err, ok := f.failDeletes[ref]; ok {
		return err
	}
	if _, ok := f.images[ref]; !ok {
		return notFoundErr(http.MethodDelete, ref)
	}
	delete(f.images, ref)
	f.deleted = append(f.deleted, ref)
	return nil
}
