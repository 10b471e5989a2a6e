// Copyright 2022 Hewlett Packard Enterprise Development LP. All Rights Reserved.
// SPDX-License-Identifier: MIT

package catalog

import "sort"

// InstalledProductVersion is one product version recorded in the catalog,
// together with its parsed entry data.
type InstalledProductVersion struct {
	Name    string
	Version string
	Entry   *VersionEntry
}

func (p InstalledProductVersion) String() string {
	return p.Name + "-" + p.Version
}

// DockerImages returns the container images recorded for this version.
func (p *InstalledProductVersion) DockerImages() []DockerImage {
	return p.Entry.ComponentVersions.Docker
}

// HelmCharts returns the helm charts recorded for this version.
func (p *InstalledProductVersion) HelmCharts() []HelmChart {
	return p.Entry.ComponentVersions.Helm
}

// Repositories returns every package repository recorded for this version.
func (p *InstalledProductVersion) Repositories() []Repository {
	return p.Entry.ComponentVersions.Repositories
}

// GroupRepositories returns the group-type repositories for this version.
func (p *InstalledProductVersion) GroupRepositories() []Repository {
	var groups []Repository
	for _, repo := range p.Entry.ComponentVersions.Repositories {
		if repo.Type == RepositoryTypeGroup {
			groups = append(groups, repo)
		}
	}
	return groups
}

// HostedRepositoryNames returns the names of all hosted repositories for
// this version: the hosted-type entries plus any names listed as members of
// a group repository. The result is de-duplicated and sorted.
func (p *InstalledProductVersion) HostedRepositoryNames() []string {
	seen := make(map[string]struct{})
	var names []string
	add := func(name string) {
		if name == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}

	for _, repo := range p.Entry.ComponentVersions.Repositories {
		if repo.Type == RepositoryTypeHosted {
			add(repo.Name)
		}
	}
	for _, group := range p.GroupRepositories() {
		for _, member := range group.Members {
			add(member)
		}
	}
	sort.Strings(names)
	return names
}

// Active reports whether this version is flagged active in the catalog.
func (p *InstalledProductVersion) Active() bool {
	return p.Entry.Active
}

// CloneURL returns the clone URL of the product's configuration repository,
// or the empty string when the entry records none.
func (p *InstalledProductVersion) CloneURL() string {
	if p.Entry.Configuration == nil {
		return ""
	}
	return p.Entry.Configuration.CloneURL
}
