// Copyright 2022 Hewlett Packard Enterprise Development LP. All Rights Reserved.
// SPDX-License-Identifier: MIT

package catalog

const (
	// DefaultConfigMapName is the name of the product catalog ConfigMap.
	DefaultConfigMapName = "cray-product-catalog"
	// DefaultConfigMapNamespace is the namespace of the product catalog ConfigMap.
	DefaultConfigMapNamespace = "services"

	componentVersionsKey = "component_versions"
	dockerKey            = "docker"
	helmKey              = "helm"
	activeKey            = "active"
)

// RepositoryType distinguishes the two kinds of package repositories
// recorded in the catalog.
type RepositoryType string

const (
	RepositoryTypeGroup  RepositoryType = "group"
	RepositoryTypeHosted RepositoryType = "hosted"
)

// DockerImage is a container image reference recorded in a version entry.
type DockerImage struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

func (i DockerImage) String() string {
	return i.Name + ":" + i.Version
}

// HelmChart is a chart reference recorded in a version entry.
type HelmChart struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

func (c HelmChart) String() string {
	return c.Name + ":" + c.Version
}

// Repository is a package repository reference recorded in a version entry.
// Group repositories carry the names of their member hosted repositories.
type Repository struct {
	Name    string         `json:"name"`
	Type    RepositoryType `json:"type"`
	Members []string       `json:"members,omitempty"`
}

// Configuration holds the product's configuration management repository
// details, if the installer recorded any.
type Configuration struct {
	CloneURL string `json:"clone_url"`
}

// ComponentVersions lists the components that belong to a product version.
type ComponentVersions struct {
	Docker       []DockerImage `json:"docker,omitempty"`
	Helm         []HelmChart   `json:"helm,omitempty"`
	Repositories []Repository  `json:"repositories,omitempty"`
}

// VersionEntry is the catalog record for a single product version.
type VersionEntry struct {
	ComponentVersions ComponentVersions `json:"component_versions,omitempty"`
	Configuration     *Configuration    `json:"configuration,omitempty"`
	Active            bool              `json:"active,omitempty"`
}
