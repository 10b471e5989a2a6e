// Copyright 2022 Hewlett Packard Enterprise Development LP. All Rights Reserved.
// SPDX-License-Identifier: MIT

package catalog

import (
	"encoding/json"
	"fmt"
)

// parseVersionEntry turns the raw document for a single product version into
// a typed VersionEntry, or a ValidationError when the document does not have
// the expected shape.
func parseVersionEntry(product, version string, doc map[string]interface{}) (*VersionEntry, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, &ValidationError{Product: product, Version: version, Reason: err.Error()}
	}

	var entry VersionEntry
	if err := json.Unmarshal(b, &entry); err != nil {
		return nil, &ValidationError{Product: product, Version: version, Reason: err.Error()}
	}

	// Old installers recorded a single image as
	// component_versions.<product>: <image version>, with the image name
	// implied to be cray/cray-<product>.
	if cv, ok := doc[componentVersionsKey].(map[string]interface{}); ok {
		if _, hasDocker := cv[dockerKey]; !hasDocker {
			if imageVersion, ok := cv[product].(string); ok {
				entry.ComponentVersions.Docker = []DockerImage{
					{Name: "cray/cray-" + product, Version: imageVersion},
				}
			}
		}
	}

	if reason := entry.invalidReason(); reason != "" {
		return nil, &ValidationError{Product: product, Version: version, Reason: reason}
	}
	return &entry, nil
}

// invalidReason returns a description of the first schema violation found,
// or the empty string when the entry is usable.
func (e *VersionEntry) invalidReason() string {
	for _, image := range e.ComponentVersions.Docker {
		if image.Name == "" || image.Version == "" {
			return "docker image entries require both a name and a version"
		}
	}
	for _, chart := range e.ComponentVersions.Helm {
		if chart.Name == "" || chart.Version == "" {
			return "helm chart entries require both a name and a version"
		}
	}
	for _, repo := range e.ComponentVersions.Repositories {
		if repo.Name == "" {
			return "repository entries require a name"
		}
		switch repo.Type {
		case RepositoryTypeGroup, RepositoryTypeHosted:
		default:
			return fmt.Sprintf("repository %s has unrecognized type %q", repo.Name, repo.Type)
		}
	}
	return ""
}
