// Copyright 2022 Hewlett Packard Enterprise Development LP. All Rights Reserved.
// SPDX-License-Identifier: MIT

// Package install composes the product catalog and the Nexus APIs into the
// operations that product installer images run: activating a version's
// hosted repositories, removing its images, charts, and repositories, and
// deleting its catalog entry.
package install

import (
	"context"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	klog "k8s.io/klog/v2"

	"github.com/Cray-HPE/install-utility-common/catalog"
	"github.com/Cray-HPE/install-utility-common/nexus"
)

// chartsRepository is the Nexus hosted repository holding helm charts.
const chartsRepository = "charts"

// RepoManager is the surface of the Nexus API the operations use.
type RepoManager interface {
	GetRepo(ctx context.Context, name string) (*nexus.Repository, error)
	DeleteRepo(ctx context.Context, name string) error
	UpdateRawGroupMembers(ctx context.Context, group nexus.Repository, members []string) error
	ListComponents(ctx context.Context, repository string) ([]nexus.Component, error)
	DeleteComponent(ctx context.Context, id string) error
}

// ImageRegistry is the surface of the Docker registry API the operations use.
type ImageRegistry interface {
	DeleteImage(ctx context.Context, name, tag string) error
}

// Utility holds the handles the install operations need. Construct one per
// process; each operation re-reads the catalog so it acts on current data.
type Utility struct {
	Catalog *catalog.Client
	Nexus   RepoManager
	Docker  ImageRegistry
}

// New returns a Utility using the given catalog client and Nexus APIs.
func New(catalogClient *catalog.Client, repoManager RepoManager, registry ImageRegistry) *Utility {
	return &Utility{Catalog: catalogClient, Nexus: repoManager, Docker: registry}
}

// ActivateProductHostedRepos makes the hosted repositories of the given
// product version the members of their group repositories, then flags the
// version active in the catalog. Running it twice is a no-op the second
// time around.
func (u *Utility) ActivateProductHostedRepos(ctx context.Context, name, version string) error {
	product, err := u.getProduct(ctx, name, version)
	if err != nil {
		return err
	}

	var errs *multierror.Error
	for _, group := range product.GroupRepositories() {
		live, err := u.Nexus.GetRepo(ctx, group.Name)
		if err != nil {
			errs = multierror.Append(errs, errors.Wrapf(err, "error getting group repository %s", group.Name))
			continue
		}
		// A member repository that does not exist makes Nexus reject
		// the whole update with a 400.
		if err := u.Nexus.UpdateRawGroupMembers(ctx, *live, group.Members); err != nil {
			errs = multierror.Append(errs, errors.Wrapf(err, "error updating group repository %s", group.Name))
			continue
		}
		klog.Infof("Updated group repository %s with member repositories: [%s]",
			group.Name, strings.Join(group.Members, ","))
	}
	if err := errs.ErrorOrNil(); err != nil {
		return errors.Wrapf(err, "one or more errors occurred activating repositories for %s", product)
	}

	return u.Catalog.SetActiveVersion(ctx, name, version)
}

// RemoveProductDockerImages deletes the container images recorded for the
// given product version. Images that another catalog entry also records are
// left in place; images already absent from the registry are tolerated.
func (u *Utility) RemoveProductDockerImages(ctx context.Context, name, version string) error {
	pc, err := u.Catalog.Load(ctx)
	if err != nil {
		return err
	}
	product, err := pc.Get(name, version)
	if err != nil {
		return err
	}

	var errs *multierror.Error
	for _, image := range product.DockerImages() {
		if holders := otherProductsWithImage(pc, product, image); len(holders) > 0 {
			klog.Infof("Not removing Docker image %s used by the following other product versions: %s",
				image, strings.Join(holders, ", "))
			continue
		}
		if err := u.Docker.DeleteImage(ctx, image.Name, image.Version); err != nil {
			if nexus.IsNotFound(err) {
				klog.Infof("%s has already been removed", image)
				continue
			}
			errs = multierror.Append(errs, errors.Wrapf(err, "failed to remove image %s", image))
			continue
		}
		klog.Infof("Removed Docker image %s", image)
	}
	if err := errs.ErrorOrNil(); err != nil {
		return errors.Wrapf(err, "one or more errors occurred removing Docker images for %s", product)
	}
	return nil
}

// UninstallProductHostedRepos deletes every hosted repository recorded for
// the given product version, including names listed only as group members.
// Repositories already deleted are tolerated.
func (u *Utility) UninstallProductHostedRepos(ctx context.Context, name, version string) error {
	product, err := u.getProduct(ctx, name, version)
	if err != nil {
		return err
	}

	var errs *multierror.Error
	for _, repoName := range product.HostedRepositoryNames() {
		if err := u.Nexus.DeleteRepo(ctx, repoName); err != nil {
			if nexus.IsNotFound(err) {
				klog.Infof("Repository %s has already been removed", repoName)
				continue
			}
			errs = multierror.Append(errs, errors.Wrapf(err, "failed to remove repository %s", repoName))
			continue
		}
		klog.Infof("Repository %s has been removed", repoName)
	}
	if err := errs.ErrorOrNil(); err != nil {
		return errors.Wrapf(err, "one or more errors occurred uninstalling repositories for %s", product)
	}
	return nil
}

// RemoveProductHelmCharts deletes the helm charts recorded for the given
// product version from the Nexus charts repository and prunes the deleted
// charts from the catalog entry.
func (u *Utility) RemoveProductHelmCharts(ctx context.Context, name, version string) error {
	product, err := u.getProduct(ctx, name, version)
	if err != nil {
		return err
	}
	charts := product.HelmCharts()
	if len(charts) == 0 {
		klog.Infof("No helm charts recorded for %s", product)
		return nil
	}

	components, err := u.Nexus.ListComponents(ctx, chartsRepository)
	if err != nil {
		return errors.Wrapf(err, "error listing components of the %s repository", chartsRepository)
	}
	componentIDs := make(map[string]string, len(components))
	for _, component := range components {
		componentIDs[component.Name+":"+component.Version] = component.ID
	}

	var removed []catalog.HelmChart
	var errs *multierror.Error
	for _, chart := range charts {
		id, ok := componentIDs[chart.String()]
		if !ok {
			klog.Infof("Helm chart %s not found in the %s repository", chart, chartsRepository)
			continue
		}
		if err := u.Nexus.DeleteComponent(ctx, id); err != nil {
			if nexus.IsNotFound(err) {
				klog.Infof("Helm chart %s has already been removed", chart)
				removed = append(removed, chart)
				continue
			}
			errs = multierror.Append(errs, errors.Wrapf(err, "failed to remove helm chart %s", chart))
			continue
		}
		klog.Infof("Removed helm chart %s", chart)
		removed = append(removed, chart)
	}

	if err := u.Catalog.RemoveHelmChartEntries(ctx, name, version, removed); err != nil {
		errs = multierror.Append(errs, err)
	}
	if err := errs.ErrorOrNil(); err != nil {
		return errors.Wrapf(err, "one or more errors occurred removing helm charts for %s", product)
	}
	return nil
}

// RemoveProductEntry deletes the given product version from the catalog.
func (u *Utility) RemoveProductEntry(ctx context.Context, name, version string) error {
	return u.Catalog.RemoveEntry(ctx, name, version)
}

func (u *Utility) getProduct(ctx context.Context, name, version string) (*catalog.InstalledProductVersion, error) {
	pc, err := u.Catalog.Load(ctx)
	if err != nil {
		return nil, err
	}
	return pc.Get(name, version)
}

// otherProductsWithImage returns the other catalog entries that record the
// same image, as product-version strings.
func otherProductsWithImage(pc *catalog.ProductCatalog, product *catalog.InstalledProductVersion, image catalog.DockerImage) []string {
	var holders []string
	for i := range pc.Products {
		other := &pc.Products[i]
		if other.Name == product.Name && other.Version == product.Version {
			continue
		}
		for _, otherImage := range other.DockerImages() {
			if otherImage == image {
				holders = append(holders, other.String())
				break
			}
		}
	}
	return holders
}
