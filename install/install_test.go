// Copyright 2022 Hewlett Packard Enterprise Development LP. All Rights Reserved.
// SPDX-License-Identifier: MIT

package install_test

import (
	"context"
	"net/http"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"k8s.io/client-go/kubernetes/fake"

	"github.com/Cray-HPE/install-utility-common/catalog"
	"github.com/Cray-HPE/install-utility-common/common"
	"github.com/Cray-HPE/install-utility-common/install"
	"github.com/Cray-HPE/install-utility-common/nexus"
)

var _ = Describe("Install operations", func() {
	var (
		ctx           context.Context
		clientset     *fake.Clientset
		catalogClient *catalog.Client
		repoManager   *fakeRepoManager
		registry      *fakeImageRegistry
		utility       *install.Utility
	)

	BeforeEach(func() {
		ctx = context.Background()
		clientset = fake.NewSimpleClientset(common.NewProductCatalogConfigMap(
			catalog.DefaultConfigMapName, catalog.DefaultConfigMapNamespace, common.DefaultCatalogData()))
		catalogClient = catalog.NewClient(clientset, "", "")

		repoManager = newFakeRepoManager()
		repoManager.addGroupRepo("sat-sle-15sp2", "sat-2.0.1-sle-15sp2")
		repoManager.addHostedRepo("sat-2.0.0-sle-15sp2")
		repoManager.addHostedRepo("sat-2.0.1-sle-15sp2")
		repoManager.addGroupRepo("cos-sle-15sp2", "cos-2.0.1-sle-15sp2")
		repoManager.addHostedRepo("cos-2.0.1-sle-15sp2")
		repoManager.components = []nexus.Component{
			{ID: "chart-1", Repository: "charts", Format: "helm", Name: "cray-sat", Version: "1.0.0"},
			{ID: "chart-2", Repository: "charts", Format: "helm", Name: "sat-install-utility", Version: "1.4.0"},
			{ID: "chart-3", Repository: "charts", Format: "helm", Name: "unrelated-chart", Version: "9.9.9"},
		}

		registry = newFakeImageRegistry(
			"cray/cray-sat:1.0.0",
			"cray/cray-sat:1.0.1",
			"cray/sat-cfs-install:1.4.0",
			"cray/sat-other-image:1.4.0",
			"cray/cray-cos:1.0.0",
			"cray/cray-cos:1.0.1",
			"cray/cos-cfs-install:1.4.0",
		)

		utility = install.New(catalogClient, repoManager, registry)
	})

	reload := func() *catalog.ProductCatalog {
		pc, err := catalogClient.Load(ctx)
		Expect(err).NotTo(HaveOccurred())
		return pc
	}

	Describe("ActivateProductHostedRepos", func() {
		It("should update group membership and flag the version active", func() {
			Expect(utility.ActivateProductHostedRepos(ctx, "sat", "2.0.0")).To(Succeed())

			Expect(repoManager.groupUpdates["sat-sle-15sp2"]).To(Equal([]string{"sat-2.0.0-sle-15sp2"}))

			active := reload().ActiveVersion("sat")
			Expect(active).NotTo(BeNil())
			Expect(active.Version).To(Equal("2.0.0"))
		})

		It("should be idempotent", func() {
			Expect(utility.ActivateProductHostedRepos(ctx, "sat", "2.0.0")).To(Succeed())
			Expect(utility.ActivateProductHostedRepos(ctx, "sat", "2.0.0")).To(Succeed())

			Expect(repoManager.groupUpdates["sat-sle-15sp2"]).To(Equal([]string{"sat-2.0.0-sle-15sp2"}))
			Expect(repoManager.repos["sat-sle-15sp2"].Group.MemberNames).To(Equal([]string{"sat-2.0.0-sle-15sp2"}))

			active := reload().ActiveVersion("sat")
			Expect(active.Version).To(Equal("2.0.0"))
		})

		It("should not flag the version active when a group update fails", func() {
			delete(repoManager.repos, "sat-sle-15sp2")

			err := utility.ActivateProductHostedRepos(ctx, "sat", "2.0.0")
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("activating repositories for sat-2.0.0"))

			active := reload().ActiveVersion("sat")
			Expect(active.Version).To(Equal("2.0.1"))
		})

		It("should report NotFound for a version not in the catalog", func() {
			err := utility.ActivateProductHostedRepos(ctx, "sat", "9.9.9")
			Expect(catalog.IsNotFound(err)).To(BeTrue())
		})
	})

	Describe("RemoveProductDockerImages", func() {
		It("should remove the version's images", func() {
			Expect(utility.RemoveProductDockerImages(ctx, "sat", "2.0.0")).To(Succeed())
			Expect(registry.deleted).To(ConsistOf("cray/cray-sat:1.0.0", "cray/sat-cfs-install:1.4.0"))
		})

		It("should keep images recorded by another product version", func() {
			// cray/cray-sat:1.0.1 is also recorded by other_product 2.0.0.
			Expect(utility.RemoveProductDockerImages(ctx, "sat", "2.0.1")).To(Succeed())
			Expect(registry.deleted).To(ConsistOf("cray/sat-other-image:1.4.0"))
			Expect(registry.images).To(HaveKey("cray/cray-sat:1.0.1"))
		})

		It("should keep images shared between versions of the same product", func() {
			Expect(utility.RemoveProductDockerImages(ctx, "cos", "2.0.0")).To(Succeed())
			Expect(registry.deleted).To(ConsistOf("cray/cray-cos:1.0.0"))
			Expect(registry.images).To(HaveKey("cray/cos-cfs-install:1.4.0"))
		})

		It("should tolerate images that are already gone", func() {
			delete(registry.images, "cray/cray-sat:1.0.0")
			Expect(utility.RemoveProductDockerImages(ctx, "sat", "2.0.0")).To(Succeed())
			Expect(registry.deleted).To(ConsistOf("cray/sat-cfs-install:1.4.0"))
		})

		It("should continue past a failed deletion and report it at the end", func() {
			registry.failDeletes["cray/cray-sat:1.0.0"] = &nexus.APIError{
				Method: http.MethodDelete, URL: "cray/cray-sat:1.0.0", StatusCode: http.StatusInternalServerError,
			}

			err := utility.RemoveProductDockerImages(ctx, "sat", "2.0.0")
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("removing Docker images for sat-2.0.0"))
			Expect(registry.deleted).To(ConsistOf("cray/sat-cfs-install:1.4.0"))
		})
	})

	Describe("UninstallProductHostedRepos", func() {
		It("should delete the version's hosted repositories but not its groups", func() {
			Expect(utility.UninstallProductHostedRepos(ctx, "sat", "2.0.0")).To(Succeed())
			Expect(repoManager.deletedRepos).To(ConsistOf("sat-2.0.0-sle-15sp2"))
			Expect(repoManager.repos).To(HaveKey("sat-sle-15sp2"))
		})

		It("should tolerate repositories that are already gone", func() {
			delete(repoManager.repos, "sat-2.0.0-sle-15sp2")
			Expect(utility.UninstallProductHostedRepos(ctx, "sat", "2.0.0")).To(Succeed())
		})

		It("should continue past a failed deletion and report it at the end", func() {
			repoManager.failRepoDeletes["sat-2.0.0-sle-15sp2"] = &nexus.APIError{
				Method: http.MethodDelete, URL: "sat-2.0.0-sle-15sp2", StatusCode: http.StatusInternalServerError,
			}
			err := utility.UninstallProductHostedRepos(ctx, "sat", "2.0.0")
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("uninstalling repositories for sat-2.0.0"))
		})
	})

	Describe("RemoveProductHelmCharts", func() {
		It("should delete the version's charts and prune the catalog entry", func() {
			Expect(utility.RemoveProductHelmCharts(ctx, "sat", "2.0.0")).To(Succeed())
			Expect(repoManager.deletedComponents).To(ConsistOf("chart-1", "chart-2"))

			product, err := reload().Get("sat", "2.0.0")
			Expect(err).NotTo(HaveOccurred())
			Expect(product.HelmCharts()).To(BeEmpty())
		})

		It("should leave charts Nexus does not have in the catalog entry", func() {
			repoManager.components = repoManager.components[:1] // only cray-sat remains

			Expect(utility.RemoveProductHelmCharts(ctx, "sat", "2.0.0")).To(Succeed())
			Expect(repoManager.deletedComponents).To(ConsistOf("chart-1"))

			product, err := reload().Get("sat", "2.0.0")
			Expect(err).NotTo(HaveOccurred())
			Expect(product.HelmCharts()).To(Equal([]catalog.HelmChart{
				{Name: "sat-install-utility", Version: "1.4.0"},
			}))
		})

		It("should do nothing for a version without charts", func() {
			Expect(utility.RemoveProductHelmCharts(ctx, "sat", "2.0.1")).To(Succeed())
			Expect(repoManager.deletedComponents).To(BeEmpty())
		})
	})

	Describe("RemoveProductEntry", func() {
		It("should make the version unreadable afterwards", func() {
			Expect(utility.RemoveProductEntry(ctx, "sat", "2.0.0")).To(Succeed())
			_, err := reload().Get("sat", "2.0.0")
			Expect(catalog.IsNotFound(err)).To(BeTrue())
		})
	})

	Describe("removing a whole product release", func() {
		BeforeEach(func() {
			clientset = fake.NewSimpleClientset(common.NewProductCatalogConfigMap(
				catalog.DefaultConfigMapName, catalog.DefaultConfigMapNamespace, map[string]string{
					"sat": `2.0.0:
  component_versions:
    docker:
    - name: cray/cray-sat
      version: 3.0.0
    repositories:
    - name: sat-sle15sp2
      type: group
      members:
      - sat-2.0.0-sle15sp2
    - name: sat-2.0.0-sle15sp2
      type: hosted
`,
					"cos": common.CosVersions,
				}))
			catalogClient = catalog.NewClient(clientset, "", "")

			repoManager = newFakeRepoManager()
			repoManager.addGroupRepo("sat-sle15sp2", "sat-2.0.0-sle15sp2")
			repoManager.addHostedRepo("sat-2.0.0-sle15sp2")
			registry = newFakeImageRegistry("cray/cray-sat:3.0.0")

			utility = install.New(catalogClient, repoManager, registry)
		})

		It("should remove the images, the repositories, and the catalog entry", func() {
			Expect(utility.RemoveProductDockerImages(ctx, "sat", "2.0.0")).To(Succeed())
			Expect(utility.UninstallProductHostedRepos(ctx, "sat", "2.0.0")).To(Succeed())
			Expect(utility.RemoveProductEntry(ctx, "sat", "2.0.0")).To(Succeed())

			Expect(registry.deleted).To(ConsistOf("cray/cray-sat:3.0.0"))
			Expect(repoManager.deletedRepos).To(ConsistOf("sat-2.0.0-sle15sp2"))

			pc := reload()
			_, err := pc.Get("sat", "2.0.0")
			Expect(catalog.IsNotFound(err)).To(BeTrue())
			Expect(pc.Product("sat")).To(BeEmpty())
		})
	})
})
