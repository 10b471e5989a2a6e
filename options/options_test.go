// Copyright 2022 Hewlett Packard Enterprise Development LP. All Rights Reserved.
// SPDX-License-Identifier: MIT

package options_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	flag "github.com/spf13/pflag"

	"github.com/Cray-HPE/install-utility-common/catalog"
	"github.com/Cray-HPE/install-utility-common/nexus"
	"github.com/Cray-HPE/install-utility-common/options"
)

var _ = Describe("Shared installer options", func() {
	var (
		opts *options.Options
		fs   *flag.FlagSet
	)

	BeforeEach(func() {
		opts = options.New()
		fs = flag.NewFlagSet("install-utility", flag.ContinueOnError)
		opts.AddFlags(fs)
	})

	It("should default to the in-cluster endpoints and catalog location", func() {
		Expect(opts.Parse(fs, []string{"activate", "2.0.0"})).To(Succeed())

		Expect(opts.Action).To(Equal(options.ActionActivate))
		Expect(opts.Version).To(Equal("2.0.0"))
		Expect(opts.NexusURL).To(Equal(nexus.DefaultNexusURL))
		Expect(opts.DockerURL).To(Equal(nexus.DefaultDockerRegistryURL))
		Expect(opts.ProductCatalogName).To(Equal(catalog.DefaultConfigMapName))
		Expect(opts.ProductCatalogNamespace).To(Equal(catalog.DefaultConfigMapNamespace))
	})

	It("should honor flag overrides", func() {
		err := opts.Parse(fs, []string{
			"--nexus-url", "http://localhost:8081",
			"--product-catalog-name", "my-catalog",
			"--product-catalog-namespace", "default",
			"uninstall", "2.0.1",
		})
		Expect(err).NotTo(HaveOccurred())

		Expect(opts.Action).To(Equal(options.ActionUninstall))
		Expect(opts.Version).To(Equal("2.0.1"))
		Expect(opts.NexusURL).To(Equal("http://localhost:8081"))
		Expect(opts.ProductCatalogName).To(Equal("my-catalog"))
		Expect(opts.ProductCatalogNamespace).To(Equal("default"))
	})

	It("should reject a missing version argument", func() {
		err := opts.Parse(fs, []string{"activate"})
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("expected two arguments"))
	})

	It("should reject an unrecognized action", func() {
		err := opts.Parse(fs, []string{"explode", "2.0.0"})
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("unrecognized action"))
	})
})
