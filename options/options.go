// Copyright 2022 Hewlett Packard Enterprise Development LP. All Rights Reserved.
// SPDX-License-Identifier: MIT

// Package options carries the command line flags shared by the product
// install utility images, so each image exposes the same surface.
package options

import (
	goflag "flag"

	"github.com/pkg/errors"
	flag "github.com/spf13/pflag"
	klog "k8s.io/klog/v2"

	"github.com/Cray-HPE/install-utility-common/catalog"
	"github.com/Cray-HPE/install-utility-common/install"
	"github.com/Cray-HPE/install-utility-common/nexus"
)

// The actions an install utility accepts as its first positional argument.
const (
	ActionActivate  = "activate"
	ActionUninstall = "uninstall"
)

// Options are the settings shared by install utility commands. The Action
// and Version fields are filled from the positional arguments by Parse.
type Options struct {
	NexusURL                        string
	DockerURL                       string
	ProductCatalogName              string
	ProductCatalogNamespace         string
	NexusCredentialsSecretName      string
	NexusCredentialsSecretNamespace string

	Action  string
	Version string
}

// New returns Options populated with the in-cluster defaults.
func New() *Options {
	return &Options{
		NexusURL:                        nexus.DefaultNexusURL,
		DockerURL:                       nexus.DefaultDockerRegistryURL,
		ProductCatalogName:              catalog.DefaultConfigMapName,
		ProductCatalogNamespace:         catalog.DefaultConfigMapNamespace,
		NexusCredentialsSecretName:      install.DefaultCredentialsSecretName,
		NexusCredentialsSecretNamespace: install.DefaultCredentialsSecretNamespace,
	}
}

// AddFlags registers the shared flags on fs.
func (o *Options) AddFlags(fs *flag.FlagSet) {
	fs.StringVar(&o.NexusURL, "nexus-url", o.NexusURL,
		"Override the base URL of Nexus.")
	fs.StringVar(&o.DockerURL, "docker-url", o.DockerURL,
		"Override the base URL of the Docker registry.")
	fs.StringVar(&o.ProductCatalogName, "product-catalog-name", o.ProductCatalogName,
		"The name of the product catalog Kubernetes ConfigMap.")
	fs.StringVar(&o.ProductCatalogNamespace, "product-catalog-namespace", o.ProductCatalogNamespace,
		"The namespace of the product catalog Kubernetes ConfigMap.")
	fs.StringVar(&o.NexusCredentialsSecretName, "nexus-credentials-secret-name", o.NexusCredentialsSecretName,
		"The name of the Kubernetes secret containing HTTP authentication credentials for Nexus.")
	fs.StringVar(&o.NexusCredentialsSecretNamespace, "nexus-credentials-secret-namespace", o.NexusCredentialsSecretNamespace,
		"The namespace of the Kubernetes secret containing HTTP authentication credentials for Nexus.")
}

// AddKlogFlags registers klog's logging flags on fs.
func AddKlogFlags(fs *flag.FlagSet) {
	klogFlags := goflag.NewFlagSet("klog", goflag.ContinueOnError)
	klog.InitFlags(klogFlags)
	fs.AddGoFlagSet(klogFlags)
}

// Parse parses args, expecting the shared flags plus two positional
// arguments: the action (activate or uninstall) and the product version.
func (o *Options) Parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	positional := fs.Args()
	if len(positional) != 2 {
		return errors.Errorf("expected two arguments, action (%s|%s) and product version, got %d",
			ActionActivate, ActionUninstall, len(positional))
	}
	o.Action = positional[0]
	o.Version = positional[1]
	switch o.Action {
	case ActionActivate, ActionUninstall:
	default:
		return errors.Errorf("unrecognized action %q, expected %s or %s", o.Action, ActionActivate, ActionUninstall)
	}
	return nil
}
