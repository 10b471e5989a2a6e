// Copyright 2022 Hewlett Packard Enterprise Development LP. All Rights Reserved.
// SPDX-License-Identifier: MIT

// Package catalog reads and updates the cray-product-catalog ConfigMap,
// which records the installed versions of products and the container
// images, package repositories, and helm charts that belong to each.
package catalog

import (
	"context"
	"sort"
	"strings"

	"github.com/blang/semver/v4"
	"github.com/pkg/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	klog "k8s.io/klog/v2"
	"sigs.k8s.io/yaml"
)

// Client reads and updates the product catalog ConfigMap. Construct one per
// process and share it across operations; every operation re-reads the
// ConfigMap so it never acts on a stale in-memory copy.
type Client struct {
	K8s       kubernetes.Interface
	Name      string
	Namespace string
}

// NewClient returns a catalog client for the named ConfigMap. Empty name or
// namespace fall back to the cray-product-catalog defaults.
func NewClient(k8s kubernetes.Interface, name, namespace string) *Client {
	if name == "" {
		name = DefaultConfigMapName
	}
	if namespace == "" {
		namespace = DefaultConfigMapNamespace
	}
	return &Client{K8s: k8s, Name: name, Namespace: namespace}
}

// SkippedEntry records a catalog entry that was ignored because it did not
// conform to the expected schema.
type SkippedEntry struct {
	Product string
	Version string
	Reason  string
}

// ProductCatalog is a point-in-time view of the catalog contents.
type ProductCatalog struct {
	Products []InstalledProductVersion
	Skipped  []SkippedEntry
}

// Load reads the catalog ConfigMap and parses every product version entry.
// Entries that do not conform to the expected schema are skipped with a
// warning; they never abort the read.
func (c *Client) Load(ctx context.Context) (*ProductCatalog, error) {
	cm, err := c.K8s.CoreV1().ConfigMaps(c.Namespace).Get(ctx, c.Name, metav1.GetOptions{})
	if err != nil {
		return nil, errors.Wrapf(err, "error reading %s/%s ConfigMap", c.Namespace, c.Name)
	}
	if len(cm.Data) == 0 {
		return nil, errors.Errorf("no data found in %s/%s ConfigMap", c.Namespace, c.Name)
	}

	pc := &ProductCatalog{}
	for product, doc := range cm.Data {
		var versions map[string]interface{}
		if err := yaml.Unmarshal([]byte(doc), &versions); err != nil {
			pc.Skipped = append(pc.Skipped, SkippedEntry{Product: product, Reason: err.Error()})
			klog.Warningf("Skipping catalog data for product %s: %v", product, err)
			continue
		}
		for version, raw := range versions {
			entryDoc, ok := raw.(map[string]interface{})
			if !ok {
				pc.Skipped = append(pc.Skipped, SkippedEntry{Product: product, Version: version, Reason: "version entry is not a mapping"})
				klog.Warningf("Skipping catalog entry %s-%s: not a mapping", product, version)
				continue
			}
			entry, err := parseVersionEntry(product, version, entryDoc)
			if err != nil {
				pc.Skipped = append(pc.Skipped, SkippedEntry{Product: product, Version: version, Reason: err.Error()})
				klog.Warningf("Skipping catalog entry %s-%s: %v", product, version, err)
				continue
			}
			pc.Products = append(pc.Products, InstalledProductVersion{Name: product, Version: version, Entry: entry})
		}
	}

	sortProducts(pc.Products)
	if len(pc.Skipped) > 0 {
		skipped := make([]string, 0, len(pc.Skipped))
		for _, s := range pc.Skipped {
			skipped = append(skipped, s.Product+"-"+s.Version)
		}
		klog.Warningf("The following catalog entries are not understood by the install utility: %s",
			strings.Join(skipped, ", "))
	}
	return pc, nil
}

// ProductNames returns the names of all products in the catalog, sorted.
func (pc *ProductCatalog) ProductNames() []string {
	var names []string
	for _, p := range pc.Products {
		if len(names) == 0 || names[len(names)-1] != p.Name {
			names = append(names, p.Name)
		}
	}
	return names
}

// Product returns every installed version of the named product, ordered by
// semantic version where the versions parse as such.
func (pc *ProductCatalog) Product(name string) []InstalledProductVersion {
	var matches []InstalledProductVersion
	for _, p := range pc.Products {
		if p.Name == name {
			matches = append(matches, p)
		}
	}
	return matches
}

// Get returns the entry for the given product version, or a NotFoundError.
func (pc *ProductCatalog) Get(name, version string) (*InstalledProductVersion, error) {
	for i := range pc.Products {
		if pc.Products[i].Name == name && pc.Products[i].Version == version {
			return &pc.Products[i], nil
		}
	}
	return nil, &NotFoundError{Product: name, Version: version}
}

// ActiveVersion returns the version of the named product currently flagged
// active, or nil when none is. By convention at most one version per product
// is active at a time; if several are flagged, the highest version wins.
func (pc *ProductCatalog) ActiveVersion(name string) *InstalledProductVersion {
	var active *InstalledProductVersion
	for i := range pc.Products {
		p := &pc.Products[i]
		if p.Name == name && p.Entry.Active {
			active = p
		}
	}
	return active
}

// sortProducts orders entries by product name, then by semantic version.
// Versions that do not parse as semver sort lexically among themselves,
// after those that do.
func sortProducts(products []InstalledProductVersion) {
	sort.SliceStable(products, func(i, j int) bool {
		a, b := products[i], products[j]
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		av, aerr := semver.Parse(a.Version)
		bv, berr := semver.Parse(b.Version)
		if aerr == nil && berr == nil {
			return av.LT(bv)
		}
		if (aerr == nil) != (berr == nil) {
			return aerr == nil
		}
		return a.Version < b.Version
	})
}
