// Copyright 2022 Hewlett Packard Enterprise Development LP. All Rights Reserved.
// SPDX-License-Identifier: MIT

package catalog

import (
	"context"

	"github.com/pkg/errors"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/util/retry"
	klog "k8s.io/klog/v2"
	"sigs.k8s.io/yaml"
)

// SetActiveVersion flags the given product version active in the catalog and
// clears the active flag on the product's other versions. The mutation
// preserves any entry fields this library does not model.
func (c *Client) SetActiveVersion(ctx context.Context, product, version string) error {
	err := c.updateConfigMap(ctx, func(data map[string]string) error {
		versions, err := decodeProductDocument(data, product)
		if err != nil {
			return err
		}
		raw, ok := versions[version]
		if !ok {
			return &NotFoundError{Product: product, Version: version}
		}
		target, ok := raw.(map[string]interface{})
		if !ok {
			return &ValidationError{Product: product, Version: version, Reason: "version entry is not a mapping"}
		}
		target[activeKey] = true
		for v, other := range versions {
			if v == version {
				continue
			}
			// Best effort: entries that are not mappings are left alone.
			if entry, ok := other.(map[string]interface{}); ok {
				if active, _ := entry[activeKey].(bool); active {
					entry[activeKey] = false
				}
			}
		}
		return encodeProductDocument(data, product, versions)
	})
	if err != nil {
		return err
	}
	klog.Infof("Set %s-%s as active in the product catalog", product, version)
	return nil
}

// RemoveEntry deletes the given product version from the catalog. When the
// product has no versions left, its key is removed from the ConfigMap
// entirely.
func (c *Client) RemoveEntry(ctx context.Context, product, version string) error {
	err := c.updateConfigMap(ctx, func(data map[string]string) error {
		versions, err := decodeProductDocument(data, product)
		if err != nil {
			return err
		}
		if _, ok := versions[version]; !ok {
			return &NotFoundError{Product: product, Version: version}
		}
		delete(versions, version)
		if len(versions) == 0 {
			delete(data, product)
			return nil
		}
		return encodeProductDocument(data, product, versions)
	})
	if err != nil {
		return err
	}
	klog.Infof("Deleted %s-%s from the product catalog", product, version)
	return nil
}

// RemoveHelmChartEntries prunes the given charts from a version entry's helm
// chart list, after the charts have been deleted from Nexus.
func (c *Client) RemoveHelmChartEntries(ctx context.Context, product, version string, removed []HelmChart) error {
	if len(removed) == 0 {
		return nil
	}
	return c.updateConfigMap(ctx, func(data map[string]string) error {
		versions, err := decodeProductDocument(data, product)
		if err != nil {
			return err
		}
		raw, ok := versions[version]
		if !ok {
			return &NotFoundError{Product: product, Version: version}
		}
		entry, ok := raw.(map[string]interface{})
		if !ok {
			return &ValidationError{Product: product, Version: version, Reason: "version entry is not a mapping"}
		}
		cv, ok := entry[componentVersionsKey].(map[string]interface{})
		if !ok {
			return nil
		}
		charts, ok := cv[helmKey].([]interface{})
		if !ok {
			return nil
		}

		gone := make(map[string]struct{}, len(removed))
		for _, chart := range removed {
			gone[chart.String()] = struct{}{}
		}
		kept := make([]interface{}, 0, len(charts))
		for _, raw := range charts {
			chart, ok := raw.(map[string]interface{})
			if !ok {
				kept = append(kept, raw)
				continue
			}
			name, _ := chart["name"].(string)
			chartVersion, _ := chart["version"].(string)
			if _, removed := gone[name+":"+chartVersion]; !removed {
				kept = append(kept, raw)
			}
		}
		cv[helmKey] = kept
		return encodeProductDocument(data, product, versions)
	})
}

// updateConfigMap performs a read-modify-write of the catalog ConfigMap,
// retrying the whole cycle when the apiserver reports a conflicting
// concurrent update. Exhausted retries surface as a ConflictError.
func (c *Client) updateConfigMap(ctx context.Context, mutate func(data map[string]string) error) error {
	err := retry.RetryOnConflict(retry.DefaultRetry, func() error {
		cm, err := c.K8s.CoreV1().ConfigMaps(c.Namespace).Get(ctx, c.Name, metav1.GetOptions{})
		if err != nil {
			return err
		}
		if cm.Data == nil {
			cm.Data = make(map[string]string)
		}
		if err := mutate(cm.Data); err != nil {
			return err
		}
		_, err = c.K8s.CoreV1().ConfigMaps(c.Namespace).Update(ctx, cm, metav1.UpdateOptions{})
		return err
	})
	if apierrors.IsConflict(err) {
		return &ConflictError{Name: c.Name, Namespace: c.Namespace, Err: err}
	}
	return err
}

func decodeProductDocument(data map[string]string, product string) (map[string]interface{}, error) {
	doc, ok := data[product]
	if !ok {
		return nil, &NotFoundError{Product: product}
	}
	var versions map[string]interface{}
	if err := yaml.Unmarshal([]byte(doc), &versions); err != nil {
		return nil, errors.Wrapf(err, "error parsing catalog data for product %s", product)
	}
	if versions == nil {
		versions = make(map[string]interface{})
	}
	return versions, nil
}

func encodeProductDocument(data map[string]string, product string, versions map[string]interface{}) error {
	b, err := yaml.Marshal(versions)
	if err != nil {
		return errors.Wrapf(err, "error serializing catalog data for product %s", product)
	}
	data[product] = string(b)
	return nil
}
