// Copyright 2022 Hewlett Packard Enterprise Development LP. All Rights Reserved.
// SPDX-License-Identifier: MIT

// Package common holds test fixtures shared by the package test suites.
package common

import (
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// SatVersions is catalog data for two versions of sat that have no images in
// common with one another. Version 2.0.0 also records helm charts and a
// configuration repository.
const SatVersions = `2.0.0:
  component_versions:
    docker:
    - name: cray/cray-sat
      version: 1.0.0
    - name: cray/sat-cfs-install
      version: 1.4.0
    helm:
    - name: cray-sat
      version: 1.0.0
    - name: sat-install-utility
      version: 1.4.0
    repositories:
    - name: sat-sle-15sp2
      type: group
      members:
      - sat-2.0.0-sle-15sp2
    - name: sat-2.0.0-sle-15sp2
      type: hosted
  configuration:
    clone_url: https://vcs.local/vcs/cray/sat-config-management.git
2.0.1:
  active: true
  component_versions:
    docker:
    - name: cray/cray-sat
      version: 1.0.1
    - name: cray/sat-other-image
      version: 1.4.0
    repositories:
    - name: sat-sle-15sp2
      type: group
      members:
      - sat-2.0.1-sle-15sp2
    - name: sat-2.0.1-sle-15sp2
      type: hosted
`

// CosVersions is catalog data for two versions of cos, where one image is
// shared between the two versions.
const CosVersions = `2.0.0:
  component_versions:
    docker:
    - name: cray/cray-cos
      version: 1.0.0
    - name: cray/cos-cfs-install
      version: 1.4.0
2.0.1:
  component_versions:
    docker:
    - name: cray/cray-cos
      version: 1.0.1
    - name: cray/cos-cfs-install
      version: 1.4.0
    repositories:
    - name: cos-sle-15sp2
      type: group
      members:
      - cos-2.0.1-sle-15sp2
    - name: cos-2.0.1-sle-15sp2
      type: hosted
`

// OtherProductVersion is catalog data for a product that records the same
// cray/cray-sat:1.0.1 image as sat 2.0.1.
const OtherProductVersion = `2.0.0:
  component_versions:
    docker:
    - name: cray/cray-sat
      version: 1.0.1
    repositories:
    - name: sat-sle-15sp2
      type: group
      members:
      - sat-2.0.0-sle-15sp2
    - name: sat-2.0.0-sle-15sp2
      type: hosted
`

// DefaultCatalogData returns the ConfigMap data the suites start from.
func DefaultCatalogData() map[string]string {
	return map[string]string{
		"sat":           SatVersions,
		"cos":           CosVersions,
		"other_product": OtherProductVersion,
	}
}

// NewProductCatalogConfigMap builds the product catalog ConfigMap.
func NewProductCatalogConfigMap(name, namespace string, data map[string]string) *corev1.ConfigMap {
	return &corev1.ConfigMap{
		TypeMeta: metav1.TypeMeta{
			Kind:       "ConfigMap",
			APIVersion: "v1",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: namespace,
		},
		Data: data,
	}
}

// NewNexusCredentialsSecret builds the Nexus admin credentials secret.
func NewNexusCredentialsSecret(name, namespace, username, password string) *corev1.Secret {
	return &corev1.Secret{
		TypeMeta: metav1.TypeMeta{
			Kind:       "Secret",
			APIVersion: "v1",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: namespace,
		},
		Data: map[string][]byte{
			"username": []byte(username),
			"password": []byte(password),
		},
	}
}
