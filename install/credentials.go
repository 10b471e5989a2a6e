// Copyright 2022 Hewlett Packard Enterprise Development LP. All Rights Reserved.
// SPDX-License-Identifier: MIT

package install

import (
	"context"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	klog "k8s.io/klog/v2"

	"github.com/Cray-HPE/install-utility-common/nexus"
)

const (
	// DefaultCredentialsSecretName is the Kubernetes secret holding the
	// Nexus admin credentials.
	DefaultCredentialsSecretName = "nexus-admin-credential"
	// DefaultCredentialsSecretNamespace is the namespace of that secret.
	DefaultCredentialsSecretNamespace = "nexus"
)

// NexusCredentialsFromSecret reads Nexus basic-auth credentials from a
// Kubernetes secret. A secret that cannot be read or that lacks the expected
// keys yields nil credentials with a warning; Nexus is then used
// anonymously. Empty name or namespace fall back to the defaults.
func NexusCredentialsFromSecret(ctx context.Context, k8s kubernetes.Interface, name, namespace string) *nexus.Credentials {
	if name == "" {
		name = DefaultCredentialsSecretName
	}
	if namespace == "" {
		namespace = DefaultCredentialsSecretNamespace
	}

	secret, err := k8s.CoreV1().Secrets(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		klog.Warningf("Unable to read Kubernetes secret %s/%s: %v", namespace, name, err)
		return nil
	}
	username, password := secret.Data["username"], secret.Data["password"]
	if len(username) == 0 || len(password) == 0 {
		klog.Warningf("Kubernetes secret %s/%s does not contain Nexus credentials", namespace, name)
		return nil
	}
	return &nexus.Credentials{Username: string(username), Password: string(password)}
}
