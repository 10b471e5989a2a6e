// Copyright 2022 Hewlett Packard Enterprise Development LP. All Rights Reserved.
// SPDX-License-Identifier: MIT

package catalog

import (
	"errors"
	"fmt"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
)

// NotFoundError indicates a product, or a version of a product, that has no
// entry in the catalog.
type NotFoundError struct {
	Product string
	Version string
}

func (e *NotFoundError) Error() string {
	if e.Version == "" {
		return fmt.Sprintf("no installed product with name %s", e.Product)
	}
	return fmt.Sprintf("no installed product with name %s and version %s", e.Product, e.Version)
}

// IsNotFound reports whether err indicates a missing product or version.
func IsNotFound(err error) bool {
	nf := &NotFoundError{}
	return errors.As(err, &nf)
}

// ValidationError indicates a catalog entry that does not conform to the
// expected schema. The reader skips such entries rather than failing.
type ValidationError struct {
	Product string
	Version string
	Reason  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid catalog entry for %s-%s: %s", e.Product, e.Version, e.Reason)
}

// IsValidation reports whether err indicates a malformed catalog entry.
func IsValidation(err error) bool {
	ve := &ValidationError{}
	return errors.As(err, &ve)
}

// ConflictError indicates that a catalog update kept losing the
// read-modify-write race against a concurrent writer.
type ConflictError struct {
	Name      string
	Namespace string
	Err       error
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflicting concurrent updates to %s/%s ConfigMap: %v", e.Namespace, e.Name, e.Err)
}

func (e *ConflictError) Unwrap() error {
	return e.Err
}

// IsConflict reports whether err indicates write contention on the catalog.
func IsConflict(err error) bool {
	ce := &ConflictError{}
	return errors.As(err, &ce) || apierrors.IsConflict(err)
}
