// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package core

import (
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
)

// ParseResourceID parses an ARM resource ID.
func ParseResourceID(resID string) (*arm.ResourceID, error) {
	r, err := arm.ParseResourceID(resID)
	if err != nil {
		return nil, fmt.Errorf("core.ParseResourceID: could not parse %s: %w", resID, err)
	}

	return r, nil
}

// NameFromID returns the name of the resource from a resource ID.
func NameFromID(resID string) (string, error) {
	r, err := ParseResourceID(resID)
	if err != nil {
		return "", err
	}

	return r.Name, nil
}

// ResourceGroupFromID returns the resource group name from a resource ID.
func ResourceGroupFromID(resID string) (string, error) {
	r, err := ParseResourceID(resID)
	if err != nil {
		return "", err
	}

	return r.ResourceGroupName, nil
}

// SubscriptionFromID returns the subscription ID from a resource ID.
func SubscriptionFromID(resID string) (string, error) {
	r, err := ParseResourceID(resID)
	if err != nil {
		return "", err
	}

	return r.SubscriptionID, nil
}

// ProviderNamespaceFromID returns the resource provider namespace, e.g. Microsoft.Web.
func ProviderNamespaceFromID(resID string) (string, error) {
	r, err := ParseResourceID(resID)
	if err != nil {
		return "", err
	}

	return r.ResourceType.Namespace, nil
}

// ResourceTypeFromID returns the full resource type including the namespace and parent types,
// e.g. Microsoft.Web/sites/slots.
func ResourceTypeFromID(resID string) (string, error) {
	r, err := ParseResourceID(resID)
	if err != nil {
		return "", err
	}

	return r.ResourceType.String(), nil
}

// ParentResourcePathFromID returns the type/name pairs of the parent resources within the same provider,
// e.g. sites/myapp for a slot. Top level resources return an empty string.
func ParentResourcePathFromID(resID string) (string, error) {
	r, err := ParseResourceID(resID)
	if err != nil {
		return "", err
	}

	parts := make([]string, 0)

	for p := r.Parent; p != nil; p = p.Parent {
		if p.ResourceType.Namespace != r.ResourceType.Namespace || len(p.ResourceType.Types) == 0 {
			break
		}

		last := p.ResourceType.Types[len(p.ResourceType.Types)-1]
		parts = append([]string{last, p.Name}, parts...)
	}

	return strings.Join(parts, "/"), nil
}

// ConstructResourceID builds a resource group scoped resource ID.
// parentPath may be empty; resourceType is the last type segment, e.g. slots.
func ConstructResourceID(subscriptionID, resourceGroup, namespace, parentPath, resourceType, name string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "/subscriptions/%s/resourceGroups/%s/providers/%s/", subscriptionID, resourceGroup, namespace)

	if parentPath = strings.Trim(parentPath, "/"); parentPath != "" {
		b.WriteString(parentPath)
		b.WriteString("/")
	}

	fmt.Fprintf(&b, "%s/%s", resourceType, name)

	return b.String()
}

// ResourceGroupID returns the ID of a resource group.
func ResourceGroupID(subscriptionID, resourceGroup string) string {
	return fmt.Sprintf("/subscriptions/%s/resourceGroups/%s", subscriptionID, resourceGroup)
}
