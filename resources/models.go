// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package resources

import (
	"time"

	"github.com/Azure/azmgmt/core"
)

// ErrorResponse is the ARM error envelope returned inside deployment and operation results.
type ErrorResponse struct {
	Code    *string          `json:"code,omitempty"`
	Message *string          `json:"message,omitempty"`
	Target  *string          `json:"target,omitempty"`
	Details []*ErrorResponse `json:"details,omitempty"`
}

// ResourceGroup is a resource group.
type ResourceGroup struct {
	// READ-ONLY
	ID *string `json:"id,omitempty"`
	// READ-ONLY
	Name *string `json:"name,omitempty"`
	// READ-ONLY
	Type       *string                  `json:"type,omitempty"`
	Location   *string                  `json:"location,omitempty"`
	ManagedBy  *string                  `json:"managedBy,omitempty"`
	Tags       map[string]*string       `json:"tags,omitempty"`
	Properties *ResourceGroupProperties `json:"properties,omitempty"`
}

// ResourceGroupProperties holds the resource group properties.
type ResourceGroupProperties struct {
	// READ-ONLY
	ProvisioningState *string `json:"provisioningState,omitempty"`
}

// ResourceGroupPatch is the body of a resource group update.
type ResourceGroupPatch struct {
	ManagedBy *string            `json:"managedBy,omitempty"`
	Tags      map[string]*string `json:"tags,omitempty"`
}

// ExportTemplateRequest selects the resources exported from a resource group.
type ExportTemplateRequest struct {
	// Resources holds resource IDs, or "*" for all resources.
	Resources []*string `json:"resources"`
	// Options is a comma separated list such as IncludeParameterDefaultValue,IncludeComments.
	Options *string `json:"options,omitempty"`
}

// ExportTemplateResult is an exported template.
type ExportTemplateResult struct {
	Template any            `json:"template,omitempty"`
	Error    *ErrorResponse `json:"error,omitempty"`
}

// DeploymentMode selects how a deployment treats resources missing from the template.
type DeploymentMode string

const (
	// DeploymentModeIncremental leaves unlisted resources untouched.
	DeploymentModeIncremental DeploymentMode = "Incremental"
	// DeploymentModeComplete deletes resources of the group that are not in the template.
	DeploymentModeComplete DeploymentMode = "Complete"
)

// OnErrorDeploymentType selects the deployment to run when a deployment fails.
type OnErrorDeploymentType string

const (
	// OnErrorDeploymentLastSuccessful redeploys the last successful deployment.
	OnErrorDeploymentLastSuccessful OnErrorDeploymentType = "LastSuccessful"
	// OnErrorDeploymentSpecificDeployment redeploys the named deployment.
	OnErrorDeploymentSpecificDeployment OnErrorDeploymentType = "SpecificDeployment"
)

// TemplateLink references a template by URI.
type TemplateLink struct {
	URI            *string `json:"uri,omitempty"`
	ID             *string `json:"id,omitempty"`
	RelativePath   *string `json:"relativePath,omitempty"`
	ContentVersion *string `json:"contentVersion,omitempty"`
	QueryString    *string `json:"queryString,omitempty"`
}

// ParametersLink references a parameters file by URI.
type ParametersLink struct {
	URI            *string `json:"uri,omitempty"`
	ContentVersion *string `json:"contentVersion,omitempty"`
}

// DebugSetting selects what is logged for a deployment: none, requestContent, responseContent.
type DebugSetting struct {
	DetailLevel *string `json:"detailLevel,omitempty"`
}

// OnErrorDeployment configures the rollback deployment.
type OnErrorDeployment struct {
	Type           OnErrorDeploymentType `json:"type,omitempty"`
	DeploymentName *string               `json:"deploymentName,omitempty"`
}

// ParameterValue is a single deployment parameter.
type ParameterValue struct {
	Value     any                `json:"value,omitempty"`
	Reference *KeyVaultReference `json:"reference,omitempty"`
}

// KeyVaultReference reads a parameter value from a Key Vault secret.
type KeyVaultReference struct {
	KeyVault      *KeyVaultID `json:"keyVault,omitempty"`
	SecretName    *string     `json:"secretName,omitempty"`
	SecretVersion *string     `json:"secretVersion,omitempty"`
}

// KeyVaultID identifies a Key Vault.
type KeyVaultID struct {
	ID *string `json:"id,omitempty"`
}

// DeploymentProperties is the submitted part of a deployment.
type DeploymentProperties struct {
	Mode              DeploymentMode             `json:"mode"`
	Template          any                        `json:"template,omitempty"`
	TemplateLink      *TemplateLink              `json:"templateLink,omitempty"`
	Parameters        map[string]*ParameterValue `json:"parameters,omitempty"`
	ParametersLink    *ParametersLink            `json:"parametersLink,omitempty"`
	DebugSetting      *DebugSetting              `json:"debugSetting,omitempty"`
	OnErrorDeployment *OnErrorDeployment         `json:"onErrorDeployment,omitempty"`
}

// DeploymentRequest is the body of a deployment create, validate or what-if request.
type DeploymentRequest struct {
	Location   *string               `json:"location,omitempty"`
	Tags       map[string]*string    `json:"tags,omitempty"`
	Properties *DeploymentProperties `json:"properties"`
}

// ResourceReference is a resource produced by a deployment.
type ResourceReference struct {
	ID *string `json:"id,omitempty"`
}

// ProviderResourceTypeReference is a provider used by a deployment.
type ProviderResourceTypeReference struct {
	Namespace     *string                 `json:"namespace,omitempty"`
	ResourceTypes []*ProviderResourceType `json:"resourceTypes,omitempty"`
}

// DeploymentPropertiesExtended is the state of a deployment as returned by the service.
type DeploymentPropertiesExtended struct {
	// READ-ONLY
	ProvisioningState *string `json:"provisioningState,omitempty"`
	// READ-ONLY
	CorrelationID *string `json:"correlationId,omitempty"`
	// READ-ONLY
	Timestamp *time.Time `json:"timestamp,omitempty"`
	// READ-ONLY
	Duration *string `json:"duration,omitempty"`
	// READ-ONLY
	Outputs map[string]any `json:"outputs,omitempty"`
	// READ-ONLY
	Providers []*ProviderResourceTypeReference `json:"providers,omitempty"`
	// READ-ONLY
	TemplateLink *TemplateLink `json:"templateLink,omitempty"`
	// READ-ONLY
	Parameters map[string]any `json:"parameters,omitempty"`
	// READ-ONLY
	ParametersLink *ParametersLink `json:"parametersLink,omitempty"`
	// READ-ONLY
	Mode DeploymentMode `json:"mode,omitempty"`
	// READ-ONLY
	DebugSetting *DebugSetting `json:"debugSetting,omitempty"`
	// READ-ONLY
	OnErrorDeployment *OnErrorDeployment `json:"onErrorDeployment,omitempty"`
	// READ-ONLY
	TemplateHash *string `json:"templateHash,omitempty"`
	// READ-ONLY
	OutputResources []*ResourceReference `json:"outputResources,omitempty"`
	// READ-ONLY
	Error *ErrorResponse `json:"error,omitempty"`
}

// DeploymentExtended is a deployment as returned by the service.
type DeploymentExtended struct {
	// READ-ONLY
	ID *string `json:"id,omitempty"`
	// READ-ONLY
	Name *string `json:"name,omitempty"`
	// READ-ONLY
	Type       *string                       `json:"type,omitempty"`
	Location   *string                       `json:"location,omitempty"`
	Tags       map[string]*string            `json:"tags,omitempty"`
	Properties *DeploymentPropertiesExtended `json:"properties,omitempty"`
}

// DeploymentValidateResult is the outcome of a template validation.
type DeploymentValidateResult struct {
	Error      *ErrorResponse                `json:"error,omitempty"`
	Properties *DeploymentPropertiesExtended `json:"properties,omitempty"`
}

// DeploymentOperation is one resource operation performed by a deployment.
type DeploymentOperation struct {
	ID          *string                        `json:"id,omitempty"`
	OperationID *string                        `json:"operationId,omitempty"`
	Properties  *DeploymentOperationProperties `json:"properties,omitempty"`
}

// DeploymentOperationProperties describes a deployment operation.
type DeploymentOperationProperties struct {
	ProvisioningOperation *string         `json:"provisioningOperation,omitempty"`
	ProvisioningState     *string         `json:"provisioningState,omitempty"`
	Timestamp             *time.Time      `json:"timestamp,omitempty"`
	Duration              *string         `json:"duration,omitempty"`
	ServiceRequestID      *string         `json:"serviceRequestId,omitempty"`
	StatusCode            *string         `json:"statusCode,omitempty"`
	StatusMessage         any             `json:"statusMessage,omitempty"`
	TargetResource        *TargetResource `json:"targetResource,omitempty"`
}

// TargetResource is the resource touched by a deployment operation.
type TargetResource struct {
	ID           *string `json:"id,omitempty"`
	ResourceName *string `json:"resourceName,omitempty"`
	ResourceType *string `json:"resourceType,omitempty"`
}

// WhatIfResultFormat selects the detail of a what-if result.
type WhatIfResultFormat string

const (
	// WhatIfResultFormatFullResourcePayloads returns full before and after payloads.
	WhatIfResultFormatFullResourcePayloads WhatIfResultFormat = "FullResourcePayloads"
	// WhatIfResultFormatResourceIDOnly returns only resource IDs.
	WhatIfResultFormatResourceIDOnly WhatIfResultFormat = "ResourceIdOnly"
)

// WhatIfRequest is the body of a what-if request.
type WhatIfRequest struct {
	Location   *string           `json:"location,omitempty"`
	Properties *WhatIfProperties `json:"properties"`
}

// WhatIfProperties extends the deployment properties with what-if settings.
type WhatIfProperties struct {
	DeploymentProperties
	WhatIfSettings *WhatIfSettings `json:"whatIfSettings,omitempty"`
}

// WhatIfSettings configures a what-if request.
type WhatIfSettings struct {
	ResultFormat WhatIfResultFormat `json:"resultFormat,omitempty"`
}

// ChangeType is the kind of change predicted for a resource.
type ChangeType string

// Predicted change types.
const (
	ChangeTypeCreate      ChangeType = "Create"
	ChangeTypeDelete      ChangeType = "Delete"
	ChangeTypeDeploy      ChangeType = "Deploy"
	ChangeTypeIgnore      ChangeType = "Ignore"
	ChangeTypeModify      ChangeType = "Modify"
	ChangeTypeNoChange    ChangeType = "NoChange"
	ChangeTypeUnsupported ChangeType = "Unsupported"
)

// WhatIfOperationResult is the result of a what-if request.
type WhatIfOperationResult struct {
	Status     *string                    `json:"status,omitempty"`
	Properties *WhatIfOperationProperties `json:"properties,omitempty"`
	Error      *ErrorResponse             `json:"error,omitempty"`
}

// WhatIfOperationProperties holds the predicted changes.
type WhatIfOperationProperties struct {
	Changes []*WhatIfChange `json:"changes,omitempty"`
}

// WhatIfChange is the predicted change to one resource.
type WhatIfChange struct {
	ResourceID        *string                 `json:"resourceId,omitempty"`
	ChangeType        ChangeType              `json:"changeType,omitempty"`
	UnsupportedReason *string                 `json:"unsupportedReason,omitempty"`
	Before            any                     `json:"before,omitempty"`
	After             any                     `json:"after,omitempty"`
	Delta             []*WhatIfPropertyChange `json:"delta,omitempty"`
}

// WhatIfPropertyChange is the predicted change to one property.
type WhatIfPropertyChange struct {
	Path               *string                 `json:"path,omitempty"`
	PropertyChangeType *string                 `json:"propertyChangeType,omitempty"`
	Before             any                     `json:"before,omitempty"`
	After              any                     `json:"after,omitempty"`
	Children           []*WhatIfPropertyChange `json:"children,omitempty"`
}

// Plan is the marketplace plan of a resource.
type Plan struct {
	Name          *string `json:"name,omitempty"`
	Product       *string `json:"product,omitempty"`
	Publisher     *string `json:"publisher,omitempty"`
	PromotionCode *string `json:"promotionCode,omitempty"`
	Version       *string `json:"version,omitempty"`
}

// SKU is the sku of a resource.
type SKU struct {
	Name     *string `json:"name,omitempty"`
	Tier     *string `json:"tier,omitempty"`
	Size     *string `json:"size,omitempty"`
	Family   *string `json:"family,omitempty"`
	Capacity *int32  `json:"capacity,omitempty"`
}

// GenericResource is any ARM resource.
type GenericResource struct {
	// READ-ONLY
	ID *string `json:"id,omitempty"`
	// READ-ONLY
	Name *string `json:"name,omitempty"`
	// READ-ONLY
	Type       *string                      `json:"type,omitempty"`
	Location   *string                      `json:"location,omitempty"`
	Kind       *string                      `json:"kind,omitempty"`
	ManagedBy  *string                      `json:"managedBy,omitempty"`
	Tags       map[string]*string           `json:"tags,omitempty"`
	Plan       *Plan                        `json:"plan,omitempty"`
	SKU        *SKU                         `json:"sku,omitempty"`
	Identity   *core.ManagedServiceIdentity `json:"identity,omitempty"`
	Properties any                          `json:"properties,omitempty"`
	// READ-ONLY, returned when listing with $expand=createdTime,changedTime,provisioningState
	CreatedTime *time.Time `json:"createdTime,omitempty"`
	// READ-ONLY
	ChangedTime *time.Time `json:"changedTime,omitempty"`
	// READ-ONLY
	ProvisioningState *string `json:"provisioningState,omitempty"`
}

// MoveResourcesRequest moves resources to another resource group.
type MoveResourcesRequest struct {
	Resources           []*string `json:"resources"`
	TargetResourceGroup *string   `json:"targetResourceGroup"`
}

// Provider is a resource provider.
type Provider struct {
	// READ-ONLY
	ID        *string `json:"id,omitempty"`
	Namespace *string `json:"namespace,omitempty"`
	// READ-ONLY
	RegistrationState *string `json:"registrationState,omitempty"`
	// READ-ONLY
	RegistrationPolicy *string `json:"registrationPolicy,omitempty"`
	// READ-ONLY
	ResourceTypes []*ProviderResourceType `json:"resourceTypes,omitempty"`
}

// ProviderResourceType is a resource type offered by a provider.
type ProviderResourceType struct {
	ResourceType      *string   `json:"resourceType,omitempty"`
	Locations         []*string `json:"locations,omitempty"`
	APIVersions       []*string `json:"apiVersions,omitempty"`
	DefaultAPIVersion *string   `json:"defaultApiVersion,omitempty"`
	Capabilities      *string   `json:"capabilities,omitempty"`
}

// TagCount is the number of resources carrying a tag name or value.
type TagCount struct {
	Type  *string `json:"type,omitempty"`
	Value *int32  `json:"value,omitempty"`
}

// TagValue is one value of a tag name.
type TagValue struct {
	// READ-ONLY
	ID       *string   `json:"id,omitempty"`
	TagValue *string   `json:"tagValue,omitempty"`
	Count    *TagCount `json:"count,omitempty"`
}

// TagDetails is a predefined tag name.
type TagDetails struct {
	// READ-ONLY
	ID      *string     `json:"id,omitempty"`
	TagName *string     `json:"tagName,omitempty"`
	Count   *TagCount   `json:"count,omitempty"`
	Values  []*TagValue `json:"values,omitempty"`
}

// Tags is a tag dictionary.
type Tags struct {
	Tags map[string]*string `json:"tags,omitempty"`
}

// TagsResource is the tags of a scope.
type TagsResource struct {
	// READ-ONLY
	ID *string `json:"id,omitempty"`
	// READ-ONLY
	Name *string `json:"name,omitempty"`
	// READ-ONLY
	Type       *string `json:"type,omitempty"`
	Properties *Tags   `json:"properties"`
}

// TagsPatchOperation selects how UpdateAtScope applies tags.
type TagsPatchOperation string

const (
	// TagsPatchOperationMerge adds or replaces the supplied tags.
	TagsPatchOperationMerge TagsPatchOperation = "Merge"
	// TagsPatchOperationReplace replaces all tags.
	TagsPatchOperationReplace TagsPatchOperation = "Replace"
	// TagsPatchOperationDelete removes the supplied tags.
	TagsPatchOperationDelete TagsPatchOperation = "Delete"
)

// TagsPatchResource is the body of a tag update at a scope.
type TagsPatchResource struct {
	Operation  TagsPatchOperation `json:"operation,omitempty"`
	Properties *Tags              `json:"properties,omitempty"`
}

// Subscription is an Azure subscription.
type Subscription struct {
	// READ-ONLY
	ID *string `json:"id,omitempty"`
	// READ-ONLY
	SubscriptionID *string `json:"subscriptionId,omitempty"`
	// READ-ONLY
	DisplayName *string `json:"displayName,omitempty"`
	// READ-ONLY
	TenantID *string `json:"tenantId,omitempty"`
	// READ-ONLY
	State *string            `json:"state,omitempty"`
	Tags  map[string]*string `json:"tags,omitempty"`
}

// Location is a region available to a subscription.
type Location struct {
	// READ-ONLY
	ID *string `json:"id,omitempty"`
	// READ-ONLY
	Name *string `json:"name,omitempty"`
	// READ-ONLY
	DisplayName *string `json:"displayName,omitempty"`
	// READ-ONLY
	RegionalDisplayName *string           `json:"regionalDisplayName,omitempty"`
	Metadata            *LocationMetadata `json:"metadata,omitempty"`
}

// LocationMetadata describes a location.
type LocationMetadata struct {
	RegionType       *string `json:"regionType,omitempty"`
	RegionCategory   *string `json:"regionCategory,omitempty"`
	Geography        *string `json:"geography,omitempty"`
	GeographyGroup   *string `json:"geographyGroup,omitempty"`
	PhysicalLocation *string `json:"physicalLocation,omitempty"`
	Latitude         *string `json:"latitude,omitempty"`
	Longitude        *string `json:"longitude,omitempty"`
}
