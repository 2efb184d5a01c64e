// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package mediaservices

import (
	"time"

	"github.com/Azure/azmgmt/core"
)

// MediaService is a Media Services account.
type MediaService struct {
	// READ-ONLY
	ID *string `json:"id,omitempty"`
	// READ-ONLY
	Name *string `json:"name,omitempty"`
	// READ-ONLY
	Type       *string                      `json:"type,omitempty"`
	Location   *string                      `json:"location,omitempty"`
	Tags       map[string]*string           `json:"tags,omitempty"`
	Identity   *core.ManagedServiceIdentity `json:"identity,omitempty"`
	Properties *MediaServiceProperties      `json:"properties,omitempty"`
}

// MediaServiceProperties are the properties of a Media Services account.
type MediaServiceProperties struct {
	StorageAccounts       []*StorageAccount      `json:"storageAccounts,omitempty"`
	StorageAuthentication *StorageAuthentication `json:"storageAuthentication,omitempty"`
	PublicNetworkAccess   *PublicNetworkAccess   `json:"publicNetworkAccess,omitempty"`

	// READ-ONLY
	MediaServiceID *string `json:"mediaServiceId,omitempty"`
	// READ-ONLY
	ProvisioningState *string `json:"provisioningState,omitempty"`
}

// StorageAccount attaches a storage account to a Media Services account.
type StorageAccount struct {
	ID   *string             `json:"id,omitempty"`
	Type *StorageAccountType `json:"type,omitempty"`

	// READ-ONLY
	Status *string `json:"status,omitempty"`
}

// MediaServiceUpdate is the PATCH body of an account.
type MediaServiceUpdate struct {
	Tags       map[string]*string      `json:"tags,omitempty"`
	Properties *MediaServiceProperties `json:"properties,omitempty"`
}

// SyncStorageKeysInput names the storage account whose keys are synchronized.
type SyncStorageKeysInput struct {
	ID *string `json:"id,omitempty"`
}

// Asset is a Media Services asset.
type Asset struct {
	// READ-ONLY
	ID *string `json:"id,omitempty"`
	// READ-ONLY
	Name *string `json:"name,omitempty"`
	// READ-ONLY
	Type       *string          `json:"type,omitempty"`
	Properties *AssetProperties `json:"properties,omitempty"`
}

// AssetProperties are the properties of an asset.
type AssetProperties struct {
	AlternateID        *string `json:"alternateId,omitempty"`
	Description        *string `json:"description,omitempty"`
	Container          *string `json:"container,omitempty"`
	StorageAccountName *string `json:"storageAccountName,omitempty"`

	// READ-ONLY
	AssetID *string `json:"assetId,omitempty"`
	// READ-ONLY
	Created *time.Time `json:"created,omitempty"`
	// READ-ONLY
	LastModified *time.Time `json:"lastModified,omitempty"`
	// READ-ONLY
	StorageEncryptionFormat *AssetStorageEncryptionFormat `json:"storageEncryptionFormat,omitempty"`
}

// ListContainerSasInput is the request body of ListContainerSas.
type ListContainerSasInput struct {
	Permissions *AssetContainerPermission `json:"permissions,omitempty"`
	ExpiryTime  *time.Time                `json:"expiryTime,omitempty"`
}

// AssetContainerSas holds the SAS URLs of an asset container.
type AssetContainerSas struct {
	AssetContainerSasUrls []*string `json:"assetContainerSasUrls,omitempty"`
}

// Transform is an encoding or analysis recipe applied by jobs.
type Transform struct {
	// READ-ONLY
	ID *string `json:"id,omitempty"`
	// READ-ONLY
	Name *string `json:"name,omitempty"`
	// READ-ONLY
	Type       *string              `json:"type,omitempty"`
	Properties *TransformProperties `json:"properties,omitempty"`
}

// TransformProperties are the properties of a transform.
type TransformProperties struct {
	Description *string            `json:"description,omitempty"`
	Outputs     []*TransformOutput `json:"outputs,omitempty"`

	// READ-ONLY
	Created *time.Time `json:"created,omitempty"`
	// READ-ONLY
	LastModified *time.Time `json:"lastModified,omitempty"`
}

// TransformOutput is one output of a transform.
type TransformOutput struct {
	Preset           Preset       `json:"preset,omitempty"`
	OnError          *OnErrorType `json:"onError,omitempty"`
	RelativePriority *Priority    `json:"relativePriority,omitempty"`
}

// Job processes an input with a transform.
type Job struct {
	// READ-ONLY
	ID *string `json:"id,omitempty"`
	// READ-ONLY
	Name *string `json:"name,omitempty"`
	// READ-ONLY
	Type       *string        `json:"type,omitempty"`
	Properties *JobProperties `json:"properties,omitempty"`
}

// JobProperties are the properties of a job.
type JobProperties struct {
	Description     *string            `json:"description,omitempty"`
	Input           JobInput           `json:"input,omitempty"`
	Outputs         []*JobOutputAsset  `json:"outputs,omitempty"`
	Priority        *Priority          `json:"priority,omitempty"`
	CorrelationData map[string]*string `json:"correlationData,omitempty"`

	// READ-ONLY
	Created *time.Time `json:"created,omitempty"`
	// READ-ONLY
	LastModified *time.Time `json:"lastModified,omitempty"`
	// READ-ONLY
	State *JobState `json:"state,omitempty"`
	// READ-ONLY
	StartTime *time.Time `json:"startTime,omitempty"`
	// READ-ONLY
	EndTime *time.Time `json:"endTime,omitempty"`
}

// JobError describes the failure of a job output.
type JobError struct {
	Code     *string `json:"code,omitempty"`
	Message  *string `json:"message,omitempty"`
	Category *string `json:"category,omitempty"`
	Retry    *string `json:"retry,omitempty"`
}

// ContentKeyPolicy controls how content keys are delivered to clients.
type ContentKeyPolicy struct {
	// READ-ONLY
	ID *string `json:"id,omitempty"`
	// READ-ONLY
	Name *string `json:"name,omitempty"`
	// READ-ONLY
	Type       *string                     `json:"type,omitempty"`
	Properties *ContentKeyPolicyProperties `json:"properties,omitempty"`
}

// ContentKeyPolicyProperties are the properties of a content key policy.
type ContentKeyPolicyProperties struct {
	Description *string                   `json:"description,omitempty"`
	Options     []*ContentKeyPolicyOption `json:"options,omitempty"`

	// READ-ONLY
	PolicyID *string `json:"policyId,omitempty"`
	// READ-ONLY
	Created *time.Time `json:"created,omitempty"`
	// READ-ONLY
	LastModified *time.Time `json:"lastModified,omitempty"`
}

// ContentKeyPolicyOption pairs a key delivery configuration with the restriction guarding it.
type ContentKeyPolicyOption struct {
	Name          *string                       `json:"name,omitempty"`
	Configuration ContentKeyPolicyConfiguration `json:"configuration,omitempty"`
	Restriction   ContentKeyPolicyRestriction   `json:"restriction,omitempty"`

	// READ-ONLY
	PolicyOptionID *string `json:"policyOptionId,omitempty"`
}

// ContentKeyPolicyPlayReadyLicense is a PlayReady license template.
type ContentKeyPolicyPlayReadyLicense struct {
	AllowTestDevices       bool                                        `json:"allowTestDevices"`
	SecurityLevel          *ContentKeyPolicyPlayReadySecurityLevel     `json:"securityLevel,omitempty"`
	BeginDate              *time.Time                                  `json:"beginDate,omitempty"`
	ExpirationDate         *time.Time                                  `json:"expirationDate,omitempty"`
	RelativeBeginDate      *string                                     `json:"relativeBeginDate,omitempty"`
	RelativeExpirationDate *string                                     `json:"relativeExpirationDate,omitempty"`
	GracePeriod            *string                                     `json:"gracePeriod,omitempty"`
	PlayRight              *ContentKeyPolicyPlayReadyPlayRight         `json:"playRight,omitempty"`
	LicenseType            ContentKeyPolicyPlayReadyLicenseType        `json:"licenseType"`
	ContentKeyLocation     ContentKeyPolicyPlayReadyContentKeyLocation `json:"contentKeyLocation"`
	ContentType            ContentKeyPolicyPlayReadyContentType        `json:"contentType"`
}

// ContentKeyPolicyPlayReadyPlayRight is the play right of a PlayReady license.
// Durations such as FirstPlayExpiration are ISO 8601 durations, e.g. PT1H.
type ContentKeyPolicyPlayReadyPlayRight struct {
	FirstPlayExpiration                       *string                                                       `json:"firstPlayExpiration,omitempty"`
	ScmsRestriction                           *int32                                                        `json:"scmsRestriction,omitempty"`
	AgcAndColorStripeRestriction              *int32                                                        `json:"agcAndColorStripeRestriction,omitempty"`
	ExplicitAnalogTelevisionOutputRestriction *ContentKeyPolicyPlayReadyExplicitAnalogTelevisionRestriction `json:"explicitAnalogTelevisionOutputRestriction,omitempty"`

	DigitalVideoOnlyContentRestriction                 bool                                                `json:"digitalVideoOnlyContentRestriction"`
	ImageConstraintForAnalogComponentVideoRestriction  bool                                                `json:"imageConstraintForAnalogComponentVideoRestriction"`
	ImageConstraintForAnalogComputerMonitorRestriction bool                                                `json:"imageConstraintForAnalogComputerMonitorRestriction"`
	AllowPassingVideoContentToUnknownOutput            ContentKeyPolicyPlayReadyUnknownOutputPassingOption `json:"allowPassingVideoContentToUnknownOutput"`

	UncompressedDigitalVideoOpl *int32 `json:"uncompressedDigitalVideoOpl,omitempty"`
	CompressedDigitalVideoOpl   *int32 `json:"compressedDigitalVideoOpl,omitempty"`
	AnalogVideoOpl              *int32 `json:"analogVideoOpl,omitempty"`
	CompressedDigitalAudioOpl   *int32 `json:"compressedDigitalAudioOpl,omitempty"`
	UncompressedDigitalAudioOpl *int32 `json:"uncompressedDigitalAudioOpl,omitempty"`
}

// ContentKeyPolicyPlayReadyExplicitAnalogTelevisionRestriction configures the explicit analog television output restriction.
type ContentKeyPolicyPlayReadyExplicitAnalogTelevisionRestriction struct {
	BestEffort  bool  `json:"bestEffort"`
	ControlBits int32 `json:"configurationData"`
}

// ContentKeyPolicyTokenClaim is a claim required in tokens.
type ContentKeyPolicyTokenClaim struct {
	ClaimType  *string `json:"claimType,omitempty"`
	ClaimValue *string `json:"claimValue,omitempty"`
}

// StreamingLocator publishes an asset for streaming.
type StreamingLocator struct {
	// READ-ONLY
	ID *string `json:"id,omitempty"`
	// READ-ONLY
	Name *string `json:"name,omitempty"`
	// READ-ONLY
	Type       *string                     `json:"type,omitempty"`
	Properties *StreamingLocatorProperties `json:"properties,omitempty"`
}

// StreamingLocatorProperties are the properties of a streaming locator.
type StreamingLocatorProperties struct {
	AssetName                   *string    `json:"assetName,omitempty"`
	StreamingPolicyName         *string    `json:"streamingPolicyName,omitempty"`
	DefaultContentKeyPolicyName *string    `json:"defaultContentKeyPolicyName,omitempty"`
	StartTime                   *time.Time `json:"startTime,omitempty"`
	EndTime                     *time.Time `json:"endTime,omitempty"`
	StreamingLocatorID          *string    `json:"streamingLocatorId,omitempty"`
	AlternativeMediaID          *string    `json:"alternativeMediaId,omitempty"`
	Filters                     []*string  `json:"filters,omitempty"`

	// READ-ONLY
	Created *time.Time `json:"created,omitempty"`
}

// ListPathsResponse lists the streaming and download paths of a locator.
type ListPathsResponse struct {
	StreamingPaths []*StreamingPath `json:"streamingPaths,omitempty"`
	DownloadPaths  []*string        `json:"downloadPaths,omitempty"`
}

// StreamingPath are the paths of one protocol and encryption scheme.
type StreamingPath struct {
	StreamingProtocol *StreamingPolicyStreamingProtocol `json:"streamingProtocol,omitempty"`
	EncryptionScheme  *EncryptionScheme                 `json:"encryptionScheme,omitempty"`
	Paths             []*string                         `json:"paths,omitempty"`
}
