// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package mediaservices

// StorageAccountType is the role of a storage account attached to a Media Services account.
type StorageAccountType string

const (
	StorageAccountTypePrimary   StorageAccountType = "Primary"
	StorageAccountTypeSecondary StorageAccountType = "Secondary"
)

// StorageAuthentication selects how the account authenticates to its storage accounts.
type StorageAuthentication string

const (
	StorageAuthenticationSystem          StorageAuthentication = "System"
	StorageAuthenticationManagedIdentity StorageAuthentication = "ManagedIdentity"
)

// PublicNetworkAccess toggles public network access to the account.
type PublicNetworkAccess string

const (
	PublicNetworkAccessEnabled  PublicNetworkAccess = "Enabled"
	PublicNetworkAccessDisabled PublicNetworkAccess = "Disabled"
)

// AssetContainerPermission is the permission granted by a container SAS URL.
type AssetContainerPermission string

const (
	AssetContainerPermissionRead            AssetContainerPermission = "Read"
	AssetContainerPermissionReadWrite       AssetContainerPermission = "ReadWrite"
	AssetContainerPermissionReadWriteDelete AssetContainerPermission = "ReadWriteDelete"
)

// AssetStorageEncryptionFormat is the encryption of the asset container.
type AssetStorageEncryptionFormat string

const (
	AssetStorageEncryptionFormatNone                    AssetStorageEncryptionFormat = "None"
	AssetStorageEncryptionFormatMediaStorageClientCrypt AssetStorageEncryptionFormat = "MediaStorageClientEncryption"
)

// OnErrorType decides whether a job continues when a transform output fails.
type OnErrorType string

const (
	OnErrorTypeStopProcessingJob OnErrorType = "StopProcessingJob"
	OnErrorTypeContinueJob       OnErrorType = "ContinueJob"
)

// Priority is the relative priority of transform outputs and jobs.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityNormal Priority = "Normal"
	PriorityHigh   Priority = "High"
)

// PossiblePriorityValues returns the possible values for the Priority const type.
func PossiblePriorityValues() []Priority {
	return []Priority{PriorityLow, PriorityNormal, PriorityHigh}
}

// EncoderNamedPreset names a built-in encoding preset.
type EncoderNamedPreset string

const (
	EncoderNamedPresetAdaptiveStreaming                        EncoderNamedPreset = "AdaptiveStreaming"
	EncoderNamedPresetContentAwareEncoding                     EncoderNamedPreset = "ContentAwareEncoding"
	EncoderNamedPresetCopyAllBitrateNonInterleaved             EncoderNamedPreset = "CopyAllBitrateNonInterleaved"
	EncoderNamedPresetH264MultipleBitrate1080P                 EncoderNamedPreset = "H264MultipleBitrate1080p"
	EncoderNamedPresetH264MultipleBitrate720P                  EncoderNamedPreset = "H264MultipleBitrate720p"
	EncoderNamedPresetH264SingleBitrate1080P                   EncoderNamedPreset = "H264SingleBitrate1080p"
	EncoderNamedPresetH264SingleBitrate720P                    EncoderNamedPreset = "H264SingleBitrate720p"
	EncoderNamedPresetH265AdaptiveStreaming                    EncoderNamedPreset = "H265AdaptiveStreaming"
	EncoderNamedPresetH265ContentAwareEncoding                 EncoderNamedPreset = "H265ContentAwareEncoding"
	EncoderNamedPresetAACGoodQualityAudio                      EncoderNamedPreset = "AACGoodQualityAudio"
	EncoderNamedPresetDDGoodQualityAudio                       EncoderNamedPreset = "DDGoodQualityAudio"
	EncoderNamedPresetSaasSourceAligned360PMultipleBitrateH264 EncoderNamedPreset = "SaasSourceAligned360pMultipleBitrateH264"
)

// AudioAnalysisMode selects the audio analysis feature set.
type AudioAnalysisMode string

const (
	AudioAnalysisModeStandard AudioAnalysisMode = "Standard"
	AudioAnalysisModeBasic    AudioAnalysisMode = "Basic"
)

// InsightsType selects the insights extracted by the video analyzer.
type InsightsType string

const (
	InsightsTypeAudioInsightsOnly InsightsType = "AudioInsightsOnly"
	InsightsTypeVideoInsightsOnly InsightsType = "VideoInsightsOnly"
	InsightsTypeAllInsights       InsightsType = "AllInsights"
)

// AnalysisResolution is the resolution faces are detected at.
type AnalysisResolution string

const (
	AnalysisResolutionSourceResolution   AnalysisResolution = "SourceResolution"
	AnalysisResolutionStandardDefinition AnalysisResolution = "StandardDefinition"
)

// FaceRedactorMode selects between detection and redaction.
type FaceRedactorMode string

const (
	FaceRedactorModeAnalyze  FaceRedactorMode = "Analyze"
	FaceRedactorModeRedact   FaceRedactorMode = "Redact"
	FaceRedactorModeCombined FaceRedactorMode = "Combined"
)

// BlurType is the blur applied to redacted faces.
type BlurType string

const (
	BlurTypeBox   BlurType = "Box"
	BlurTypeLow   BlurType = "Low"
	BlurTypeMed   BlurType = "Med"
	BlurTypeHigh  BlurType = "High"
	BlurTypeBlack BlurType = "Black"
)

// JobState is the state of a job or job output.
type JobState string

const (
	JobStateCanceled   JobState = "Canceled"
	JobStateCanceling  JobState = "Canceling"
	JobStateError      JobState = "Error"
	JobStateFinished   JobState = "Finished"
	JobStateProcessing JobState = "Processing"
	JobStateQueued     JobState = "Queued"
	JobStateScheduled  JobState = "Scheduled"
)

// IsFinal reports whether s is a terminal state.
func (s JobState) IsFinal() bool {
	return s == JobStateFinished || s == JobStateError || s == JobStateCanceled
}

// ContentKeyPolicyPlayReadyLicenseType is the persistence of a PlayReady license.
type ContentKeyPolicyPlayReadyLicenseType string

const (
	ContentKeyPolicyPlayReadyLicenseTypeNonPersistent ContentKeyPolicyPlayReadyLicenseType = "NonPersistent"
	ContentKeyPolicyPlayReadyLicenseTypePersistent    ContentKeyPolicyPlayReadyLicenseType = "Persistent"
)

// ContentKeyPolicyPlayReadyContentType is the PlayReady content type.
type ContentKeyPolicyPlayReadyContentType string

const (
	ContentKeyPolicyPlayReadyContentTypeUnspecified          ContentKeyPolicyPlayReadyContentType = "Unspecified"
	ContentKeyPolicyPlayReadyContentTypeUltraVioletDownload  ContentKeyPolicyPlayReadyContentType = "UltraVioletDownload"
	ContentKeyPolicyPlayReadyContentTypeUltraVioletStreaming ContentKeyPolicyPlayReadyContentType = "UltraVioletStreaming"
)

// ContentKeyPolicyPlayReadySecurityLevel is the minimum client security level.
type ContentKeyPolicyPlayReadySecurityLevel string

const (
	ContentKeyPolicyPlayReadySecurityLevelSL150  ContentKeyPolicyPlayReadySecurityLevel = "SL150"
	ContentKeyPolicyPlayReadySecurityLevelSL2000 ContentKeyPolicyPlayReadySecurityLevel = "SL2000"
	ContentKeyPolicyPlayReadySecurityLevelSL3000 ContentKeyPolicyPlayReadySecurityLevel = "SL3000"
)

// ContentKeyPolicyPlayReadyUnknownOutputPassingOption controls passing video content to unknown outputs.
type ContentKeyPolicyPlayReadyUnknownOutputPassingOption string

const (
	ContentKeyPolicyPlayReadyUnknownOutputPassingOptionNotAllowed                   ContentKeyPolicyPlayReadyUnknownOutputPassingOption = "NotAllowed"
	ContentKeyPolicyPlayReadyUnknownOutputPassingOptionAllowed                      ContentKeyPolicyPlayReadyUnknownOutputPassingOption = "Allowed"
	ContentKeyPolicyPlayReadyUnknownOutputPassingOptionAllowedWithVideoConstriction ContentKeyPolicyPlayReadyUnknownOutputPassingOption = "AllowedWithVideoConstriction"
)

// PossibleContentKeyPolicyPlayReadyUnknownOutputPassingOptionValues returns the possible values for the
// ContentKeyPolicyPlayReadyUnknownOutputPassingOption const type.
func PossibleContentKeyPolicyPlayReadyUnknownOutputPassingOptionValues() []ContentKeyPolicyPlayReadyUnknownOutputPassingOption {
	return []ContentKeyPolicyPlayReadyUnknownOutputPassingOption{
		ContentKeyPolicyPlayReadyUnknownOutputPassingOptionNotAllowed,
		ContentKeyPolicyPlayReadyUnknownOutputPassingOptionAllowed,
		ContentKeyPolicyPlayReadyUnknownOutputPassingOptionAllowedWithVideoConstriction,
	}
}

// ContentKeyPolicyRestrictionTokenType is the format of the tokens accepted by a token restriction.
type ContentKeyPolicyRestrictionTokenType string

const (
	ContentKeyPolicyRestrictionTokenTypeJwt ContentKeyPolicyRestrictionTokenType = "Jwt"
	ContentKeyPolicyRestrictionTokenTypeSwt ContentKeyPolicyRestrictionTokenType = "Swt"
)

// Predefined streaming policy names.
const (
	StreamingPolicyDownloadOnly              = "Predefined_DownloadOnly"
	StreamingPolicyClearStreamingOnly        = "Predefined_ClearStreamingOnly"
	StreamingPolicyDownloadAndClearStreaming = "Predefined_DownloadAndClearStreaming"
	StreamingPolicyClearKey                  = "Predefined_ClearKey"
	StreamingPolicyMultiDrmCencStreaming     = "Predefined_MultiDrmCencStreaming"
	StreamingPolicyMultiDrmStreaming         = "Predefined_MultiDrmStreaming"
)

// StreamingPolicyStreamingProtocol is the protocol of a streaming path.
type StreamingPolicyStreamingProtocol string

const (
	StreamingPolicyStreamingProtocolHLS             StreamingPolicyStreamingProtocol = "Hls"
	StreamingPolicyStreamingProtocolDash            StreamingPolicyStreamingProtocol = "Dash"
	StreamingPolicyStreamingProtocolSmoothStreaming StreamingPolicyStreamingProtocol = "SmoothStreaming"
	StreamingPolicyStreamingProtocolDownload        StreamingPolicyStreamingProtocol = "Download"
)

// EncryptionScheme is the encryption of a streaming path.
type EncryptionScheme string

const (
	EncryptionSchemeNoEncryption         EncryptionScheme = "NoEncryption"
	EncryptionSchemeEnvelopeEncryption   EncryptionScheme = "EnvelopeEncryption"
	EncryptionSchemeCommonEncryptionCenc EncryptionScheme = "CommonEncryptionCenc"
	EncryptionSchemeCommonEncryptionCbcs EncryptionScheme = "CommonEncryptionCbcs"
)
