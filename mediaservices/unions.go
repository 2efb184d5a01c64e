// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package mediaservices

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Media Services models polymorphic values as JSON objects discriminated by @odata.type.
// Every union is a Go interface with an unexported marker method. Concrete types add their
// discriminator when marshalled; decoding dispatches on it and keeps unknown values as *UnknownObject.

const odataTypeKey = "@odata.type"

const (
	odataBuiltInStandardEncoderPreset = "#Microsoft.Media.BuiltInStandardEncoderPreset"
	odataAudioAnalyzerPreset          = "#Microsoft.Media.AudioAnalyzerPreset"
	odataVideoAnalyzerPreset          = "#Microsoft.Media.VideoAnalyzerPreset"
	odataFaceDetectorPreset           = "#Microsoft.Media.FaceDetectorPreset"

	odataJobInputAsset  = "#Microsoft.Media.JobInputAsset"
	odataJobInputHTTP   = "#Microsoft.Media.JobInputHttp"
	odataJobOutputAsset = "#Microsoft.Media.JobOutputAsset"

	odataClearKeyConfiguration  = "#Microsoft.Media.ContentKeyPolicyClearKeyConfiguration"
	odataWidevineConfiguration  = "#Microsoft.Media.ContentKeyPolicyWidevineConfiguration"
	odataPlayReadyConfiguration = "#Microsoft.Media.ContentKeyPolicyPlayReadyConfiguration"

	odataOpenRestriction  = "#Microsoft.Media.ContentKeyPolicyOpenRestriction"
	odataTokenRestriction = "#Microsoft.Media.ContentKeyPolicyTokenRestriction"

	odataSymmetricTokenKey       = "#Microsoft.Media.ContentKeyPolicySymmetricTokenKey"
	odataRsaTokenKey             = "#Microsoft.Media.ContentKeyPolicyRsaTokenKey"
	odataX509CertificateTokenKey = "#Microsoft.Media.ContentKeyPolicyX509CertificateTokenKey"

	odataKeyFromHeader        = "#Microsoft.Media.ContentKeyPolicyPlayReadyContentEncryptionKeyFromHeader"
	odataKeyFromKeyIdentifier = "#Microsoft.Media.ContentKeyPolicyPlayReadyContentEncryptionKeyFromKeyIdentifier"
)

// Preset is the recipe of a transform output: *BuiltInStandardEncoderPreset, *AudioAnalyzerPreset,
// *VideoAnalyzerPreset, *FaceDetectorPreset or *UnknownObject.
type Preset interface{ isPreset() }

// JobInput is the input of a job: *JobInputAsset, *JobInputHTTP or *UnknownObject.
type JobInput interface{ isJobInput() }

// ContentKeyPolicyConfiguration is the key delivery configuration of a policy option:
// *ContentKeyPolicyClearKeyConfiguration, *ContentKeyPolicyWidevineConfiguration,
// *ContentKeyPolicyPlayReadyConfiguration or *UnknownObject.
type ContentKeyPolicyConfiguration interface{ isContentKeyPolicyConfiguration() }

// ContentKeyPolicyRestriction guards key delivery: *ContentKeyPolicyOpenRestriction,
// *ContentKeyPolicyTokenRestriction or *UnknownObject.
type ContentKeyPolicyRestriction interface{ isContentKeyPolicyRestriction() }

// ContentKeyPolicyRestrictionTokenKey verifies token signatures: *ContentKeyPolicySymmetricTokenKey,
// *ContentKeyPolicyRsaTokenKey, *ContentKeyPolicyX509CertificateTokenKey or *UnknownObject.
type ContentKeyPolicyRestrictionTokenKey interface{ isContentKeyPolicyRestrictionTokenKey() }

// ContentKeyPolicyPlayReadyContentKeyLocation locates the key ID of PlayReady content:
// *ContentKeyPolicyPlayReadyContentEncryptionKeyFromHeader,
// *ContentKeyPolicyPlayReadyContentEncryptionKeyFromKeyIdentifier or *UnknownObject.
type ContentKeyPolicyPlayReadyContentKeyLocation interface {
	isContentKeyPolicyPlayReadyContentKeyLocation()
}

// UnknownObject keeps a polymorphic value with a discriminator this package does not know.
// It is marshalled back unchanged.
type UnknownObject struct {
	ODataType string
	Raw       json.RawMessage
}

func (*UnknownObject) isPreset()                                      {}
func (*UnknownObject) isJobInput()                                    {}
func (*UnknownObject) isContentKeyPolicyConfiguration()               {}
func (*UnknownObject) isContentKeyPolicyRestriction()                 {}
func (*UnknownObject) isContentKeyPolicyRestrictionTokenKey()         {}
func (*UnknownObject) isContentKeyPolicyPlayReadyContentKeyLocation() {}

// MarshalJSON implements the json.Marshaller interface.
func (u *UnknownObject) MarshalJSON() ([]byte, error) {
	if len(u.Raw) == 0 {
		return json.Marshal(map[string]string{odataTypeKey: u.ODataType})
	}

	return u.Raw, nil
}

// withODataType marshals v, which must encode to a JSON object, with the discriminator prepended.
func withODataType(odataType string, v any) ([]byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	if len(body) < 2 || body[0] != '{' {
		return nil, fmt.Errorf("%s: value is not a JSON object", odataType)
	}

	disc, err := json.Marshal(odataType)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	var buf bytes.Buffer

	buf.WriteString(`{"` + odataTypeKey + `":`)
	buf.Write(disc)

	if body[1] != '}' {
		buf.WriteByte(',')
	}

	buf.Write(body[1:])

	return buf.Bytes(), nil
}

// unmarshalUnion decodes data into the type registered for its discriminator.
// null or empty data decodes to the zero T.
func unmarshalUnion[T any](data json.RawMessage, types map[string]func() T, unknown func(*UnknownObject) T) (T, error) {
	var zero T

	if len(data) == 0 || string(data) == "null" {
		return zero, nil
	}

	var d struct {
		ODataType string `json:"@odata.type"`
	}
	if err := json.Unmarshal(data, &d); err != nil {
		return zero, err //nolint:wrapcheck
	}

	newValue, ok := types[d.ODataType]
	if !ok {
		return unknown(&UnknownObject{ODataType: d.ODataType, Raw: append(json.RawMessage(nil), data...)}), nil
	}

	v := newValue()
	if err := json.Unmarshal(data, v); err != nil {
		return zero, fmt.Errorf("decoding %s: %w", d.ODataType, err)
	}

	return v, nil
}

func unmarshalPreset(data json.RawMessage) (Preset, error) {
	return unmarshalUnion(data, map[string]func() Preset{
		odataBuiltInStandardEncoderPreset: func() Preset { return &BuiltInStandardEncoderPreset{} },
		odataAudioAnalyzerPreset:          func() Preset { return &AudioAnalyzerPreset{} },
		odataVideoAnalyzerPreset:          func() Preset { return &VideoAnalyzerPreset{} },
		odataFaceDetectorPreset:           func() Preset { return &FaceDetectorPreset{} },
	}, func(u *UnknownObject) Preset { return u })
}

func unmarshalJobInput(data json.RawMessage) (JobInput, error) {
	return unmarshalUnion(data, map[string]func() JobInput{
		odataJobInputAsset: func() JobInput { return &JobInputAsset{} },
		odataJobInputHTTP:  func() JobInput { return &JobInputHTTP{} },
	}, func(u *UnknownObject) JobInput { return u })
}

func unmarshalConfiguration(data json.RawMessage) (ContentKeyPolicyConfiguration, error) {
	return unmarshalUnion(data, map[string]func() ContentKeyPolicyConfiguration{
		odataClearKeyConfiguration:  func() ContentKeyPolicyConfiguration { return &ContentKeyPolicyClearKeyConfiguration{} },
		odataWidevineConfiguration:  func() ContentKeyPolicyConfiguration { return &ContentKeyPolicyWidevineConfiguration{} },
		odataPlayReadyConfiguration: func() ContentKeyPolicyConfiguration { return &ContentKeyPolicyPlayReadyConfiguration{} },
	}, func(u *UnknownObject) ContentKeyPolicyConfiguration { return u })
}

func unmarshalRestriction(data json.RawMessage) (ContentKeyPolicyRestriction, error) {
	return unmarshalUnion(data, map[string]func() ContentKeyPolicyRestriction{
		odataOpenRestriction:  func() ContentKeyPolicyRestriction { return &ContentKeyPolicyOpenRestriction{} },
		odataTokenRestriction: func() ContentKeyPolicyRestriction { return &ContentKeyPolicyTokenRestriction{} },
	}, func(u *UnknownObject) ContentKeyPolicyRestriction { return u })
}

func unmarshalTokenKey(data json.RawMessage) (ContentKeyPolicyRestrictionTokenKey, error) {
	return unmarshalUnion(data, map[string]func() ContentKeyPolicyRestrictionTokenKey{
		odataSymmetricTokenKey:       func() ContentKeyPolicyRestrictionTokenKey { return &ContentKeyPolicySymmetricTokenKey{} },
		odataRsaTokenKey:             func() ContentKeyPolicyRestrictionTokenKey { return &ContentKeyPolicyRsaTokenKey{} },
		odataX509CertificateTokenKey: func() ContentKeyPolicyRestrictionTokenKey { return &ContentKeyPolicyX509CertificateTokenKey{} },
	}, func(u *UnknownObject) ContentKeyPolicyRestrictionTokenKey { return u })
}

func unmarshalKeyLocation(data json.RawMessage) (ContentKeyPolicyPlayReadyContentKeyLocation, error) {
	return unmarshalUnion(data, map[string]func() ContentKeyPolicyPlayReadyContentKeyLocation{
		odataKeyFromHeader: func() ContentKeyPolicyPlayReadyContentKeyLocation {
			return &ContentKeyPolicyPlayReadyContentEncryptionKeyFromHeader{}
		},
		odataKeyFromKeyIdentifier: func() ContentKeyPolicyPlayReadyContentKeyLocation {
			return &ContentKeyPolicyPlayReadyContentEncryptionKeyFromKeyIdentifier{}
		},
	}, func(u *UnknownObject) ContentKeyPolicyPlayReadyContentKeyLocation { return u })
}

// BuiltInStandardEncoderPreset encodes with one of the built-in presets.
type BuiltInStandardEncoderPreset struct {
	PresetName     EncoderNamedPreset    `json:"presetName"`
	Configurations *PresetConfigurations `json:"configurations,omitempty"`
}

// PresetConfigurations tune the content aware and adaptive streaming presets.
type PresetConfigurations struct {
	Complexity                *string  `json:"complexity,omitempty"`
	InterleaveOutput          *string  `json:"interleaveOutput,omitempty"`
	KeyFrameIntervalInSeconds *float32 `json:"keyFrameIntervalInSeconds,omitempty"`
	MaxBitrateBps             *int32   `json:"maxBitrateBps,omitempty"`
	MaxHeight                 *int32   `json:"maxHeight,omitempty"`
	MaxLayers                 *int32   `json:"maxLayers,omitempty"`
	MinBitrateBps             *int32   `json:"minBitrateBps,omitempty"`
	MinHeight                 *int32   `json:"minHeight,omitempty"`
}

func (*BuiltInStandardEncoderPreset) isPreset() {}

// MarshalJSON implements the json.Marshaller interface.
func (p *BuiltInStandardEncoderPreset) MarshalJSON() ([]byte, error) {
	type alias BuiltInStandardEncoderPreset
	return withODataType(odataBuiltInStandardEncoderPreset, (*alias)(p))
}

// AudioAnalyzerPreset extracts transcripts and audio insights.
type AudioAnalyzerPreset struct {
	// AudioLanguage is a BCP-47 code such as en-US. Empty selects automatic detection.
	AudioLanguage       *string            `json:"audioLanguage,omitempty"`
	Mode                *AudioAnalysisMode `json:"mode,omitempty"`
	ExperimentalOptions map[string]*string `json:"experimentalOptions,omitempty"`
}

func (*AudioAnalyzerPreset) isPreset() {}

// MarshalJSON implements the json.Marshaller interface.
func (p *AudioAnalyzerPreset) MarshalJSON() ([]byte, error) {
	type alias AudioAnalyzerPreset
	return withODataType(odataAudioAnalyzerPreset, (*alias)(p))
}

// VideoAnalyzerPreset extracts audio and video insights.
type VideoAnalyzerPreset struct {
	AudioLanguage       *string            `json:"audioLanguage,omitempty"`
	Mode                *AudioAnalysisMode `json:"mode,omitempty"`
	InsightsToExtract   *InsightsType      `json:"insightsToExtract,omitempty"`
	ExperimentalOptions map[string]*string `json:"experimentalOptions,omitempty"`
}

func (*VideoAnalyzerPreset) isPreset() {}

// MarshalJSON implements the json.Marshaller interface.
func (p *VideoAnalyzerPreset) MarshalJSON() ([]byte, error) {
	type alias VideoAnalyzerPreset
	return withODataType(odataVideoAnalyzerPreset, (*alias)(p))
}

// FaceDetectorPreset detects, and optionally redacts, faces.
type FaceDetectorPreset struct {
	Resolution          *AnalysisResolution `json:"resolution,omitempty"`
	Mode                *FaceRedactorMode   `json:"mode,omitempty"`
	BlurType            *BlurType           `json:"blurType,omitempty"`
	ExperimentalOptions map[string]*string  `json:"experimentalOptions,omitempty"`
}

func (*FaceDetectorPreset) isPreset() {}

// MarshalJSON implements the json.Marshaller interface.
func (p *FaceDetectorPreset) MarshalJSON() ([]byte, error) {
	type alias FaceDetectorPreset
	return withODataType(odataFaceDetectorPreset, (*alias)(p))
}

// UnmarshalJSON implements the json.Unmarshaller interface.
func (o *TransformOutput) UnmarshalJSON(data []byte) error {
	type alias TransformOutput

	aux := struct {
		*alias
		Preset json.RawMessage `json:"preset"`
	}{alias: (*alias)(o)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err //nolint:wrapcheck
	}

	p, err := unmarshalPreset(aux.Preset)
	if err != nil {
		return fmt.Errorf("TransformOutput.preset: %w", err)
	}

	o.Preset = p

	return nil
}

// JobInputAsset reads the input of a job from an asset.
type JobInputAsset struct {
	AssetName string    `json:"assetName"`
	Files     []*string `json:"files,omitempty"`
	Label     *string   `json:"label,omitempty"`
}

func (*JobInputAsset) isJobInput() {}

// MarshalJSON implements the json.Marshaller interface.
func (i *JobInputAsset) MarshalJSON() ([]byte, error) {
	type alias JobInputAsset
	return withODataType(odataJobInputAsset, (*alias)(i))
}

// JobInputHTTP reads the input of a job from HTTPS URLs. Files are relative to BaseURI.
type JobInputHTTP struct {
	BaseURI *string   `json:"baseUri,omitempty"`
	Files   []*string `json:"files,omitempty"`
	Label   *string   `json:"label,omitempty"`
}

func (*JobInputHTTP) isJobInput() {}

// MarshalJSON implements the json.Marshaller interface.
func (i *JobInputHTTP) MarshalJSON() ([]byte, error) {
	type alias JobInputHTTP
	return withODataType(odataJobInputHTTP, (*alias)(i))
}

// JobOutputAsset writes one transform output of a job to an asset.
type JobOutputAsset struct {
	AssetName string  `json:"assetName"`
	Label     *string `json:"label,omitempty"`

	// READ-ONLY
	State *JobState `json:"state,omitempty"`
	// READ-ONLY
	Progress *int32 `json:"progress,omitempty"`
	// READ-ONLY
	Error *JobError `json:"error,omitempty"`
	// READ-ONLY
	StartTime *time.Time `json:"startTime,omitempty"`
	// READ-ONLY
	EndTime *time.Time `json:"endTime,omitempty"`
}

// MarshalJSON implements the json.Marshaller interface.
func (o *JobOutputAsset) MarshalJSON() ([]byte, error) {
	type alias JobOutputAsset
	return withODataType(odataJobOutputAsset, (*alias)(o))
}

// UnmarshalJSON implements the json.Unmarshaller interface.
func (p *JobProperties) UnmarshalJSON(data []byte) error {
	type alias JobProperties

	aux := struct {
		*alias
		Input json.RawMessage `json:"input"`
	}{alias: (*alias)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err //nolint:wrapcheck
	}

	in, err := unmarshalJobInput(aux.Input)
	if err != nil {
		return fmt.Errorf("JobProperties.input: %w", err)
	}

	p.Input = in

	return nil
}

// ContentKeyPolicyClearKeyConfiguration delivers AES clear keys.
type ContentKeyPolicyClearKeyConfiguration struct{}

func (*ContentKeyPolicyClearKeyConfiguration) isContentKeyPolicyConfiguration() {}

// MarshalJSON implements the json.Marshaller interface.
func (c *ContentKeyPolicyClearKeyConfiguration) MarshalJSON() ([]byte, error) {
	type alias ContentKeyPolicyClearKeyConfiguration
	return withODataType(odataClearKeyConfiguration, (*alias)(c))
}

// ContentKeyPolicyWidevineConfiguration delivers Widevine licenses.
type ContentKeyPolicyWidevineConfiguration struct {
	// WidevineTemplate is the JSON license template.
	WidevineTemplate string `json:"widevineTemplate"`
}

func (*ContentKeyPolicyWidevineConfiguration) isContentKeyPolicyConfiguration() {}

// MarshalJSON implements the json.Marshaller interface.
func (c *ContentKeyPolicyWidevineConfiguration) MarshalJSON() ([]byte, error) {
	type alias ContentKeyPolicyWidevineConfiguration
	return withODataType(odataWidevineConfiguration, (*alias)(c))
}

// ContentKeyPolicyPlayReadyConfiguration delivers PlayReady licenses.
type ContentKeyPolicyPlayReadyConfiguration struct {
	Licenses           []*ContentKeyPolicyPlayReadyLicense `json:"licenses"`
	ResponseCustomData *string                             `json:"responseCustomData,omitempty"`
}

func (*ContentKeyPolicyPlayReadyConfiguration) isContentKeyPolicyConfiguration() {}

// MarshalJSON implements the json.Marshaller interface.
func (c *ContentKeyPolicyPlayReadyConfiguration) MarshalJSON() ([]byte, error) {
	type alias ContentKeyPolicyPlayReadyConfiguration
	return withODataType(odataPlayReadyConfiguration, (*alias)(c))
}

// ContentKeyPolicyPlayReadyContentEncryptionKeyFromHeader reads the key ID from the PlayReady header.
type ContentKeyPolicyPlayReadyContentEncryptionKeyFromHeader struct{}

func (*ContentKeyPolicyPlayReadyContentEncryptionKeyFromHeader) isContentKeyPolicyPlayReadyContentKeyLocation() {
}

// MarshalJSON implements the json.Marshaller interface.
func (l *ContentKeyPolicyPlayReadyContentEncryptionKeyFromHeader) MarshalJSON() ([]byte, error) {
	type alias ContentKeyPolicyPlayReadyContentEncryptionKeyFromHeader
	return withODataType(odataKeyFromHeader, (*alias)(l))
}

// ContentKeyPolicyPlayReadyContentEncryptionKeyFromKeyIdentifier uses a fixed key ID.
type ContentKeyPolicyPlayReadyContentEncryptionKeyFromKeyIdentifier struct {
	KeyID string `json:"keyId"`
}

func (*ContentKeyPolicyPlayReadyContentEncryptionKeyFromKeyIdentifier) isContentKeyPolicyPlayReadyContentKeyLocation() {
}

// MarshalJSON implements the json.Marshaller interface.
func (l *ContentKeyPolicyPlayReadyContentEncryptionKeyFromKeyIdentifier) MarshalJSON() ([]byte, error) {
	type alias ContentKeyPolicyPlayReadyContentEncryptionKeyFromKeyIdentifier
	return withODataType(odataKeyFromKeyIdentifier, (*alias)(l))
}

// UnmarshalJSON implements the json.Unmarshaller interface.
func (l *ContentKeyPolicyPlayReadyLicense) UnmarshalJSON(data []byte) error {
	type alias ContentKeyPolicyPlayReadyLicense

	aux := struct {
		*alias
		ContentKeyLocation json.RawMessage `json:"contentKeyLocation"`
	}{alias: (*alias)(l)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err //nolint:wrapcheck
	}

	loc, err := unmarshalKeyLocation(aux.ContentKeyLocation)
	if err != nil {
		return fmt.Errorf("ContentKeyPolicyPlayReadyLicense.contentKeyLocation: %w", err)
	}

	l.ContentKeyLocation = loc

	return nil
}

// ContentKeyPolicyOpenRestriction delivers keys to every client.
type ContentKeyPolicyOpenRestriction struct{}

func (*ContentKeyPolicyOpenRestriction) isContentKeyPolicyRestriction() {}

// MarshalJSON implements the json.Marshaller interface.
func (r *ContentKeyPolicyOpenRestriction) MarshalJSON() ([]byte, error) {
	type alias ContentKeyPolicyOpenRestriction
	return withODataType(odataOpenRestriction, (*alias)(r))
}

// ContentKeyPolicyTokenRestriction delivers keys to clients presenting a valid token.
type ContentKeyPolicyTokenRestriction struct {
	Issuer                         string                                `json:"issuer"`
	Audience                       string                                `json:"audience"`
	PrimaryVerificationKey         ContentKeyPolicyRestrictionTokenKey   `json:"primaryVerificationKey"`
	AlternateVerificationKeys      []ContentKeyPolicyRestrictionTokenKey `json:"alternateVerificationKeys,omitempty"`
	RequiredClaims                 []*ContentKeyPolicyTokenClaim         `json:"requiredClaims,omitempty"`
	RestrictionTokenType           ContentKeyPolicyRestrictionTokenType  `json:"restrictionTokenType"`
	OpenIDConnectDiscoveryDocument *string                               `json:"openIdConnectDiscoveryDocument,omitempty"`
}

func (*ContentKeyPolicyTokenRestriction) isContentKeyPolicyRestriction() {}

// MarshalJSON implements the json.Marshaller interface.
func (r *ContentKeyPolicyTokenRestriction) MarshalJSON() ([]byte, error) {
	type alias ContentKeyPolicyTokenRestriction
	return withODataType(odataTokenRestriction, (*alias)(r))
}

// UnmarshalJSON implements the json.Unmarshaller interface.
func (r *ContentKeyPolicyTokenRestriction) UnmarshalJSON(data []byte) error {
	type alias ContentKeyPolicyTokenRestriction

	aux := struct {
		*alias
		PrimaryVerificationKey    json.RawMessage   `json:"primaryVerificationKey"`
		AlternateVerificationKeys []json.RawMessage `json:"alternateVerificationKeys"`
	}{alias: (*alias)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err //nolint:wrapcheck
	}

	key, err := unmarshalTokenKey(aux.PrimaryVerificationKey)
	if err != nil {
		return fmt.Errorf("ContentKeyPolicyTokenRestriction.primaryVerificationKey: %w", err)
	}

	r.PrimaryVerificationKey = key
	r.AlternateVerificationKeys = nil

	for i, raw := range aux.AlternateVerificationKeys {
		k, err := unmarshalTokenKey(raw)
		if err != nil {
			return fmt.Errorf("ContentKeyPolicyTokenRestriction.alternateVerificationKeys[%d]: %w", i, err)
		}

		r.AlternateVerificationKeys = append(r.AlternateVerificationKeys, k)
	}

	return nil
}

// ContentKeyPolicySymmetricTokenKey verifies tokens signed with a shared key.
type ContentKeyPolicySymmetricTokenKey struct {
	KeyValue []byte `json:"keyValue"`
}

func (*ContentKeyPolicySymmetricTokenKey) isContentKeyPolicyRestrictionTokenKey() {}

// MarshalJSON implements the json.Marshaller interface.
func (k *ContentKeyPolicySymmetricTokenKey) MarshalJSON() ([]byte, error) {
	type alias ContentKeyPolicySymmetricTokenKey
	return withODataType(odataSymmetricTokenKey, (*alias)(k))
}

// ContentKeyPolicyRsaTokenKey verifies tokens signed with an RSA key.
type ContentKeyPolicyRsaTokenKey struct {
	Exponent []byte `json:"exponent"`
	Modulus  []byte `json:"modulus"`
}

func (*ContentKeyPolicyRsaTokenKey) isContentKeyPolicyRestrictionTokenKey() {}

// MarshalJSON implements the json.Marshaller interface.
func (k *ContentKeyPolicyRsaTokenKey) MarshalJSON() ([]byte, error) {
	type alias ContentKeyPolicyRsaTokenKey
	return withODataType(odataRsaTokenKey, (*alias)(k))
}

// ContentKeyPolicyX509CertificateTokenKey verifies tokens signed with a certificate.
type ContentKeyPolicyX509CertificateTokenKey struct {
	// RawBody is the DER encoded certificate.
	RawBody []byte `json:"rawBody"`
}

func (*ContentKeyPolicyX509CertificateTokenKey) isContentKeyPolicyRestrictionTokenKey() {}

// MarshalJSON implements the json.Marshaller interface.
func (k *ContentKeyPolicyX509CertificateTokenKey) MarshalJSON() ([]byte, error) {
	type alias ContentKeyPolicyX509CertificateTokenKey
	return withODataType(odataX509CertificateTokenKey, (*alias)(k))
}

// UnmarshalJSON implements the json.Unmarshaller interface.
func (o *ContentKeyPolicyOption) UnmarshalJSON(data []byte) error {
	type alias ContentKeyPolicyOption

	aux := struct {
		*alias
		Configuration json.RawMessage `json:"configuration"`
		Restriction   json.RawMessage `json:"restriction"`
	}{alias: (*alias)(o)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err //nolint:wrapcheck
	}

	cfg, err := unmarshalConfiguration(aux.Configuration)
	if err != nil {
		return fmt.Errorf("ContentKeyPolicyOption.configuration: %w", err)
	}

	r, err := unmarshalRestriction(aux.Restriction)
	if err != nil {
		return fmt.Errorf("ContentKeyPolicyOption.restriction: %w", err)
	}

	o.Configuration, o.Restriction = cfg, r

	return nil
}
