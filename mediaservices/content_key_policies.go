// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package mediaservices

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Azure/azmgmt/core"
	"github.com/Azure/azmgmt/internal/checker"
	"github.com/Azure/azmgmt/internal/logging"
	"github.com/Azure/azmgmt/internal/rest"
	"github.com/Azure/azmgmt/to"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	mapset "github.com/deckarep/golang-set/v2"
	"go.uber.org/zap"
)

const (
	contentKeyPoliciesPath = accountPath + "/contentKeyPolicies"
	contentKeyPolicyPath   = contentKeyPoliciesPath + "/{contentKeyPolicyName}"
)

// Output protection levels accepted by the PlayReady play right.
var (
	compressedDigitalAudioOpls   = mapset.NewSet[int32](100, 150, 200, 250, 300)
	uncompressedDigitalAudioOpls = mapset.NewSet[int32](100, 150, 200, 250, 300)
	compressedDigitalVideoOpls   = mapset.NewSet[int32](400, 500)
	uncompressedDigitalVideoOpls = mapset.NewSet[int32](100, 250, 270, 300)
	analogVideoOpls              = mapset.NewSet[int32](100, 150, 200)
)

// ContentKeyPolicyDefinition describes a content key policy.
type ContentKeyPolicyDefinition struct {
	Description string
	Options     []*ContentKeyPolicyOption
}

// AddOption appends an option delivering keys with configuration to clients passing restriction.
func (d *ContentKeyPolicyDefinition) AddOption(name string, configuration ContentKeyPolicyConfiguration, restriction ContentKeyPolicyRestriction) *ContentKeyPolicyDefinition {
	d.Options = append(d.Options, &ContentKeyPolicyOption{
		Name:          to.Ptr(name),
		Configuration: configuration,
		Restriction:   restriction,
	})

	return d
}

// Validate checks every option of the definition.
func (d *ContentKeyPolicyDefinition) Validate() error {
	checks := []checker.ValidatorCheck{
		checker.NewValidatorCheck("options", func() error {
			if len(d.Options) == 0 {
				return core.NewErrPropertyMustNotBeNil("options")
			}
			return nil
		}),
	}

	for i, o := range d.Options {
		checks = append(checks, checker.NewValidatorCheck(fmt.Sprintf("options[%d]", i), func() error {
			return validateOption(o)
		}))
	}

	return checker.NewValidator(checks...).Validate()
}

func validateOption(o *ContentKeyPolicyOption) error {
	if o == nil || o.Configuration == nil {
		return core.NewErrPropertyMustNotBeNil("configuration")
	}

	if o.Restriction == nil {
		return core.NewErrPropertyMustNotBeNil("restriction")
	}

	switch c := o.Configuration.(type) {
	case *ContentKeyPolicyWidevineConfiguration:
		if c.WidevineTemplate == "" {
			return core.NewErrPropertyMustNotBeNil("configuration.widevineTemplate")
		}
	case *ContentKeyPolicyPlayReadyConfiguration:
		if len(c.Licenses) == 0 {
			return core.NewErrPropertyMustNotBeNil("configuration.licenses")
		}

		for i, l := range c.Licenses {
			if err := validatePlayReadyLicense(l); err != nil {
				return fmt.Errorf("configuration.licenses[%d]: %w", i, err)
			}
		}
	}

	if r, ok := o.Restriction.(*ContentKeyPolicyTokenRestriction); ok {
		return validateTokenRestriction(r)
	}

	return nil
}

func validatePlayReadyLicense(l *ContentKeyPolicyPlayReadyLicense) error {
	if l == nil {
		return core.NewErrPropertyMustNotBeNil("license")
	}

	switch l.LicenseType {
	case ContentKeyPolicyPlayReadyLicenseTypeNonPersistent, ContentKeyPolicyPlayReadyLicenseTypePersistent:
	case "":
		return core.NewErrPropertyMustNotBeNil("licenseType")
	default:
		return core.NewErrPropertyInvalid("licenseType", string(l.LicenseType))
	}

	if l.ContentKeyLocation == nil {
		return core.NewErrPropertyMustNotBeNil("contentKeyLocation")
	}

	if l.ContentType == "" {
		return core.NewErrPropertyMustNotBeNil("contentType")
	}

	if l.PlayRight != nil {
		if err := l.PlayRight.Validate(); err != nil {
			return fmt.Errorf("playRight: %w", err)
		}
	}

	return nil
}

// Validate checks the restriction values and output protection levels of the play right.
func (r *ContentKeyPolicyPlayReadyPlayRight) Validate() error {
	valid := false

	for _, v := range PossibleContentKeyPolicyPlayReadyUnknownOutputPassingOptionValues() {
		if r.AllowPassingVideoContentToUnknownOutput == v {
			valid = true
		}
	}

	if !valid {
		return core.NewErrPropertyInvalid("allowPassingVideoContentToUnknownOutput", string(r.AllowPassingVideoContentToUnknownOutput))
	}

	if err := checkControlBits("scmsRestriction", r.ScmsRestriction); err != nil {
		return err
	}

	if err := checkControlBits("agcAndColorStripeRestriction", r.AgcAndColorStripeRestriction); err != nil {
		return err
	}

	if r.ExplicitAnalogTelevisionOutputRestriction != nil {
		bits := r.ExplicitAnalogTelevisionOutputRestriction.ControlBits
		if err := checkControlBits("explicitAnalogTelevisionOutputRestriction.configurationData", &bits); err != nil {
			return err
		}
	}

	opls := []struct {
		name    string
		value   *int32
		allowed mapset.Set[int32]
	}{
		{"compressedDigitalAudioOpl", r.CompressedDigitalAudioOpl, compressedDigitalAudioOpls},
		{"uncompressedDigitalAudioOpl", r.UncompressedDigitalAudioOpl, uncompressedDigitalAudioOpls},
		{"compressedDigitalVideoOpl", r.CompressedDigitalVideoOpl, compressedDigitalVideoOpls},
		{"uncompressedDigitalVideoOpl", r.UncompressedDigitalVideoOpl, uncompressedDigitalVideoOpls},
		{"analogVideoOpl", r.AnalogVideoOpl, analogVideoOpls},
	}

	for _, opl := range opls {
		if opl.value != nil && !opl.allowed.Contains(*opl.value) {
			return core.NewErrPropertyInvalid(opl.name, fmt.Sprintf("%d is not one of %v", *opl.value, mapset.Sorted(opl.allowed)))
		}
	}

	return nil
}

func checkControlBits(name string, v *int32) error {
	if v != nil && (*v < 0 || *v > 3) {
		return core.NewErrPropertyOutOfRange(name, 0, 3, float64(*v))
	}

	return nil
}

func validateTokenRestriction(r *ContentKeyPolicyTokenRestriction) error {
	if r.Issuer == "" {
		return core.NewErrPropertyMustNotBeNil("restriction.issuer")
	}

	if r.Audience == "" {
		return core.NewErrPropertyMustNotBeNil("restriction.audience")
	}

	if r.PrimaryVerificationKey == nil && to.ValOrZero(r.OpenIDConnectDiscoveryDocument) == "" {
		return core.NewErrPropertyMustNotBeNil("restriction.primaryVerificationKey")
	}

	switch r.RestrictionTokenType {
	case ContentKeyPolicyRestrictionTokenTypeJwt, ContentKeyPolicyRestrictionTokenTypeSwt:
	case "":
		return core.NewErrPropertyMustNotBeNil("restriction.restrictionTokenType")
	default:
		return core.NewErrPropertyInvalid("restriction.restrictionTokenType", string(r.RestrictionTokenType))
	}

	return nil
}

// ContentKeyPolicies manages the content key policies of Media Services accounts.
type ContentKeyPolicies struct {
	m *Manager
}

func contentKeyPolicyParams(resourceGroup, account, name string) rest.P {
	return rest.P{"resourceGroupName": resourceGroup, "accountName": account, "contentKeyPolicyName": name}
}

// CreateOrUpdate creates or replaces the content key policy name of account.
func (c *ContentKeyPolicies) CreateOrUpdate(ctx context.Context, resourceGroup, account, name string, def *ContentKeyPolicyDefinition) (*ContentKeyPolicy, error) {
	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("ContentKeyPolicies.CreateOrUpdate: invalid definition: %w", err)
	}

	props := &ContentKeyPolicyProperties{Options: def.Options}
	if def.Description != "" {
		props.Description = to.Ptr(def.Description)
	}

	res, err := rest.Do[ContentKeyPolicy](ctx, c.m.client, rest.Call{
		Method: http.MethodPut,
		Path:   contentKeyPolicyPath,
		Params: contentKeyPolicyParams(resourceGroup, account, name),
		Body:   ContentKeyPolicy{Properties: props},
		Accept: []int{http.StatusOK, http.StatusCreated},
	})
	if err != nil {
		return nil, fmt.Errorf("ContentKeyPolicies.CreateOrUpdate: %w", err)
	}

	c.m.logger.Info("content key policy saved",
		zap.String(logging.FieldResourceGroup, resourceGroup),
		zap.String(logging.FieldResource, name),
	)

	return &res, nil
}

// Get returns the content key policy name of account. Secrets such as token keys come back empty.
func (c *ContentKeyPolicies) Get(ctx context.Context, resourceGroup, account, name string) (*ContentKeyPolicy, error) {
	res, err := rest.Do[ContentKeyPolicy](ctx, c.m.client, rest.Call{
		Method: http.MethodGet,
		Path:   contentKeyPolicyPath,
		Params: contentKeyPolicyParams(resourceGroup, account, name),
	})
	if err != nil {
		return nil, fmt.Errorf("ContentKeyPolicies.Get: %w", err)
	}

	return &res, nil
}

// GetWithSecrets returns the properties of the policy including its secret values.
func (c *ContentKeyPolicies) GetWithSecrets(ctx context.Context, resourceGroup, account, name string) (*ContentKeyPolicyProperties, error) {
	res, err := rest.Do[ContentKeyPolicyProperties](ctx, c.m.client, rest.Call{
		Method: http.MethodPost,
		Path:   contentKeyPolicyPath + "/getPolicyPropertiesWithSecrets",
		Params: contentKeyPolicyParams(resourceGroup, account, name),
	})
	if err != nil {
		return nil, fmt.Errorf("ContentKeyPolicies.GetWithSecrets: %w", err)
	}

	return &res, nil
}

// NewListPager lists the content key policies of account.
func (c *ContentKeyPolicies) NewListPager(resourceGroup, account string, opts *ListOptions) *runtime.Pager[rest.Page[ContentKeyPolicy]] {
	return rest.NewPager[ContentKeyPolicy](c.m.client, rest.Call{
		Path:   contentKeyPoliciesPath,
		Params: rest.P{"resourceGroupName": resourceGroup, "accountName": account},
		Query:  opts.query(),
	})
}

// List returns the content key policies of account matching opts.
func (c *ContentKeyPolicies) List(ctx context.Context, resourceGroup, account string, opts *ListOptions) ([]*ContentKeyPolicy, error) {
	res, err := core.ListAll(ctx, c.NewListPager(resourceGroup, account, opts), rest.Page[ContentKeyPolicy].Items)
	if err != nil {
		return nil, fmt.Errorf("ContentKeyPolicies.List: %w", err)
	}

	return res, nil
}

// Delete deletes the content key policy.
func (c *ContentKeyPolicies) Delete(ctx context.Context, resourceGroup, account, name string) error {
	err := rest.DoNoContent(ctx, c.m.client, rest.Call{
		Method: http.MethodDelete,
		Path:   contentKeyPolicyPath,
		Params: contentKeyPolicyParams(resourceGroup, account, name),
		Accept: []int{http.StatusOK, http.StatusNoContent},
	})
	if err != nil {
		return fmt.Errorf("ContentKeyPolicies.Delete: %w", err)
	}

	return nil
}
