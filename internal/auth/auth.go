// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package auth

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Azure/azmgmt/internal/environment"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/cloud"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
)

// ErrNoCredentialSource is returned when the environment disables every supported credential flow.
var ErrNoCredentialSource = errors.New("no credential source is enabled")

// environmentToCloud maps environment names to their corresponding cloud configurations.
var environmentToCloud = map[string]cloud.Configuration{
	"public":       cloud.AzurePublic,
	"usgovernment": cloud.AzureGovernment,
	"china":        cloud.AzureChina,
}

// CloudConfiguration returns the cloud configuration for the supplied environment name.
// Unknown names resolve to the public cloud.
func CloudConfiguration(name string) cloud.Configuration {
	if cfg, ok := environmentToCloud[strings.ToLower(name)]; ok {
		return cfg
	}

	return cloud.AzurePublic
}

// settings is the environment derived input to NewToken.
type settings struct {
	cloud          cloud.Configuration
	tenantID       string
	clientID       string
	clientSecret   string
	certBase64     string
	certPath       string
	certPassword   string
	tokenFile      string
	useCLI         bool
	useMSI         bool
	useWorkloadIDs bool
}

// NewToken creates a new Entra token credential.
// It uses well-known ARM and Azure SDK environment variables to configure the token acquisition.
// Every enabled flow is added to a chain in the order: client secret, client certificate,
// workload identity, managed identity, Azure CLI.
func NewToken() (azcore.TokenCredential, error) {
	s := readSettings()

	creds, err := s.credentials()
	if err != nil {
		return nil, err
	}

	if len(creds) == 0 {
		return nil, fmt.Errorf("auth.NewToken: %w", ErrNoCredentialSource)
	}

	chain, err := azidentity.NewChainedTokenCredential(creds, nil)
	if err != nil {
		return nil, fmt.Errorf("auth.NewToken: creating credential chain: %w", err)
	}

	return chain, nil
}

func readSettings() settings {
	s := settings{
		cloud:  CloudConfiguration(environment.CloudName()),
		useCLI: true,
	}

	if cli := getFirstSetEnvVar("ARM_USE_CLI"); cli != "" {
		// only disable if we can definitively say we are not using the CLI
		if b, err := strconv.ParseBool(cli); err == nil {
			s.useCLI = b
		}
	}

	s.clientID = getFirstSetEnvVar("ARM_CLIENT_ID", "AZURE_CLIENT_ID")
	if s.clientID == "" {
		if p := getFirstSetEnvVar("ARM_CLIENT_ID_FILE_PATH"); p != "" {
			s.clientID = readFileTrimmed(p)
		}
	}

	s.clientSecret = getFirstSetEnvVar("ARM_CLIENT_SECRET", "AZURE_CLIENT_SECRET")
	if s.clientSecret == "" {
		if p := getFirstSetEnvVar("ARM_CLIENT_SECRET_FILE_PATH"); p != "" {
			s.clientSecret = readFileTrimmed(p)
		}
	}

	s.tenantID = getFirstSetEnvVar("ARM_TENANT_ID", "AZURE_TENANT_ID")
	s.certBase64 = getFirstSetEnvVar("ARM_CLIENT_CERTIFICATE")
	s.certPath = getFirstSetEnvVar("ARM_CLIENT_CERTIFICATE_PATH", "AZURE_CLIENT_CERTIFICATE_PATH")
	s.certPassword = getFirstSetEnvVar("ARM_CLIENT_CERTIFICATE_PASSWORD", "AZURE_CLIENT_CERTIFICATE_PASSWORD")
	s.tokenFile = getFirstSetEnvVar("ARM_OIDC_TOKEN_FILE_PATH", "AZURE_FEDERATED_TOKEN_FILE")

	s.useMSI = updateBoolValueAnyTrue(false, "ARM_USE_MSI")
	s.useWorkloadIDs = updateBoolValueAnyTrue(s.tokenFile != "", "ARM_USE_OIDC", "ARM_USE_AKS_WORKLOAD_IDENTITY")

	return s
}

func (s settings) credentials() ([]azcore.TokenCredential, error) {
	clientOpts := azcore.ClientOptions{Cloud: s.cloud}
	creds := make([]azcore.TokenCredential, 0, 5)

	if s.clientSecret != "" {
		c, err := azidentity.NewClientSecretCredential(s.tenantID, s.clientID, s.clientSecret,
			&azidentity.ClientSecretCredentialOptions{ClientOptions: clientOpts})
		if err != nil {
			return nil, fmt.Errorf("auth.NewToken: client secret credential: %w", err)
		}

		creds = append(creds, c)
	}

	if s.certBase64 != "" || s.certPath != "" {
		data, err := s.certificateBytes()
		if err != nil {
			return nil, err
		}

		certs, key, err := azidentity.ParseCertificates(data, []byte(s.certPassword))
		if err != nil {
			return nil, fmt.Errorf("auth.NewToken: parsing client certificate: %w", err)
		}

		c, err := azidentity.NewClientCertificateCredential(s.tenantID, s.clientID, certs, key,
			&azidentity.ClientCertificateCredentialOptions{ClientOptions: clientOpts})
		if err != nil {
			return nil, fmt.Errorf("auth.NewToken: client certificate credential: %w", err)
		}

		creds = append(creds, c)
	}

	if s.useWorkloadIDs && s.tokenFile != "" {
		c, err := azidentity.NewWorkloadIdentityCredential(&azidentity.WorkloadIdentityCredentialOptions{
			ClientOptions: clientOpts,
			ClientID:      s.clientID,
			TenantID:      s.tenantID,
			TokenFilePath: s.tokenFile,
		})
		if err != nil {
			return nil, fmt.Errorf("auth.NewToken: workload identity credential: %w", err)
		}

		creds = append(creds, c)
	}

	if s.useMSI {
		opts := &azidentity.ManagedIdentityCredentialOptions{ClientOptions: clientOpts}
		if s.clientID != "" {
			opts.ID = azidentity.ClientID(s.clientID)
		}

		c, err := azidentity.NewManagedIdentityCredential(opts)
		if err != nil {
			return nil, fmt.Errorf("auth.NewToken: managed identity credential: %w", err)
		}

		creds = append(creds, c)
	}

	if s.useCLI {
		c, err := azidentity.NewAzureCLICredential(&azidentity.AzureCLICredentialOptions{TenantID: s.tenantID})
		if err != nil {
			return nil, fmt.Errorf("auth.NewToken: azure cli credential: %w", err)
		}

		creds = append(creds, c)
	}

	return creds, nil
}

func (s settings) certificateBytes() ([]byte, error) {
	if s.certBase64 != "" {
		data, err := base64.StdEncoding.DecodeString(s.certBase64)
		if err != nil {
			return nil, fmt.Errorf("auth.NewToken: decoding ARM_CLIENT_CERTIFICATE: %w", err)
		}

		return data, nil
	}

	data, err := os.ReadFile(s.certPath)
	if err != nil {
		return nil, fmt.Errorf("auth.NewToken: reading client certificate: %w", err)
	}

	return data, nil
}

func readFileTrimmed(path string) string {
	b, err := os.ReadFile(path)
	if err != nil {
		return ""
	}

	return strings.TrimSpace(string(b))
}

func getFirstSetEnvVar(vars ...string) string {
	return environment.FirstSet(vars...)
}

func updateBoolValueAnyTrue(current bool, vars ...string) bool {
	return environment.AnyTrue(current, vars...)
}
