// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

/*
Package auth creates an azcore.TokenCredential from well-known ARM and Azure SDK
environment variables.

Usage

	cred, err := auth.NewToken()
	if err != nil {
	    // handle error
	}

# Environment variables

  - AZMGMT_CLOUD, ARM_ENVIRONMENT, AZURE_ENVIRONMENT (public, usgovernment, china)
  - ARM_CLIENT_ID, AZURE_CLIENT_ID, ARM_CLIENT_ID_FILE_PATH
  - ARM_CLIENT_SECRET, AZURE_CLIENT_SECRET, ARM_CLIENT_SECRET_FILE_PATH
  - ARM_TENANT_ID, AZURE_TENANT_ID
  - ARM_CLIENT_CERTIFICATE (base64), ARM_CLIENT_CERTIFICATE_PATH, ARM_CLIENT_CERTIFICATE_PASSWORD
  - ARM_OIDC_TOKEN_FILE_PATH, AZURE_FEDERATED_TOKEN_FILE
  - ARM_USE_CLI, ARM_USE_MSI, ARM_USE_OIDC, ARM_USE_AKS_WORKLOAD_IDENTITY

The Azure CLI flow is enabled unless ARM_USE_CLI parses as false.
*/
package auth
