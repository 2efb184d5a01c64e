// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package environment contains the types and methods for fetching configuration from the local environment.
package environment

import (
	"os"
	"strconv"
)

const (
	defaultBaseDir     = ".azmgmt"    // defaultBaseDir is the default working directory for fetched templates and exports.
	defaultBaseDirEnv  = "AZMGMT_DIR" // defaultBaseDirEnv is the environment variable to override the default base directory.
	defaultCloud       = "public"
	defaultParallelism = 10
	parallelismEnv     = "AZMGMT_PARALLELISM"
)

// AzMgmtDir contents of the `AZMGMT_DIR` environment variable, or the default which is `.azmgmt`.
func AzMgmtDir() string {
	dir := defaultBaseDir
	if d := os.Getenv(defaultBaseDirEnv); d != "" {
		dir = d
	}

	return dir
}

// CloudName returns the configured cloud name, one of public, usgovernment or china.
func CloudName() string {
	if c := FirstSet("AZMGMT_CLOUD", "ARM_ENVIRONMENT", "AZURE_ENVIRONMENT"); c != "" {
		return c
	}

	return defaultCloud
}

// SubscriptionID returns the subscription configured in the environment, if any.
func SubscriptionID() string {
	return FirstSet("AZMGMT_SUBSCRIPTION_ID", "ARM_SUBSCRIPTION_ID", "AZURE_SUBSCRIPTION_ID")
}

// Parallelism returns the number of concurrent ARM requests used by fan-out operations.
// Invalid or non-positive values fall back to the default.
func Parallelism() int {
	v := os.Getenv(parallelismEnv)
	if v == "" {
		return defaultParallelism
	}

	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return defaultParallelism
	}

	return n
}

// FirstSet returns the value of the first environment variable that is set to a non-empty value.
func FirstSet(vars ...string) string {
	for _, v := range vars {
		if val := os.Getenv(v); val != "" {
			return val
		}
	}

	return ""
}

// AnyTrue reports whether current is true or any of the environment variables parse as true.
func AnyTrue(current bool, vars ...string) bool {
	if current {
		return true
	}

	for _, v := range vars {
		if val := os.Getenv(v); val != "" {
			if b, _ := strconv.ParseBool(val); b {
				return true
			}
		}
	}

	return false
}
