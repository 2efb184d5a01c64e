// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package logging

import (
	"testing"

	azlog "github.com/Azure/azure-sdk-for-go/sdk/azcore/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger(t *testing.T) {
	t.Parallel()

	t.Run("valid json config", func(t *testing.T) {
		t.Parallel()

		l, err := NewLogger(Config{Level: "debug", Format: FormatJSON})
		require.NoError(t, err)
		assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("default config drops info", func(t *testing.T) {
		t.Parallel()

		l, err := NewLogger(DefaultConfig())
		require.NoError(t, err)
		assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
		assert.True(t, l.Core().Enabled(zapcore.WarnLevel))
	})

	t.Run("invalid level", func(t *testing.T) {
		t.Parallel()

		_, err := NewLogger(Config{Level: "loud"})
		assert.Error(t, err)
	})
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	lvl, err := ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, zapcore.InfoLevel, lvl)

	lvl, err = ParseLevel("ERROR")
	require.NoError(t, err)
	assert.Equal(t, zapcore.ErrorLevel, lvl)
}

func TestOrNop(t *testing.T) {
	t.Parallel()

	assert.NotNil(t, OrNop(nil))

	l := zap.NewExample()
	assert.Same(t, l, OrNop(l))
}

func TestAzureSDKListener(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)

	listen := azureSDKListener(zap.New(core))
	listen(azlog.EventRetryPolicy, "retrying request")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "retrying request", entry.Message)
	assert.Equal(t, "azure-sdk", entry.LoggerName)
	assert.Equal(t, string(azlog.EventRetryPolicy), entry.ContextMap()[FieldAzureEvent])
}
