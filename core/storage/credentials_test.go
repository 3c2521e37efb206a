package storage

import (
	"net/http"
	"testing"

	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialProviders(t *testing.T) {
	t.Run("ExplicitFirst", func(t *testing.T) {
		providers := credentialProviders(Config{AccessKey: "a", SecretKey: "s"}, http.DefaultTransport)
		require.Len(t, providers, 4)
		assert.IsType(t, &credentials.Static{}, providers[0])
		assert.IsType(t, &credentials.EnvAWS{}, providers[1])
	})

	t.Run("HalfPairIgnored", func(t *testing.T) {
		providers := credentialProviders(Config{AccessKey: "a"}, http.DefaultTransport)
		require.Len(t, providers, 3)
		assert.IsType(t, &credentials.EnvAWS{}, providers[0])
		assert.IsType(t, &credentials.FileAWSCredentials{}, providers[1])
		assert.IsType(t, &credentials.IAM{}, providers[2])
	})
}

func TestNewCredentials(t *testing.T) {
	t.Run("ExplicitBeatsEnvironment", func(t *testing.T) {
		t.Setenv("AWS_ACCESS_KEY_ID", "env-key")
		t.Setenv("AWS_SECRET_ACCESS_KEY", "env-secret")

		creds := NewCredentials(Config{AccessKey: "explicit-key", SecretKey: "explicit-secret"}, http.DefaultTransport)
		v, err := creds.Get()
		require.NoError(t, err)
		assert.Equal(t, "explicit-key", v.AccessKeyID)
		assert.Equal(t, "explicit-secret", v.SecretAccessKey)
	})

	t.Run("EnvironmentWhenNoExplicit", func(t *testing.T) {
		t.Setenv("AWS_ACCESS_KEY_ID", "env-key")
		t.Setenv("AWS_SECRET_ACCESS_KEY", "env-secret")
		t.Setenv("AWS_SESSION_TOKEN", "env-token")

		creds := NewCredentials(Config{}, http.DefaultTransport)
		v, err := creds.Get()
		require.NoError(t, err)
		assert.Equal(t, "env-key", v.AccessKeyID)
		assert.Equal(t, "env-secret", v.SecretAccessKey)
		assert.Equal(t, "env-token", v.SessionToken)
	})
}

func TestConfig_HasExplicitCredentials(t *testing.T) {
	assert.True(t, Config{AccessKey: "a", SecretKey: "b"}.HasExplicitCredentials())
	assert.False(t, Config{AccessKey: "a"}.HasExplicitCredentials())
	assert.False(t, Config{SecretKey: "b"}.HasExplicitCredentials())
	assert.False(t, Config{}.HasExplicitCredentials())
}
