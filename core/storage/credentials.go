package storage

import (
	"net/http"

	"github.com/minio/minio-go/v7/pkg/credentials"
)

// credentialProviders returns the providers in resolution order:
// explicit keys, then AWS_* environment variables, then the shared
// credentials file and finally the instance profile.
func credentialProviders(cfg Config, transport http.RoundTripper) []credentials.Provider {
	var providers []credentials.Provider

	if cfg.HasExplicitCredentials() {
		providers = append(providers, &credentials.Static{
			Value: credentials.Value{
				AccessKeyID:     cfg.AccessKey,
				SecretAccessKey: cfg.SecretKey,
				SessionToken:    cfg.SessionToken,
				SignerType:      credentials.SignatureV4,
			},
		})
	}

	providers = append(providers,
		&credentials.EnvAWS{},
		&credentials.FileAWSCredentials{},
		&credentials.IAM{Client: &http.Client{Transport: transport}},
	)

	return providers
}

// NewCredentials builds the credential chain used by NewClient.
func NewCredentials(cfg Config, transport http.RoundTripper) *credentials.Credentials {
	return credentials.NewChainCredentials(credentialProviders(cfg, transport))
}
