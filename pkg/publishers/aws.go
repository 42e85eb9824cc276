package publishers

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

// AWSCredentials optionally pins static keys. When empty the default chain is used.
type AWSCredentials struct {
	AccessKeyID     string `json:"access_key_id" yaml:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key" yaml:"secret_access_key"`
	SessionToken    string `json:"session_token" yaml:"session_token"`
}

func (c AWSCredentials) configured() bool {
	return c.AccessKeyID != "" && c.SecretAccessKey != ""
}

func loadAWSConfig(ctx context.Context, region string, creds AWSCredentials) (aws.Config, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	opts := []func(*awscfg.LoadOptions) error{awscfg.WithRegion(region)}
	if creds.configured() {
		opts = append(opts, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(creds.AccessKeyID, creds.SecretAccessKey, creds.SessionToken),
		))
	}
	return awscfg.LoadDefaultConfig(ctx, opts...)
}

func stringAttributes[V any](attrs map[string]string, build func(string) V) map[string]V {
	out := make(map[string]V, len(attrs))
	for k, v := range attrs {
		if v == "" {
			continue
		}
		out[k] = build(v)
	}
	return out
}
