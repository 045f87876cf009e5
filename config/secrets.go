package config

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// ParameterGetter is the slice of the SSM client used to resolve secrets.
type ParameterGetter interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// NeedsSecrets reports whether any secret must be fetched from SSM.
func (c *Config) NeedsSecrets() bool {
	return (c.AI.APIKey == "" && c.AI.APIKeySSMParam != "") ||
		(c.Auth.JWTSecret == "" && c.Auth.JWTSecretSSMParam != "")
}

// NewSSMClient builds an SSM client from the default AWS credential chain.
func NewSSMClient(ctx context.Context, region string) (*ssm.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return ssm.NewFromConfig(awsCfg), nil
}

// ResolveSecrets fills secrets that are configured as SSM parameter names
// rather than plain values. Values already set are left alone.
func ResolveSecrets(ctx context.Context, cfg *Config, client ParameterGetter) error {
	if cfg.AI.APIKey == "" && cfg.AI.APIKeySSMParam != "" {
		value, err := getParameter(ctx, client, cfg.AI.APIKeySSMParam)
		if err != nil {
			return err
		}
		cfg.AI.APIKey = value
	}
	if cfg.Auth.JWTSecret == "" && cfg.Auth.JWTSecretSSMParam != "" {
		value, err := getParameter(ctx, client, cfg.Auth.JWTSecretSSMParam)
		if err != nil {
			return err
		}
		cfg.Auth.JWTSecret = value
	}
	return nil
}

func getParameter(ctx context.Context, client ParameterGetter, name string) (string, error) {
	out, err := client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("get ssm parameter %s: %w", name, err)
	}
	if out.Parameter == nil || aws.ToString(out.Parameter.Value) == "" {
		return "", fmt.Errorf("ssm parameter %s is empty", name)
	}
	return aws.ToString(out.Parameter.Value), nil
}
