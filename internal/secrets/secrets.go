// Package secrets resolves the Shopify admin access token.
package secrets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// ErrNoValue is returned when a secret holds neither a string nor a binary payload.
var ErrNoValue = errors.New("secret has no value; store the admin token in Secrets Manager")

// TokenSource yields a plaintext admin access token.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// SecretsManagerAPI is the subset of the Secrets Manager client used here.
type SecretsManagerAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// SecretsManager reads the token from one AWS Secrets Manager secret.
type SecretsManager struct {
	API      SecretsManagerAPI
	SecretID string
}

// NewSecretsManager builds a SecretsManager using the default AWS credential chain.
func NewSecretsManager(ctx context.Context, secretID string) (*SecretsManager, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}
	return &SecretsManager{API: secretsmanager.NewFromConfig(awsCfg), SecretID: secretID}, nil
}

// adminTokenKey is the field read when the secret string is a JSON object.
const adminTokenKey = "SHOPIFY_ADMIN_TOKEN"

// Token fetches the secret. A JSON secret string with a SHOPIFY_ADMIN_TOKEN
// field yields that field; any other string is the token itself.
func (s *SecretsManager) Token(ctx context.Context) (string, error) {
	out, err := s.API.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(s.SecretID),
	})
	if err != nil {
		return "", fmt.Errorf("get secret %s: %w", s.SecretID, err)
	}
	if out.SecretString != nil {
		return tokenFromString(*out.SecretString), nil
	}
	if len(out.SecretBinary) > 0 {
		return string(out.SecretBinary), nil
	}
	return "", ErrNoValue
}

func tokenFromString(raw string) string {
	var fields map[string]any
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return raw
	}
	if tok, ok := fields[adminTokenKey].(string); ok && tok != "" {
		return tok
	}
	return raw
}

// Static always returns the same token.
type Static string

// Token implements TokenSource.
func (s Static) Token(context.Context) (string, error) {
	if s == "" {
		return "", ErrNoValue
	}
	return string(s), nil
}
