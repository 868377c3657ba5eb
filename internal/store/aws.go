package store

import (
	"context"
	"errors"
	"fmt"

	kerrors "github.com/PolarWolf314/tc-secrets/internal/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	smtypes "github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/aws/smithy-go"
)

// Defaults for the shared config profile the CLI authenticates with.
const (
	DefaultProfile = "tc-secrets-cli-profile"
	DefaultRegion  = "us-east-1"
)

// SecretsManagerClient abstracts the Secrets Manager client for testing.
type SecretsManagerClient interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
	PutSecretValue(ctx context.Context, params *secretsmanager.PutSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.PutSecretValueOutput, error)
	ListSecrets(ctx context.Context, params *secretsmanager.ListSecretsInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.ListSecretsOutput, error)
}

// STSClient abstracts the STS client for testing.
type STSClient interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// AWSConfig holds the AWS settings.
type AWSConfig struct {
	Profile string
	Region  string
}

// AWSOption customizes an AWS store.
type AWSOption func(*AWS)

// WithSecretsManagerClient injects a custom Secrets Manager client.
func WithSecretsManagerClient(c SecretsManagerClient) AWSOption {
	return func(a *AWS) {
		if c != nil {
			a.secrets = c
		}
	}
}

// WithSTSClient injects a custom STS client.
func WithSTSClient(c STSClient) AWSOption {
	return func(a *AWS) {
		if c != nil {
			a.sts = c
		}
	}
}

// AWS is a Store backed by AWS Secrets Manager.
type AWS struct {
	cfg     AWSConfig
	secrets SecretsManagerClient
	sts     STSClient
}

// NewAWS constructs the Secrets Manager store. Clients are created lazily on
// first use from the shared config profile.
func NewAWS(cfg AWSConfig, opts ...AWSOption) *AWS {
	if cfg.Profile == "" {
		cfg.Profile = DefaultProfile
	}
	if cfg.Region == "" {
		cfg.Region = DefaultRegion
	}

	a := &AWS{cfg: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	return a
}

// Profile returns the shared config profile the store authenticates with.
func (a *AWS) Profile() string { return a.cfg.Profile }

// Region returns the configured region.
func (a *AWS) Region() string { return a.cfg.Region }

func (a *AWS) ensureClients(ctx context.Context) error {
	if a.secrets != nil && a.sts != nil {
		return nil
	}

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(a.cfg.Region),
		config.WithSharedConfigProfile(a.cfg.Profile),
	)
	if err != nil {
		return fmt.Errorf("%w: loading AWS profile %s: %v", kerrors.ErrStoreAuth, a.cfg.Profile, err)
	}

	if a.secrets == nil {
		a.secrets = secretsmanager.NewFromConfig(cfg)
	}
	if a.sts == nil {
		a.sts = sts.NewFromConfig(cfg)
	}
	return nil
}

// Fetch returns the SecretString of the current version of id.
func (a *AWS) Fetch(ctx context.Context, id string) (string, error) {
	if err := a.ensureClients(ctx); err != nil {
		return "", err
	}

	resp, err := a.secrets.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(id),
	})
	if err != nil {
		return "", classify(err, "get secret %s", id)
	}

	if resp.SecretString == nil {
		return "", fmt.Errorf("%w: cannot load secret value content for %s", kerrors.ErrStoreOperation, id)
	}

	return *resp.SecretString, nil
}

// Put stores payload as the new current version of id.
func (a *AWS) Put(ctx context.Context, id, payload string) error {
	if err := a.ensureClients(ctx); err != nil {
		return err
	}

	_, err := a.secrets.PutSecretValue(ctx, &secretsmanager.PutSecretValueInput{
		SecretId:     aws.String(id),
		SecretString: aws.String(payload),
	})
	if err != nil {
		return classify(err, "put secret %s", id)
	}

	return nil
}

// List returns the names of every secret, following pagination.
func (a *AWS) List(ctx context.Context) ([]string, error) {
	if err := a.ensureClients(ctx); err != nil {
		return nil, err
	}

	var names []string
	paginator := secretsmanager.NewListSecretsPaginator(a.secrets, &secretsmanager.ListSecretsInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, classify(err, "list secrets")
		}
		for _, s := range page.SecretList {
			if s.Name != nil {
				names = append(names, *s.Name)
			}
		}
	}

	return names, nil
}

// Identity asks STS who the configured credentials belong to.
func (a *AWS) Identity(ctx context.Context) (*Identity, error) {
	if err := a.ensureClients(ctx); err != nil {
		return nil, err
	}

	resp, err := a.sts.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrStoreAuth, err)
	}

	return &Identity{
		Account: aws.ToString(resp.Account),
		UserID:  aws.ToString(resp.UserId),
		ARN:     aws.ToString(resp.Arn),
	}, nil
}

var authErrorCodes = map[string]bool{
	"UnrecognizedClientException": true,
	"InvalidClientTokenId":        true,
	"ExpiredTokenException":       true,
	"AccessDeniedException":       true,
	"InvalidSignatureException":   true,
}

// classify maps an SDK error onto the store error taxonomy.
func classify(err error, format string, args ...any) error {
	op := fmt.Sprintf(format, args...)

	var notFound *smtypes.ResourceNotFoundException
	if errors.As(err, &notFound) {
		return fmt.Errorf("%w: %w: %s: %v", kerrors.ErrStoreOperation, kerrors.ErrSecretNotFound, op, err)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && authErrorCodes[apiErr.ErrorCode()] {
		return fmt.Errorf("%w: %s: %v", kerrors.ErrStoreAuth, op, err)
	}

	return fmt.Errorf("%w: %s: %v", kerrors.ErrStoreOperation, op, err)
}
