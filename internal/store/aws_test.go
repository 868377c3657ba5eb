package store

import (
	"context"
	"errors"
	"testing"

	kerrors "github.com/PolarWolf314/tc-secrets/internal/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	smtypes "github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/aws/smithy-go"
)

type fakeSecretsManager struct {
	values map[string]*string
	pages  map[string]*secretsmanager.ListSecretsOutput
	err    error

	puts map[string]string
}

func (f *fakeSecretsManager) GetSecretValue(_ context.Context, in *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	value, ok := f.values[aws.ToString(in.SecretId)]
	if !ok {
		return nil, &smtypes.ResourceNotFoundException{Message: aws.String("Secrets Manager can't find the specified secret.")}
	}
	return &secretsmanager.GetSecretValueOutput{Name: in.SecretId, SecretString: value}, nil
}

func (f *fakeSecretsManager) PutSecretValue(_ context.Context, in *secretsmanager.PutSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.PutSecretValueOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.puts == nil {
		f.puts = make(map[string]string)
	}
	f.puts[aws.ToString(in.SecretId)] = aws.ToString(in.SecretString)
	return &secretsmanager.PutSecretValueOutput{Name: in.SecretId}, nil
}

func (f *fakeSecretsManager) ListSecrets(_ context.Context, in *secretsmanager.ListSecretsInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.ListSecretsOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	page, ok := f.pages[aws.ToString(in.NextToken)]
	if !ok {
		return &secretsmanager.ListSecretsOutput{}, nil
	}
	return page, nil
}

type fakeSTS struct {
	out *sts.GetCallerIdentityOutput
	err error
}

func (f *fakeSTS) GetCallerIdentity(context.Context, *sts.GetCallerIdentityInput, ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error) {
	return f.out, f.err
}

func newTestAWS(sm *fakeSecretsManager, st *fakeSTS) *AWS {
	if st == nil {
		st = &fakeSTS{}
	}
	return NewAWS(AWSConfig{}, WithSecretsManagerClient(sm), WithSTSClient(st))
}

func TestNewAWS_Defaults(t *testing.T) {
	a := NewAWS(AWSConfig{})
	if a.Profile() != DefaultProfile || a.Region() != DefaultRegion {
		t.Errorf("Expected defaults %s/%s, got %s/%s", DefaultProfile, DefaultRegion, a.Profile(), a.Region())
	}

	a = NewAWS(AWSConfig{Profile: "work", Region: "eu-west-1"})
	if a.Profile() != "work" || a.Region() != "eu-west-1" {
		t.Errorf("Explicit settings not kept: %s/%s", a.Profile(), a.Region())
	}
}

func TestAWS_Fetch(t *testing.T) {
	sm := &fakeSecretsManager{values: map[string]*string{
		"app":    aws.String(`{"dev":"x"}`),
		"binary": nil,
	}}
	a := newTestAWS(sm, nil)

	payload, err := a.Fetch(context.Background(), "app")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if payload != `{"dev":"x"}` {
		t.Errorf("Fetch() = %q", payload)
	}

	_, err = a.Fetch(context.Background(), "missing")
	if !errors.Is(err, kerrors.ErrSecretNotFound) || !errors.Is(err, kerrors.ErrStoreOperation) {
		t.Errorf("Expected not-found store error, got %v", err)
	}

	_, err = a.Fetch(context.Background(), "binary")
	if !errors.Is(err, kerrors.ErrStoreOperation) {
		t.Errorf("Expected ErrStoreOperation for a secret without string value, got %v", err)
	}
}

func TestAWS_Put(t *testing.T) {
	sm := &fakeSecretsManager{}
	a := newTestAWS(sm, nil)

	if err := a.Put(context.Background(), "app", `{"dev":"y"}`); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if sm.puts["app"] != `{"dev":"y"}` {
		t.Errorf("Unexpected stored payload %q", sm.puts["app"])
	}
}

func TestAWS_ListFollowsPagination(t *testing.T) {
	sm := &fakeSecretsManager{pages: map[string]*secretsmanager.ListSecretsOutput{
		"": {
			SecretList: []smtypes.SecretListEntry{{Name: aws.String("a")}, {Name: aws.String("b")}},
			NextToken:  aws.String("page2"),
		},
		"page2": {
			SecretList: []smtypes.SecretListEntry{{Name: aws.String("c")}, {}},
		},
	}}
	a := newTestAWS(sm, nil)

	names, err := a.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(names) != 3 || names[0] != "a" || names[2] != "c" {
		t.Errorf("List() = %v", names)
	}
}

func TestAWS_Identity(t *testing.T) {
	st := &fakeSTS{out: &sts.GetCallerIdentityOutput{
		Account: aws.String("123456789012"),
		UserId:  aws.String("AIDAEXAMPLE"),
		Arn:     aws.String("arn:aws:iam::123456789012:user/alice"),
	}}
	a := newTestAWS(&fakeSecretsManager{}, st)

	identity, err := a.Identity(context.Background())
	if err != nil {
		t.Fatalf("Identity failed: %v", err)
	}
	if identity.Account != "123456789012" || identity.ARN != "arn:aws:iam::123456789012:user/alice" {
		t.Errorf("Unexpected identity %+v", identity)
	}

	a = newTestAWS(&fakeSecretsManager{}, &fakeSTS{err: errors.New("expired")})
	if _, err := a.Identity(context.Background()); !errors.Is(err, kerrors.ErrStoreAuth) {
		t.Errorf("Expected ErrStoreAuth, got %v", err)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want []error
	}{
		{"not found", &smtypes.ResourceNotFoundException{Message: aws.String("gone")}, []error{kerrors.ErrStoreOperation, kerrors.ErrSecretNotFound}},
		{"expired token", &smithy.GenericAPIError{Code: "ExpiredTokenException", Message: "expired"}, []error{kerrors.ErrStoreAuth}},
		{"access denied", &smithy.GenericAPIError{Code: "AccessDeniedException", Message: "no"}, []error{kerrors.ErrStoreAuth}},
		{"throttled", &smithy.GenericAPIError{Code: "ThrottlingException", Message: "slow down"}, []error{kerrors.ErrStoreOperation}},
		{"network", errors.New("dial tcp: timeout"), []error{kerrors.ErrStoreOperation}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classify(tt.err, "get secret %s", "app")
			for _, want := range tt.want {
				if !errors.Is(err, want) {
					t.Errorf("Expected %v in %v", want, err)
				}
			}
		})
	}
}

func TestAWS_ErrorsAreClassified(t *testing.T) {
	sm := &fakeSecretsManager{err: &smithy.GenericAPIError{Code: "UnrecognizedClientException", Message: "bad token"}}
	a := newTestAWS(sm, nil)

	if _, err := a.Fetch(context.Background(), "app"); !errors.Is(err, kerrors.ErrStoreAuth) {
		t.Errorf("Fetch: expected ErrStoreAuth, got %v", err)
	}
	if err := a.Put(context.Background(), "app", "{}"); !errors.Is(err, kerrors.ErrStoreAuth) {
		t.Errorf("Put: expected ErrStoreAuth, got %v", err)
	}
	if _, err := a.List(context.Background()); !errors.Is(err, kerrors.ErrStoreAuth) {
		t.Errorf("List: expected ErrStoreAuth, got %v", err)
	}
}
