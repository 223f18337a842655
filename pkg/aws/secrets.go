package aws

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// SecretsGetter is what config loaders depend on.
type SecretsGetter interface {
	GetSecret(ctx context.Context, name string) (string, error)
}

// SecretsClient caches secret strings for the life of the process; the intake
// service only reads secrets once at startup.
type SecretsClient struct {
	client *secretsmanager.Client
	cache  map[string]string
	mu     sync.RWMutex
}

func NewSecretsClient(cfg sdkaws.Config) *SecretsClient {
	return &SecretsClient{
		client: secretsmanager.NewFromConfig(cfg),
		cache:  make(map[string]string),
	}
}

func (s *SecretsClient) GetSecret(ctx context.Context, name string) (string, error) {
	s.mu.RLock()
	v, ok := s.cache[name]
	s.mu.RUnlock()
	if ok {
		return v, nil
	}

	out, err := s.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{SecretId: sdkaws.String(name)})
	if err != nil {
		return "", fmt.Errorf("failed to get secret %s: %w", name, err)
	}
	if out.SecretString == nil {
		return "", fmt.Errorf("secret %s has no string value", name)
	}

	s.mu.Lock()
	s.cache[name] = *out.SecretString
	s.mu.Unlock()

	return *out.SecretString, nil
}

// SecretFields fetches a JSON object secret ({"KEY":"value",...}) and returns its
// string fields. Non-string values are skipped.
func SecretFields(ctx context.Context, sg SecretsGetter, name string) (map[string]string, error) {
	raw, err := sg.GetSecret(ctx, name)
	if err != nil {
		return nil, err
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, fmt.Errorf("secret %s is not a JSON object: %w", name, err)
	}

	fields := make(map[string]string, len(decoded))
	for k, v := range decoded {
		if s, ok := v.(string); ok && s != "" {
			fields[k] = s
		}
	}
	return fields, nil
}
