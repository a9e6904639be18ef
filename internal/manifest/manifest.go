// Package manifest renders resolved connection URLs as Kubernetes objects.
package manifest

import (
	"errors"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/yaml"

	"github.com/eugenenazirov/kompassi-entrypoint/internal/resolver"
)

// ErrMissingName is returned when no Secret name is given.
var ErrMissingName = errors.New("secret name is required")

// SecretOptions describes the Secret to render.
type SecretOptions struct {
	Name      string
	Namespace string
	Labels    map[string]string
}

// Secret builds an Opaque Secret carrying the resolved URLs as string data.
func Secret(result resolver.Result, opts SecretOptions) (*corev1.Secret, error) {
	if opts.Name == "" {
		return nil, ErrMissingName
	}

	return &corev1.Secret{
		TypeMeta: metav1.TypeMeta{
			APIVersion: "v1",
			Kind:       "Secret",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:      opts.Name,
			Namespace: opts.Namespace,
			Labels:    opts.Labels,
		},
		Type:       corev1.SecretTypeOpaque,
		StringData: result.Map(),
	}, nil
}

// RenderSecret returns the Secret as YAML.
func RenderSecret(result resolver.Result, opts SecretOptions) ([]byte, error) {
	secret, err := Secret(result, opts)
	if err != nil {
		return nil, err
	}

	out, err := yaml.Marshal(secret)
	if err != nil {
		return nil, fmt.Errorf("marshal secret: %w", err)
	}
	return out, nil
}
