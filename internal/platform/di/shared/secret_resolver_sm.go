// internal/platform/di/shared/secret_resolver_sm.go
package shared

import (
	"context"
	"errors"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	secretmanagerpb "cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
)

var errSecretResolverNotConfigured = errors.New("shared: secret resolver not configured")

// SecretResolverSM resolves X_SECRET ids through Secret Manager.
// An id may be a bare secret name ("mp-access-token"), "name:version", or a
// full "projects/.../secrets/.../versions/..." resource.
type SecretResolverSM struct {
	sm        *secretmanager.Client
	projectID string
}

func NewSecretResolverSM(sm *secretmanager.Client, projectID string) *SecretResolverSM {
	return &SecretResolverSM{sm: sm, projectID: strings.TrimSpace(projectID)}
}

func (p *SecretResolverSM) Resolve(ctx context.Context, secretID string) (string, error) {
	if p == nil || p.sm == nil {
		return "", errSecretResolverNotConfigured
	}
	name, err := SecretVersionName(p.projectID, secretID)
	if err != nil {
		return "", err
	}
	resp, err := p.sm.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
	if err != nil {
		return "", errors.New("SecretResolverSM: AccessSecretVersion failed (" + name + "): " + err.Error())
	}
	if resp == nil || resp.Payload == nil {
		return "", errors.New("SecretResolverSM: empty payload (" + name + ")")
	}
	return strings.TrimSpace(string(resp.Payload.Data)), nil
}

// SecretVersionName expands a secret id into a version resource name.
func SecretVersionName(projectID, secretID string) (string, error) {
	id := strings.TrimSpace(secretID)
	if id == "" {
		return "", errors.New("SecretResolverSM: secretID is empty")
	}
	if strings.HasPrefix(id, "projects/") {
		if !strings.Contains(id, "/versions/") {
			id += "/versions/latest"
		}
		return id, nil
	}
	prj := strings.TrimSpace(projectID)
	if prj == "" {
		return "", errors.New("SecretResolverSM: projectID is empty")
	}
	ver := "latest"
	if name, v, ok := strings.Cut(id, ":"); ok && strings.TrimSpace(v) != "" {
		id, ver = strings.TrimSpace(name), strings.TrimSpace(v)
	}
	return "projects/" + prj + "/secrets/" + id + "/versions/" + ver, nil
}
