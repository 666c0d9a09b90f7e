// internal/platform/di/store/secret_provider_sm.go
package store

import (
	"context"
	"errors"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	secretmanagerpb "cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
)

var errSecretProviderNotConfigured = errors.New("di.store: sendGridKeyProviderSM not configured")

// sendGridKeyProviderSM reads the SendGrid API key from Secret Manager.
// Used when SENDGRID_SECRET_NAME is set; otherwise the env key is used as-is.
type sendGridKeyProviderSM struct {
	sm         *secretmanager.Client
	projectID  string
	secretName string
	version    string
}

func (p *sendGridKeyProviderSM) APIKey(ctx context.Context) (string, error) {
	if p == nil || p.sm == nil {
		return "", errSecretProviderNotConfigured
	}
	prj := strings.TrimSpace(p.projectID)
	if prj == "" {
		return "", errors.New("sendGridKeyProviderSM: projectID is empty")
	}
	name := strings.TrimSpace(p.secretName)
	if name == "" {
		return "", errors.New("sendGridKeyProviderSM: secretName is empty")
	}
	ver := strings.TrimSpace(p.version)
	if ver == "" {
		ver = "latest"
	}

	full := "projects/" + prj + "/secrets/" + name + "/versions/" + ver
	resp, err := p.sm.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: full})
	if err != nil {
		return "", errors.New("sendGridKeyProviderSM: AccessSecretVersion failed (" + full + "): " + err.Error())
	}
	if resp == nil || resp.Payload == nil {
		return "", errors.New("sendGridKeyProviderSM: empty payload (" + full + ")")
	}

	return strings.TrimSpace(string(resp.Payload.Data)), nil
}
