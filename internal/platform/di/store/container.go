// internal/platform/di/store/container.go
package store

import (
	"context"
	"errors"
	"log"
	"strings"

	catalogout "storefront/internal/adapters/out/catalog"
	outfs "storefront/internal/adapters/out/firestore"
	gcso "storefront/internal/adapters/out/gcs"
	"storefront/internal/adapters/out/localstore"
	mailout "storefront/internal/adapters/out/mail"
	"storefront/internal/application/cartstore"
	appsession "storefront/internal/application/session"
	proddom "storefront/internal/domain/product"
	userdom "storefront/internal/domain/user"
	shared "storefront/internal/platform/di/shared"
)

// Container is the storefront DI container.
// Pure DI: build deps only. No routing branching.
type Container struct {
	Infra *shared.Infra

	// long-lived application state
	CartStore       *cartstore.Store
	SessionResolver *appsession.Resolver

	// repositories
	ProductRepo proddom.Repository
	UserRepo    userdom.Repository

	// local durable storage
	Local  *localstore.Store
	Themes *localstore.ThemeStore

	// outbound
	Mailer   *mailout.WelcomeMailer
	Uploader *gcso.ProductImageRepositoryGCS
	Importer *catalogout.HTTPClient
}

// NewContainer wires the whole storefront.
// infra may be nil; it is then built here.
func NewContainer(ctx context.Context, infra *shared.Infra) (*Container, error) {
	if infra == nil {
		var err error
		infra, err = shared.NewInfra(ctx)
		if err != nil {
			return nil, err
		}
	}
	if infra.Config == nil {
		return nil, errors.New("di.store: shared infra config is nil")
	}

	fsClient := infra.Firestore
	if fsClient == nil {
		return nil, errors.New("di.store: infra.Firestore is nil")
	}

	c := &Container{Infra: infra}

	// --------------------------------------------------------
	// Firestore repositories
	// --------------------------------------------------------
	c.ProductRepo = outfs.NewProductRepositoryFS(fsClient)
	c.UserRepo = outfs.NewUserRepositoryFS(fsClient)

	// --------------------------------------------------------
	// Local durable storage (cart archive + theme preference)
	// --------------------------------------------------------
	local, err := localstore.New(infra.DataDir)
	if err != nil {
		return nil, errors.New("di.store: localstore init failed: " + err.Error())
	}
	c.Local = local
	c.Themes = localstore.NewThemeStore(local)

	// --------------------------------------------------------
	// Cart store (rehydrates from the archive immediately)
	// --------------------------------------------------------
	c.CartStore = cartstore.New(localstore.NewCartArchive(local))

	// --------------------------------------------------------
	// Session resolver (role lookups against users/{uid})
	// --------------------------------------------------------
	c.SessionResolver = appsession.NewResolver(c.UserRepo)

	// --------------------------------------------------------
	// Welcome mail (best-effort; key from Secret Manager or env)
	// --------------------------------------------------------
	c.Mailer = buildWelcomeMailer(ctx, infra)

	// --------------------------------------------------------
	// Product image upload (GCS)
	// --------------------------------------------------------
	if infra.GCS != nil && infra.ProductImageBucket != "" {
		c.Uploader = gcso.NewProductImageRepositoryGCS(infra.GCS, infra.ProductImageBucket)
	} else {
		log.Printf("[di.store] image uploads disabled (no GCS client or bucket)")
	}

	// --------------------------------------------------------
	// External catalog import
	// --------------------------------------------------------
	if infra.CatalogBaseURL != "" {
		c.Importer = catalogout.NewHTTPClient(infra.CatalogBaseURL)
	} else {
		log.Printf("[di.store] catalog imports disabled (CATALOG_BASE_URL empty)")
	}

	return c, nil
}

// buildWelcomeMailer resolves the SendGrid key (Secret Manager wins over env)
// and builds the mailer. Missing configuration disables mail, never boot.
func buildWelcomeMailer(ctx context.Context, infra *shared.Infra) *mailout.WelcomeMailer {
	cfg := infra.Config

	apiKey := strings.TrimSpace(cfg.SendGridAPIKey)

	if secretName := strings.TrimSpace(cfg.SendGridSecretName); secretName != "" {
		provider := &sendGridKeyProviderSM{
			sm:         infra.SecretManager,
			projectID:  infra.ProjectID,
			secretName: secretName,
		}
		key, err := provider.APIKey(ctx)
		if err != nil {
			log.Printf("[di.store] WARN: sendgrid key from secret manager failed: %v (falling back to env)", err)
		} else if key != "" {
			apiKey = key
		}
	}

	from := strings.TrimSpace(cfg.SendGridFrom)
	if apiKey == "" || from == "" {
		log.Printf("[di.store] welcome mail disabled (missing SENDGRID_API_KEY or SENDGRID_FROM)")
		return nil
	}

	client := mailout.NewSendGridClient(apiKey)
	mailer := mailout.NewWelcomeMailer(client, from, infra.StoreBaseURL)
	log.Printf("[di.store] welcome mailer initialized from=%s", from)
	return mailer
}

// Close tears down long-lived application state. Shared infra clients are
// closed by Infra.Close, not here.
func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.SessionResolver != nil {
		_ = c.SessionResolver.Close()
	}
	if c.CartStore != nil {
		_ = c.CartStore.Close()
	}
	return nil
}
