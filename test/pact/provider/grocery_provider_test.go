//go:build pact
// +build pact

package provider_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/stretchr/testify/require"

	itemsmemory "github.com/Apurer/grocery-store-client/internal/domains/items/adapters/memory"
	"github.com/Apurer/grocery-store-client/internal/domains/items/domain"
	"github.com/Apurer/grocery-store-client/internal/storestub"
	pacttest "github.com/Apurer/grocery-store-client/test/pact"
)

func TestItemStoreProviderPact(t *testing.T) {
	gin.SetMode(gin.TestMode)

	app := newContractProviderApp(t)
	pactFile := filepath.ToSlash(pacttest.PactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	seeded := func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
		app.reset(t)
		if setup {
			app.seedExample()
		}
		return nil, nil
	}
	empty := func(bool, models.ProviderState) (models.ProviderStateResponse, error) {
		app.reset(t)
		return nil, nil
	}

	verifier := pactprovider.NewVerifier()
	err := verifier.VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: app.server.URL,
		Provider:        pacttest.ProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers: models.StateHandlers{
			pacttest.StateItemsExist: seeded,
			pacttest.StateItemExists: seeded,
			pacttest.StateStoreEmpty: empty,
			pacttest.StateItemGone:   seeded,
		},
		BeforeEach: func() error {
			app.reset(t)
			return nil
		},
	})
	require.NoError(t, err)
}

type contractProviderApp struct {
	repo   *itemsmemory.Repository
	server *httptest.Server
}

func newContractProviderApp(t testing.TB) *contractProviderApp {
	t.Helper()

	repo := itemsmemory.NewRepository()
	router := storestub.NewRouter(context.Background(), repo,
		storestub.WithBasePath(pacttest.BasePath),
		storestub.WithoutSeed(),
	)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &contractProviderApp{repo: repo, server: server}
}

func (a *contractProviderApp) reset(t testing.TB) {
	t.Helper()
	items, err := a.repo.List(context.Background())
	require.NoError(t, err)
	for _, item := range items {
		require.NoError(t, a.repo.Delete(context.Background(), item.ID))
	}
}

func (a *contractProviderApp) seedExample() {
	example := pacttest.ExampleItem()
	a.repo.Seed(domain.Item{
		ID:       example["_id"].(string),
		Name:     example["name"].(string),
		Price:    example["price"].(float64),
		Quantity: example["quantity"].(int),
	})
}
