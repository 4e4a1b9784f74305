package shop

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	appcfg "github.com/HydraRosario/vibeshoes/internal/infra/config"
	shared "github.com/HydraRosario/vibeshoes/internal/platform/di/shared"
)

func memoryInfra() *shared.Infra {
	return &shared.Infra{Config: &appcfg.Config{
		DocStore:          appcfg.DocStoreMemory,
		MPCurrencyID:      "ARS",
		OrderExchange:     "vibeshoes.orders",
		CORSAllowedOrigin: "*",
	}}
}

func TestMemoryContainerDegradesGracefully(t *testing.T) {
	cont, err := NewContainer(context.Background(), memoryInfra())
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	defer cont.Close()

	if cont.WebhookUC.Configured() {
		t.Error("webhook configured without MP token")
	}

	mux := http.NewServeMux()
	Register(mux, cont)

	cases := []struct {
		method, path string
		want         int
	}{
		{http.MethodGet, "/api/products", http.StatusOK},
		{http.MethodGet, "/api/categories", http.StatusOK},
		{http.MethodPost, "/api/webhooks/mercadopago?type=payment&data.id=1", http.StatusNotImplemented},
		// no Firebase Auth in this container
		{http.MethodGet, "/api/cart", http.StatusInternalServerError},
		{http.MethodGet, "/metrics", http.StatusOK},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		if rec.Code != tc.want {
			t.Errorf("%s %s = %d, want %d", tc.method, tc.path, rec.Code, tc.want)
		}
	}
}

func TestFirestoreModeRequiresClient(t *testing.T) {
	inf := memoryInfra()
	inf.Config.DocStore = appcfg.DocStoreFirestore
	if _, err := NewContainer(context.Background(), inf); err == nil {
		t.Error("expected error without Firestore client")
	}
}
