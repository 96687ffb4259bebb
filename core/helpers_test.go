package core

import (
	"io"
	"log/slog"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestMetrics(t *testing.T) *Metrics {
	t.Helper()
	return NewMetrics(prometheus.NewRegistry())
}

func newTestRegistry() *Registry {
	return NewRegistry(NewMemoryUserRepository(), bcrypt.MinCost)
}

const testDlcCatalog = `
IRAO:
  CGEAR:
    - name: Sky Pillar
      index: 1
    - name: Dragonspiral Tower
      index: 2
  ZUKAN:
    - name: Black Kyurem
      index: 1
IRBO:
  CGEAR:
    - name: Unova Link
      index: 1
`

type testApp struct {
	router   *gin.Engine
	registry *Registry
	issuer   *CredentialIssuer
	players  PlayerStore
	metrics  *Metrics
}

func newTestApp(t *testing.T, cfg Config) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	reg := NewMetricsRegistry()
	metrics := NewMetrics(reg)
	registry := newTestRegistry()
	issuer := NewCredentialIssuer(GameSpyService)
	players := NewMemoryPlayerStore()
	catalog, err := ParseDlcCatalog([]byte(testDlcCatalog))
	require.NoError(t, err)

	nas := NewNasHandler(cfg, registry, issuer, metrics, discardLogger())
	dashboard := NewDashboardHandler(NewPlayerGate(players), catalog, NewSpriteResolver(""), metrics, discardLogger())
	router := NewRouter(cfg, RouterDeps{
		Sessions:  sessions.NewCookieStore([]byte("0123456789abcdef0123456789abcdef")),
		Nas:       nas,
		Dashboard: dashboard,
		Gatherer:  reg,
	})
	return &testApp{router: router, registry: registry, issuer: issuer, players: players, metrics: metrics}
}
