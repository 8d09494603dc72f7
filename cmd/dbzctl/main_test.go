package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharsanguruparan/dbzmanager/internal/api"
	"github.com/dharsanguruparan/dbzmanager/internal/client"
	"github.com/dharsanguruparan/dbzmanager/internal/config"
	"github.com/dharsanguruparan/dbzmanager/internal/logger"
	"github.com/dharsanguruparan/dbzmanager/internal/memstore"
	"github.com/dharsanguruparan/dbzmanager/internal/model"
	"github.com/dharsanguruparan/dbzmanager/internal/signing"
	"github.com/dharsanguruparan/dbzmanager/internal/storage"
)

type harness struct {
	t          *testing.T
	server     string
	configFile string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ts := httptest.NewUnstartedServer(nil)
	baseURL := "http://" + ts.Listener.Addr().String()
	backend, err := storage.NewDiskBackend(t.TempDir())
	require.NoError(t, err)
	cfg := &config.Config{
		PublicBaseURL:   baseURL,
		MaxUploadBytes:  1 << 20,
		RequireAuth:     true,
		CORSOrigins:     []string{"*"},
		ShutdownTimeout: time.Second,
	}
	srv := api.New(cfg, memstore.New(), storage.NewAssets(backend, baseURL, logger.Nop()),
		signing.NewSigner([]byte("cli-secret")), logger.Nop())
	ts.Config.Handler = srv.Handler()
	ts.Start()
	t.Cleanup(ts.Close)
	return &harness{t: t, server: baseURL, configFile: filepath.Join(t.TempDir(), "config.json")}
}

func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	cmd := newRootCommand(&app{})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--server", h.server, "--config", h.configFile}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, err := h.run(args...)
	require.NoError(h.t, err, out)
	return out
}

func (h *harness) login() {
	h.t.Helper()
	h.mustRun("signup", "--email", "ops@dbz.test", "--username", "ops", "--password", "pw")
	h.mustRun("login", "ops", "--password", "pw")
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestFrontDepth(t *testing.T) {
	fd, err := frontDepth(" 10 ", "12")
	require.NoError(t, err)
	assert.Equal(t, "10 X 12", fd)

	fd, err = frontDepth("", "")
	require.NoError(t, err)
	assert.Empty(t, fd)

	_, err = frontDepth("10", "")
	assert.Error(t, err)
}

func TestConfigDefaultsAndRoundTrip(t *testing.T) {
	a := &app{configFile: filepath.Join(t.TempDir(), "nested", "config.json")}
	cfg, err := a.loadConfig()
	require.NoError(t, err)
	assert.Equal(t, cliConfig{Server: defaultServer}, cfg)

	require.NoError(t, a.saveConfig(cliConfig{Server: "http://api.test", Token: "tok"}))
	cfg, err = a.loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "tok", cfg.Token)

	info, err := os.Stat(a.configFile)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestLoginLogout(t *testing.T) {
	h := newHarness(t)
	h.login()

	out := h.mustRun("whoami")
	assert.Contains(t, out, "ops@dbz.test")

	h.mustRun("logout")
	_, err := h.run("whoami")
	assert.True(t, client.IsStatus(err, 401))
}

func TestUploadCommands(t *testing.T) {
	h := newHarness(t)
	h.login()

	h.mustRun("uploads", "create", "--design", "2 side open", "--front", "10", "--depth", "12",
		"--industry", "Retail", "--file1", writeTemp(t, "stall.glb", "model"))

	var rows []model.Upload
	require.NoError(t, json.Unmarshal([]byte(h.mustRun("--json", "uploads", "list", "--front", "10", "--depth", "12")), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "10 X 12", rows[0].FrontDepth)

	h.mustRun("uploads", "edit", rows[0].FileNumber, "--industry", "Pharma")
	assert.Contains(t, h.mustRun("uploads", "industries"), "Pharma")

	out := h.mustRun("uploads", "summary")
	assert.Contains(t, out, "total uploads: 1")

	_, err := h.run("uploads", "list", "--front", "10")
	assert.Error(t, err)

	h.mustRun("uploads", "delete", "1")
	assert.Contains(t, h.mustRun("uploads", "list"), "no results")
}

func TestFormCommands(t *testing.T) {
	h := newHarness(t)
	h.login()

	h.mustRun("inquiries", "submit", "--set", "companyName=Acme", "--set", "eventName=Expo")
	assert.Contains(t, h.mustRun("inquiries", "list"), "Acme")

	h.mustRun("directories", "add", "--name", "Expo", "--year", "2025",
		"--document", writeTemp(t, "directory.pdf", "pages"))
	var dirs []client.Directory
	require.NoError(t, json.Unmarshal([]byte(h.mustRun("--json", "directories", "list")), &dirs))
	require.Len(t, dirs, 1)
	require.NotNil(t, dirs[0].DocumentURL)

	dst := filepath.Join(t.TempDir(), "saved.pdf")
	h.mustRun("directories", "download", path.Base(*dirs[0].DocumentURL), "-o", dst)
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "pages", string(data))

	h.mustRun("events", "add", "--name", "Expo", "--start", "2025-05-01", "--end", "2025-05-03",
		"--client", "Acme", "--client", "Globex")
	out := h.mustRun("events", "list")
	assert.Contains(t, out, "Acme, Globex")
}
