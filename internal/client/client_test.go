package client

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharsanguruparan/dbzmanager/internal/api"
	"github.com/dharsanguruparan/dbzmanager/internal/config"
	"github.com/dharsanguruparan/dbzmanager/internal/logger"
	"github.com/dharsanguruparan/dbzmanager/internal/memstore"
	"github.com/dharsanguruparan/dbzmanager/internal/model"
	"github.com/dharsanguruparan/dbzmanager/internal/signing"
	"github.com/dharsanguruparan/dbzmanager/internal/storage"
)

func startServer(t *testing.T) string {
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
		signing.NewSigner([]byte("test-secret")), logger.Nop())
	ts.Config.Handler = srv.Handler()
	ts.Start()
	t.Cleanup(ts.Close)
	return baseURL
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func loggedIn(t *testing.T, server string) *Client {
	t.Helper()
	ctx := context.Background()
	c := New(server, "")
	_, err := c.Signup(ctx, "ana@example.com", "ana", "pw", "pw")
	require.NoError(t, err)
	token, err := c.Login(ctx, "ana", "pw")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	return c
}

func TestAccounts(t *testing.T) {
	server := startServer(t)
	ctx := context.Background()
	c := New(server, "")

	id, err := c.Signup(ctx, "ana@example.com", "ana", "pw", "pw")
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	_, err = c.Signup(ctx, "ana@example.com", "ana", "pw", "pw")
	assert.True(t, IsStatus(err, http.StatusBadRequest))
	assert.ErrorContains(t, err, "already exists")

	_, err = c.Login(ctx, "ana", "nope")
	assert.True(t, IsStatus(err, http.StatusUnauthorized))

	_, err = c.Login(ctx, "ana@example.com", "pw")
	require.NoError(t, err)
	me, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ana", me.Username)
}

func TestUploadWorkflow(t *testing.T) {
	server := startServer(t)
	ctx := context.Background()
	c := loggedIn(t, server)

	res, err := c.CreateUpload(ctx, UploadInput{
		Design: "2 side open", FrontDepth: "10 X 12", Industry: "Retail",
		File1: writeTemp(t, "stall.glb", "model"),
		File2: writeTemp(t, "render.png", "image"),
	})
	require.NoError(t, err)
	require.NotNil(t, res.FileURLs.File1)
	require.NotNil(t, res.FileURLs.File2)

	rows, err := c.ListUploads(ctx, model.UploadFilter{Design: "2 side open"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, res.FileNumber, rows[0].FileNumber)

	industry := "Pharma"
	edited, err := c.EditUpload(ctx, res.FileNumber, UploadEdit{Industry: &industry})
	require.NoError(t, err)
	assert.Equal(t, "Pharma", edited.UpdatedFields.Industry)
	assert.Equal(t, "2 side open", edited.UpdatedFields.Design)

	summary, err := c.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.DesignDepthCount{{Design: "2 side open", FrontDepth: "10 X 12", UploadCount: 1}}, summary)

	counts, total, err := c.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, counts, 1)

	industries, err := c.Industries(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Pharma"}, industries)

	require.NoError(t, c.DeleteUpload(ctx, rows[0].ID))
	err = c.DeleteUpload(ctx, rows[0].ID)
	assert.True(t, IsStatus(err, http.StatusNotFound))

	rows, err = c.ListUploads(ctx, model.UploadFilter{})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestUploadNeedsToken(t *testing.T) {
	server := startServer(t)
	_, err := New(server, "").CreateUpload(context.Background(), UploadInput{
		Design: "d", FrontDepth: "f", Industry: "i", File1: writeTemp(t, "a.glb", "a"),
	})
	assert.True(t, IsStatus(err, http.StatusUnauthorized))
}

func TestMissingLocalFile(t *testing.T) {
	server := startServer(t)
	c := loggedIn(t, server)
	_, err := c.CreateUpload(context.Background(), UploadInput{
		Design: "d", FrontDepth: "f", Industry: "i", File1: filepath.Join(t.TempDir(), "missing.glb"),
	})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFormsAndDownloads(t *testing.T) {
	server := startServer(t)
	ctx := context.Background()
	c := loggedIn(t, server)

	in, err := c.SubmitInquiry(ctx, map[string]string{
		"companyName":         "Acme",
		"seatingRequirements": `["sofa","bar stools"]`,
	}, writeTemp(t, "plan.pdf", "plan"), "")
	require.NoError(t, err)
	assert.NotZero(t, in.ID)

	inquiries, err := c.ListInquiries(ctx)
	require.NoError(t, err)
	require.Len(t, inquiries, 1)
	assert.JSONEq(t, `["sofa","bar stools"]`, string(inquiries[0].SeatingRequirements))
	require.NotNil(t, inquiries[0].FloorPlanDownloadLink)
	assert.Nil(t, inquiries[0].LogoFileDownloadLink)

	var buf bytes.Buffer
	n, err := c.Download(ctx, InquiryFiles, path.Base(inquiries[0].FloorPlanURL), &buf)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	assert.Equal(t, "plan", buf.String())

	_, err = c.AddDirectory(ctx, DirectoryInput{ExhibitionName: "Expo", Year: "2025", Venue: "Hall 1"})
	require.NoError(t, err)
	dirs, err := c.ListDirectories(ctx)
	require.NoError(t, err)
	require.Len(t, dirs, 1)
	assert.Nil(t, dirs[0].DocumentDownloadLink)

	_, err = c.Download(ctx, DirectoryFiles, "missing.pdf", &buf)
	assert.True(t, IsStatus(err, http.StatusNotFound))

	require.NoError(t, c.AddEvent(ctx, EventInput{
		ExhibitionName: "Expo", StartDate: "2025-05-01", EndDate: "2025-05-03",
		DirectoryAvailable: true, ExistingClients: []string{"Acme"},
	}))
	err = c.AddEvent(ctx, EventInput{ExhibitionName: "Bad", StartDate: "May 1", EndDate: "2025-05-03"})
	assert.True(t, IsStatus(err, http.StatusBadRequest))

	events, err := c.ListEvents(ctx)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Acme", events[0].ExistingClients)
}
