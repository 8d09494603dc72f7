package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharsanguruparan/dbzmanager/internal/model"
	"github.com/dharsanguruparan/dbzmanager/internal/repository"
)

func strPtr(s string) *string { return &s }

func TestUsersUniqueAndLookup(t *testing.T) {
	s := New()
	ctx := context.Background()

	u := &model.User{Email: "ana@example.com", Username: "ana", PasswordHash: "h"}
	require.NoError(t, s.CreateUser(ctx, u))
	assert.Equal(t, int64(1), u.ID)

	err := s.CreateUser(ctx, &model.User{Email: "ana@example.com", Username: "b"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
	assert.True(t, repository.IsDuplicateOf(err, repository.ConstraintUserEmail))

	err = s.CreateUser(ctx, &model.User{Email: "b@example.com", Username: "ana"})
	assert.True(t, repository.IsDuplicateOf(err, repository.ConstraintUserUsername))

	got, err := s.FindUser(ctx, "", "ana")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = s.FindUser(ctx, "", "")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUploadsCRUD(t *testing.T) {
	s := New()
	ctx := context.Background()

	a := &model.Upload{Design: "1 side open", FrontDepth: "10 X 10", Industry: "Retail", FileNumber: "AB1234C", FileURL1: strPtr("u1")}
	b := &model.Upload{Design: "2 side open", FrontDepth: "10 X 12", Industry: "Retail", FileNumber: "CD5678E"}
	c := &model.Upload{Design: "2 side open", FrontDepth: "10 X 12", Industry: "Pharma", FileNumber: "EF9012G"}
	for _, u := range []*model.Upload{a, b, c} {
		require.NoError(t, s.CreateUpload(ctx, u))
	}
	err := s.CreateUpload(ctx, &model.Upload{FileNumber: "AB1234C"})
	assert.True(t, repository.IsDuplicateOf(err, repository.ConstraintFileNumber))

	// Mutating the caller's copy must not reach the store.
	*a.FileURL1 = "changed"
	got, err := s.GetUpload(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "u1", *got.FileURL1)

	rows, err := s.ListUploads(ctx, model.UploadFilter{Design: "2 side open", Industry: "Retail"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "CD5678E", rows[0].FileNumber)

	all, err := s.ListUploads(ctx, model.UploadFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	summary, err := s.UploadSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.DesignDepthCount{
		{Design: "2 side open", FrontDepth: "10 X 12", UploadCount: 2},
		{Design: "1 side open", FrontDepth: "10 X 10", UploadCount: 1},
	}, summary)

	counts, total, err := s.DesignCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Equal(t, "2 side open", counts[0].Design)

	industries, err := s.Industries(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Pharma", "Retail"}, industries)

	got.Industry = "Automotive"
	require.NoError(t, s.UpdateUpload(ctx, got))
	byNumber, err := s.GetUploadByFileNumber(ctx, "AB1234C")
	require.NoError(t, err)
	assert.Equal(t, "Automotive", byNumber.Industry)
	assert.ErrorIs(t, s.UpdateUpload(ctx, &model.Upload{FileNumber: "ZZ0000Z"}), repository.ErrNotFound)

	require.NoError(t, s.DeleteUpload(ctx, a.ID))
	assert.ErrorIs(t, s.DeleteUpload(ctx, a.ID), repository.ErrNotFound)
	_, err = s.GetUpload(ctx, a.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestFormsOrdering(t *testing.T) {
	s := New()
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, s.CreateInquiry(ctx, &model.Inquiry{CompanyName: "old", SubmissionTime: base}))
	require.NoError(t, s.CreateInquiry(ctx, &model.Inquiry{CompanyName: "new", SubmissionTime: base.Add(time.Hour)}))
	inquiries, err := s.ListInquiries(ctx)
	require.NoError(t, err)
	assert.Equal(t, "new", inquiries[0].CompanyName)

	require.NoError(t, s.CreateDirectory(ctx, &model.Directory{ExhibitionName: "Expo", DocumentURL: strPtr("d")}))
	dirs, err := s.ListDirectories(ctx)
	require.NoError(t, err)
	require.Len(t, dirs, 1)
	assert.Equal(t, "d", *dirs[0].DocumentURL)

	for _, e := range []*model.Event{
		{ExhibitionName: "undated"},
		{ExhibitionName: "jan", StartDate: "2025-01-10"},
		{ExhibitionName: "jun", StartDate: "2025-06-01"},
		{ExhibitionName: "jun-2", StartDate: "2025-06-01"},
	} {
		require.NoError(t, s.CreateEvent(ctx, e))
	}
	events, err := s.ListEvents(ctx)
	require.NoError(t, err)
	var names []string
	for _, e := range events {
		names = append(names, e.ExhibitionName)
	}
	assert.Equal(t, []string{"jun-2", "jun", "jan", "undated"}, names)
}

func TestEmptyListsAreNotNil(t *testing.T) {
	s := New()
	ctx := context.Background()
	uploads, _ := s.ListUploads(ctx, model.UploadFilter{})
	assert.NotNil(t, uploads)
	events, _ := s.ListEvents(ctx)
	assert.NotNil(t, events)
	industries, _ := s.Industries(ctx)
	assert.NotNil(t, industries)
}
