// Package memstore is an in-memory record store with the same behaviour as
// the Postgres repositories. It backs DB_DRIVER=memory and the handler tests.
package memstore

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/dharsanguruparan/dbzmanager/internal/model"
	"github.com/dharsanguruparan/dbzmanager/internal/repository"
)

// Store guards every table with one RWMutex. Records are copied in and out
// so callers never share memory with the store.
type Store struct {
	mu  sync.RWMutex
	now func() time.Time

	users       []model.User
	uploads     []model.Upload
	inquiries   []model.Inquiry
	directories []model.Directory
	events      []model.Event

	nextUser, nextUpload, nextInquiry, nextDirectory, nextEvent int64
}

// New returns an empty store.
func New() *Store {
	return &Store{now: func() time.Time { return time.Now().UTC() }}
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

func clonePtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneUpload(u model.Upload) model.Upload {
	u.FileURL1 = clonePtr(u.FileURL1)
	u.FileURL2 = clonePtr(u.FileURL2)
	return u
}

// Users

func (s *Store) CreateUser(_ context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return &repository.DuplicateError{Constraint: repository.ConstraintUserEmail}
		}
		if existing.Username == u.Username {
			return &repository.DuplicateError{Constraint: repository.ConstraintUserUsername}
		}
	}
	s.nextUser++
	u.ID = s.nextUser
	u.CreatedAt = s.now()
	s.users = append(s.users, *u)
	return nil
}

func (s *Store) FindUser(_ context.Context, email, username string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if (email != "" && u.Email == email) || (username != "" && u.Username == username) {
			found := u
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

// Uploads

func (s *Store) CreateUpload(_ context.Context, u *model.Upload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.uploads {
		if existing.FileNumber == u.FileNumber {
			return &repository.DuplicateError{Constraint: repository.ConstraintFileNumber}
		}
	}
	s.nextUpload++
	u.ID = s.nextUpload
	u.CreatedAt = s.now()
	s.uploads = append(s.uploads, cloneUpload(*u))
	return nil
}

func (s *Store) ListUploads(_ context.Context, f model.UploadFilter) ([]model.Upload, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []model.Upload{}
	for _, u := range s.uploads {
		if f.Matches(u) {
			out = append(out, cloneUpload(u))
		}
	}
	return out, nil
}

func (s *Store) GetUpload(_ context.Context, id int64) (*model.Upload, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.uploads {
		if u.ID == id {
			found := cloneUpload(u)
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) GetUploadByFileNumber(_ context.Context, fileNumber string) (*model.Upload, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.uploads {
		if u.FileNumber == fileNumber {
			found := cloneUpload(u)
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) UpdateUpload(_ context.Context, u *model.Upload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.uploads {
		if s.uploads[i].FileNumber != u.FileNumber {
			continue
		}
		stored := &s.uploads[i]
		stored.Design = u.Design
		stored.FrontDepth = u.FrontDepth
		stored.Industry = u.Industry
		stored.FileURL1 = clonePtr(u.FileURL1)
		stored.FileURL2 = clonePtr(u.FileURL2)
		return nil
	}
	return repository.ErrNotFound
}

func (s *Store) DeleteUpload(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.uploads, func(u model.Upload) bool { return u.ID == id })
	if i < 0 {
		return repository.ErrNotFound
	}
	s.uploads = slices.Delete(s.uploads, i, i+1)
	return nil
}

func (s *Store) UploadSummary(context.Context) ([]model.DesignDepthCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	type key struct{ design, depth string }
	counts := map[key]int64{}
	for _, u := range s.uploads {
		counts[key{u.Design, u.FrontDepth}]++
	}
	out := make([]model.DesignDepthCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, model.DesignDepthCount{Design: k.design, FrontDepth: k.depth, UploadCount: n})
	}
	slices.SortFunc(out, func(a, b model.DesignDepthCount) int {
		return cmp.Or(
			cmp.Compare(b.UploadCount, a.UploadCount),
			cmp.Compare(a.Design, b.Design),
			cmp.Compare(a.FrontDepth, b.FrontDepth),
		)
	})
	return out, nil
}

func (s *Store) DesignCounts(context.Context) ([]model.DesignCount, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := map[string]int64{}
	for _, u := range s.uploads {
		counts[u.Design]++
	}
	out := make([]model.DesignCount, 0, len(counts))
	for design, n := range counts {
		out = append(out, model.DesignCount{Design: design, UploadCount: n})
	}
	slices.SortFunc(out, func(a, b model.DesignCount) int {
		return cmp.Or(cmp.Compare(b.UploadCount, a.UploadCount), cmp.Compare(a.Design, b.Design))
	})
	return out, int64(len(s.uploads)), nil
}

func (s *Store) Industries(context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []string{}
	for _, u := range s.uploads {
		out = append(out, u.Industry)
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}

// Forms

func (s *Store) CreateInquiry(_ context.Context, in *model.Inquiry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextInquiry++
	in.ID = s.nextInquiry
	stored := *in
	stored.SeatingRequirements = slices.Clone(in.SeatingRequirements)
	s.inquiries = append(s.inquiries, stored)
	return nil
}

func (s *Store) ListInquiries(context.Context) ([]model.Inquiry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := slices.Clone(s.inquiries)
	if out == nil {
		out = []model.Inquiry{}
	}
	slices.SortStableFunc(out, func(a, b model.Inquiry) int {
		return cmp.Or(b.SubmissionTime.Compare(a.SubmissionTime), cmp.Compare(b.ID, a.ID))
	})
	return out, nil
}

func (s *Store) CreateDirectory(_ context.Context, d *model.Directory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextDirectory++
	d.ID = s.nextDirectory
	stored := *d
	stored.DocumentURL = clonePtr(d.DocumentURL)
	s.directories = append(s.directories, stored)
	return nil
}

func (s *Store) ListDirectories(context.Context) ([]model.Directory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Directory, 0, len(s.directories))
	for _, d := range s.directories {
		d.DocumentURL = clonePtr(d.DocumentURL)
		out = append(out, d)
	}
	return out, nil
}

func (s *Store) CreateEvent(_ context.Context, e *model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextEvent++
	e.ID = s.nextEvent
	s.events = append(s.events, *e)
	return nil
}

// ListEvents orders like the SQL query: start date descending with undated
// events last, then id descending. YYYY-MM-DD compares correctly as text.
func (s *Store) ListEvents(context.Context) ([]model.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := slices.Clone(s.events)
	if out == nil {
		out = []model.Event{}
	}
	slices.SortFunc(out, func(a, b model.Event) int {
		if (a.StartDate == "") != (b.StartDate == "") {
			if a.StartDate == "" {
				return 1
			}
			return -1
		}
		return cmp.Or(cmp.Compare(b.StartDate, a.StartDate), cmp.Compare(b.ID, a.ID))
	})
	return out, nil
}
