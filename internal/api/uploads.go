package api

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dharsanguruparan/dbzmanager/internal/model"
	"github.com/dharsanguruparan/dbzmanager/internal/repository"
)

type fileURLs struct {
	File1 *string `json:"file1"`
	File2 *string `json:"file2"`
}

func (s *Server) handleCreateUpload(w http.ResponseWriter, r *http.Request) {
	f, err := s.readForm(w, r, "file1", "file2")
	if err != nil {
		s.fail(w, r, err, "Error saving upload")
		return
	}
	u := &model.Upload{
		Design:     strings.TrimSpace(f.value("design")),
		FrontDepth: strings.TrimSpace(f.value("front_depth")),
		Industry:   strings.TrimSpace(f.value("industry")),
		FileURL1:   f.file("file1"),
		FileURL2:   f.file("file2"),
	}
	if u.Design == "" || u.FrontDepth == "" || u.Industry == "" {
		s.discard(r, f.storedURLs())
		s.fail(w, r, badRequest("design, front_depth and industry are required"), "")
		return
	}

	if err := s.insertUpload(r.Context(), u); err != nil {
		s.discard(r, f.storedURLs())
		s.fail(w, r, err, "Error saving upload")
		return
	}
	s.log.Info("upload created", "id", u.ID, "file_number", u.FileNumber)
	respondJSON(w, http.StatusOK, map[string]any{
		"message":          "Data submitted successfully",
		"fileUrls":         fileURLs{File1: u.FileURL1, File2: u.FileURL2},
		"uniqueFileNumber": u.FileNumber,
	})
}

// insertUpload assigns a fresh file number, drawing again when the number is
// already taken.
func (s *Server) insertUpload(ctx context.Context, u *model.Upload) error {
	var err error
	for attempt := 1; attempt <= fileNumberAttempts; attempt++ {
		u.FileNumber = s.newFileNumber()
		err = s.store.CreateUpload(ctx, u)
		if !repository.IsDuplicateOf(err, repository.ConstraintFileNumber) {
			return err
		}
		s.log.Warn("file number collision", "file_number", u.FileNumber, "attempt", attempt)
	}
	return fmt.Errorf("no free file number after %d attempts: %w", fileNumberAttempts, err)
}

func (s *Server) handleListUploads(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.UploadFilter{
		Design:     q.Get("design"),
		FrontDepth: q.Get("front_depth"),
		Industry:   q.Get("industry"),
	}
	uploads, err := s.store.ListUploads(r.Context(), filter)
	if err != nil {
		s.fail(w, r, err, "Error fetching uploads")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"uploads": uploads})
}

func (s *Server) handleUploadSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.store.UploadSummary(r.Context())
	if err != nil {
		s.fail(w, r, err, "Error fetching summary")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"summary": summary})
}

func (s *Server) handleUploadCount(w http.ResponseWriter, r *http.Request) {
	counts, total, err := s.store.DesignCounts(r.Context())
	if err != nil {
		s.fail(w, r, err, "Error fetching upload counts")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"design_counts": counts,
		"total_uploads": total,
	})
}

func (s *Server) handleIndustries(w http.ResponseWriter, r *http.Request) {
	industries, err := s.store.Industries(r.Context())
	if err != nil {
		s.fail(w, r, err, "Error fetching industries")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"industries": industries})
}

// handleUpdateUpload applies a partial edit keyed by file number. Absent
// fields keep their stored value; a field sent empty is rejected.
func (s *Server) handleUpdateUpload(w http.ResponseWriter, r *http.Request) {
	fileNumber := chi.URLParam(r, "key")
	f, err := s.readForm(w, r, "file1", "file2")
	if err != nil {
		s.fail(w, r, err, "Error updating upload")
		return
	}
	fail := func(err error) {
		s.discard(r, f.storedURLs())
		s.fail(w, r, err, "Error updating upload")
	}

	current, err := s.store.GetUploadByFileNumber(r.Context(), fileNumber)
	if err != nil {
		fail(err)
		return
	}

	patch := model.UploadPatch{FileURL1: f.file("file1"), FileURL2: f.file("file2")}
	for _, field := range []struct {
		name string
		dst  **string
	}{
		{"design", &patch.Design},
		{"front_depth", &patch.FrontDepth},
		{"industry", &patch.Industry},
	} {
		v, ok := f.lookup(field.name)
		if !ok {
			continue
		}
		v = strings.TrimSpace(v)
		if v == "" {
			fail(badRequest(field.name + " cannot be empty"))
			return
		}
		*field.dst = &v
	}

	next := patch.Apply(*current)
	if !patch.Empty() {
		if err := s.store.UpdateUpload(r.Context(), &next); err != nil {
			fail(err)
			return
		}
	}
	// The row now points at the new files; the replaced ones are orphaned.
	if patch.FileURL1 != nil && current.FileURL1 != nil {
		s.assets.Remove(r.Context(), *current.FileURL1)
	}
	if patch.FileURL2 != nil && current.FileURL2 != nil {
		s.assets.Remove(r.Context(), *current.FileURL2)
	}

	s.log.Info("upload updated", "file_number", fileNumber)
	respondJSON(w, http.StatusOK, map[string]any{
		"message": "Data updated successfully",
		"updatedFields": map[string]any{
			"design":      next.Design,
			"front_depth": next.FrontDepth,
			"industry":    next.Industry,
			"fileUrls":    fileURLs{File1: next.FileURL1, File2: next.FileURL2},
		},
	})
}

// handleDeleteUpload removes the row, then its files on a best-effort basis.
func (s *Server) handleDeleteUpload(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "key"), 10, 64)
	if err != nil {
		s.fail(w, r, repository.ErrNotFound, "")
		return
	}
	rec, err := s.store.GetUpload(r.Context(), id)
	if err != nil {
		s.fail(w, r, err, "Error deleting record")
		return
	}
	if err := s.store.DeleteUpload(r.Context(), id); err != nil {
		s.fail(w, r, err, "Error deleting record")
		return
	}
	ctx := context.WithoutCancel(r.Context())
	for _, u := range rec.FileURLs() {
		s.assets.Remove(ctx, u)
	}
	s.log.Info("upload deleted", "id", id, "file_number", rec.FileNumber)
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Record and associated files deleted successfully",
	})
}

// handleServeAsset serves a stored file inline, with range support.
func (s *Server) handleServeAsset(w http.ResponseWriter, r *http.Request) {
	obj, err := s.assets.Open(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		s.fail(w, r, err, "Error reading file")
		return
	}
	defer obj.Body.Close()
	w.Header().Set("X-Content-Type-Options", "nosniff")
	http.ServeContent(w, r, obj.Name, obj.ModTime, obj.Body)
}

// streamDownload sends a stored file as an attachment.
func (s *Server) streamDownload(w http.ResponseWriter, r *http.Request, filename string) {
	obj, err := s.assets.Open(r.Context(), filename)
	if err != nil {
		s.fail(w, r, err, "Error while downloading the file.")
		return
	}
	defer obj.Body.Close()
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": obj.Name}))
	w.Header().Set("Content-Type", "application/octet-stream")
	if obj.Size >= 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(obj.Size, 10))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, obj.Body); err != nil {
		s.log.Warn("download interrupted", "name", obj.Name, "error", err)
	}
}
