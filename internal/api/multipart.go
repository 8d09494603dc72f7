package api

import (
	"context"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"slices"
)

// maxFieldBytes caps a single non-file form value.
const maxFieldBytes = 1 << 20

// form is a parsed request body. Values records presence, so a field sent
// empty is distinguishable from one never sent. Files maps a file field to
// the public URL of the stored asset.
type form struct {
	values map[string]string
	files  map[string]string
}

func (f *form) value(name string) string {
	return f.values[name]
}

// lookup returns the value and whether the field was sent at all.
func (f *form) lookup(name string) (string, bool) {
	v, ok := f.values[name]
	return v, ok
}

func (f *form) file(name string) *string {
	u, ok := f.files[name]
	if !ok {
		return nil
	}
	return &u
}

// storedURLs lists every asset stored while reading the form.
func (f *form) storedURLs() []string {
	out := make([]string, 0, len(f.files))
	for _, u := range f.files {
		out = append(out, u)
	}
	return out
}

// readForm parses a multipart or urlencoded body. File parts named in
// fileFields are streamed straight into the asset store; the first part per
// field wins and other file parts are discarded. If reading fails midway the
// assets already stored are removed again.
func (s *Server) readForm(w http.ResponseWriter, r *http.Request, fileFields ...string) (*form, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	f := &form{values: map[string]string{}, files: map[string]string{}}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		if err := r.ParseForm(); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return nil, err
			}
			return nil, badRequest("malformed form body")
		}
		for k, vs := range r.PostForm {
			if len(vs) > 0 {
				f.values[k] = vs[0]
			}
		}
		return f, nil
	}

	mr, err := r.MultipartReader()
	if err != nil {
		return nil, badRequest("expecting multipart form")
	}
	if err := s.readParts(r, mr, f, fileFields); err != nil {
		s.discard(r, f.storedURLs())
		return nil, err
	}
	return f, nil
}

func (s *Server) readParts(r *http.Request, mr *multipart.Reader, f *form, fileFields []string) error {
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return err
			}
			return badRequest("malformed multipart body")
		}
		name := part.FormName()
		switch {
		case part.FileName() != "":
			if _, seen := f.files[name]; seen || !slices.Contains(fileFields, name) {
				break
			}
			u, err := s.assets.Store(r.Context(), part, part.FileName())
			if err != nil {
				part.Close()
				return err
			}
			f.files[name] = u
		case name != "":
			b, err := io.ReadAll(io.LimitReader(part, maxFieldBytes+1))
			if err != nil {
				part.Close()
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					return err
				}
				return badRequest("malformed multipart body")
			}
			if len(b) > maxFieldBytes {
				part.Close()
				return badRequest("form field " + name + " too large")
			}
			if _, seen := f.values[name]; !seen {
				f.values[name] = string(b)
			}
		}
		part.Close()
	}
}

// discard removes assets that ended up without an owning record.
func (s *Server) discard(r *http.Request, urls []string) {
	ctx := context.WithoutCancel(r.Context())
	for _, u := range urls {
		s.assets.Remove(ctx, u)
	}
}
