// Package model contains the record types shared across packages.
package model

import "time"

// Upload is a catalog entry describing a stall design with up to two
// attached files. ID is the stable delete key, FileNumber the stable edit key.
type Upload struct {
	ID         int64     `json:"id"`
	Design     string    `json:"design"`
	FrontDepth string    `json:"front_depth"`
	Industry   string    `json:"industry"`
	FileNumber string    `json:"file_number"`
	FileURL1   *string   `json:"file_url_1"`
	FileURL2   *string   `json:"file_url_2"`
	CreatedAt  time.Time `json:"created_at"`
}

// FileURLs lists the non-nil file URLs of the record.
func (u Upload) FileURLs() []string {
	var out []string
	for _, p := range []*string{u.FileURL1, u.FileURL2} {
		if p != nil && *p != "" {
			out = append(out, *p)
		}
	}
	return out
}

// UploadFilter narrows an upload listing. Empty fields impose no constraint;
// set fields are ANDed as exact-match predicates.
type UploadFilter struct {
	Design     string
	FrontDepth string
	Industry   string
}

// Matches reports whether u satisfies every set predicate.
func (f UploadFilter) Matches(u Upload) bool {
	if f.Design != "" && u.Design != f.Design {
		return false
	}
	if f.FrontDepth != "" && u.FrontDepth != f.FrontDepth {
		return false
	}
	if f.Industry != "" && u.Industry != f.Industry {
		return false
	}
	return true
}

// UploadPatch is a partial update. A nil field keeps the stored value.
type UploadPatch struct {
	Design     *string
	FrontDepth *string
	Industry   *string
	FileURL1   *string
	FileURL2   *string
}

// Empty reports whether the patch changes nothing.
func (p UploadPatch) Empty() bool {
	return p.Design == nil && p.FrontDepth == nil && p.Industry == nil && p.FileURL1 == nil && p.FileURL2 == nil
}

// Apply merges the patch over current field by field and returns the result.
// current is not modified.
func (p UploadPatch) Apply(current Upload) Upload {
	next := current
	if p.Design != nil {
		next.Design = *p.Design
	}
	if p.FrontDepth != nil {
		next.FrontDepth = *p.FrontDepth
	}
	if p.Industry != nil {
		next.Industry = *p.Industry
	}
	if p.FileURL1 != nil {
		next.FileURL1 = p.FileURL1
	}
	if p.FileURL2 != nil {
		next.FileURL2 = p.FileURL2
	}
	return next
}

// DesignDepthCount is one row of the design/front-depth summary.
type DesignDepthCount struct {
	Design      string `json:"design"`
	FrontDepth  string `json:"front_depth"`
	UploadCount int64  `json:"upload_count"`
}

// DesignCount is one row of the per-design count.
type DesignCount struct {
	Design      string `json:"design"`
	UploadCount int64  `json:"upload_count"`
}
