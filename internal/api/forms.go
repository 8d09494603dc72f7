package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dharsanguruparan/dbzmanager/internal/model"
)

const (
	inquiriesRoute   = "/get-inquiries"
	directoriesRoute = "/get-directories"
)

func (s *Server) handleSubmitInquiry(w http.ResponseWriter, r *http.Request) {
	f, err := s.readForm(w, r, "floorPlan", "logoFiles")
	if err != nil {
		s.fail(w, r, err, "Internal Server Error")
		return
	}
	in := &model.Inquiry{
		CompanyName:         f.value("companyName"),
		ContactPerson:       f.value("contactPerson"),
		ContactEmail:        f.value("contactEmail"),
		ContactNumber:       f.value("contactNumber"),
		Website:             f.value("website"),
		EventName:           f.value("eventName"),
		VenueCity:           f.value("venueCity"),
		EventDate:           f.value("eventDate"),
		StallSize:           f.value("stallSize"),
		SidesOpenStall:      f.value("sidesOpenStall"),
		BrandColor:          f.value("brandColor"),
		MeetingRoomRequired: f.value("meetingRoomRequired"),
		StoreRoomRequired:   f.value("storeRoomRequired"),
		TVLEDWallRequired:   f.value("tvLedWallRequired"),
		ProductDisplay:      f.value("productDisplay"),
		SeatingRequirements: model.SeatingJSON(f.value("seatingRequirements")),
		NumberOfProducts:    f.value("numberOfProducts"),
		SizeOfProducts:      f.value("sizeOfProducts"),
		WeightOfProducts:    f.value("weightOfProducts"),
		Deadline:            f.value("deadline"),
		SpecificInformation: f.value("specificInformation"),
		SuggestedBudget:     f.value("suggestedBudget"),
		SubmissionTime:      s.now(),
	}
	if p := f.file("floorPlan"); p != nil {
		in.FloorPlanURL = *p
	}
	if p := f.file("logoFiles"); p != nil {
		in.LogoFilesURL = *p
	}
	if err := s.store.CreateInquiry(r.Context(), in); err != nil {
		s.discard(r, f.storedURLs())
		s.fail(w, r, err, "Internal Server Error")
		return
	}
	s.log.Info("inquiry submitted", "id", in.ID, "company", in.CompanyName)
	respondJSON(w, http.StatusOK, map[string]any{
		"message": "Form submitted successfully",
		"data":    in,
	})
}

type inquiryView struct {
	model.Inquiry
	FloorPlanDownloadLink *string `json:"floorPlanDownloadLink"`
	LogoFileDownloadLink  *string `json:"logoFileDownloadLink"`
}

// handleListInquiries lists inquiries, or streams one attached file when a
// download query parameter is present.
func (s *Server) handleListInquiries(w http.ResponseWriter, r *http.Request) {
	if name := r.URL.Query().Get("download"); name != "" {
		s.streamDownload(w, r, name)
		return
	}
	inquiries, err := s.store.ListInquiries(r.Context())
	if err != nil {
		s.fail(w, r, err, "Internal Server Error")
		return
	}
	out := make([]inquiryView, 0, len(inquiries))
	for _, in := range inquiries {
		out = append(out, inquiryView{
			Inquiry:               in,
			FloorPlanDownloadLink: s.assets.DownloadLink(inquiriesRoute, in.FloorPlanURL),
			LogoFileDownloadLink:  s.assets.DownloadLink(inquiriesRoute, in.LogoFilesURL),
		})
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"message": "Inquiries fetched successfully",
		"data":    out,
	})
}

func (s *Server) handleAddDirectory(w http.ResponseWriter, r *http.Request) {
	f, err := s.readForm(w, r, "document")
	if err != nil {
		s.fail(w, r, err, "Internal Server Error")
		return
	}
	d := &model.Directory{
		ExhibitionName: f.value("exhibitionName"),
		Year:           f.value("year"),
		Venue:          f.value("venue"),
		DocumentURL:    f.file("document"),
	}
	if err := s.store.CreateDirectory(r.Context(), d); err != nil {
		s.discard(r, f.storedURLs())
		s.fail(w, r, err, "Internal Server Error")
		return
	}
	s.log.Info("directory added", "id", d.ID, "exhibition", d.ExhibitionName)
	respondJSON(w, http.StatusOK, map[string]any{
		"message": "Exhibition directory added successfully!",
		"data":    d,
	})
}

type directoryView struct {
	model.Directory
	DocumentDownloadLink *string `json:"documentDownloadLink"`
}

func (s *Server) handleListDirectories(w http.ResponseWriter, r *http.Request) {
	if name := r.URL.Query().Get("download"); name != "" {
		s.streamDownload(w, r, name)
		return
	}
	dirs, err := s.store.ListDirectories(r.Context())
	if err != nil {
		s.fail(w, r, err, "Internal Server Error")
		return
	}
	out := make([]directoryView, 0, len(dirs))
	for _, d := range dirs {
		var link *string
		if d.DocumentURL != nil {
			link = s.assets.DownloadLink(directoriesRoute, *d.DocumentURL)
		}
		out = append(out, directoryView{Directory: d, DocumentDownloadLink: link})
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"message": "Directories fetched successfully",
		"data":    out,
	})
}

// flexBool accepts a JSON boolean or a string such as "true", "yes" or "1".
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*b = false
		return nil
	}
	var v bool
	if err := json.Unmarshal(data, &v); err == nil {
		*b = flexBool(v)
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	switch strings.ToLower(strings.TrimSpace(str)) {
	case "yes", "y", "on":
		*b = true
		return nil
	case "", "no", "n", "off":
		*b = false
		return nil
	}
	parsed, err := strconv.ParseBool(str)
	if err != nil {
		return err
	}
	*b = flexBool(parsed)
	return nil
}

// stringList accepts a JSON array of strings or a single string.
type stringList []string

func (l *stringList) UnmarshalJSON(data []byte) error {
	var many []string
	if err := json.Unmarshal(data, &many); err == nil {
		*l = many
		return nil
	}
	var one string
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}
	if one == "" {
		*l = nil
	} else {
		*l = []string{one}
	}
	return nil
}

type addEventRequest struct {
	ExhibitionName     string     `json:"exhibitionName"`
	StartDate          string     `json:"startDate"`
	EndDate            string     `json:"endDate"`
	Venue              string     `json:"venue"`
	City               string     `json:"city"`
	DirectoryAvailable flexBool   `json:"directoryAvailable"`
	ExistingClients    stringList `json:"existingClients"`
}

func (req addEventRequest) validate() error {
	if strings.TrimSpace(req.ExhibitionName) == "" {
		return badRequest("exhibitionName is required")
	}
	start, err := time.Parse(model.DateLayout, req.StartDate)
	if err != nil {
		return badRequest("startDate must be YYYY-MM-DD")
	}
	end, err := time.Parse(model.DateLayout, req.EndDate)
	if err != nil {
		return badRequest("endDate must be YYYY-MM-DD")
	}
	if end.Before(start) {
		return badRequest("endDate must not be before startDate")
	}
	return nil
}

func (s *Server) handleAddEvent(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFieldBytes)
	var req addEventRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err, "Error submitting event data")
		return
	}
	if err := req.validate(); err != nil {
		s.fail(w, r, err, "Error submitting event data")
		return
	}
	e := &model.Event{
		ExhibitionName:     strings.TrimSpace(req.ExhibitionName),
		StartDate:          req.StartDate,
		EndDate:            req.EndDate,
		Venue:              req.Venue,
		City:               req.City,
		DirectoryAvailable: bool(req.DirectoryAvailable),
		ExistingClients:    strings.Join(req.ExistingClients, ", "),
	}
	if err := s.store.CreateEvent(r.Context(), e); err != nil {
		s.fail(w, r, err, "Error submitting event data")
		return
	}
	s.log.Info("event added", "id", e.ID, "exhibition", e.ExhibitionName)
	respondJSON(w, http.StatusOK, map[string]string{"message": "Event details submitted successfully!"})
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := s.store.ListEvents(r.Context())
	if err != nil {
		s.fail(w, r, err, "Error fetching events")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"events": events})
}
