package model

import (
	"encoding/json"
	"time"
)

// Inquiry is a prospective client's stall request.
type Inquiry struct {
	ID                  int64           `json:"id"`
	CompanyName         string          `json:"company_name"`
	ContactPerson       string          `json:"contact_person"`
	ContactEmail        string          `json:"contact_email"`
	ContactNumber       string          `json:"contact_number"`
	Website             string          `json:"website"`
	EventName           string          `json:"event_name"`
	VenueCity           string          `json:"venue_city"`
	EventDate           string          `json:"event_date"`
	StallSize           string          `json:"stall_size"`
	SidesOpenStall      string          `json:"sides_open_stall"`
	FloorPlanURL        string          `json:"floor_plan_url"`
	LogoFilesURL        string          `json:"logo_files_url"`
	BrandColor          string          `json:"brand_color"`
	MeetingRoomRequired string          `json:"meeting_room_required"`
	StoreRoomRequired   string          `json:"store_room_required"`
	TVLEDWallRequired   string          `json:"tv_led_wall_required"`
	ProductDisplay      string          `json:"product_display"`
	SeatingRequirements json.RawMessage `json:"seating_requirements"`
	NumberOfProducts    string          `json:"number_of_products"`
	SizeOfProducts      string          `json:"size_of_products"`
	WeightOfProducts    string          `json:"weight_of_products"`
	Deadline            string          `json:"deadline"`
	SpecificInformation string          `json:"specific_information"`
	SuggestedBudget     string          `json:"suggested_budget"`
	SubmissionTime      time.Time       `json:"submission_time"`
}

// SeatingJSON normalises a raw seating value: valid JSON is kept verbatim,
// anything else is encoded as a JSON string. Empty input becomes null.
func SeatingJSON(raw string) json.RawMessage {
	if raw == "" {
		return json.RawMessage("null")
	}
	if json.Valid([]byte(raw)) {
		return json.RawMessage(raw)
	}
	b, _ := json.Marshal(raw)
	return b
}

// Directory is a stored exhibition directory document.
type Directory struct {
	ID             int64   `json:"id"`
	ExhibitionName string  `json:"exhibition_name"`
	Year           string  `json:"year"`
	Venue          string  `json:"venue"`
	DocumentURL    *string `json:"document_url"`
}

// Event is an upcoming exhibition. Dates use the YYYY-MM-DD layout.
type Event struct {
	ID                 int64  `json:"id"`
	ExhibitionName     string `json:"exhibition_name"`
	StartDate          string `json:"start_date"`
	EndDate            string `json:"end_date"`
	Venue              string `json:"venue"`
	City               string `json:"city"`
	DirectoryAvailable bool   `json:"directory_available"`
	ExistingClients    string `json:"existing_clients"`
}

// DateLayout is the wire and storage layout of event dates.
const DateLayout = "2006-01-02"
