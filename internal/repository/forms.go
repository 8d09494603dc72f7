package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dharsanguruparan/dbzmanager/internal/model"
)

// FormRepository stores the public submissions: inquiries, exhibition
// directories and events.
type FormRepository struct {
	pool *pgxpool.Pool
}

// NewFormRepository constructs a repository.
func NewFormRepository(pool *pgxpool.Pool) *FormRepository {
	return &FormRepository{pool: pool}
}

// CreateInquiry inserts in and fills in its id.
func (r *FormRepository) CreateInquiry(ctx context.Context, in *model.Inquiry) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO inquiry_form (
			company_name, contact_person, contact_email, contact_number, website,
			event_name, venue_city, event_date, stall_size, sides_open_stall,
			floor_plan_url, logo_files_url, brand_color, meeting_room_required,
			store_room_required, tv_led_wall_required, product_display,
			seating_requirements, number_of_products, size_of_products,
			weight_of_products, deadline, specific_information, suggested_budget,
			submission_time
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, $22, $23, $24, $25
		)
		RETURNING id
	`,
		in.CompanyName, in.ContactPerson, in.ContactEmail, in.ContactNumber, in.Website,
		in.EventName, in.VenueCity, in.EventDate, in.StallSize, in.SidesOpenStall,
		in.FloorPlanURL, in.LogoFilesURL, in.BrandColor, in.MeetingRoomRequired,
		in.StoreRoomRequired, in.TVLEDWallRequired, in.ProductDisplay,
		in.SeatingRequirements, in.NumberOfProducts, in.SizeOfProducts,
		in.WeightOfProducts, in.Deadline, in.SpecificInformation, in.SuggestedBudget,
		in.SubmissionTime,
	).Scan(&in.ID)
	if err != nil {
		return translate(err, "insert inquiry")
	}
	return nil
}

// ListInquiries returns every inquiry, newest submission first.
func (r *FormRepository) ListInquiries(ctx context.Context) ([]model.Inquiry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, company_name, contact_person, contact_email, contact_number, website,
			event_name, venue_city, event_date, stall_size, sides_open_stall,
			floor_plan_url, logo_files_url, brand_color, meeting_room_required,
			store_room_required, tv_led_wall_required, product_display,
			seating_requirements, number_of_products, size_of_products,
			weight_of_products, deadline, specific_information, suggested_budget,
			submission_time
		FROM inquiry_form
		ORDER BY submission_time DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("select inquiries: %w", err)
	}
	defer rows.Close()
	out := []model.Inquiry{}
	for rows.Next() {
		var in model.Inquiry
		if err := rows.Scan(
			&in.ID, &in.CompanyName, &in.ContactPerson, &in.ContactEmail, &in.ContactNumber, &in.Website,
			&in.EventName, &in.VenueCity, &in.EventDate, &in.StallSize, &in.SidesOpenStall,
			&in.FloorPlanURL, &in.LogoFilesURL, &in.BrandColor, &in.MeetingRoomRequired,
			&in.StoreRoomRequired, &in.TVLEDWallRequired, &in.ProductDisplay,
			&in.SeatingRequirements, &in.NumberOfProducts, &in.SizeOfProducts,
			&in.WeightOfProducts, &in.Deadline, &in.SpecificInformation, &in.SuggestedBudget,
			&in.SubmissionTime,
		); err != nil {
			return nil, fmt.Errorf("scan inquiry: %w", err)
		}
		out = append(out, in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate inquiries: %w", err)
	}
	return out, nil
}

// CreateDirectory inserts d and fills in its id.
func (r *FormRepository) CreateDirectory(ctx context.Context, d *model.Directory) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO exhibition_directory (exhibition_name, year, venue, document_url)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, d.ExhibitionName, d.Year, d.Venue, d.DocumentURL).Scan(&d.ID)
	if err != nil {
		return translate(err, "insert directory")
	}
	return nil
}

// ListDirectories returns every directory in insertion order.
func (r *FormRepository) ListDirectories(ctx context.Context) ([]model.Directory, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, exhibition_name, year, venue, document_url
		FROM exhibition_directory
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("select directories: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Directory, error) {
		var d model.Directory
		err := row.Scan(&d.ID, &d.ExhibitionName, &d.Year, &d.Venue, &d.DocumentURL)
		return d, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan directories: %w", err)
	}
	if out == nil {
		out = []model.Directory{}
	}
	return out, nil
}

// CreateEvent inserts e and fills in its id. Empty dates are stored as NULL.
func (r *FormRepository) CreateEvent(ctx context.Context, e *model.Event) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO events (exhibition_name, start_date, end_date, venue, city, directory_available, existing_clients)
		VALUES ($1, NULLIF($2, '')::date, NULLIF($3, '')::date, $4, $5, $6, $7)
		RETURNING id
	`, e.ExhibitionName, e.StartDate, e.EndDate, e.Venue, e.City, e.DirectoryAvailable, e.ExistingClients).Scan(&e.ID)
	if err != nil {
		return translate(err, "insert event")
	}
	return nil
}

// ListEvents returns events by start date, latest first.
func (r *FormRepository) ListEvents(ctx context.Context) ([]model.Event, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, exhibition_name,
			COALESCE(to_char(start_date, 'YYYY-MM-DD'), ''),
			COALESCE(to_char(end_date, 'YYYY-MM-DD'), ''),
			venue, city, directory_available, existing_clients
		FROM events
		ORDER BY start_date DESC NULLS LAST, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("select events: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Event, error) {
		var e model.Event
		err := row.Scan(&e.ID, &e.ExhibitionName, &e.StartDate, &e.EndDate, &e.Venue, &e.City, &e.DirectoryAvailable, &e.ExistingClients)
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan events: %w", err)
	}
	if out == nil {
		out = []model.Event{}
	}
	return out, nil
}
