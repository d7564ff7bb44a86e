package dto

import (
	"fmt"
	"time"

	"github.com/Rashdan16/Event-sorter/internal/domain/event"
)

const dateLayout = "2006-01-02"

// EventRequest is the create/update payload. Update replaces every
// field, so the two operations share one shape.
type EventRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Location    string  `json:"location"`
	TicketURL   string  `json:"ticket_url" binding:"omitempty,url"`
	Price       string  `json:"price"`
	ImagePath   string  `json:"image_path"`
	StartDate   string  `json:"start_date" binding:"required,dateonly"`
	EndDate     *string `json:"end_date" binding:"omitempty,dateonly"`
	EventTime   *string `json:"event_time" binding:"omitempty,hhmm"`
}

// ToInput converts the request into domain input, parsing the dates.
func (r *EventRequest) ToInput() (*event.EventInput, error) {
	start, err := time.Parse(dateLayout, r.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: start_date must be YYYY-MM-DD", event.ErrValidation)
	}

	in := &event.EventInput{
		Name:        r.Name,
		Description: r.Description,
		Location:    r.Location,
		TicketURL:   r.TicketURL,
		Price:       r.Price,
		ImagePath:   r.ImagePath,
		StartDate:   start,
		EventTime:   r.EventTime,
	}

	if r.EndDate != nil && *r.EndDate != "" {
		end, err := time.Parse(dateLayout, *r.EndDate)
		if err != nil {
			return nil, fmt.Errorf("%w: end_date must be YYYY-MM-DD", event.ErrValidation)
		}
		in.EndDate = &end
	}
	return in, nil
}
