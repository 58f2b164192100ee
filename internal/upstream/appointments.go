package upstream

import (
	"context"
	"fmt"

	"github.com/tidwall/gjson"
)

// Appointment is one entry of the appointment list.
type Appointment struct {
	Date        string `json:"date"`
	What        string `json:"what"`
	Time        string `json:"time"`
	Comment     string `json:"comment"`
	Description string `json:"description"`
}

// HasAppointments reports whether an appointment endpoint is configured.
func (c *Client) HasAppointments() bool {
	return c.appointmentsURL != ""
}

// FetchAppointments returns the appointment list in service order.
func (c *Client) FetchAppointments(ctx context.Context) ([]Appointment, error) {
	if c.appointmentsURL == "" {
		return nil, fmt.Errorf("appointments url: %w", ErrNotConfigured)
	}

	s := c.OpenSession()
	defer func() { _ = s.Close() }()

	body, err := s.get(ctx, c.appointmentsURL)
	if err != nil {
		return nil, err
	}
	return parseAppointments(body)
}

func parseAppointments(body []byte) ([]Appointment, error) {
	if !gjson.ValidBytes(body) {
		return nil, invalidData("malformed JSON")
	}
	list, ok := listOf(gjson.ParseBytes(body), appointmentAliases)
	if !ok {
		return nil, invalidData("appointment list is not an array")
	}

	out := make([]Appointment, 0, len(list.Array()))
	for _, entry := range list.Array() {
		if !entry.IsObject() {
			continue
		}
		a := Appointment{
			Date:        lookupString(entry, apptDateAliases),
			What:        lookupString(entry, apptWhatAliases),
			Time:        lookupString(entry, apptTimeAliases),
			Comment:     lookupString(entry, apptCommentAliases),
			Description: lookupString(entry, apptDescribeAliases),
		}
		if a.Description == "" {
			a.Description = a.What
		}
		out = append(out, a)
	}
	return out, nil
}
