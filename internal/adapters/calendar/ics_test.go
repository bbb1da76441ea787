package calendar

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventdesk/internal/domain"
)

func TestICSRenderer_Render(t *testing.T) {
	r := NewICSRenderer("EventDesk//EventDesk API")

	out, err := r.Render(domain.CalendarInvite{
		UID:          "sub-123",
		Summary:      "Go Meetup",
		Description:  "monthly meetup",
		Start:        "20261001T183000Z",
		End:          "20261001T203000Z",
		AttendeeMail: "alice@example.com",
	})
	require.NoError(t, err)

	ics := string(out)
	lines := strings.Split(strings.TrimSuffix(ics, "\r\n"), "\r\n")
	assert.Equal(t, "BEGIN:VCALENDAR", lines[0])
	assert.Equal(t, "END:VCALENDAR", lines[len(lines)-1])
	assert.Contains(t, ics, "UID:sub-123\r\n")
	assert.Contains(t, ics, "DTSTART:20261001T183000Z\r\n")
	assert.Contains(t, ics, "DTEND:20261001T203000Z\r\n")
	assert.Contains(t, ics, "SUMMARY:Go Meetup\r\n")
	assert.Contains(t, ics, "ATTENDEE:mailto:alice@example.com\r\n")
	assert.Contains(t, ics, "METHOD:REQUEST\r\n")
	assert.NotContains(t, ics, "ORGANIZER:", "organizer line omitted when unset")
}

func TestICSRenderer_EscapesReservedCharacters(t *testing.T) {
	r := NewICSRenderer("EventDesk//EventDesk API")

	out, err := r.Render(domain.CalendarInvite{
		UID:     "sub-123",
		Summary: "Lunch; dinner, and\na backslash \\",
		Start:   "20261001T183000Z",
		End:     "20261001T203000Z",
	})
	require.NoError(t, err)
	assert.Contains(t, string(out), `SUMMARY:Lunch\; dinner\, and\na backslash \\`)
}

func TestICSRenderer_RequiredFields(t *testing.T) {
	r := NewICSRenderer("EventDesk//EventDesk API")

	_, err := r.Render(domain.CalendarInvite{Start: "20261001T183000Z", End: "20261001T203000Z"})
	assert.Error(t, err, "UID is required")

	_, err = r.Render(domain.CalendarInvite{UID: "sub-123"})
	assert.Error(t, err, "start and end are required")
}
