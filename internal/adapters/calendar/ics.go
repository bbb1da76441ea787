package calendar

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"eventdesk/internal/domain"
)

type icsRenderer struct {
	prodID string
}

// NewICSRenderer returns a CalendarRenderer producing RFC 5545 VEVENT invites.
func NewICSRenderer(prodID string) domain.CalendarRenderer {
	return &icsRenderer{prodID: prodID}
}

func (r *icsRenderer) Render(invite domain.CalendarInvite) ([]byte, error) {
	if invite.UID == "" {
		return nil, fmt.Errorf("calendar invite requires a UID")
	}
	if invite.Start == "" || invite.End == "" {
		return nil, fmt.Errorf("calendar invite requires start and end times")
	}

	var buf bytes.Buffer
	write := func(line string) {
		buf.WriteString(line)
		buf.WriteString("\r\n")
	}
	write("BEGIN:VCALENDAR")
	write("VERSION:2.0")
	write("PRODID:-//" + r.prodID + "//EN")
	write("METHOD:REQUEST")
	write("BEGIN:VEVENT")
	write("UID:" + invite.UID)
	write("DTSTAMP:" + time.Now().UTC().Format("20060102T150405Z"))
	write("DTSTART:" + invite.Start)
	write("DTEND:" + invite.End)
	write("SUMMARY:" + escapeText(invite.Summary))
	if invite.Description != "" {
		write("DESCRIPTION:" + escapeText(invite.Description))
	}
	if invite.OrganizerMail != "" {
		write("ORGANIZER:mailto:" + invite.OrganizerMail)
	}
	if invite.AttendeeMail != "" {
		write("ATTENDEE:mailto:" + invite.AttendeeMail)
	}
	write("END:VEVENT")
	write("END:VCALENDAR")
	return buf.Bytes(), nil
}

// escapeText escapes the characters RFC 5545 reserves in TEXT values.
func escapeText(s string) string {
	replacer := strings.NewReplacer(
		"\\", "\\\\",
		";", "\\;",
		",", "\\,",
		"\n", "\\n",
		"\r", "",
	)
	return replacer.Replace(s)
}
