package export

import (
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-ical"

	"github.com/vitaplan/vitaplan/internal/scheduling/domain"
)

const icalProductID = "-//Vitaplan//Schedule Export//EN"

// ToICalendar converts a finished plan into an iCalendar document with one
// VEVENT per booked slot.
func ToICalendar(plan *domain.Plan) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, icalProductID)

	for _, slot := range plan.Slots() {
		event := ical.NewEvent()
		event.Props.SetText(ical.PropUID, slot.ID.String())
		event.Props.SetDateTime(ical.PropDateTimeStamp, plan.UpdatedAt())
		event.Props.SetDateTime(ical.PropDateTimeStart, slotStart(slot))
		event.Props.SetDateTime(ical.PropDateTimeEnd, slotStart(slot).Add(time.Duration(slot.DurationMinutes)*time.Minute))
		event.Props.SetText(ical.PropSummary, fmt.Sprintf("%s (%s)", slot.ActivityID, slot.ActivityType))
		if slot.Location != "" {
			event.Props.SetText(ical.PropLocation, slot.Location)
		}
		if slot.SpecialistID != "" {
			event.Props.SetText(ical.PropDescription, "Specialist: "+slot.SpecialistID)
		}
		cal.Children = append(cal.Children, event.Component)
	}

	return cal
}

// WriteICalendar renders the plan as an ICS stream.
func WriteICalendar(w io.Writer, plan *domain.Plan) error {
	return ical.NewEncoder(w).Encode(ToICalendar(plan))
}

func slotStart(slot domain.BookedSlot) time.Time {
	return slot.Date.Add(time.Duration(slot.Start) * time.Minute)
}
