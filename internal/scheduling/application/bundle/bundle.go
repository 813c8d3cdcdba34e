// Package bundle decodes the JSON input format the external data-generation
// service produces: activities, specialists, equipment, travel periods, and
// the horizon configuration. Dates are ISO YYYY-MM-DD, clock times HH:MM,
// weekdays 0 (Monday) through 6 (Sunday).
package bundle

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/vitaplan/vitaplan/internal/scheduling/application/services"
	"github.com/vitaplan/vitaplan/internal/scheduling/domain"
)

// Bundle is the top-level wire document.
type Bundle struct {
	StartDate     string           `json:"start_date"`
	EndDate       string           `json:"end_date"`
	Activities    []ActivityRecord `json:"activities"`
	Specialists   []SpecialistRec  `json:"specialists"`
	Equipment     []EquipmentRec   `json:"equipment"`
	TravelPeriods []TravelRec      `json:"travel_periods"`
}

// ActivityRecord is the wire form of an activity.
type ActivityRecord struct {
	ID              string         `json:"id"`
	Type            string         `json:"type"`
	Priority        int            `json:"priority"`
	Frequency       FrequencyRec   `json:"frequency"`
	DurationMinutes int            `json:"duration_minutes"`
	Window          *TimeWindowRec `json:"window,omitempty"`
	SpecialistID    string         `json:"specialist_id,omitempty"`
	EquipmentIDs    []string       `json:"equipment_ids,omitempty"`
	Location        string         `json:"location"`
	RemoteCapable   bool           `json:"remote_capable"`
	Details         string         `json:"details,omitempty"`
}

// FrequencyRec is the wire form of the frequency variant.
type FrequencyRec struct {
	Kind          string `json:"kind"`
	Count         int    `json:"count,omitempty"`
	PreferredDays []int  `json:"preferred_days,omitempty"`
	IntervalDays  int    `json:"interval_days,omitempty"`
}

// TimeWindowRec is the wire form of an activity time window.
type TimeWindowRec struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// SpecialistRec is the wire form of a specialist.
type SpecialistRec struct {
	ID           string            `json:"id"`
	Discipline   string            `json:"discipline"`
	Availability []AvailabilityRec `json:"availability"`
	DaysOff      []int             `json:"days_off,omitempty"`
	Holidays     []string          `json:"holidays,omitempty"`
}

// AvailabilityRec is the wire form of one weekly availability block.
type AvailabilityRec struct {
	Day   int    `json:"day"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// EquipmentRec is the wire form of an equipment item.
type EquipmentRec struct {
	ID          string           `json:"id"`
	Maintenance []MaintenanceRec `json:"maintenance,omitempty"`
}

// MaintenanceRec is the wire form of one maintenance window.
type MaintenanceRec struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Start     string `json:"start"`
	End       string `json:"end"`
}

// TravelRec is the wire form of one travel period.
type TravelRec struct {
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	RemoteAllowed bool   `json:"remote_allowed"`
}

// Read decodes a bundle document from r.
func Read(r io.Reader) (*Bundle, error) {
	var b Bundle
	dec := json.NewDecoder(r)
	if err := dec.Decode(&b); err != nil {
		return nil, fmt.Errorf("decode bundle: %w", err)
	}
	return &b, nil
}

// ToInputs converts the wire document into scheduler inputs. Field-level
// range validation happens later in domain.ValidateRecords; this step only
// rejects unparsable dates and clocks, unknown frequency kinds, and a horizon
// whose end date is before its start date.
func (b *Bundle) ToInputs() (services.Inputs, error) {
	var in services.Inputs

	start, err := domain.ParseDate(b.StartDate)
	if err != nil {
		return in, fmt.Errorf("start_date: %w", err)
	}
	end, err := domain.ParseDate(b.EndDate)
	if err != nil {
		return in, fmt.Errorf("end_date: %w", err)
	}
	horizon, err := domain.NewHorizon(start, end)
	if err != nil {
		return in, err
	}
	in.Horizon = horizon

	for _, rec := range b.Activities {
		a, err := rec.toDomain()
		if err != nil {
			return in, fmt.Errorf("activity %q: %w", rec.ID, err)
		}
		in.Activities = append(in.Activities, a)
	}
	for _, rec := range b.Specialists {
		s, err := rec.toDomain()
		if err != nil {
			return in, fmt.Errorf("specialist %q: %w", rec.ID, err)
		}
		in.Specialists = append(in.Specialists, s)
	}
	for _, rec := range b.Equipment {
		e, err := rec.toDomain()
		if err != nil {
			return in, fmt.Errorf("equipment %q: %w", rec.ID, err)
		}
		in.Equipment = append(in.Equipment, e)
	}
	for i, rec := range b.TravelPeriods {
		p, err := rec.toDomain()
		if err != nil {
			return in, fmt.Errorf("travel_periods[%d]: %w", i, err)
		}
		in.Travel = append(in.Travel, p)
	}

	return in, nil
}

func (rec ActivityRecord) toDomain() (domain.Activity, error) {
	a := domain.Activity{
		ID:              rec.ID,
		Type:            domain.ActivityType(rec.Type),
		Priority:        rec.Priority,
		DurationMinutes: rec.DurationMinutes,
		SpecialistID:    rec.SpecialistID,
		EquipmentIDs:    append([]string(nil), rec.EquipmentIDs...),
		Location:        rec.Location,
		RemoteCapable:   rec.RemoteCapable,
		Details:         rec.Details,
	}

	switch domain.FrequencyKind(rec.Frequency.Kind) {
	case domain.FrequencyDaily:
		a.Frequency = domain.NewDailyFrequency()
	case domain.FrequencyWeekly:
		preferred := make([]domain.Weekday, 0, len(rec.Frequency.PreferredDays))
		for _, d := range rec.Frequency.PreferredDays {
			preferred = append(preferred, domain.Weekday(d))
		}
		a.Frequency = domain.NewWeeklyFrequency(rec.Frequency.Count, preferred...)
	case domain.FrequencyMonthly:
		a.Frequency = domain.NewMonthlyFrequency(rec.Frequency.Count)
	case domain.FrequencyCustom:
		a.Frequency = domain.NewCustomFrequency(rec.Frequency.IntervalDays)
	default:
		return a, fmt.Errorf("frequency kind %q: %w", rec.Frequency.Kind, domain.ErrInvalidFrequencyKind)
	}

	if rec.Window != nil {
		start, err := domain.ParseClock(rec.Window.Start)
		if err != nil {
			return a, err
		}
		end, err := domain.ParseClock(rec.Window.End)
		if err != nil {
			return a, err
		}
		a.Window = &domain.TimeWindow{Start: start, End: end}
	}

	return a, nil
}

func (rec SpecialistRec) toDomain() (domain.Specialist, error) {
	s := domain.Specialist{ID: rec.ID, Discipline: rec.Discipline}
	for _, block := range rec.Availability {
		start, err := domain.ParseClock(block.Start)
		if err != nil {
			return s, err
		}
		end, err := domain.ParseClock(block.End)
		if err != nil {
			return s, err
		}
		s.Availability = append(s.Availability, domain.AvailabilityBlock{
			Day:   domain.Weekday(block.Day),
			Start: start,
			End:   end,
		})
	}
	for _, d := range rec.DaysOff {
		s.DaysOff = append(s.DaysOff, domain.Weekday(d))
	}
	for _, h := range rec.Holidays {
		date, err := domain.ParseDate(h)
		if err != nil {
			return s, err
		}
		s.Holidays = append(s.Holidays, date)
	}
	return s, nil
}

func (rec EquipmentRec) toDomain() (domain.Equipment, error) {
	e := domain.Equipment{ID: rec.ID}
	for _, w := range rec.Maintenance {
		startDate, err := domain.ParseDate(w.StartDate)
		if err != nil {
			return e, err
		}
		endDate, err := domain.ParseDate(w.EndDate)
		if err != nil {
			return e, err
		}
		start, err := domain.ParseClock(w.Start)
		if err != nil {
			return e, err
		}
		end, err := domain.ParseClock(w.End)
		if err != nil {
			return e, err
		}
		e.Maintenance = append(e.Maintenance, domain.MaintenanceWindow{
			StartDate: startDate,
			EndDate:   endDate,
			Start:     start,
			End:       end,
		})
	}
	return e, nil
}

func (rec TravelRec) toDomain() (domain.TravelPeriod, error) {
	start, err := domain.ParseDate(rec.StartDate)
	if err != nil {
		return domain.TravelPeriod{}, err
	}
	end, err := domain.ParseDate(rec.EndDate)
	if err != nil {
		return domain.TravelPeriod{}, err
	}
	return domain.TravelPeriod{
		StartDate:     start,
		EndDate:       end,
		RemoteAllowed: rec.RemoteAllowed,
	}, nil
}
