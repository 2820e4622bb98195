package services

import (
	"bytes"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"intima-backend/internal/domain"
	"intima-backend/internal/domain/models"
	"intima-backend/internal/repositories"
	"intima-backend/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// DocsService renders the weekly duty roster of a session as a PDF for the
// admin panel.
type DocsService struct {
	Members   repositories.MemberScheduleRepository
	Slots     repositories.ScheduleSlotRepository
	DB        *sql.DB
	RequestID string
	Loader    func(session string) (rosterDocData, error)
}

type rosterDocData struct {
	Session     string
	Slots       []models.ScheduleSlot
	MemberNames map[string]string
}

// GenerateRoster returns the roster PDF bytes and a download filename.
func (s DocsService) GenerateRoster(session string) ([]byte, string, error) {
	session = strings.TrimSpace(session)
	if session == "" {
		return nil, "", domain.ValidationError{Field: "session", Msg: "required"}
	}

	data, err := s.loadRosterDocData(session)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_roster", "session="+session)
	return buildRosterPDF(data)
}

func (s DocsService) loadRosterDocData(session string) (rosterDocData, error) {
	if s.Loader != nil {
		return s.Loader(session)
	}

	var out rosterDocData
	out.Session = session

	slots, err := s.slotRepo().BySession(session)
	if err != nil {
		return out, domain.InternalError{Err: err}
	}
	out.Slots = slots

	members, err := s.memberRepo().List(session)
	if err != nil {
		return out, domain.InternalError{Err: err}
	}
	out.MemberNames = map[string]string{}
	for _, m := range members {
		out.MemberNames[m.ID] = m.Name
	}
	return out, nil
}

func (s DocsService) memberRepo() repositories.MemberScheduleRepository {
	if s.Members.DB != nil {
		return s.Members
	}
	return repositories.MemberScheduleRepository{DB: s.DB}
}

func (s DocsService) slotRepo() repositories.ScheduleSlotRepository {
	if s.Slots.DB != nil {
		return s.Slots
	}
	return repositories.ScheduleSlotRepository{DB: s.DB}
}

func buildRosterPDF(d rosterDocData) ([]byte, string, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Duty Roster", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, fmt.Sprintf("Duty Roster - %s", d.Session))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 9)
	pdf.Cell(0, 6, "Generated "+time.Now().Format("2006-01-02 15:04"))
	pdf.Ln(10)

	// Index slot cells by (day, start) so the table walks the fixed grid.
	type cellKey struct {
		day   domain.Weekday
		start string
	}
	cells := map[cellKey]models.ScheduleSlot{}
	for _, slot := range d.Slots {
		cells[cellKey{slot.Day, slot.Start}] = slot
	}

	const (
		dayColWidth  = 32.0
		slotColWidth = 74.0
		rowHeight    = 14.0
	)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(dayColWidth, 8, "Day", "1", 0, "C", false, 0, "")
	for _, w := range domain.DutyWindows {
		pdf.CellFormat(slotColWidth, 8, fmt.Sprintf("%s - %s", w.Start, w.End), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(8)

	for _, day := range domain.Days {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(dayColWidth, rowHeight, string(day), "1", 0, "C", false, 0, "")

		pdf.SetFont("Helvetica", "", 9)
		for _, w := range domain.DutyWindows {
			text := "-"
			if slot, ok := cells[cellKey{day, w.Start}]; ok && len(slot.AssignedMembers) > 0 {
				names := make([]string, 0, len(slot.AssignedMembers))
				for _, id := range slot.AssignedMembers {
					if name, ok := d.MemberNames[id]; ok && name != "" {
						names = append(names, name)
					} else {
						names = append(names, id)
					}
				}
				text = strings.Join(names, ", ")
			}
			pdf.CellFormat(slotColWidth, rowHeight, text, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(rowHeight)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("DUTY_ROSTER_%s.pdf", safeFilenamePart(d.Session))
	return buf.Bytes(), filename, nil
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "roster"
	}
	return b.String()
}
