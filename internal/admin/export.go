package admin

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/villa-claudia/docs-portal/internal/domain"
)

// WriteReminderLogXLSX renders the reminder log as a spreadsheet for the
// administrator.
func WriteReminderLogXLSX(w io.Writer, entries []domain.ReminderLogEntry) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Reminders"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	headers := []string{"Booking ID", "Guest Email", "Check-in", "Outcome", "Sent At"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	for row, e := range entries {
		values := []interface{}{e.BookingID, e.GuestEmail, e.CheckIn, e.Outcome, e.SentAt.Format("2006-01-02 15:04:05")}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}

	if err := f.SetColWidth(sheet, "A", "E", 22); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write xlsx: %w", err)
	}
	return nil
}
