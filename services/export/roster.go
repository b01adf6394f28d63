package exportsvc

import (
	"io"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/darasa/core/school"
	"github.com/trezcool/darasa/core/view"
)

const rosterSheet = "Students"

var rosterHeader = []interface{}{
	"Full name", "Email", "Gender", "Date of birth", "Class",
	"Parent name", "Parent contact", "Admission date", "Status",
}

// RosterRow is one line of a student roster spreadsheet.
type RosterRow struct {
	FullName      string
	StudentEmail  string
	Gender        string
	DOB           string
	ClassLabel    string
	ParentName    string
	ParentContact string
	AdmissionDate string
	Status        school.Status
}

// WriteRoster writes the rows as an xlsx workbook with a single "Students" sheet.
func WriteRoster(w io.Writer, rows []view.StudentRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), rosterSheet); err != nil {
		return errors.Wrap(err, "naming sheet")
	}
	header := rosterHeader
	if err := f.SetSheetRow(rosterSheet, "A1", &header); err != nil {
		return errors.Wrap(err, "writing header")
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return errors.Wrap(err, "creating header style")
	}
	if err := f.SetRowStyle(rosterSheet, 1, 1, bold); err != nil {
		return errors.Wrap(err, "styling header")
	}
	if err := f.SetColWidth(rosterSheet, "A", "I", 18); err != nil {
		return errors.Wrap(err, "sizing columns")
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		line := []interface{}{
			r.FullName, r.StudentEmail, r.Gender, r.DOB, r.ClassLabel,
			r.ParentName, r.ParentContact, r.AdmissionDate, string(r.Status),
		}
		if err := f.SetSheetRow(rosterSheet, cell, &line); err != nil {
			return errors.Wrapf(err, "writing row %d", i+2)
		}
	}

	return errors.Wrap(f.Write(w), "writing workbook")
}

// ReadRoster parses a workbook written by WriteRoster. Rows without a name are skipped.
func ReadRoster(r io.Reader) ([]RosterRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "opening workbook")
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, errors.New("workbook has no sheet")
	}
	lines, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "reading sheet %s", sheet)
	}

	res := make([]RosterRow, 0, len(lines))
	for i, line := range lines {
		if i == 0 {
			continue // header
		}
		col := func(n int) string {
			if n < len(line) {
				return line[n]
			}
			return ""
		}
		if col(0) == "" {
			continue
		}
		res = append(res, RosterRow{
			FullName:      col(0),
			StudentEmail:  col(1),
			Gender:        col(2),
			DOB:           col(3),
			ClassLabel:    col(4),
			ParentName:    col(5),
			ParentContact: col(6),
			AdmissionDate: col(7),
			Status:        school.Status(col(8)),
		})
	}
	return res, nil
}
