package export

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/Nelson200402/Educacion/internal/domain/sessions"
	"github.com/Nelson200402/Educacion/internal/domain/subjects"
)

const SheetName = "Sesiones"

var Header = []interface{}{
	"fecha",
	"hora",
	"materia",
	"nombre",
	"descripción",
	"duración (min)",
	"estado",
}

// Sessions renders items as an xlsx workbook ordered by date and start time.
func Sessions(items []sessions.Session, subjectsByID map[int64]subjects.Subject) ([]byte, error) {
	sorted := make([]sessions.Session, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Date != sorted[j].Date {
			return sorted[i].Date < sorted[j].Date
		}
		return sorted[i].Time() < sorted[j].Time()
	})

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), SheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(SheetName, "A1", &Header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	_ = f.SetColWidth(SheetName, "C", "E", 28)

	for i, s := range sorted {
		subject := subjectsByID[s.SubjectID()].Name
		if subject == "" {
			subject = "—"
		}
		status := "pendiente"
		if s.Done {
			status = "completada"
		}
		row := []interface{}{s.Date, s.Time(), subject, s.Name, s.Description, s.Duration, status}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
