// Package export формирует маршрутный лист техника в формате xlsx
package export

import (
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/usecase/optimize_tour"
)

const SheetName = "Маршрут"

var ErrWriteSheet = errors.New("export: failed to write route sheet")

var headers = []string{
	"№",
	"Бронирование",
	"Окно",
	"Клиент",
	"Телефон",
	"Адрес",
	"Индекс",
	"X",
	"Y",
	"Участок",
}

// RouteSheetExporter маршрутный лист: одна строка на остановку в порядке объезда
type RouteSheetExporter struct{}

func NewRouteSheetExporter() *RouteSheetExporter {
	return &RouteSheetExporter{}
}

// Export возвращает содержимое xlsx файла
func (e *RouteSheetExporter) Export(tour *optimize_tour.DayResponse) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		return nil, fmt.Errorf("%w: create sheet: %v", ErrWriteSheet, err)
	}
	f.SetActiveSheet(index)

	// Заголовок маршрута
	_ = f.SetCellValue(SheetName, "A1", fmt.Sprintf("Маршрут техника %d на %s, депо (%.4f; %.4f)",
		tour.TechnicianID, tour.Date.Format("02.01.2006"), tour.Depot.X, tour.Depot.Y))
	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	_ = f.MergeCell(SheetName, "A1", lastCol+"1")

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(SheetName, "A1", "A1", titleStyle)

	// Заголовки колонок
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		if err := f.SetCellValue(SheetName, cell, h); err != nil {
			return nil, fmt.Errorf("%w: header %s: %v", ErrWriteSheet, h, err)
		}
	}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})
	_ = f.SetCellStyle(SheetName, "A2", lastCol+"2", headerStyle)

	// Остановки
	row := 3
	for i, stop := range tour.Stops {
		values := stopRow(i+1, stop)
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(SheetName, cell, v); err != nil {
				return nil, fmt.Errorf("%w: row %d: %v", ErrWriteSheet, row, err)
			}
		}
		row++
	}

	// Итог
	_ = f.SetCellValue(SheetName, fmt.Sprintf("A%d", row), "Итого")
	_ = f.SetCellValue(SheetName, fmt.Sprintf("%s%d", lastCol, row), round(tour.TotalDistance))
	if len(tour.Unlocated) > 0 {
		_ = f.SetCellValue(SheetName, fmt.Sprintf("A%d", row+1),
			fmt.Sprintf("Без координат: %v", tour.Unlocated))
	}

	_ = f.SetColWidth(SheetName, "A", "A", 6)
	_ = f.SetColWidth(SheetName, "B", lastCol, 18)
	_ = f.SetColWidth(SheetName, "F", "F", 30)

	// Удаляем стандартный лист
	_ = f.DeleteSheet("Sheet1")

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: write buffer: %v", ErrWriteSheet, err)
	}
	return buf.Bytes(), nil
}

func stopRow(n int, stop optimize_tour.TourStop) []interface{} {
	values := []interface{}{n, stop.Stop.Label, "", "", "", "", "", stop.Stop.Point.X, stop.Stop.Point.Y, round(stop.LegDistance)}
	if b := stop.Booking; b != nil {
		values[1] = b.ID
		values[2] = fmt.Sprintf("%s-%s", b.SessionStart, b.SessionEnd)
		values[3] = b.Details.Contact.FullName()
		values[4] = b.Details.Contact.Phone
		values[5] = address(b.Details.Contact)
		values[6] = b.PostalCode
	}
	return values
}

func address(c domain.Contact) string {
	if c.City == "" {
		return c.Address
	}
	if c.Address == "" {
		return c.City
	}
	return c.Address + ", " + c.City
}

func round(v float64) float64 {
	return float64(int64(v*10000+0.5)) / 10000
}
