// Package sqlvalue содержит значения для чтения дат из PostgreSQL и SQLite одним кодом
package sqlvalue

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Форматы, в которых драйверы возвращают дату и время текстом
var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	dateLayout,
}

// Time время из БД. Принимает time.Time, строку или []byte
type Time struct {
	Time  time.Time
	Valid bool
}

// Scan implements sql.Scanner
func (t *Time) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		t.Time, t.Valid = time.Time{}, false
		return nil
	case time.Time:
		t.Time, t.Valid = v, true
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	default:
		return fmt.Errorf("sqlvalue: cannot scan %T into Time", src)
	}
}

func (t *Time) parse(s string) error {
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time, t.Valid = parsed, true
			return nil
		}
	}
	return fmt.Errorf("sqlvalue: unsupported time format %q", s)
}

// Date дата из БД без времени (полночь UTC)
type Date struct {
	Time
}

// Scan implements sql.Scanner
func (d *Date) Scan(src interface{}) error {
	if err := d.Time.Scan(src); err != nil {
		return err
	}
	if d.Valid {
		y, m, day := d.Time.Time.Date()
		d.Time.Time = time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
	}
	return nil
}

// FormatDate дата в формате YYYY-MM-DD для параметров запроса
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}
