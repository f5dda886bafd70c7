package json_types

import (
	"encoding/json"
	"fmt"
	"time"
)

func parseDate(str string) (time.Time, error) {
	// Канонический формат движка - дата без времени
	parsedDate, err := time.Parse("2006-01-02", str)
	if err != nil {
		// Если не удалось, пробуем RFC3339 и дату со временем без таймзоны
		parsedDate, err = time.Parse(time.RFC3339, str)
		if err != nil {
			parsedDate, err = time.Parse("2006-01-02T15:04:05", str)
			if err != nil {
				return time.Time{}, fmt.Errorf("failed to parse date: %v", err)
			}
		}
	}

	// Для дневной арифметики важна ровно полночь, время отбрасываем
	return time.Date(parsedDate.Year(), parsedDate.Month(), parsedDate.Day(), 0, 0, 0, 0, time.UTC), nil
}

type Date struct {
	Date time.Time
}

func NewDate(t time.Time) Date {
	return Date{Date: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

func (t *Date) UnmarshalJSON(data []byte) error {
	// Ожидаем строковый токен; число или объект - ошибка валидации, не паника
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("date must be a quoted string, got: %s", string(data))
	}

	// Убираем кавычки вокруг строки
	str := string(data[1 : len(data)-1])

	parsedDate, err := parseDate(str)
	if err != nil {
		return err
	}

	*t = Date{Date: parsedDate}
	return nil
}

func (t Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Date.Format("2006-01-02"))
}

// Key возвращает каноническую строку YYYY-MM-DD, по ней движок сравнивает дни
func (t Date) Key() string {
	return t.Date.Format("2006-01-02")
}

type DateOrEmpty struct {
	Date time.Time
}

func (t *DateOrEmpty) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	d := Date{}
	err := d.UnmarshalJSON(data)
	if err != nil {
		return err
	}

	*t = DateOrEmpty{Date: d.Date}
	return nil
}

func (t DateOrEmpty) MarshalJSON() ([]byte, error) {
	if t.Date.IsZero() {
		return json.Marshal(nil)
	}

	return Date{Date: t.Date}.MarshalJSON()
}
