package entity

import "time"

// DateLayout formato de fecha usado en la API y los reportes.
const DateLayout = "2006-01-02"

// DateOnly normaliza t al día calendario (00:00 UTC) conservando año, mes y día locales de t.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate interpreta "YYYY-MM-DD".
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return DateOnly(t), nil
}

// Today fecha calendario actual en loc (nil = hora local del servidor).
func Today(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return DateOnly(time.Now().In(loc))
}

// DayStart instante en que empieza en loc el día calendario de date.
func DayStart(date time.Time, loc *time.Location) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
