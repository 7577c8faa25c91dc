package inventory

import (
	"time"

	"github.com/shopspring/decimal"
)

// DayKeyLayout formato de clave diaria usado por los agregados de ventas.
const DayKeyLayout = "2006-01-02"

var frWeekdays = [...]string{"dim.", "lun.", "mar.", "mer.", "jeu.", "ven.", "sam."}

// DayTotal total vendido en un día calendario.
type DayTotal struct {
	Date  time.Time
	Label string // día de la semana abreviado en francés
	Total decimal.Decimal
}

// WeekdayLabel abreviatura francesa del día ("lun.", "mar.", ...).
func WeekdayLabel(t time.Time) string {
	return frWeekdays[t.Weekday()]
}

// StartOfDay medianoche del día de t en su zona horaria.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DailySeries devuelve los últimos `days` días (el más antiguo primero, hoy al final),
// completando con cero los días sin ventas. totals se indexa por DayKeyLayout.
func DailySeries(now time.Time, days int, totals map[string]decimal.Decimal) []DayTotal {
	if days <= 0 {
		return nil
	}
	today := StartOfDay(now)
	out := make([]DayTotal, 0, days)
	for i := days - 1; i >= 0; i-- {
		d := today.AddDate(0, 0, -i)
		total, ok := totals[d.Format(DayKeyLayout)]
		if !ok {
			total = decimal.Zero
		}
		out = append(out, DayTotal{Date: d, Label: WeekdayLabel(d), Total: total})
	}
	return out
}
