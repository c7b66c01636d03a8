package bonus

import (
	"fmt"
	"time"
)

// monthsPT holds the Portuguese month names used in period labels.
var monthsPT = [...]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

// PeriodLabel renders an inclusive date window the way the payroll reports
// name their periods, e.g. "1 a 15 de Janeiro de 2024".
func PeriodLabel(start, end time.Time) string {
	dayI, monthI, yearI := start.Day(), monthsPT[start.Month()-1], start.Year()
	dayF, monthF, yearF := end.Day(), monthsPT[end.Month()-1], end.Year()

	if yearI == yearF {
		if monthI == monthF {
			return fmt.Sprintf("%d a %d de %s de %d", dayI, dayF, monthI, yearI)
		}
		return fmt.Sprintf("%d de %s a %d de %s de %d", dayI, monthI, dayF, monthF, yearI)
	}
	return fmt.Sprintf("%d de %s de %d a %d de %s de %d", dayI, monthI, yearI, dayF, monthF, yearF)
}
