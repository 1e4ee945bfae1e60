package referral

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// NumberPrefix prefijo fijo de los números de remisión.
const NumberPrefix = "REM"

// DayPrefix devuelve "REM-YYYYMMDD-" para la fecha dada; agrupa los números emitidos ese día.
func DayPrefix(day time.Time) string {
	return fmt.Sprintf("%s-%s-", NumberPrefix, day.Format("20060102"))
}

// FormatNumber construye REM-YYYYMMDD-NNNN. La secuencia se rellena a 4 dígitos.
func FormatNumber(day time.Time, seq int) string {
	return fmt.Sprintf("%s%04d", DayPrefix(day), seq)
}

// ParseSequence extrae la secuencia de un número con el prefijo del día indicado.
func ParseSequence(number string, day time.Time) (int, bool) {
	prefix := DayPrefix(day)
	if !strings.HasPrefix(number, prefix) {
		return 0, false
	}
	seq, err := strconv.Atoi(strings.TrimPrefix(number, prefix))
	if err != nil || seq <= 0 {
		return 0, false
	}
	return seq, true
}
