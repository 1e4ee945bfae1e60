package referral

import "time"

// SetClock fija el reloj del caso de uso en pruebas.
func (uc *UseCase) SetClock(now func() time.Time) { uc.now = now }
