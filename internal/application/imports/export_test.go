package imports

import "time"

// SetClock reemplaza el reloj del caso de uso en pruebas.
func SetClock(uc *OpenOrderUseCase, now func() time.Time) { uc.now = now }
