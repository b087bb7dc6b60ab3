package imports

import "context"

// OrderLocker exclusión mutua por pedido entre procesos (o dentro del proceso).
// unlock debe llamarse siempre; devuelve error si el lease expiró antes de liberar.
type OrderLocker interface {
	Lock(ctx context.Context, orderRef string) (unlock func(context.Context) error, err error)
}
