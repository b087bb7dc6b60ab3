package inventory_test

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/mfg-console/internal/domain/entity"
	"github.com/jhoicas/mfg-console/internal/domain/inventory"
	"github.com/jhoicas/mfg-console/internal/domain/repository"
)

func mov(item, loc, batch, qty string) *entity.Movement {
	return &entity.Movement{ItemID: item, LocationID: loc, BatchID: batch, Quantity: decimal.RequireFromString(qty)}
}

func TestOnHand_IndependienteDelOrden(t *testing.T) {
	movs := []*entity.Movement{
		mov("I", "A", "L1", "10.125"),
		mov("I", "A", "L1", "-3.005"),
		mov("I", "A", "L2", "0.1"),
		mov("I", "A", "", "0.2"),
		mov("I", "B", "L1", "99"),
		mov("J", "A", "L1", "7"),
		mov("I", "A", "L1", "-0.001"),
	}
	keyBatch := repository.BalanceKey{ItemID: "I", LocationID: "A", BatchID: "L1"}
	keyLoc := repository.BalanceKey{ItemID: "I", LocationID: "A"}

	wantBatch := decimal.RequireFromString("7.119")
	wantLoc := decimal.RequireFromString("7.419")

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 50; i++ {
		rng.Shuffle(len(movs), func(a, b int) { movs[a], movs[b] = movs[b], movs[a] })
		assert.True(t, wantBatch.Equal(inventory.OnHand(movs, keyBatch)), "saldo de lote")
		assert.True(t, wantLoc.Equal(inventory.OnHand(movs, keyLoc)), "saldo de ubicación")
	}
}

func TestOnHand_SinDerivaDePuntoFlotante(t *testing.T) {
	var movs []*entity.Movement
	for i := 0; i < 1000; i++ {
		movs = append(movs, mov("I", "A", "", "0.001"))
	}
	got := inventory.OnHand(movs, repository.BalanceKey{ItemID: "I", LocationID: "A"})
	assert.Equal(t, "1", got.String())
}

func TestHasStock(t *testing.T) {
	assert.False(t, inventory.HasStock(decimal.Zero))
	assert.True(t, inventory.HasStock(decimal.RequireFromString("0.001")))
	assert.True(t, inventory.HasStock(decimal.RequireFromString("-1")))
}
