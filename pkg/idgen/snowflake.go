package idgen

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
)

// Snowflake genera IDs int64 ordenados por tiempo para los movimientos del ledger.
// Cada proceso debe usar un nodo distinto (SNOWFLAKE_NODE).
type Snowflake struct {
	node *snowflake.Node
}

// NewSnowflake construye el generador para el nodo indicado.
func NewSnowflake(node int64) (*Snowflake, error) {
	n, err := snowflake.NewNode(node)
	if err != nil {
		return nil, fmt.Errorf("init snowflake node %d: %w", node, err)
	}
	return &Snowflake{node: n}, nil
}

// NextID devuelve el siguiente ID. Es seguro para uso concurrente.
func (s *Snowflake) NextID() int64 {
	return s.node.Generate().Int64()
}
