package utils

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
)

// IDGenerator issues short, time-ordered reference numbers such as BK-1789....
type IDGenerator struct {
	node *snowflake.Node
}

// NewIDGenerator creates a generator for the given snowflake node (0-1023).
func NewIDGenerator(node int64) (*IDGenerator, error) {
	n, err := snowflake.NewNode(node)
	if err != nil {
		return nil, fmt.Errorf("snowflake node %d: %w", node, err)
	}
	return &IDGenerator{node: n}, nil
}

// Next returns prefix-<id>.
func (g *IDGenerator) Next(prefix string) string {
	return prefix + "-" + g.node.Generate().Base36()
}

// FormatInvoiceNo formats an invoice sequence number, e.g. INV-000042.
func FormatInvoiceNo(prefix string, number int64) string {
	return fmt.Sprintf("%s-%06d", prefix, number)
}
