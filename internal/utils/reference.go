package utils

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
)

// ReferenceGenerator issues unique, prefix-tagged identifiers backed by a snowflake node.
type ReferenceGenerator struct {
	prefix string
	node   *snowflake.Node
}

func NewReferenceGenerator(prefix string, nodeID int64) (*ReferenceGenerator, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("init snowflake node %d: %w", nodeID, err)
	}
	return &ReferenceGenerator{prefix: prefix, node: node}, nil
}

func (g *ReferenceGenerator) Next() string {
	return g.prefix + "-" + g.node.Generate().String()
}
