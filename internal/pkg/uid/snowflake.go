package uid

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
)

// Snowflake generates 63-bit time ordered IDs.
type Snowflake struct {
	node *snowflake.Node
}

// NewSnowflake returns a generator for the given node. The node must be in
// [0, 1023] and unique among running replicas.
func NewSnowflake(nodeID int64) (*Snowflake, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("uid: snowflake node %d: %w", nodeID, err)
	}
	return &Snowflake{node: node}, nil
}

// Generate returns the next ID.
func (s *Snowflake) Generate() int64 {
	return s.node.Generate().Int64()
}
