package utilities

import (
	"github.com/bwmarrin/snowflake"
	"github.com/segmentio/ksuid"
)

// NewKSUID generates a new globally unique KSUID string.
func NewKSUID() string {
	return ksuid.New().String()
}

// IDGenerator produces snowflake IDs from a single node so sequence numbers
// keep IDs unique within the same millisecond.
type IDGenerator struct {
	node *snowflake.Node
}

// NewIDGenerator sets up a snowflake node. nodeID must fit the snowflake
// node bits (0-1023).
func NewIDGenerator(nodeID int64) (*IDGenerator, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, err
	}
	return &IDGenerator{node: node}, nil
}

// Next returns the next snowflake ID. A nil generator falls back to a KSUID
// string so an ID is always returned.
func (g *IDGenerator) Next() string {
	if g == nil || g.node == nil {
		return NewKSUID()
	}
	return g.node.Generate().String()
}
