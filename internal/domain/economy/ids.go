package economy

import (
	"fmt"

	"github.com/google/uuid"
)

type IDGenerator interface {
	NewID(prefix string) string
}

type UUIDs struct{}

func (UUIDs) NewID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}

// SequenceIDs hands out prefix_1, prefix_2, ... and is not safe for concurrent use.
type SequenceIDs struct {
	next int
}

func (s *SequenceIDs) NewID(prefix string) string {
	s.next++
	return fmt.Sprintf("%s_%d", prefix, s.next)
}
