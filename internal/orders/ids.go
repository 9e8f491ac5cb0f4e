package orders

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

type IDGenerator interface {
	NewOrderID() string
}

// TimeIDs issues ids of the form ORD-<unix-millis>-<instance>-<seq>.
// The counter makes ids unique within a process even inside one millisecond.
type TimeIDs struct {
	Now      func() time.Time
	instance string
	seq      atomic.Uint64
}

func NewTimeIDs() *TimeIDs {
	inst := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return &TimeIDs{Now: time.Now, instance: inst}
}

func (g *TimeIDs) NewOrderID() string {
	n := g.seq.Add(1)
	return fmt.Sprintf("ORD-%d-%s-%d", g.Now().UnixMilli(), g.instance, n)
}
