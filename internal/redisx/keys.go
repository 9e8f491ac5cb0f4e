package redisx

import (
	"fmt"
	"time"
)

const (
	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLDedup = 48 * time.Hour
)

func DedupKey(service, id string) string { return fmt.Sprintf(KeyDedup, service, id) }
