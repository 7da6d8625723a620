package model

import "time"

// LedgerEntry is the persisted history of one content hash.
type LedgerEntry struct {
	FirstSeen time.Time
	LastSeen  time.Time
	Hash      string
	LastPath  string
	Size      int64
}
