package service

import (
	"fmt"
	"log"
	"time"

	"github.com/ElvisLo030/RA-bot/internal/store"
)

// Timezone is the fixed offset all ledger timestamps are recorded in; the
// existing data files carry UTC+8 stamps.
var Timezone = time.FixedZone("UTC+8", 8*60*60)

const dateLayout = "2006-01-02"

func stamp(clock func() time.Time) string {
	return clock().In(Timezone).Format(time.RFC3339)
}

// persist mirrors the store to disk after a mutation. A failed write is
// logged and reported but the in-memory change stays; the snapshot catches
// up on the next successful save.
func persist(st *store.Store) error {
	if err := st.Save(); err != nil {
		log.Printf("[store] snapshot save failed: %v", err)
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}
