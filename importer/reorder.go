package importer

import (
	"context"
	"fmt"
	"strings"

	"github.com/cinelist-cli/cinelist/log"
	"github.com/cinelist-cli/cinelist/remote"
	"github.com/samber/lo"
)

// Reorder moves the entries missing from before in front of the anchor,
// keeping their relative order. The anchor matches an entry id or title.
// Entries already listed in before never move.
func Reorder(ctx context.Context, session remote.Session, anchor string, before []remote.Entry) error {
	entries, err := session.Entries(ctx)
	if err != nil {
		return err
	}

	anchorAt := -1
	for i, e := range entries {
		if e.ID == anchor || strings.EqualFold(e.Title, anchor) {
			anchorAt = i
			break
		}
	}
	if anchorAt < 0 {
		return fmt.Errorf("anchor %q is not in the list", anchor)
	}

	known := lo.SliceToMap(before, func(e remote.Entry) (string, struct{}) {
		return e.ID, struct{}{}
	})
	added := lo.Filter(entries, func(e remote.Entry, i int) bool {
		_, ok := known[e.ID]
		return !ok && i != anchorAt
	})

	target := entries[anchorAt].ID
	for i := len(added) - 1; i >= 0; i-- {
		if err := session.MoveBefore(ctx, added[i].ID, target); err != nil {
			return err
		}
		target = added[i].ID
	}

	log.Debugf("moved %d films before %s", len(added), anchor)
	return nil
}
