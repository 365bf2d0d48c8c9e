// Package classify decides what happens to a successfully fetched invite.
package classify

import (
	"fmt"

	"github.com/tec9x/invitium/internal/lookup"
	"github.com/tec9x/invitium/internal/track"
)

type Category int

const (
	// Hit passed every predicate.
	Hit Category = iota
	// Bad is well-formed but rejected by a predicate.
	Bad
	// Invalid is a dead invite: a 200 response without guild identity.
	Invalid
	// Duplicate references a guild already processed this pass.
	// Informational only; no counter, no file.
	Duplicate
)

const serverInviteKind = 0

// Reason texts shown on the console and sent to the bad/invalid logs.
const (
	ReasonDead         = "Dead Invite"
	ReasonDuplicate    = "Duplicate Guild Skipped"
	ReasonNotServer    = "Not a Server Invite"
	ReasonMembers      = "Member Amount Mismatch"
	ReasonBoosts       = "Not Enough Boosts"
	ReasonOnline       = "Not Enough Members Online"
	ReasonNotPermanent = "Invite Not Permanent"
)

type Outcome struct {
	Category Category
	Reason   string
	// Detail explains a threshold rejection in the original's wording.
	Detail string
}

// Thresholds are the acceptance predicates, in evaluation order.
type Thresholds struct {
	MinMembers       int
	MaxMembers       int
	MinMembersOnline int
	MinBoosts        int
	PermanentOnly    bool
}

// Classify runs the ordered decision procedure for one fetched result.
// The only side effect is the check-and-insert on seen: any result with
// guild identity claims its guild id, including ones later rejected for
// being the wrong invite kind, so a second invite to the same guild is a
// duplicate no matter how the first one was judged. Dead invites never
// touch the set.
func Classify(res *lookup.Result, th Thresholds, seen *track.GuildSet) Outcome {
	if !res.HasIdentity() {
		return Outcome{Category: Invalid, Reason: ReasonDead}
	}

	if !seen.CheckAndAdd(res.GuildID) {
		return Outcome{Category: Duplicate, Reason: ReasonDuplicate}
	}

	if *res.Kind != serverInviteKind {
		return Outcome{Category: Bad, Reason: ReasonNotServer}
	}

	if res.Members < th.MinMembers || res.Members > th.MaxMembers {
		return Outcome{
			Category: Bad,
			Reason:   ReasonMembers,
			Detail: fmt.Sprintf("Got %d members; expected between %d and %d",
				res.Members, th.MinMembers, th.MaxMembers),
		}
	}

	if res.Boosts < th.MinBoosts {
		return Outcome{
			Category: Bad,
			Reason:   ReasonBoosts,
			Detail:   fmt.Sprintf("Got %d boosts; expected at least %d", res.Boosts, th.MinBoosts),
		}
	}

	if res.MembersOnline < th.MinMembersOnline {
		return Outcome{
			Category: Bad,
			Reason:   ReasonOnline,
			Detail: fmt.Sprintf("Got %d online; expected at least %d",
				res.MembersOnline, th.MinMembersOnline),
		}
	}

	if th.PermanentOnly && !res.Permanent() {
		return Outcome{Category: Bad, Reason: ReasonNotPermanent}
	}

	return Outcome{Category: Hit}
}
