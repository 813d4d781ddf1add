package game

import (
	"github.com/google/uuid"
)

// DuelMode distinguishes what is at stake when the duel resolves.
type DuelMode string

const (
	DuelRip     DuelMode = "rip"     // loser is eliminated
	DuelPenalty DuelMode = "penalty" // pending draw/skip counts at stake
)

// DuelRole names the two participants. The defender is always the
// threatened player.
type DuelRole string

const (
	RoleAttacker DuelRole = "attacker"
	RoleDefender DuelRole = "defender"
)

// Duel symbols with cyclic dominance: rock beats scissors beats paper beats
// rock. Equal choices are a no-op round.
const (
	SymbolRock     = "rock"
	SymbolPaper    = "paper"
	SymbolScissors = "scissors"
)

var duelBeats = map[string]string{
	SymbolRock:     SymbolScissors,
	SymbolPaper:    SymbolRock,
	SymbolScissors: SymbolPaper,
}

// duelTargetScore is the score that ends the duel.
const duelTargetScore = 2

// DuelSession is a two-party simultaneous-choice mini-game nested under the
// effect resolver. While Active is false the session is pending: the
// defender is still deciding whether to fight.
type DuelSession struct {
	Mode       DuelMode
	AttackerID uuid.UUID
	DefenderID uuid.UUID

	Round         int
	AttackerScore int
	DefenderScore int
	Active        bool

	attackerChoice string
	defenderChoice string
}

func newDuelSession(mode DuelMode, attacker, defender uuid.UUID) *DuelSession {
	return &DuelSession{
		Mode:       mode,
		AttackerID: attacker,
		DefenderID: defender,
		Round:      1,
	}
}

// roleOf maps an identity onto its duel role, or "" for outsiders.
func (d *DuelSession) roleOf(id uuid.UUID) DuelRole {
	switch id {
	case d.AttackerID:
		return RoleAttacker
	case d.DefenderID:
		return RoleDefender
	}
	return ""
}

// submit records a choice for one role. Either role may submit at any time
// while the round is open; re-submitting overwrites the previous choice.
func (d *DuelSession) submit(role DuelRole, choice string) {
	if role == RoleAttacker {
		d.attackerChoice = choice
	} else {
		d.defenderChoice = choice
	}
}

// submitted reports whether a role has a choice pending for this round.
func (d *DuelSession) submitted(role DuelRole) bool {
	if role == RoleAttacker {
		return d.attackerChoice != ""
	}
	return d.defenderChoice != ""
}

// resolveRound scores the round once both choices are in. It returns the
// duel winner and true when a score reaches the target; otherwise the
// session stays open for the next round. Ties reset both choices without
// advancing the round counter.
func (d *DuelSession) resolveRound() (DuelRole, bool) {
	if d.attackerChoice == "" || d.defenderChoice == "" {
		return "", false
	}
	a, b := d.attackerChoice, d.defenderChoice
	d.attackerChoice = ""
	d.defenderChoice = ""

	if a == b {
		return "", false
	}
	if duelBeats[a] == b {
		d.AttackerScore++
	} else {
		d.DefenderScore++
	}
	if d.AttackerScore >= duelTargetScore {
		return RoleAttacker, true
	}
	if d.DefenderScore >= duelTargetScore {
		return RoleDefender, true
	}
	d.Round++
	return "", false
}

// validSymbol reports whether a submitted duel choice is one of the three
// playable symbols.
func validSymbol(s string) bool {
	_, ok := duelBeats[s]
	return ok
}
