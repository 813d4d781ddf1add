package game

// aliveCount returns how many seats still participate in turn traversal.
// Assumes lock is held.
func (r *Room) aliveCount() int {
	n := 0
	for _, p := range r.Players {
		if p.Alive() {
			n++
		}
	}
	return n
}

// nextAliveSeat walks `steps` eligible seats in the current direction from
// `from`, wrapping around and skipping eliminated/spectator seats. Assumes
// lock is held and at least one eligible seat exists.
func (r *Room) nextAliveSeat(from, steps int) int {
	seat := from
	for passed := 0; passed < steps; {
		seat = (seat + r.Direction + len(r.Players)) % len(r.Players)
		if r.Players[seat].Alive() {
			passed++
		}
	}
	return seat
}

// advance moves the current seat `steps` eligible seats forward and resets
// every player's drawn-this-turn flag. steps is >= 1, chosen by the caller
// from the effect just applied (1 normally, 2 for a skip, more when skip
// penalties are in force). Assumes lock is held.
func (r *Room) advance(steps int) {
	if r.aliveCount() == 0 {
		return
	}
	r.CurrentSeat = r.nextAliveSeat(r.CurrentSeat, steps)
	for _, p := range r.Players {
		p.HasDrawn = false
	}
}
