package engine

// Seat is a fixed turn-order position at the table, 0 through 3,
// assigned to a player for the lifetime of a Game.
type Seat int

// NumSeats is the number of players at a full Callbreak table.
const NumSeats = 4

// next returns the seat acting after s in round-robin order.
func (s Seat) next() Seat { return (s + 1) % NumSeats }

// Trick is one cycle of up to four plays, one card per seat in turn
// order starting from Leader. The leader is fixed when the trick is
// created, so resolving a trick never has to walk earlier tricks.
type Trick struct {
	Leader Seat   `json:"leader"`
	Cards  []Card `json:"cards"`
}

// Complete reports whether all four seats have played into the trick.
func (t *Trick) Complete() bool { return len(t.Cards) == NumSeats }

// turn returns the seat expected to play the next card.
func (t *Trick) turn() Seat { return (t.Leader + Seat(len(t.Cards))) % NumSeats }

// seatOf returns the seat that played the card at play-order index i.
func (t *Trick) seatOf(i int) Seat { return (t.Leader + Seat(i)) % NumSeats }

// Winner resolves a complete trick to the seat that won it.
//
// Among spades the highest rank wins outright; spades dominate every
// other suit regardless of rank. If no spade was played, the highest
// card matching the suit led by the first play wins. Ties cannot occur:
// a rank+suit pair is unique within one round's 52-card deal.
//
// Calling Winner on an incomplete trick is a usage error and returns
// ErrTrickIncomplete.
func (t *Trick) Winner() (Seat, error) {
	if !t.Complete() {
		return 0, ErrTrickIncomplete
	}
	led := t.Cards[0].Suit
	best := 0
	for i := 1; i < len(t.Cards); i++ {
		if beats(t.Cards[i], t.Cards[best], led) {
			best = i
		}
	}
	return t.seatOf(best), nil
}

// beats reports whether card a takes the trick over the current best b,
// given the suit that was led.
func beats(a, b Card, led Suit) bool {
	if a.Suit == b.Suit {
		return a.Rank > b.Rank
	}
	if a.Suit == SuitSpades {
		return true
	}
	if b.Suit == SuitSpades {
		return false
	}
	return a.Suit == led
}
