package engine

import "fmt"

// RoundPhase is the lifecycle stage of a single round.
type RoundPhase uint8

const (
	// PhaseCalling lasts until all four seats have placed their call.
	PhaseCalling RoundPhase = iota
	// PhasePlaying lasts for the thirteen tricks of the round.
	PhasePlaying
	// PhaseComplete is terminal; the round accepts no further actions.
	PhaseComplete
)

func (p RoundPhase) String() string {
	switch p {
	case PhaseCalling:
		return "calling"
	case PhasePlaying:
		return "playing"
	case PhaseComplete:
		return "complete"
	}
	return fmt.Sprintf("phase(%d)", uint8(p))
}

const (
	// HandSize is the number of cards dealt to each seat.
	HandSize = DeckSize / NumSeats
	// TricksPerRound is the number of tricks in a complete round.
	TricksPerRound = 13
	// MinCall and MaxCall bound a legal bid: at least one trick,
	// at most all thirteen.
	MinCall = 1
	MaxCall = TricksPerRound
)

// Hand is the set of cards currently held by one seat. Order carries no
// meaning; it shrinks by one each time the seat plays a card.
type Hand []Card

// contains reports whether the hand holds the given card.
func (h Hand) contains(c Card) bool {
	for _, held := range h {
		if held == c {
			return true
		}
	}
	return false
}

// remove deletes one occurrence of c and reports whether it was held.
func (h *Hand) remove(c Card) bool {
	for i, held := range *h {
		if held == c {
			*h = append((*h)[:i], (*h)[i+1:]...)
			return true
		}
	}
	return false
}

// Round is one full deal-and-play cycle: four hands, the calling
// sub-phase, then thirteen tricks. Leader is the seat that both calls
// first and leads the first trick; it is fixed when the round is dealt.
//
// Breaks tallies tricks won per seat as raw data. No scoring formula is
// applied here; scoring is a policy that belongs to callers.
type Round struct {
	Leader Seat           `json:"leader"`
	Hands  [NumSeats]Hand `json:"hands"`
	Calls  []int          `json:"calls"`
	Tricks []Trick        `json:"tricks"`
	Breaks [NumSeats]int  `json:"breaks"`
}

// newRound deals a fresh shuffled deck into four 13-card hands. The
// fixed slicing (seat 0 takes cards 0-12, seat 1 takes 13-25, ...) keeps
// the partition disjoint and exhaustive; fairness comes from the
// shuffle, not the slicing.
func newRound(leader Seat) *Round {
	r := &Round{
		Leader: leader,
		Calls:  make([]int, 0, NumSeats),
	}
	deck := NewDeck()
	for seat := 0; seat < NumSeats; seat++ {
		hand := make(Hand, HandSize)
		copy(hand, deck[seat*HandSize:(seat+1)*HandSize])
		r.Hands[seat] = hand
	}
	return r
}

// Phase derives the round's lifecycle stage from its recorded state.
func (r *Round) Phase() RoundPhase {
	if len(r.Calls) < NumSeats {
		return PhaseCalling
	}
	if len(r.Tricks) == TricksPerRound && r.Tricks[len(r.Tricks)-1].Complete() {
		return PhaseComplete
	}
	return PhasePlaying
}

// turn derives the seat expected to act next. It is a pure function of
// the round's state: calling rotates from the leader by calls made so
// far, and during play the current trick knows its own leader and count.
// Asking for the turn of a complete round returns ErrNoActiveRound.
func (r *Round) turn() (Seat, error) {
	switch r.Phase() {
	case PhaseCalling:
		return (r.Leader + Seat(len(r.Calls))) % NumSeats, nil
	case PhasePlaying:
		return r.currentTrick().turn(), nil
	}
	return 0, ErrNoActiveRound
}

// currentTrick returns the trick accepting the next play. During the
// playing phase the last trick is always the open one.
func (r *Round) currentTrick() *Trick {
	return &r.Tricks[len(r.Tricks)-1]
}

// call records seat's bid. Only the seat whose turn it is may call;
// recording the fourth call opens the first trick and moves the round
// into its playing phase.
func (r *Round) call(seat Seat, value int) error {
	if r.Phase() != PhaseCalling {
		return ErrNotCalling
	}
	if turn, _ := r.turn(); seat != turn {
		return fmt.Errorf("seat %d cannot call, seat %d to act: %w", seat, turn, ErrOutOfTurn)
	}
	if value < MinCall || value > MaxCall {
		return fmt.Errorf("call %d outside %d..%d: %w", value, MinCall, MaxCall, ErrInvalidCall)
	}
	r.Calls = append(r.Calls, value)
	if len(r.Calls) == NumSeats {
		r.Tricks = append(r.Tricks, Trick{Leader: r.Leader})
	}
	return nil
}

// play records seat playing card into the current trick. The seat must
// be the one whose turn it is and must actually hold the card. A fourth
// card completes the trick: the winner's break is tallied and, unless
// thirteen tricks are done, the winner leads a new trick.
func (r *Round) play(seat Seat, card Card) error {
	if r.Phase() != PhasePlaying {
		return ErrNotPlaying
	}
	trick := r.currentTrick()
	if turn := trick.turn(); seat != turn {
		return fmt.Errorf("seat %d cannot play, seat %d to act: %w", seat, turn, ErrOutOfTurn)
	}
	if !r.Hands[seat].remove(card) {
		return fmt.Errorf("seat %d does not hold %s: %w", seat, card, ErrCardNotInHand)
	}
	trick.Cards = append(trick.Cards, card)
	if !trick.Complete() {
		return nil
	}
	winner, err := trick.Winner()
	if err != nil {
		return err
	}
	r.Breaks[winner]++
	if len(r.Tricks) < TricksPerRound {
		r.Tricks = append(r.Tricks, Trick{Leader: winner})
	}
	return nil
}
