package engine

import (
	"errors"
	"testing"
)

// TestNewRoundDealPartition verifies the four dealt hands are a
// disjoint, exhaustive partition of the 52-card deck.
func TestNewRoundDealPartition(t *testing.T) {
	r := newRound(0)
	seen := make(map[Card]int)
	for seat := 0; seat < NumSeats; seat++ {
		if len(r.Hands[seat]) != HandSize {
			t.Errorf("seat %d dealt %d cards, want %d", seat, len(r.Hands[seat]), HandSize)
		}
		for _, c := range r.Hands[seat] {
			seen[c]++
		}
	}
	if len(seen) != DeckSize {
		t.Errorf("hands cover %d distinct cards, want %d", len(seen), DeckSize)
	}
	for c, n := range seen {
		if n != 1 {
			t.Errorf("card %s dealt %d times", c, n)
		}
	}
}

// TestCallTurnOrder verifies calling rotates from the round leader and
// rejects every other seat.
func TestCallTurnOrder(t *testing.T) {
	r := newRound(1)
	wantOrder := []Seat{1, 2, 3, 0}
	for i, want := range wantOrder {
		for seat := Seat(0); seat < NumSeats; seat++ {
			if seat == want {
				continue
			}
			if err := r.call(seat, 2); !errors.Is(err, ErrOutOfTurn) {
				t.Errorf("call %d: seat %d accepted out of turn (err = %v)", i, seat, err)
			}
		}
		if err := r.call(want, 2); err != nil {
			t.Fatalf("call %d from seat %d: %v", i, want, err)
		}
	}
	if got := r.Phase(); got != PhasePlaying {
		t.Errorf("phase after 4 calls = %v, want playing", got)
	}
	if len(r.Tricks) != 1 || r.Tricks[0].Leader != 1 {
		t.Errorf("first trick = %+v, want empty trick led by seat 1", r.Tricks)
	}
}

// TestCallValidation verifies range and phase checks on calls.
func TestCallValidation(t *testing.T) {
	r := newRound(0)
	if err := r.call(0, 0); !errors.Is(err, ErrInvalidCall) {
		t.Errorf("call of 0: err = %v, want ErrInvalidCall", err)
	}
	if err := r.call(0, TricksPerRound+1); !errors.Is(err, ErrInvalidCall) {
		t.Errorf("call of %d: err = %v, want ErrInvalidCall", TricksPerRound+1, err)
	}
	for seat := Seat(0); seat < NumSeats; seat++ {
		if err := r.call(seat, 3); err != nil {
			t.Fatalf("seat %d call: %v", seat, err)
		}
	}
	if err := r.call(0, 3); !errors.Is(err, ErrNotCalling) {
		t.Errorf("fifth call: err = %v, want ErrNotCalling", err)
	}
}

// TestPlayBeforeCallsClosed verifies no card is accepted while the
// round is still calling.
func TestPlayBeforeCallsClosed(t *testing.T) {
	r := newRound(0)
	if err := r.play(0, r.Hands[0][0]); !errors.Is(err, ErrNotPlaying) {
		t.Errorf("play during calling: err = %v, want ErrNotPlaying", err)
	}
}

// playingRound builds a round with fixed hands already in the playing
// phase, so trick outcomes are deterministic.
func playingRound(t *testing.T, leader Seat, hands [NumSeats][]string) *Round {
	t.Helper()
	r := &Round{
		Leader: leader,
		Calls:  []int{2, 2, 2, 2},
		Tricks: []Trick{{Leader: leader}},
	}
	for seat, tokens := range hands {
		for _, token := range tokens {
			r.Hands[seat] = append(r.Hands[seat], card(t, token))
		}
	}
	return r
}

// TestPlayValidation verifies turn and hand-containment checks.
func TestPlayValidation(t *testing.T) {
	r := playingRound(t, 0, [NumSeats][]string{
		{"AH", "2C"}, {"KH", "3C"}, {"QH", "4C"}, {"JH", "5C"},
	})
	if err := r.play(1, card(t, "KH")); !errors.Is(err, ErrOutOfTurn) {
		t.Errorf("seat 1 playing on seat 0's turn: err = %v, want ErrOutOfTurn", err)
	}
	// Seat 0 trying to play a card it does not hold.
	if err := r.play(0, card(t, "KH")); !errors.Is(err, ErrCardNotInHand) {
		t.Errorf("playing another seat's card: err = %v, want ErrCardNotInHand", err)
	}
	if len(r.Hands[0]) != 2 {
		t.Errorf("rejected plays changed seat 0's hand: %v", r.Hands[0])
	}
	if err := r.play(0, card(t, "AH")); err != nil {
		t.Fatalf("legal play rejected: %v", err)
	}
	if len(r.Hands[0]) != 1 {
		t.Errorf("hand size after play = %d, want 1", len(r.Hands[0]))
	}
}

// TestTrickCompletionAdvancesLeader verifies a completed trick tallies
// the winner's break and hands the winner the next lead.
func TestTrickCompletionAdvancesLeader(t *testing.T) {
	r := playingRound(t, 0, [NumSeats][]string{
		{"AH", "2C"}, {"KH", "3C"}, {"2S", "4C"}, {"JH", "5C"},
	})
	for _, play := range []struct {
		seat  Seat
		token string
	}{{0, "AH"}, {1, "KH"}, {2, "2S"}, {3, "JH"}} {
		if err := r.play(play.seat, card(t, play.token)); err != nil {
			t.Fatalf("seat %d playing %s: %v", play.seat, play.token, err)
		}
	}
	// Seat 2's low spade takes an ace-high heart trick.
	if r.Breaks != [NumSeats]int{0, 0, 1, 0} {
		t.Errorf("breaks = %v, want seat 2 credited", r.Breaks)
	}
	if len(r.Tricks) != 2 {
		t.Fatalf("len(tricks) = %d, want 2", len(r.Tricks))
	}
	if r.Tricks[1].Leader != 2 {
		t.Errorf("next trick led by seat %d, want the winner, seat 2", r.Tricks[1].Leader)
	}
	if turn, err := r.turn(); err != nil || turn != 2 {
		t.Errorf("turn = %v (err %v), want seat 2", turn, err)
	}
}

// TestFullRoundCompletes plays a dealt round to the end and verifies
// the terminal bookkeeping.
func TestFullRoundCompletes(t *testing.T) {
	r := newRound(2)
	for seat := Seat(2); r.Phase() == PhaseCalling; seat = seat.next() {
		if err := r.call(seat, 2); err != nil {
			t.Fatalf("seat %d call: %v", seat, err)
		}
	}
	plays := 0
	for r.Phase() == PhasePlaying {
		seat, err := r.turn()
		if err != nil {
			t.Fatal(err)
		}
		if err := r.play(seat, r.Hands[seat][0]); err != nil {
			t.Fatalf("play %d from seat %d: %v", plays, seat, err)
		}
		plays++
		if plays > DeckSize {
			t.Fatal("round did not terminate after 52 plays")
		}
	}
	if plays != DeckSize {
		t.Errorf("round took %d plays, want %d", plays, DeckSize)
	}
	if len(r.Tricks) != TricksPerRound {
		t.Errorf("len(tricks) = %d, want %d", len(r.Tricks), TricksPerRound)
	}
	total := 0
	for seat := 0; seat < NumSeats; seat++ {
		if len(r.Hands[seat]) != 0 {
			t.Errorf("seat %d still holds %d cards", seat, len(r.Hands[seat]))
		}
		total += r.Breaks[seat]
	}
	if total != TricksPerRound {
		t.Errorf("breaks sum to %d, want %d", total, TricksPerRound)
	}
	if err := r.play(0, Card{Rank: RankAce, Suit: SuitSpades}); !errors.Is(err, ErrNotPlaying) {
		t.Errorf("play on complete round: err = %v, want ErrNotPlaying", err)
	}
}
