package engine

import "testing"

func card(t *testing.T, token string) Card {
	t.Helper()
	c, err := ParseCard(token)
	if err != nil {
		t.Fatalf("bad card token %q: %v", token, err)
	}
	return c
}

func trickOf(t *testing.T, leader Seat, tokens ...string) Trick {
	t.Helper()
	tr := Trick{Leader: leader}
	for _, token := range tokens {
		tr.Cards = append(tr.Cards, card(t, token))
	}
	return tr
}

// TestWinnerSpadeBeatsAll verifies a lone spade wins regardless of
// rank, whatever position it was played from.
func TestWinnerSpadeBeatsAll(t *testing.T) {
	// The two of spades against ace-high hearts, rotated through all
	// four play positions.
	layouts := [][]string{
		{"2S", "AH", "KH", "QH"},
		{"AH", "2S", "KH", "QH"},
		{"AH", "KH", "2S", "QH"},
		{"AH", "KH", "QH", "2S"},
	}
	for i, tokens := range layouts {
		tr := trickOf(t, 0, tokens...)
		winner, err := tr.Winner()
		if err != nil {
			t.Fatalf("layout %d: %v", i, err)
		}
		if winner != Seat(i) {
			t.Errorf("layout %d: winner = seat %d, want seat %d (the spade)", i, winner, i)
		}
	}
}

// TestWinnerHighestSpade verifies that among several spades the highest
// rank takes the trick.
func TestWinnerHighestSpade(t *testing.T) {
	tr := trickOf(t, 0, "5S", "AH", "KS", "9S")
	winner, err := tr.Winner()
	if err != nil {
		t.Fatal(err)
	}
	if winner != 2 {
		t.Errorf("winner = seat %d, want seat 2 (king of spades)", winner)
	}
}

// TestWinnerLedSuit verifies that with no spades the highest card of
// the led suit wins, even against higher ranks off suit.
func TestWinnerLedSuit(t *testing.T) {
	// Diamonds led; the ace of hearts does not follow and cannot win.
	tr := trickOf(t, 0, "7D", "AH", "QD", "3D")
	winner, err := tr.Winner()
	if err != nil {
		t.Fatal(err)
	}
	if winner != 2 {
		t.Errorf("winner = seat %d, want seat 2 (queen of diamonds)", winner)
	}
}

// TestWinnerAbsoluteSeat verifies the winning seat accounts for the
// trick's leader, not just the play-order index.
func TestWinnerAbsoluteSeat(t *testing.T) {
	// Leader is seat 2, so play order is 2, 3, 0, 1. The third card
	// played (highest club) belongs to seat 0.
	tr := trickOf(t, 2, "4C", "9C", "KC", "2C")
	winner, err := tr.Winner()
	if err != nil {
		t.Fatal(err)
	}
	if winner != 0 {
		t.Errorf("winner = seat %d, want seat 0", winner)
	}
}

// TestWinnerIncomplete verifies resolving an unfinished trick is
// reported as a usage error.
func TestWinnerIncomplete(t *testing.T) {
	tr := trickOf(t, 0, "AS", "KS", "QS")
	if _, err := tr.Winner(); err != ErrTrickIncomplete {
		t.Errorf("Winner() on 3-card trick: err = %v, want ErrTrickIncomplete", err)
	}
	empty := Trick{Leader: 1}
	if _, err := empty.Winner(); err != ErrTrickIncomplete {
		t.Errorf("Winner() on empty trick: err = %v, want ErrTrickIncomplete", err)
	}
}

// TestTrickTurn verifies the acting seat rotates from the leader by
// cards played.
func TestTrickTurn(t *testing.T) {
	tr := Trick{Leader: 3}
	wantOrder := []Seat{3, 0, 1, 2}
	for i, want := range wantOrder {
		if got := tr.turn(); got != want {
			t.Errorf("after %d plays: turn = seat %d, want seat %d", i, got, want)
		}
		tr.Cards = append(tr.Cards, Card{Rank: RankTwo + Rank(i), Suit: SuitClubs})
	}
}
