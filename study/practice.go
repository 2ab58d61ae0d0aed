// Package study holds the client-side study-mode state machines. Both run
// over a card list snapshotted at construction; neither talks to a server.
package study

// Card is the minimal card shape a study session needs.
type Card struct {
	Term       string
	Definition string
	Reference  string
}

// PracticeState is the mode the flip-through session is in.
type PracticeState int

const (
	Browsing PracticeState = iota
	Practicing
)

// Practice is the flip-through review machine. It is re-enterable
// indefinitely: End returns to Browsing and Start resets from there.
type Practice struct {
	cards   []Card
	state   PracticeState
	index   int
	flipped bool
}

// NewPractice snapshots the card order for the session.
func NewPractice(cards []Card) *Practice {
	snapshot := make([]Card, len(cards))
	copy(snapshot, cards)
	return &Practice{cards: snapshot, state: Browsing}
}

// Start enters practice at the first card, face up.
func (p *Practice) Start() {
	p.state = Practicing
	p.index = 0
	p.flipped = false
}

// Flip toggles the current card between term and definition.
func (p *Practice) Flip() {
	if p.state != Practicing {
		return
	}
	p.flipped = !p.flipped
}

// Next advances to the following card; at the last card the index stays
// put. The card shows face up afterward whether or not the index moved.
func (p *Practice) Next() {
	if p.state != Practicing {
		return
	}
	if p.index < len(p.cards)-1 {
		p.index++
	}
	p.flipped = false
}

// Previous steps back one card; at the first card the index stays put.
// Like Next, it always leaves the card face up.
func (p *Practice) Previous() {
	if p.state != Practicing {
		return
	}
	if p.index > 0 {
		p.index--
	}
	p.flipped = false
}

// End returns to browsing from any position.
func (p *Practice) End() {
	p.state = Browsing
}

func (p *Practice) State() PracticeState {
	return p.state
}

func (p *Practice) Index() int {
	return p.index
}

func (p *Practice) IsFlipped() bool {
	return p.flipped
}

// Current returns the card under review; ok is false while browsing or when
// the session has no cards.
func (p *Practice) Current() (Card, bool) {
	if p.state != Practicing || p.index >= len(p.cards) {
		return Card{}, false
	}
	return p.cards[p.index], true
}
