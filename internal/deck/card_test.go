package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCards(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Card
		wantErr  bool
	}{
		{
			name:  "blackjack",
			input: "AsKs",
			expected: []Card{
				NewCard(Ace, Spades),
				NewCard(King, Spades),
			},
		},
		{
			name:  "mixed suits",
			input: "AhKdQcJs9s",
			expected: []Card{
				NewCard(Ace, Hearts),
				NewCard(King, Diamonds),
				NewCard(Queen, Clubs),
				NewCard(Jack, Spades),
				NewCard(Nine, Spades),
			},
		},
		{
			name:  "case insensitive",
			input: "asKHtD",
			expected: []Card{
				NewCard(Ace, Spades),
				NewCard(King, Hearts),
				NewCard(Ten, Diamonds),
			},
		},
		{
			name:  "space separated",
			input: "Ts 6c Qh Td 5s",
			expected: []Card{
				NewCard(Ten, Spades),
				NewCard(Six, Clubs),
				NewCard(Queen, Hearts),
				NewCard(Ten, Diamonds),
				NewCard(Five, Spades),
			},
		},
		{
			name:     "surrounding and mixed whitespace",
			input:    "  8s\t3d\n",
			expected: []Card{NewCard(Eight, Spades), NewCard(Three, Diamonds)},
		},
		{name: "invalid rank", input: "XsKs", wantErr: true},
		{name: "invalid suit", input: "AsKx", wantErr: true},
		{name: "odd length", input: "AsK", wantErr: true},
		{name: "odd length with spaces", input: "As K", wantErr: true},
		{name: "empty string", input: "", expected: []Card{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCards(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestMustParseCardsPanics(t *testing.T) {
	assert.Equal(t, []Card{NewCard(Ace, Spades), NewCard(King, Spades)}, MustParseCards("AsKs"))
	assert.Equal(t, []Card{NewCard(Eight, Spades), NewCard(Three, Diamonds)}, MustParseCards("8s 3d"))
	assert.Panics(t, func() { MustParseCards("invalid") })
}

func TestCardCodeLayout(t *testing.T) {
	for code := 0; code < CardsPerDeck; code++ {
		c := Card(code)
		assert.Equal(t, Rank(code%13), c.Rank(), "code %d", code)
		assert.Equal(t, Suit(code/13), c.Suit(), "code %d", code)
		assert.Equal(t, c, NewCard(c.Rank(), c.Suit()))
	}
}

func TestCardValue(t *testing.T) {
	tests := []struct {
		card  string
		value int
	}{
		{"2s", 2},
		{"9h", 9},
		{"Td", 10},
		{"Jc", 10},
		{"Qs", 10},
		{"Kh", 10},
		{"Ad", 11},
	}

	for _, tt := range tests {
		card, err := ParseCard(tt.card)
		require.NoError(t, err)
		assert.Equal(t, tt.value, card.Value(), "card %s", tt.card)
	}
}

func TestCardString(t *testing.T) {
	assert.Equal(t, "A♠", NewCard(Ace, Spades).String())
	assert.Equal(t, "T♥", NewCard(Ten, Hearts).String())
	assert.Equal(t, "??", Card(60).String())
	assert.True(t, NewCard(Two, Diamonds).IsRed())
	assert.False(t, NewCard(Two, Clubs).IsRed())
}
