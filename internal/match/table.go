package match

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

var ErrUnknownParticipant = errors.New("unknown participant")

// Table is the fixed giver->receiver assignment for the exchange. It is
// built once at startup and never mutated afterwards; participant order is
// the order pairs were defined in.
type Table struct {
	order []string
	pairs map[string]string
}

type Pair struct {
	Giver    string `json:"giver"`
	Receiver string `json:"receiver"`
}

func New(pairs []Pair) *Table {
	t := &Table{pairs: make(map[string]string, len(pairs))}
	for _, p := range pairs {
		if _, dup := t.pairs[p.Giver]; !dup {
			t.order = append(t.order, p.Giver)
		}
		t.pairs[p.Giver] = p.Receiver
	}
	return t
}

// Default is the hand-authored assignment the app ships with.
func Default() *Table {
	return New([]Pair{
		{Giver: "Ninou", Receiver: "Habiba"},
		{Giver: "Habiba", Receiver: "Suley"},
		{Giver: "Suley", Receiver: "Soussou"},
		{Giver: "Soussou", Receiver: "Ninou"},
	})
}

// Load reads an assignment from a JSON array of {giver, receiver} pairs.
func Load(path string) (*Table, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var pairs []Pair
	if err := json.Unmarshal(b, &pairs); err != nil {
		return nil, fmt.Errorf("parse matches file: %w", err)
	}
	return New(pairs), nil
}

// Validate checks that the assignment is a fixed-point-free permutation:
// every participant appears exactly once as giver and exactly once as
// receiver, and nobody is matched to themselves.
func (t *Table) Validate() error {
	if len(t.pairs) == 0 {
		return errors.New("match table is empty")
	}
	seen := make(map[string]bool, len(t.pairs))
	for giver, receiver := range t.pairs {
		if giver == receiver {
			return fmt.Errorf("participant %q is matched to themselves", giver)
		}
		if _, ok := t.pairs[receiver]; !ok {
			return fmt.Errorf("receiver %q is not a giver", receiver)
		}
		if seen[receiver] {
			return fmt.Errorf("participant %q receives more than once", receiver)
		}
		seen[receiver] = true
	}
	return nil
}

// Participants returns the giver names in definition order.
func (t *Table) Participants() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Match returns the receiver assigned to the given participant.
func (t *Table) Match(name string) (string, error) {
	receiver, ok := t.pairs[name]
	if !ok {
		return "", ErrUnknownParticipant
	}
	return receiver, nil
}

func (t *Table) Contains(name string) bool {
	_, ok := t.pairs[name]
	return ok
}

func (t *Table) Len() int {
	return len(t.pairs)
}
