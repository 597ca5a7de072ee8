// Package ledger holds the balance rules shared by every entry mutation.
//
// A balance is the sum of signed entry contributions: given entries add their
// amount, receive entries subtract it. Amounts are int64 minor units.
package ledger

import "errors"

type EntryType string

const (
	Given   EntryType = "given"
	Receive EntryType = "receive"
)

var (
	ErrInvalidEntryType = errors.New("type must be either 'given' or 'receive'")
	ErrBalanceOverflow  = errors.New("balance out of range")
)

func ParseEntryType(raw string) (EntryType, error) {
	switch EntryType(raw) {
	case Given:
		return Given, nil
	case Receive:
		return Receive, nil
	}
	return "", ErrInvalidEntryType
}

// Movement is the part of an entry the balance depends on.
type Movement struct {
	Type   EntryType
	Amount int64
}

func Abs(amount int64) int64 {
	if amount < 0 {
		return -amount
	}
	return amount
}

// Delta is the signed contribution of an entry. The amount is normalized to its
// absolute value first so a negative input never flips direction.
func Delta(t EntryType, amount int64) int64 {
	switch t {
	case Given:
		return Abs(amount)
	case Receive:
		return -Abs(amount)
	}
	return 0
}

// Reverse undoes Delta for the same stored type and amount.
func Reverse(t EntryType, amount int64) int64 {
	return -Delta(t, amount)
}

func Apply(balance int64, m Movement) (int64, error) {
	return add(balance, Delta(m.Type, m.Amount))
}

// Replace reverses the stored movement and applies the new one.
func Replace(balance int64, stored, next Movement) (int64, error) {
	reversed, err := add(balance, Reverse(stored.Type, stored.Amount))
	if err != nil {
		return 0, err
	}
	return add(reversed, Delta(next.Type, next.Amount))
}

func Remove(balance int64, stored Movement) (int64, error) {
	return add(balance, Reverse(stored.Type, stored.Amount))
}

// Recompute derives a balance from scratch. Order does not matter.
func Recompute(movements []Movement) (int64, error) {
	var balance int64
	for _, m := range movements {
		next, err := add(balance, Delta(m.Type, m.Amount))
		if err != nil {
			return 0, err
		}
		balance = next
	}
	return balance, nil
}

// add returns ErrBalanceOverflow instead of wrapping around.
func add(a, b int64) (int64, error) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, ErrBalanceOverflow
	}
	return sum, nil
}
