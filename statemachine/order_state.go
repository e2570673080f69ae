package statemachine

import (
	"errors"

	"restaurant-api/models"
)

// Actor kinds for transition gating. "staff" covers chef and admin roles.
const (
	ActorCustomer = "customer"
	ActorStaff    = "staff"
)

// ActorKind maps a user role onto the transition table's actor vocabulary
func ActorKind(role models.UserRole) string {
	if role.IsStaff() {
		return ActorStaff
	}
	return ActorCustomer
}

// Transition defines a valid state change and who can perform it
type Transition struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor string
}

// validTransitions is the authoritative state machine definition
var validTransitions = []Transition{
	// Staff accepts the reservation
	{From: models.StatusPending, To: models.StatusConfirmed, Actor: ActorStaff},
	// Only the customer can cancel, and only before the restaurant accepts
	{From: models.StatusPending, To: models.StatusCancelled, Actor: ActorCustomer},
	// Staff seats the party on arrival
	{From: models.StatusConfirmed, To: models.StatusSeated, Actor: ActorStaff},
	// Staff checkout closes the order from any unresolved state
	{From: models.StatusPending, To: models.StatusCompleted, Actor: ActorStaff},
	{From: models.StatusConfirmed, To: models.StatusCompleted, Actor: ActorStaff},
	{From: models.StatusSeated, To: models.StatusCompleted, Actor: ActorStaff},
}

// transitionKey is used to look up valid transitions quickly
type transitionKey struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor string
}

// Build a lookup map for O(1) validation
var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To, t.Actor}] = true
	}
	return m
}()

// ValidTransitionsFrom returns all valid next states from a given state
func ValidTransitionsFrom(status models.OrderStatus) []models.OrderStatus {
	var nexts []models.OrderStatus
	seen := map[models.OrderStatus]bool{}
	for _, t := range validTransitions {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// IsTerminal reports whether no transition leaves the given state
func IsTerminal(status models.OrderStatus) bool {
	return len(ValidTransitionsFrom(status)) == 0
}

// CanTransition checks if a given actor can move from one state to another
func CanTransition(from, to models.OrderStatus, actor string) error {
	key := transitionKey{From: from, To: to, Actor: actor}
	if transitionMap[key] {
		return nil
	}
	return errors.New(
		"invalid transition: " + string(from) + " -> " + string(to) +
			" is not allowed for actor '" + actor + "'. " +
			"Valid transitions from " + string(from) + " are: " + describeValidFrom(from),
	)
}

func describeValidFrom(status models.OrderStatus) string {
	nexts := ValidTransitionsFrom(status)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	result := ""
	for i, s := range nexts {
		if i > 0 {
			result += ", "
		}
		result += string(s)
	}
	return result
}

// GetAllTransitions returns the full state machine for documentation
func GetAllTransitions() []Transition {
	return validTransitions
}
