package service

import (
	"fmt"

	wire "github.com/Skotchmaster/food_client/internal/models"
)

type Actor string

const (
	ActorCustomer Actor = "customer"
	ActorAdmin    Actor = "admin"
)

type Transition struct {
	From  wire.OrderStatus
	To    wire.OrderStatus
	Actor Actor
}

var validTransitions = []Transition{
	{From: wire.StatusPending, To: wire.StatusCancelled, Actor: ActorCustomer},

	{From: wire.StatusPending, To: wire.StatusProcessing, Actor: ActorAdmin},
	{From: wire.StatusPending, To: wire.StatusCancelled, Actor: ActorAdmin},
	{From: wire.StatusPending, To: wire.StatusFailed, Actor: ActorAdmin},
	{From: wire.StatusProcessing, To: wire.StatusOutForDelivery, Actor: ActorAdmin},
	{From: wire.StatusProcessing, To: wire.StatusCancelled, Actor: ActorAdmin},
	{From: wire.StatusProcessing, To: wire.StatusFailed, Actor: ActorAdmin},
	{From: wire.StatusOutForDelivery, To: wire.StatusDelivered, Actor: ActorAdmin},
	{From: wire.StatusOutForDelivery, To: wire.StatusFailed, Actor: ActorAdmin},
}

type transitionKey struct {
	From  wire.OrderStatus
	To    wire.OrderStatus
	Actor Actor
}

var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool, len(validTransitions))
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To, t.Actor}] = true
	}
	return m
}()

func ValidTransitionsFrom(status wire.OrderStatus, actor Actor) []wire.OrderStatus {
	var next []wire.OrderStatus
	for _, t := range validTransitions {
		if t.From == status && t.Actor == actor {
			next = append(next, t.To)
		}
	}
	return next
}

func CanTransition(from, to wire.OrderStatus, actor Actor) error {
	if transitionMap[transitionKey{from, to, actor}] {
		return nil
	}
	return fmt.Errorf("%w: %s -> %s is not allowed for %s", ErrConflict, from, to, actor)
}
