package ontology

import "github.com/edwinsyarief/kizuna"

// Created is published after a participant has been built and bound.
type Created struct {
	Type   Datatype
	Handle kizuna.Handle
	Name   string
}

// Destroyed is published while a participant is being released, before its
// slot is recycled. Participants destroyed by an ownership cascade publish
// their own event.
type Destroyed struct {
	Type   Datatype
	Handle kizuna.Handle
	Name   string
}
