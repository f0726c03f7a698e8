package graph

import "errors"

var (
	ErrSelfConnection = errors.New("cannot connect a node to itself")
	ErrOutLimit       = errors.New("source node has reached its outgoing connection limit")
	ErrInLimit        = errors.New("target node has reached its incoming connection limit")
	ErrPrimeParent    = errors.New("prime node cannot have a parent")
	ErrCycle          = errors.New("connection would create a cycle")
	ErrNoPrime        = errors.New("graph has no prime node")
	ErrUnknownNode    = errors.New("unknown node")
	ErrUnknownConn    = errors.New("unknown connection")
	ErrDuplicateNode  = errors.New("duplicate node name")
)
