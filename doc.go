/*
Package bintree implements binary trees in which every node owns its left and
right child and keeps a non-owning link back to its parent.

Bintree

Trees of this shape are easy to build top-down: create the root, attach
children, attach grandchildren to the child handles returned on the way.
Walking upwards is a single step through the parent link. The difficulty lies in
the parent link itself: it must never keep a node alive, and it must never be
followed after the parent has gone away. Raw back-pointers fail at both once
subtrees get replaced or released.

Package bintree therefore stores all nodes of a tree in an arena (see package
arena). A Forest owns one arena; a Node is a lightweight handle into it.
Children and parents are referenced by arena handles, not by addresses.
Releasing a subtree recycles its slots and bumps their generations, so any
remaining handle to a released node is reliably recognized as stale.

	root := bintree.New(100)
	left := root.NewLeft(200)
	left.NewLeft(400)
	parent, _ := left.Parent()
	parent.SetValue(999)     // root.Value() == 999

Values are placed positionally; the tree does not compare or order them, and
it never copies payloads other than by assignment. A payload may well be a
shared handle (see package cell), in which case writes through one node are
visible through every other node sharing it.

Trees are not safe for concurrent use. Clients must synchronize access
externally.

_________________________________________________________________________

BSD 3-Clause License

Copyright (c) 2020–21, Norbert Pillmayer

All rights reserved.

Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions are met:

1. Redistributions of source code must retain the above copyright notice, this
list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright notice,
this list of conditions and the following disclaimer in the documentation
and/or other materials provided with the distribution.

3. Neither the name of the copyright holder nor the names of its
contributors may be used to endorse or promote products derived from
this software without specific prior written permission.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS"
AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE
IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE ARE
DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE LIABLE
FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR CONSEQUENTIAL
DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR
SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER
CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY,
OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.

*/
package bintree

import (
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
)

// DefaultTraceKey is the trace key used by forests not configured otherwise.
const DefaultTraceKey = "bintree"

// tracer writes to trace with key 'bintree'
func tracer() tracing.Trace {
	if t := tracing.Select(DefaultTraceKey); t != nil {
		return t
	}
	return gtrace.CoreTracer
}

// TreeError is an error type for the bintree module
type TreeError string

func (e TreeError) Error() string {
	return string(e)
}

// ErrReleased is flagged whenever a node handle refers to a node which has been
// released, either explicitly or as part of a replaced or released subtree.
const ErrReleased = TreeError("bintree: node has been released")

// ErrAlreadyOwned is flagged when attaching a node which already has a parent.
const ErrAlreadyOwned = TreeError("bintree: node is already owned by a parent")

// ErrCycle is flagged when attaching a node to itself or to one of its
// descendants.
const ErrCycle = TreeError("bintree: attachment would create a cycle")

// ErrNotRoot is flagged when releasing a node which is owned by a parent.
// Owned nodes are released by their owner only.
const ErrNotRoot = TreeError("bintree: node is not a root")

// ErrInvalidConfig is flagged for invalid forest configurations.
const ErrInvalidConfig = TreeError("bintree: invalid configuration")

// ErrBrokenInvariant is flagged by Check for inconsistent tree structures.
const ErrBrokenInvariant = TreeError("bintree: inconsistent tree structure")

func assert(condition bool, msg string) {
	if !condition {
		panic(msg)
	}
}
