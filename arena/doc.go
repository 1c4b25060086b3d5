/*
Package arena provides a growable table of slots, addressed by stable integer
handles instead of memory addresses.

An arena is the sole owner of the values it stores. Clients hold handles,
which stay valid until the slot is freed. A freed slot is recycled for later
allocations, but its generation counter is bumped first, so an old handle to
it is detected as stale instead of silently aliasing the new occupant.

Pointers returned by Get are only valid until the next call to Alloc, as a
growing arena may move its backing storage. Handles never move.

Arenas are not safe for concurrent use.

# BSD License

Copyright (c) Norbert Pillmayer <norbert@pillmayer.com>

Please refer to the License file for details.
*/
package arena

func assert(condition bool, msg string) {
	if !condition {
		panic(msg)
	}
}
