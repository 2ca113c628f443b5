/*
Package vector provides a generic, resizable sequence container together with a compact binary
record format and a randomized order-statistic selection.

# Containers

Vector is an index-addressable sequence of values. Two capabilities are fixed at construction:

  - Traits supplies the equality predicate and the three-way comparison. Operations that search by
    identity (Contains, GetIndex, PushBackNew) need Equal; ordering operations (Sort, BinarySearch,
    ChooseNthItem, WithinBounds) need Compare.
  - The ownership policy P is a type parameter. Borrowed never touches evicted elements, Owned
    releases the pointee of every evicted pointer exactly once.

PointerVector composes a Vector of pointers with the Owned policy. It deep copies on Clone and
Assign, releases pointees on Remove, Truncate, Set, Compact and Clear, and sorts by the
dereferenced values.

Index violations panic, they are caller bugs and not runtime errors.

# Record format

All multi-byte fields are written in the producer's native byte order. A reader created with the
swap flag reverses them.

	raw:      [int32 count][count x element bytes]
	legacy:   [int32 capacity][int32 count][count x element bytes | callback payload]
	classes:  [int32 count][count x element.Serialize]
	pointers: [int32 count][per slot: int8 presence, element.Serialize iff presence != 0]

Every decoder checks the declared count against MaxElements (MaxPointerElements for pointer
streams) before allocating. On any failure the container content is unspecified and should be
discarded.

Example:

	v := vector.NewOrdered(5, 1, 4)
	v.PushBack(2)
	v.Sort()

	var buf bytes.Buffer
	w := stream.NewWriter(&buf)
	if err := v.Serialize(w); err != nil {
		return err
	}

	decoded := vector.NewOrdered[int32]()
	if err := decoded.DeSerialize(stream.NewReader(&buf, false)); err != nil {
		return err
	}
*/
package vector
