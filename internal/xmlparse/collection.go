package xmlparse

import "io"

// parsablePtr constrains P to a pointer to T that implements Parsable.
type parsablePtr[T any] interface {
	*T
	Parsable
}

// ReadCollection loads consecutive child elements named child into an
// ordered slice. Loading stops at the first sibling with a different name;
// the rest of the parent's content is skipped. An element without matching
// children yields an empty, non-nil slice.
func ReadCollection[T any, P parsablePtr[T]](r *Reader, child string) ([]T, error) {
	items := make([]T, 0)
	done := false
	err := r.Children(func(name string) error {
		if done || name != child {
			done = true
			return r.Skip()
		}
		var item T
		if err := P(&item).Load(r); err != nil {
			return err
		}
		items = append(items, item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Decode parses a complete document whose root element is a T. On failure it
// returns nil, never a partially populated value.
func Decode[T any, P parsablePtr[T]](src io.Reader, opts ...Option) (*T, error) {
	r := NewReader(src, opts...)
	if err := r.MoveToContent(); err != nil {
		return nil, err
	}
	var v T
	if err := P(&v).Load(r); err != nil {
		return nil, err
	}
	return &v, nil
}
