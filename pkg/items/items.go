// Package items holds the payload served by the hiring endpoint.
package items

// Item is one entry of the hiring list. Every field is optional on the wire.
type Item struct {
	ID     *int64  `json:"id" yaml:"id"`
	ListID *int64  `json:"listId" yaml:"listId"`
	Name   *string `json:"name" yaml:"name"`
}

// EmptyItem is the canonical empty Item.
var EmptyItem = Item{}

// New builds a fully populated Item.
func New(id, listID int64, name string) Item {
	return Item{ID: &id, ListID: &listID, Name: &name}
}

// IsEmpty reports whether i is structurally equal to EmptyItem.
func (i Item) IsEmpty() bool {
	return i.ID == nil && i.ListID == nil && i.Name == nil
}

// Equal compares two items field by field.
func (i Item) Equal(o Item) bool {
	return eqPtr(i.ID, o.ID) && eqPtr(i.ListID, o.ListID) && eqPtr(i.Name, o.Name)
}

func eqPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Collection wraps the items returned by one fetch.
type Collection struct {
	Items []Item `json:"items" yaml:"items"`
}

// EmptyCollection is the canonical empty Collection.
var EmptyCollection = Collection{}

// IsEmpty reports whether c holds no items.
func (c Collection) IsEmpty() bool {
	return len(c.Items) == 0
}

// Group is a run of items sharing one listId.
type Group struct {
	ListID *int64 `json:"listId" yaml:"listId"`
	Items  []Item `json:"items" yaml:"items"`
}

// GroupByListID partitions the collection by listId, keeping groups in order of
// first appearance and items in their original order.
func (c Collection) GroupByListID() []Group {
	var groups []Group
	idx := make(map[int64]int)
	nilIdx := -1

	for _, it := range c.Items {
		pos := -1
		if it.ListID == nil {
			pos = nilIdx
		} else if p, ok := idx[*it.ListID]; ok {
			pos = p
		}
		if pos < 0 {
			groups = append(groups, Group{ListID: it.ListID})
			pos = len(groups) - 1
			if it.ListID == nil {
				nilIdx = pos
			} else {
				idx[*it.ListID] = pos
			}
		}
		groups[pos].Items = append(groups[pos].Items, it)
	}
	return groups
}
