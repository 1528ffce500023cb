package dom

import "fmt"

// MutationType is the type of a document change.
type MutationType uint8

// Mutations signalled by a document.
const (
	NodeInserted     MutationType = iota // Target has been inserted
	NodeRemoved                          // Target is about to be removed
	SubtreeModified                      // children of Target have changed
	AttrModified                         // an attribute of Target has changed
	CharDataModified                     // character data of Target has changed
)

func (t MutationType) String() string {
	switch t {
	case NodeInserted:
		return "NodeInserted"
	case NodeRemoved:
		return "NodeRemoved"
	case SubtreeModified:
		return "SubtreeModified"
	case AttrModified:
		return "AttrModified"
	case CharDataModified:
		return "CharDataModified"
	}
	return "?"
}

// Mutation is a record of a document change.
type Mutation struct {
	Type     MutationType
	Target   NodeID
	Attr     string // name of the attribute, for AttrModified
	OldValue string
	NewValue string
}

func (m Mutation) String() string {
	if m.Type == AttrModified {
		return fmt.Sprintf("%s(%d, %s=%q)", m.Type, m.Target, m.Attr, m.NewValue)
	}
	return fmt.Sprintf("%s(%d)", m.Type, m.Target)
}

// Listener is called for every mutation of a document.
type Listener func(*Document, Mutation)

type listener struct {
	id int
	l  Listener
}

// Subscribe registers a listener for mutations. The returned function
// removes the listener again.
func (d *Document) Subscribe(l Listener) (unsubscribe func()) {
	d.lseq++
	id := d.lseq
	d.listeners = append(d.listeners, listener{id: id, l: l})
	return func() {
		for i, x := range d.listeners {
			if x.id == id {
				d.listeners = append(d.listeners[:i:i], d.listeners[i+1:]...)
				return
			}
		}
	}
}

func (d *Document) publish(m Mutation) {
	tracer().Debugf("mutation %s", m)
	ls := make([]listener, len(d.listeners))
	copy(ls, d.listeners)
	for _, x := range ls {
		x.l(d, m)
	}
}
