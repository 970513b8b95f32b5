package doc

// Page-break notification. Both signals fire synchronously from inside
// NewPage with no payload; handlers observe the document state directly.
// Before-break handlers see the outgoing page as current with the cursor
// at its pre-break position; after-break handlers see the fresh page with
// the cursor at the content origin.

type subscriptionKind int

const (
	beforeBreak subscriptionKind = iota
	afterBreak
)

// Subscription is a registered page-break handler. Cancel detaches it;
// cancelling twice is harmless.
type Subscription struct {
	d    *Document
	id   int
	kind subscriptionKind
	fn   func()
}

// Cancel removes the handler from the document.
func (s *Subscription) Cancel() {
	if s == nil || s.d == nil {
		return
	}
	subs := s.d.subs
	for i, other := range subs {
		if other.id == s.id {
			s.d.subs = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	s.d = nil
}

// OnBeforePageBreak registers fn to run just before a page break is
// committed and returns its subscription handle.
func (d *Document) OnBeforePageBreak(fn func()) *Subscription {
	return d.subscribe(beforeBreak, fn)
}

// OnAfterPageBreak registers fn to run just after a page break has been
// committed and returns its subscription handle.
func (d *Document) OnAfterPageBreak(fn func()) *Subscription {
	return d.subscribe(afterBreak, fn)
}

func (d *Document) subscribe(kind subscriptionKind, fn func()) *Subscription {
	d.nextSubID++
	sub := &Subscription{d: d, id: d.nextSubID, kind: kind, fn: fn}
	d.subs = append(d.subs, sub)
	return sub
}

func (d *Document) dispatch(kind subscriptionKind) {
	// Snapshot so registrations made by a handler only apply to later
	// breaks; a handler cannot observe a half-committed break.
	snapshot := make([]*Subscription, 0, len(d.subs))
	for _, sub := range d.subs {
		if sub.kind == kind {
			snapshot = append(snapshot, sub)
		}
	}
	for _, sub := range snapshot {
		sub.fn()
	}
}
