package gallery

type EventType string

const (
	EventCollectionCreated  EventType = "collection_created"
	EventCollectionDeleted  EventType = "collection_deleted"
	EventCollectionLocked   EventType = "collection_locked"
	EventCollectionUnlocked EventType = "collection_unlocked"
	EventPhotoAdded         EventType = "photo_added"
	EventPhotoRemoved       EventType = "photo_removed"
	EventPhotoUpdated       EventType = "photo_updated"
	EventTagCreated         EventType = "tag_created"
)

// Subscriber receives store events.
type Subscriber func(Event)

type Event struct {
	Type         EventType
	CollectionID string
	PhotoID      string
	TagID        string
	Name         string
}

// Subscribe registers fn for every change. fn runs on the mutating goroutine
// after the store lock is released.
func (s *Store) Subscribe(fn Subscriber) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func (s *Store) emit(events ...Event) {
	s.subMu.Lock()
	subs := append([]Subscriber(nil), s.subscribers...)
	s.subMu.Unlock()

	for _, e := range events {
		for _, fn := range subs {
			fn(e)
		}
	}
}
