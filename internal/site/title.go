// Package site holds the chrome state shared by every page: the current page title
// and the navigator that list views use to move between routes.
package site

import (
	"net/http"
	"sync"
	"time"

	"inspire-bytes/views"
)

// MaxSessions bounds the number of sessions holding a title. When the store is full
// the least recently written title is dropped.
const MaxSessions = 100_000

type titleEntry struct {
	title   string
	written time.Time
}

// TitleStore keeps the current page title per browser session.
// Last write wins and there is no history. Titles expire with the session cookie.
type TitleStore struct {
	mu        sync.Mutex
	titles    map[string]titleEntry
	ttl       time.Duration
	limit     int
	lastSweep time.Time
	now       func() time.Time
}

// NewTitleStore creates an empty store whose titles live as long as a session cookie
func NewTitleStore() *TitleStore {
	return &TitleStore{
		titles: make(map[string]titleEntry),
		ttl:    SessionTTL,
		limit:  MaxSessions,
		now:    time.Now,
	}
}

// Set records the title for a session
func (s *TitleStore) Set(session, title string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if _, ok := s.titles[session]; !ok {
		if now.Sub(s.lastSweep) >= time.Minute || len(s.titles) >= s.limit {
			s.sweep(now)
		}
		if len(s.titles) >= s.limit {
			s.evictOldest()
		}
	}
	s.titles[session] = titleEntry{title: title, written: now}
}

// Get returns the title for a session, or "" when none was set or it expired
func (s *TitleStore) Get(session string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.titles[session]
	if !ok || s.expired(entry, s.now()) {
		return ""
	}
	return entry.title
}

// Forget drops a session's title
func (s *TitleStore) Forget(session string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.titles, session)
}

// Len returns the number of sessions currently holding a title
func (s *TitleStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.titles)
}

func (s *TitleStore) expired(entry titleEntry, now time.Time) bool {
	return now.Sub(entry.written) >= s.ttl
}

func (s *TitleStore) sweep(now time.Time) {
	s.lastSweep = now
	for session, entry := range s.titles {
		if s.expired(entry, now) {
			delete(s.titles, session)
		}
	}
}

func (s *TitleStore) evictOldest() {
	var (
		oldest  string
		written time.Time
		found   bool
	)
	for session, entry := range s.titles {
		if !found || entry.written.Before(written) {
			oldest, written, found = session, entry.written, true
		}
	}
	if found {
		delete(s.titles, oldest)
	}
}

// ChromeFor builds the layout chrome for a request
func (s *TitleStore) ChromeFor(r *http.Request, username string, signedIn bool) views.Chrome {
	return views.Chrome{
		Title:    s.Get(SessionID(r.Context())),
		Username: username,
		SignedIn: signedIn,
	}
}
