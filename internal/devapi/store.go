package devapi

import (
	"errors"
	"sort"
	"sync"

	"github.com/dmitrijs2005/journify/internal/client/models"
	"github.com/dmitrijs2005/journify/internal/cryptox"
)

var (
	ErrEmailTaken         = errors.New("email is already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type user struct {
	ID       string
	Name     string
	Email    string
	verifier []byte
}

// memStore keeps users, stories and push subscriptions for the lifetime of
// the process.
type memStore struct {
	mu      sync.RWMutex
	users   map[string]*user
	stories []models.Story
	photos  map[string][]byte
	subs    map[string]map[string]models.PushSubscription
}

func newMemStore() *memStore {
	return &memStore{
		users:  make(map[string]*user),
		photos: make(map[string][]byte),
		subs:   make(map[string]map[string]models.PushSubscription),
	}
}

func (s *memStore) addUser(u *user, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.Email]; ok {
		return ErrEmailTaken
	}
	u.verifier = cryptox.NewOfflineVerifier(u.Email, password)
	s.users[u.Email] = u
	return nil
}

func (s *memStore) authenticate(email, password string) (*user, error) {
	s.mu.RLock()
	u, ok := s.users[email]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrInvalidCredentials
	}
	match, err := cryptox.CheckOfflineVerifier(u.verifier, email, password)
	if err != nil || !match {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *memStore) userByID(id string) (*user, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.ID == id {
			return u, true
		}
	}
	return nil, false
}

func (s *memStore) addStory(st models.Story, photo []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stories = append(s.stories, st)
	if len(photo) > 0 {
		s.photos[st.ID] = photo
	}
}

func (s *memStore) photo(id string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.photos[id]
	return b, ok
}

// listStories returns stories newest first.
func (s *memStore) listStories(withLocation bool) []models.Story {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Story, 0, len(s.stories))
	for _, st := range s.stories {
		if withLocation && !st.HasLocation() {
			continue
		}
		out = append(out, st)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (s *memStore) subscribe(userID string, sub models.PushSubscription) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.subs[userID]
	if !ok {
		m = make(map[string]models.PushSubscription)
		s.subs[userID] = m
	}
	m[sub.Endpoint] = sub
}

func (s *memStore) unsubscribe(userID, endpoint string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subs[userID][endpoint]; !ok {
		return false
	}
	delete(s.subs[userID], endpoint)
	return true
}

// endpoints lists every subscribed endpoint, deduplicated.
func (s *memStore) endpoints() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]struct{})
	var out []string
	for _, m := range s.subs {
		for ep := range m {
			if _, ok := seen[ep]; !ok {
				seen[ep] = struct{}{}
				out = append(out, ep)
			}
		}
	}
	sort.Strings(out)
	return out
}
