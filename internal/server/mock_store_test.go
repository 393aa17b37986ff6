package server

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/review-portal/internal/db"
	"github.com/jonathan/review-portal/internal/types"
)

// mockStore is an in-memory Store. Set err to make every call fail.
type mockStore struct {
	mu       sync.Mutex
	err      error
	pingErr  error
	users    map[uuid.UUID]*db.User
	reviews  []types.Review
	topics   []types.Topic
	clock    time.Time
	closed   bool
	listCall int
}

func newMockStore() *mockStore {
	return &mockStore{
		users: make(map[uuid.UUID]*db.User),
		clock: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (m *mockStore) tick() time.Time {
	m.clock = m.clock.Add(time.Minute)
	return m.clock
}

func (m *mockStore) Ping(context.Context) error { return m.pingErr }

func (m *mockStore) Close() { m.closed = true }

func (m *mockStore) CreateUser(_ context.Context, username, passwordHash string) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.users {
		if strings.EqualFold(u.Username, username) {
			return nil, db.ErrDuplicate
		}
	}
	now := m.tick()
	u := &db.User{ID: uuid.New(), Username: username, PasswordHash: passwordHash, CreatedAt: now, UpdatedAt: now}
	m.users[u.ID] = u
	cp := *u
	return &cp, nil
}

func (m *mockStore) GetUser(_ context.Context, id uuid.UUID) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *mockStore) GetUserByUsername(_ context.Context, username string) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.users {
		if strings.EqualFold(u.Username, username) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockStore) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	u, ok := m.users[id]
	if !ok {
		return db.ErrNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (m *mockStore) CountUsers(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	return len(m.users), nil
}

func (m *mockStore) CreateReview(_ context.Context, authorID uuid.UUID, req *types.CreateReviewRequest) (*types.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	author, ok := m.users[authorID]
	if !ok {
		return nil, db.ErrNotFound
	}
	key := types.JobKey(req.Title, req.Company, req.Location)
	for _, r := range m.reviews {
		if r.AuthorID == authorID && r.JobKey() == key {
			return nil, db.ErrDuplicate
		}
	}

	r := types.Review{
		ID:             uuid.New(),
		Title:          strings.TrimSpace(req.Title),
		Company:        strings.TrimSpace(req.Company),
		Location:       strings.TrimSpace(req.Location),
		Department:     req.Department,
		Description:    req.Description,
		HourlyPay:      req.HourlyPay,
		Benefits:       req.Benefits,
		Body:           req.Body,
		Rating:         req.Rating,
		Recommendation: req.Recommendation,
		AuthorID:       authorID,
		Author:         author.Username,
		CreatedAt:      m.tick(),
	}
	m.reviews = append(m.reviews, r)
	return &r, nil
}

func (m *mockStore) GetReview(_ context.Context, id uuid.UUID) (*types.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, r := range m.reviews {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, nil
}

func anyOf(value string, allowed []string) bool {
	return len(allowed) == 0 || slices.Contains(allowed, value)
}

// ListReviews returns newest first, like the SQL implementation.
func (m *mockStore) ListReviews(_ context.Context, f types.ReviewFilter) ([]types.Review, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, 0, m.err
	}
	var matched []types.Review
	for i := len(m.reviews) - 1; i >= 0; i-- {
		r := m.reviews[i]
		if f.Search != "" && !strings.Contains(strings.ToLower(r.Title), strings.ToLower(f.Search)) {
			continue
		}
		if !anyOf(r.Department, f.Departments) || !anyOf(r.Company, f.Companies) || !anyOf(r.Location, f.Locations) {
			continue
		}
		matched = append(matched, r)
	}

	start := min(f.Offset(), len(matched))
	end := min(start+f.PerPage, len(matched))
	return matched[start:end], len(matched), nil
}

func (m *mockStore) ListAllReviews(context.Context) ([]types.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCall++
	if m.err != nil {
		return nil, m.err
	}
	return slices.Clone(m.reviews), nil
}

func (m *mockStore) ListReviewsByAuthor(_ context.Context, authorID uuid.UUID) ([]types.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []types.Review
	for _, r := range m.reviews {
		if r.AuthorID == authorID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockStore) DeleteReview(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	for i, r := range m.reviews {
		if r.ID == id {
			m.reviews = slices.Delete(m.reviews, i, i+1)
			return nil
		}
	}
	return db.ErrNotFound
}

func (m *mockStore) AdjustVotes(_ context.Context, id uuid.UUID, delta int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	for i := range m.reviews {
		if m.reviews[i].ID == id {
			m.reviews[i].Upvotes += delta
			return m.reviews[i].Upvotes, nil
		}
	}
	return 0, db.ErrNotFound
}

func (m *mockStore) FilterOptions(context.Context) (*types.FilterOptions, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	opts := &types.FilterOptions{Departments: []string{}, Companies: []string{}, Locations: []string{}}
	for _, r := range m.reviews {
		if !slices.Contains(opts.Departments, r.Department) {
			opts.Departments = append(opts.Departments, r.Department)
		}
		if !slices.Contains(opts.Companies, r.Company) {
			opts.Companies = append(opts.Companies, r.Company)
		}
		if !slices.Contains(opts.Locations, r.Location) {
			opts.Locations = append(opts.Locations, r.Location)
		}
	}
	slices.Sort(opts.Departments)
	slices.Sort(opts.Companies)
	slices.Sort(opts.Locations)
	return opts, nil
}

func (m *mockStore) CreateTopic(_ context.Context, authorID uuid.UUID, title, content string) (*types.Topic, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	author, ok := m.users[authorID]
	if !ok {
		return nil, db.ErrNotFound
	}
	t := types.Topic{
		ID:        uuid.New(),
		Title:     title,
		Content:   content,
		AuthorID:  authorID,
		Author:    author.Username,
		Comments:  []types.Comment{},
		CreatedAt: m.tick(),
	}
	m.topics = append(m.topics, t)
	return &t, nil
}

func (m *mockStore) ListTopics(context.Context) ([]types.Topic, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]types.Topic, 0, len(m.topics))
	for i := len(m.topics) - 1; i >= 0; i-- {
		t := m.topics[i]
		t.Comments = []types.Comment{}
		out = append(out, t)
	}
	return out, nil
}

func (m *mockStore) GetTopic(_ context.Context, id uuid.UUID) (*types.Topic, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, t := range m.topics {
		if t.ID == id {
			t.Comments = slices.Clone(t.Comments)
			return &t, nil
		}
	}
	return nil, nil
}

func (m *mockStore) AddComment(_ context.Context, topicID, authorID uuid.UUID, body string) (*types.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	author, ok := m.users[authorID]
	if !ok {
		return nil, db.ErrNotFound
	}
	for i := range m.topics {
		if m.topics[i].ID == topicID {
			c := types.Comment{
				ID:        uuid.New(),
				TopicID:   topicID,
				AuthorID:  authorID,
				Author:    author.Username,
				Body:      body,
				CreatedAt: m.tick(),
			}
			m.topics[i].Comments = append(m.topics[i].Comments, c)
			return &c, nil
		}
	}
	return nil, db.ErrNotFound
}
