package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/lshigami/mockprep/internal/apperr"
	"github.com/lshigami/mockprep/internal/model"
	"github.com/lshigami/mockprep/internal/repository"
	"github.com/lshigami/mockprep/internal/scoring"
)

type fakeQuestionRepo struct {
	mu        sync.Mutex
	questions []model.Question
	err       error
	findCalls int
	nextID    uint
}

func (r *fakeQuestionRepo) Create(ctx context.Context, q *model.Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	q.ID = 1000 + r.nextID
	r.questions = append(r.questions, *q)
	return nil
}

func (r *fakeQuestionRepo) FindByID(ctx context.Context, id uint) (*model.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.questions {
		if r.questions[i].ID == id {
			q := r.questions[i]
			return &q, nil
		}
	}
	return nil, apperr.NotFoundf("question %d not found", id)
}

func (r *fakeQuestionRepo) FindByCourseDifficultyType(ctx context.Context, courseID uint, difficulty scoring.Difficulty, types ...scoring.TestType) ([]model.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.findCalls++
	if r.err != nil {
		return nil, r.err
	}
	var out []model.Question
	for _, q := range r.questions {
		if q.CourseID != courseID || q.Difficulty != difficulty {
			continue
		}
		if len(types) > 0 && !containsType(types, q.Type) {
			continue
		}
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeQuestionRepo) Update(ctx context.Context, q *model.Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.questions {
		if r.questions[i].ID == q.ID {
			r.questions[i] = *q
			return nil
		}
	}
	return apperr.NotFoundf("question %d not found", q.ID)
}

func (r *fakeQuestionRepo) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.questions {
		if r.questions[i].ID == id {
			r.questions = append(r.questions[:i], r.questions[i+1:]...)
			return nil
		}
	}
	return apperr.NotFoundf("question %d not found", id)
}

func containsType(types []scoring.TestType, t scoring.TestType) bool {
	for _, x := range types {
		if x == t {
			return true
		}
	}
	return false
}

type fakeSessionRepo struct {
	mu        sync.Mutex
	sessions  []model.TestSession
	createErr error
	findErr   error
}

func (r *fakeSessionRepo) Create(ctx context.Context, s *model.TestSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	s.ID = uint(len(r.sessions) + 1)
	r.sessions = append(r.sessions, *s)
	return nil
}

func (r *fakeSessionRepo) FindByID(ctx context.Context, id uint) (*model.TestSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	for i := range r.sessions {
		if r.sessions[i].ID == id {
			s := r.sessions[i]
			return &s, nil
		}
	}
	return nil, apperr.NotFoundf("test session %d not found", id)
}

func (r *fakeSessionRepo) FindByUser(ctx context.Context, userID uint) ([]model.TestSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	var out []model.TestSession
	for i := len(r.sessions) - 1; i >= 0; i-- {
		if r.sessions[i].UserID == userID {
			out = append(out, r.sessions[i])
		}
	}
	return out, nil
}

func (r *fakeSessionRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// fakeTranscriber returns text, or blocks until ctx is done when block is set.
type fakeTranscriber struct {
	text  string
	err   error
	block bool
	calls int
}

func (t *fakeTranscriber) Transcribe(ctx context.Context, media []byte, mimeType string) (string, error) {
	t.calls++
	if t.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return t.text, t.err
}

type fakeAnalyzer struct {
	analysis *VideoAnalysis
	err      error
	block    bool
}

func (a *fakeAnalyzer) Analyze(ctx context.Context, media []byte) (*VideoAnalysis, error) {
	if a.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return a.analysis, a.err
}

// fakeStorage fails the failOn-th upload (1-based) when failOn > 0.
type fakeStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
	uploads int
	failOn  int
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}}
}

func (s *fakeStorage) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploads++
	if s.failOn > 0 && s.uploads == s.failOn {
		return "", errors.New("bucket unavailable")
	}
	s.objects[key] = data
	return fmt.Sprintf("/test-bucket/%s", key), nil
}

func (s *fakeStorage) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	s.deleted = append(s.deleted, key)
	return nil
}

// fakeCache is an in-memory QuestionCache keyed like the redis one.
type fakeCache struct {
	entries     map[string][]model.Question
	getErr      error
	invalidated []uint
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string][]model.Question{}}
}

func (c *fakeCache) key(courseID uint, difficulty scoring.Difficulty, types []scoring.TestType) string {
	return fmt.Sprintf("%d:%s:%v", courseID, difficulty, types)
}

func (c *fakeCache) Get(ctx context.Context, courseID uint, difficulty scoring.Difficulty, types []scoring.TestType) ([]model.Question, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	qs, ok := c.entries[c.key(courseID, difficulty, types)]
	return qs, ok, nil
}

func (c *fakeCache) Set(ctx context.Context, courseID uint, difficulty scoring.Difficulty, types []scoring.TestType, questions []model.Question) error {
	c.entries[c.key(courseID, difficulty, types)] = questions
	return nil
}

func (c *fakeCache) InvalidateCourse(ctx context.Context, courseID uint) error {
	c.invalidated = append(c.invalidated, courseID)
	for k := range c.entries {
		if strings.HasPrefix(k, fmt.Sprintf("%d:", courseID)) {
			delete(c.entries, k)
		}
	}
	return nil
}

type fakeCourseRepo struct {
	courses map[uint]*model.Course
}

func (r *fakeCourseRepo) Create(ctx context.Context, c *model.Course) error {
	c.ID = uint(len(r.courses) + 1)
	r.courses[c.ID] = c
	return nil
}

func (r *fakeCourseRepo) FindByID(ctx context.Context, id uint) (*model.Course, error) {
	c, ok := r.courses[id]
	if !ok {
		return nil, apperr.NotFoundf("course %d not found", id)
	}
	return c, nil
}

func (r *fakeCourseRepo) FindAllWithQuestionCount(ctx context.Context, categoryID *uint) ([]repository.CourseWithCount, error) {
	var out []repository.CourseWithCount
	for _, c := range r.courses {
		if categoryID != nil && (c.CategoryID == nil || *c.CategoryID != *categoryID) {
			continue
		}
		out = append(out, repository.CourseWithCount{Course: *c})
	}
	return out, nil
}

func (r *fakeCourseRepo) Update(ctx context.Context, c *model.Course) error {
	r.courses[c.ID] = c
	return nil
}

func (r *fakeCourseRepo) Delete(ctx context.Context, id uint) error {
	if _, ok := r.courses[id]; !ok {
		return apperr.NotFoundf("course %d not found", id)
	}
	delete(r.courses, id)
	return nil
}

type fakeUserRepo struct {
	users []model.User
}

func (r *fakeUserRepo) Create(ctx context.Context, u *model.User) error {
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return apperr.Conflictf("email %s is already registered", u.Email)
		}
	}
	u.ID = uint(len(r.users) + 1)
	r.users = append(r.users, *u)
	return nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id uint) (*model.User, error) {
	for i := range r.users {
		if r.users[i].ID == id {
			u := r.users[i]
			return &u, nil
		}
	}
	return nil, apperr.NotFoundf("user %d not found", id)
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	for i := range r.users {
		if r.users[i].Email == email {
			u := r.users[i]
			return &u, nil
		}
	}
	return nil, apperr.NotFoundf("user %s not found", email)
}

func (r *fakeUserRepo) UpdateProfile(ctx context.Context, u *model.User) error {
	for i := range r.users {
		if r.users[i].ID == u.ID {
			r.users[i].Name = u.Name
			r.users[i].AvatarURL = u.AvatarURL
			return nil
		}
	}
	return apperr.NotFoundf("user %d not found", u.ID)
}
