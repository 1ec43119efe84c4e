// Package memory holds process-local implementations of the repository
// interfaces. It backs STORE_DRIVER=memory and the HTTP tests.
package memory

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"
	"time"

	"codeclash/internal/common"
	"codeclash/internal/domain/model"
	"codeclash/internal/domain/repository"
)

// Store keeps every table in maps guarded by one lock. Slices of ids record
// insertion order so listings stay deterministic.
type Store struct {
	mu sync.RWMutex

	users        map[string]model.User
	usersByEmail map[string]string // keyed by lower-cased address
	profiles     map[string]model.Profile
	contests     map[string]model.Contest
	contestOrder []string
	questions    map[string]model.Question
	questionSeq  []string
	testcases    map[string]model.Testcase
	testcaseSeq  []string
	submissions  []model.Submission
	revoked      map[string]time.Time

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:        make(map[string]model.User),
		usersByEmail: make(map[string]string),
		profiles:     make(map[string]model.Profile),
		contests:     make(map[string]model.Contest),
		questions:    make(map[string]model.Question),
		testcases:    make(map[string]model.Testcase),
		revoked:      make(map[string]time.Time),
		now:          time.Now,
	}
}

func (s *Store) Users() repository.UserRepository             { return userRepo{s} }
func (s *Store) Profiles() repository.ProfileRepository       { return profileRepo{s} }
func (s *Store) Contests() repository.ContestRepository       { return contestRepo{s} }
func (s *Store) Questions() repository.QuestionRepository     { return questionRepo{s} }
func (s *Store) Testcases() repository.TestcaseRepository     { return testcaseRepo{s} }
func (s *Store) Submissions() repository.SubmissionRepository { return submissionRepo{s} }
func (s *Store) Sessions() repository.SessionRepository       { return sessionRepo{s} }
func (s *Store) Transactor() repository.Transactor            { return transactor{s} }

type transactor struct{ s *Store }

// WithinTx runs fn directly; each memory write is already atomic on its own.
func (transactor) WithinTx(_ context.Context, fn func(tx *sql.Tx) error) error {
	return fn(nil)
}

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, _ *sql.Tx, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.usersByEmail[strings.ToLower(user.Email)]; ok {
		return common.WithMessage("user with this email already exists", common.ErrValidation)
	}
	if _, ok := r.s.users[user.ID]; ok {
		return common.WithMessage("user already exists", common.ErrValidation)
	}
	user.CreatedAt = r.s.now()
	r.s.users[user.ID] = *user
	r.s.usersByEmail[strings.ToLower(user.Email)] = user.ID
	return nil
}

func (r userRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	id, ok := r.s.usersByEmail[strings.ToLower(email)]
	if !ok {
		return nil, common.ErrNotFound
	}
	u := r.s.users[id]
	return &u, nil
}

func (r userRepo) FindByID(_ context.Context, id string) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &u, nil
}

type profileRepo struct{ s *Store }

func (r profileRepo) Create(_ context.Context, _ *sql.Tx, p *model.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[p.ID]; !ok {
		return common.WithMessage("profile must belong to an existing user", common.ErrValidation)
	}
	if _, ok := r.s.profiles[p.ID]; ok {
		return common.WithMessage("profile already exists", common.ErrValidation)
	}
	p.CreatedAt = r.s.now()
	r.s.profiles[p.ID] = *p
	return nil
}

func (r profileRepo) FindByID(_ context.Context, id string) (*model.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.profiles[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &p, nil
}

type contestRepo struct{ s *Store }

func (r contestRepo) Create(_ context.Context, c *model.Contest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.profiles[c.CreatedBy]; !ok {
		return common.WithMessage("teacher_id does not reference a profile", common.ErrValidation)
	}
	if _, ok := r.s.contests[c.ID]; ok {
		return common.WithMessage("contest already exists", common.ErrValidation)
	}
	c.CreatedAt = r.s.now()
	r.s.contests[c.ID] = *c
	r.s.contestOrder = append(r.s.contestOrder, c.ID)
	return nil
}

func (r contestRepo) FindByID(_ context.Context, id string) (*model.Contest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.contests[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &c, nil
}

func (r contestRepo) List(_ context.Context, createdBy string) ([]model.Contest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	contests := []model.Contest{}
	for _, id := range r.s.contestOrder {
		c := r.s.contests[id]
		if createdBy != "" && c.CreatedBy != createdBy {
			continue
		}
		contests = append(contests, c)
	}
	sort.SliceStable(contests, func(i, j int) bool {
		return contests[i].StartTime.Before(contests[j].StartTime)
	})
	return contests, nil
}

type questionRepo struct{ s *Store }

func (r questionRepo) Create(_ context.Context, q *model.Question) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.contests[q.ContestID]; !ok {
		return common.WithMessage("contest_id does not reference a contest", common.ErrValidation)
	}
	if _, ok := r.s.questions[q.ID]; ok {
		return common.WithMessage("question already exists", common.ErrValidation)
	}
	q.CreatedAt = r.s.now()
	r.s.questions[q.ID] = *q
	r.s.questionSeq = append(r.s.questionSeq, q.ID)
	return nil
}

func (r questionRepo) FindByID(_ context.Context, id string) (*model.Question, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	q, ok := r.s.questions[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &q, nil
}

func (r questionRepo) ListByContest(_ context.Context, contestID string) ([]model.Question, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	questions := []model.Question{}
	for _, id := range r.s.questionSeq {
		if q := r.s.questions[id]; q.ContestID == contestID {
			questions = append(questions, q)
		}
	}
	return questions, nil
}

func (r questionRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.questions[id]; !ok {
		return nil
	}
	delete(r.s.questions, id)
	r.s.questionSeq = removeID(r.s.questionSeq, id)

	// cascade to testcases like the questions foreign key does
	for _, tcID := range r.s.testcaseSeq {
		if r.s.testcases[tcID].QuestionID == id {
			delete(r.s.testcases, tcID)
		}
	}
	kept := r.s.testcaseSeq[:0]
	for _, tcID := range r.s.testcaseSeq {
		if _, ok := r.s.testcases[tcID]; ok {
			kept = append(kept, tcID)
		}
	}
	r.s.testcaseSeq = kept
	return nil
}

type testcaseRepo struct{ s *Store }

func (r testcaseRepo) Create(_ context.Context, tc *model.Testcase) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.questions[tc.QuestionID]; !ok {
		return common.WithMessage("question_id does not reference a question", common.ErrValidation)
	}
	if _, ok := r.s.testcases[tc.ID]; ok {
		return common.WithMessage("testcase already exists", common.ErrValidation)
	}
	tc.CreatedAt = r.s.now()
	r.s.testcases[tc.ID] = *tc
	r.s.testcaseSeq = append(r.s.testcaseSeq, tc.ID)
	return nil
}

func (r testcaseRepo) ListByQuestion(_ context.Context, questionID string) ([]model.Testcase, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	testcases := []model.Testcase{}
	for _, id := range r.s.testcaseSeq {
		if tc := r.s.testcases[id]; tc.QuestionID == questionID {
			testcases = append(testcases, tc)
		}
	}
	return testcases, nil
}

type submissionRepo struct{ s *Store }

func (r submissionRepo) Create(_ context.Context, sub *model.Submission) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.contests[sub.ContestID]; !ok {
		return common.WithMessage("contest_id does not reference a contest", common.ErrValidation)
	}
	sub.CreatedAt = r.s.now()
	r.s.submissions = append(r.s.submissions, *sub)
	return nil
}

func (r submissionRepo) ListScoresByContest(_ context.Context, contestID string) ([]model.ScoreRow, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rows := []model.ScoreRow{}
	for _, sub := range r.s.submissions {
		if sub.ContestID == contestID {
			rows = append(rows, model.ScoreRow{StudentID: sub.StudentID, Score: sub.Score})
		}
	}
	return rows, nil
}

func (r submissionRepo) ListByStudent(_ context.Context, studentID, contestID string) ([]model.Submission, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	subs := []model.Submission{}
	for i := len(r.s.submissions) - 1; i >= 0; i-- {
		sub := r.s.submissions[i]
		if sub.StudentID != studentID || (contestID != "" && sub.ContestID != contestID) {
			continue
		}
		subs = append(subs, sub)
	}
	return subs, nil
}

type sessionRepo struct{ s *Store }

func (r sessionRepo) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.revoked[tokenID] = r.s.now().Add(ttl)
	return nil
}

func (r sessionRepo) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	until, ok := r.s.revoked[tokenID]
	return ok && r.s.now().Before(until), nil
}

func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

func (s *Store) Set() repository.Set {
	return repository.Set{
		Users:       s.Users(),
		Profiles:    s.Profiles(),
		Contests:    s.Contests(),
		Questions:   s.Questions(),
		Testcases:   s.Testcases(),
		Submissions: s.Submissions(),
		Sessions:    s.Sessions(),
		Tx:          s.Transactor(),
	}
}
