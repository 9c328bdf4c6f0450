package application

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/oksasatya/bookworm-oauth/internal/domain/entity"
	repo "github.com/oksasatya/bookworm-oauth/internal/domain/repository"
)

// memUserRepo is an in-memory UserRepository keyed by email.
type memUserRepo struct {
	mu      sync.Mutex
	byID    map[string]*entity.User
	byEmail map[string]string
	writes  int
	err     error
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byID: map[string]*entity.User{}, byEmail: map[string]string{}}
}

func (r *memUserRepo) Upsert(_ context.Context, email, name, photoURL string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	r.writes++
	now := time.Now()
	if id, ok := r.byEmail[email]; ok {
		u := r.byID[id]
		u.Name, u.PhotoURL, u.UpdatedAt = name, photoURL, now
		cp := *u
		return &cp, nil
	}
	u := &entity.User{ID: "u-" + strconv.Itoa(len(r.byID)+1), Email: email, Name: name, PhotoURL: photoURL, CreatedAt: now, UpdatedAt: now}
	r.byID[u.ID] = u
	r.byEmail[email] = u.ID
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.byID[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	id, ok := r.byEmail[email]
	r.mu.Unlock()
	if !ok {
		return nil, repo.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *memUserRepo) delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byID[id]; ok {
		delete(r.byEmail, u.Email)
		delete(r.byID, id)
	}
}

func (r *memUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

type recordingIndexer struct {
	indexed []string
	err     error
}

func (x *recordingIndexer) IndexUser(_ context.Context, u *entity.User) error {
	x.indexed = append(x.indexed, u.ID)
	return x.err
}
