package inmem

import (
	"context"

	"github.com/Rizwan-Zeeshan/Fyp-Management-System-sub001/core"
	"github.com/Rizwan-Zeeshan/Fyp-Management-System-sub001/core/user"
)

type userRepository struct {
	db *DB
}

func NewUserRepository(db *DB) user.Repository {
	return &userRepository{db: db}
}

func (repo *userRepository) GetSessionUser(ctx context.Context) (user.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.db.session(ctx)
}

func (repo *userRepository) Logout(ctx context.Context) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	cookie := user.CookieFromContext(ctx)
	if cookie == nil {
		return core.ErrAuthExpired
	}
	delete(repo.db.sessions, cookie.Value)
	return nil
}
