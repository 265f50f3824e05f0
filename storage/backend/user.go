package backend

import (
	"context"

	"github.com/Rizwan-Zeeshan/Fyp-Management-System-sub001/core/user"
)

type userRepository struct {
	c *Client
}

func NewUserRepository(c *Client) user.Repository {
	return &userRepository{c: c}
}

func (repo *userRepository) GetSessionUser(ctx context.Context) (user.User, error) {
	var usr user.User
	err := repo.c.get(ctx, "/auth/me", &usr)
	return usr, err
}

func (repo *userRepository) Logout(ctx context.Context) error {
	return repo.c.post(ctx, "/auth/logout", nil, nil)
}
