package user

import (
	"context"

	"github.com/pkg/errors"
)

type (
	Repository interface {
		// GetSessionUser returns the user owning the session in ctx.
		GetSessionUser(ctx context.Context) (User, error)
		Logout(ctx context.Context) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Me(ctx context.Context) (User, error) {
	usr, err := svc.repo.GetSessionUser(ctx)
	return usr, errors.Wrap(err, "getting session user")
}

// Authorize loads the session user and runs Guard on it.
func (svc *Service) Authorize(ctx context.Context, required ...Role) (User, error) {
	usr, err := svc.Me(ctx)
	if err != nil {
		return User{}, err
	}
	if err := Guard(usr, required...); err != nil {
		return User{}, err
	}
	return usr, nil
}

func (svc *Service) Logout(ctx context.Context) error {
	return errors.Wrap(svc.repo.Logout(ctx), "logging out")
}
