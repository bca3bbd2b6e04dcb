package usecase

import (
	"context"

	"github.com/MolodoyDEV/diploma/internal/domain/repository"
	"github.com/MolodoyDEV/diploma/internal/domain/service"
)

type authUsecase struct {
	userRepo repository.UserRepository
}

// NewAuthUsecase creates an Authenticator backed by the user store
func NewAuthUsecase(userRepo repository.UserRepository) service.Authenticator {
	return &authUsecase{userRepo: userRepo}
}

func (u *authUsecase) VerifyCredentials(ctx context.Context, login, password string) (bool, error) {
	if login == "" {
		return false, nil
	}

	user, err := u.userRepo.GetByLogin(ctx, login)
	if err != nil {
		return false, err
	}
	if user == nil {
		_, _ = checkPassword(string(dummyHash), password)
		return false, nil
	}

	return checkPassword(user.Password, password)
}

func (u *authUsecase) RolesFor(ctx context.Context, login string) ([]string, error) {
	user, err := u.userRepo.GetByLogin(ctx, login)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUnauthorized
	}
	return user.RoleNames(), nil
}
