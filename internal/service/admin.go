package service

import (
	"context"

	"github.com/Skotchmaster/vigor_shop/internal/models"
	"github.com/Skotchmaster/vigor_shop/internal/repo"
	"github.com/Skotchmaster/vigor_shop/pkg/apperr"
	"github.com/Skotchmaster/vigor_shop/pkg/logging"
)

type AdminService struct {
	Stats StatsStore
	Users CredentialStore
}

func NewAdminService(stats StatsStore, users CredentialStore) *AdminService {
	return &AdminService{Stats: stats, Users: users}
}

func (s *AdminService) Dashboard(ctx context.Context) (*repo.Stats, error) {
	return s.Stats.Stats(ctx)
}

func (s *AdminService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.Users.ListUsers(ctx)
}

// DeleteUser refuses to let an admin remove their own account.
func (s *AdminService) DeleteUser(ctx context.Context, id, actorID string) error {
	if id == actorID {
		return apperr.New(apperr.ErrBadRequest, "Cannot delete your own account")
	}
	uid, err := parseID(id)
	if err != nil {
		return apperr.New(apperr.ErrNotFound, "User not found")
	}
	if err := s.Users.DeleteUser(ctx, uid); err != nil {
		return notFound(err, "User not found")
	}
	logging.FromContext(ctx).Info("delete_user_success", "svc", "admin.delete_user", "user_id", uid, "actor", actorID)
	return nil
}
