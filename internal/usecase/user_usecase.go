package usecase

import (
	"context"

	"skillswap/internal/domain/user"
	ucuser "skillswap/internal/usecase/user"

	"github.com/google/uuid"
)

type UserUsecase interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (user.User, error)
	GetPublicProfile(ctx context.Context, viewerID, userID uuid.UUID) (user.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, in ucuser.UpdateProfileInput) (user.User, error)
	Directory(ctx context.Context, viewerID uuid.UUID, q ucuser.DirectoryQuery) ([]user.User, int, error)
	AddPortfolioLink(ctx context.Context, userID uuid.UUID, platform, rawURL string) (user.User, error)
	RemovePortfolioLink(ctx context.Context, userID, linkID uuid.UUID) (user.User, error)
	SetAvailability(ctx context.Context, userID uuid.UUID, day string, slots []string) (user.User, error)
	RemoveAvailability(ctx context.Context, userID, slotID uuid.UUID) (user.User, error)
}

type User struct {
	svc *ucuser.Service
}

func NewUserUsecase(users user.Repository, profiles user.ProfileRepository) *User {
	return &User{svc: ucuser.NewService(users, profiles)}
}

func (u *User) GetProfile(ctx context.Context, userID uuid.UUID) (user.User, error) {
	return u.svc.GetProfile(ctx, userID)
}

func (u *User) GetPublicProfile(ctx context.Context, viewerID, userID uuid.UUID) (user.User, error) {
	return u.svc.GetPublicProfile(ctx, viewerID, userID)
}

func (u *User) UpdateProfile(ctx context.Context, userID uuid.UUID, in ucuser.UpdateProfileInput) (user.User, error) {
	return u.svc.UpdateProfile(ctx, userID, in)
}

func (u *User) Directory(ctx context.Context, viewerID uuid.UUID, q ucuser.DirectoryQuery) ([]user.User, int, error) {
	return u.svc.Directory(ctx, viewerID, q)
}

func (u *User) AddPortfolioLink(ctx context.Context, userID uuid.UUID, platform, rawURL string) (user.User, error) {
	return u.svc.AddPortfolioLink(ctx, userID, platform, rawURL)
}

func (u *User) RemovePortfolioLink(ctx context.Context, userID, linkID uuid.UUID) (user.User, error) {
	return u.svc.RemovePortfolioLink(ctx, userID, linkID)
}

func (u *User) SetAvailability(ctx context.Context, userID uuid.UUID, day string, slots []string) (user.User, error) {
	return u.svc.SetAvailability(ctx, userID, day, slots)
}

func (u *User) RemoveAvailability(ctx context.Context, userID, slotID uuid.UUID) (user.User, error) {
	return u.svc.RemoveAvailability(ctx, userID, slotID)
}
