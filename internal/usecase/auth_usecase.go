package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/vitaliscar/Proyecto-PRM/internal/converter"
	"github.com/vitaliscar/Proyecto-PRM/internal/delivery/dto"
	"github.com/vitaliscar/Proyecto-PRM/internal/domain/entity"
	"github.com/vitaliscar/Proyecto-PRM/internal/domain/repository"
	"github.com/vitaliscar/Proyecto-PRM/pkg/jwt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials  = errors.New("invalid cedula or password")
	ErrUserInactive        = errors.New("user account is deactivated")
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrTokenRevoked        = errors.New("token has been revoked")
	ErrUserNotFound        = errors.New("user not found")
	ErrCedulaAlreadyExists = errors.New("cedula already registered")
	ErrEmailAlreadyExists  = errors.New("email already registered")
	ErrInvalidRole         = errors.New("invalid role")
)

type AuthUsecase interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, accessTokenID, refreshToken string) error
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error)
	CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error)
	ListUsers(ctx context.Context, role string) (*dto.UserListResponse, error)
	ToggleUserStatus(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error)
	IsTokenValid(ctx context.Context, userID uuid.UUID, tokenID string, tokenType jwt.TokenType) (bool, error)
}

type authUsecase struct {
	db          *gorm.DB
	log         *logrus.Logger
	userRepo    repository.UserRepository
	jwtService  *jwt.JWTService
	redisClient *redis.Client
}

func NewAuthUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	jwtService *jwt.JWTService,
	redisClient *redis.Client,
) AuthUsecase {
	return &authUsecase{
		db:          db,
		log:         log,
		userRepo:    userRepo,
		jwtService:  jwtService,
		redisClient: redisClient,
	}
}

func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := u.userRepo.FindByCedula(u.db.WithContext(ctx), req.Cedula)
	if err != nil {
		u.log.Warnf("Failed to find user by cedula: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return u.issueTokens(ctx, user)
}

func (u *authUsecase) issueTokens(ctx context.Context, user *entity.User) (*dto.TokenResponse, error) {
	accessToken, accessTokenID, err := u.jwtService.GenerateAccessToken(user.ID, user.Cedula, string(user.Role))
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	refreshToken, refreshTokenID, err := u.jwtService.GenerateRefreshToken(user.ID, user.Cedula, string(user.Role))
	if err != nil {
		u.log.Warnf("Failed to generate refresh token: %+v", err)
		return nil, err
	}

	accessKey := fmt.Sprintf("access_token:%s:%s", user.ID.String(), accessTokenID)
	refreshKey := fmt.Sprintf("refresh_token:%s:%s", user.ID.String(), refreshTokenID)

	if err := u.redisClient.Set(ctx, accessKey, "valid", u.jwtService.GetAccessExpiry()).Err(); err != nil {
		u.log.Warnf("Failed to store access token in Redis: %+v", err)
		return nil, err
	}
	if err := u.redisClient.Set(ctx, refreshKey, "valid", u.jwtService.GetRefreshExpiry()).Err(); err != nil {
		u.log.Warnf("Failed to store refresh token in Redis: %+v", err)
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(u.jwtService.GetAccessExpiry().Seconds()),
	}, nil
}

func (u *authUsecase) Logout(ctx context.Context, accessTokenID, refreshToken string) error {
	patterns := []string{fmt.Sprintf("access_token:*:%s", accessTokenID)}

	// Revoke the paired refresh token as well when the client supplies it.
	if refreshToken != "" {
		if claims, err := u.jwtService.ValidateToken(refreshToken); err == nil {
			patterns = append(patterns, fmt.Sprintf("refresh_token:*:%s", claims.TokenID))
		}
	}

	for _, pattern := range patterns {
		keys, err := u.redisClient.Keys(ctx, pattern).Result()
		if err != nil {
			u.log.Warnf("Failed to list token keys: %+v", err)
			return err
		}
		if len(keys) > 0 {
			if err := u.redisClient.Del(ctx, keys...).Err(); err != nil {
				u.log.Warnf("Failed to delete tokens: %+v", err)
				return err
			}
		}
	}
	return nil
}

func (u *authUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	claims, err := u.jwtService.ValidateToken(req.RefreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != jwt.RefreshToken {
		return nil, ErrInvalidToken
	}

	refreshKey := fmt.Sprintf("refresh_token:%s:%s", claims.UserID.String(), claims.TokenID)
	exists, err := u.redisClient.Exists(ctx, refreshKey).Result()
	if err != nil {
		u.log.Warnf("Failed to check refresh token in Redis: %+v", err)
		return nil, err
	}
	if exists == 0 {
		return nil, ErrTokenRevoked
	}

	// Rotate: the old refresh token is consumed.
	if err := u.redisClient.Del(ctx, refreshKey).Err(); err != nil {
		u.log.Warnf("Failed to delete old refresh token: %+v", err)
		return nil, err
	}

	user, err := u.userRepo.FindByID(u.db.WithContext(ctx), claims.UserID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	return u.issueTokens(ctx, user)
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	user, err := u.userRepo.FindByID(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return converter.UserToResponse(user), nil
}

func (u *authUsecase) CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	role := entity.Role(req.Role)
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	user := &entity.User{
		Cedula:    req.Cedula,
		Email:     req.Email,
		Password:  string(hashedPassword),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Role:      role,
		IsActive:  true,
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.userRepo.Create(tx, user); err != nil {
		if isUniqueViolation(err, "cedula") {
			return nil, ErrCedulaAlreadyExists
		}
		if isUniqueViolation(err, "email") {
			return nil, ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed to create user: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit user creation: %+v", err)
		return nil, err
	}

	u.log.Infof("User created: id=%s, cedula=%s, role=%s", user.ID, user.Cedula, user.Role)
	return converter.UserToResponse(user), nil
}

func (u *authUsecase) ListUsers(ctx context.Context, role string) (*dto.UserListResponse, error) {
	if role != "" && !entity.Role(role).Valid() {
		return nil, ErrInvalidRole
	}

	users, err := u.userRepo.FindAll(u.db.WithContext(ctx), entity.Role(role))
	if err != nil {
		u.log.Warnf("Failed to list users: %+v", err)
		return nil, err
	}

	return &dto.UserListResponse{
		Users: converter.UsersToResponses(users),
		Total: len(users),
	}, nil
}

func (u *authUsecase) ToggleUserStatus(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user, err := u.userRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	user.IsActive = !user.IsActive
	if err := u.userRepo.Update(tx, user); err != nil {
		u.log.Warnf("Failed to update user %s: %+v", id, err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit user status change: %+v", err)
		return nil, err
	}

	// Deactivation cuts off every live session immediately.
	if !user.IsActive {
		if err := u.revokeAllUserTokens(ctx, user.ID); err != nil {
			u.log.Warnf("Failed to revoke tokens for user %s: %+v", id, err)
		}
	}

	return converter.UserToResponse(user), nil
}

func (u *authUsecase) IsTokenValid(ctx context.Context, userID uuid.UUID, tokenID string, tokenType jwt.TokenType) (bool, error) {
	var key string
	if tokenType == jwt.AccessToken {
		key = fmt.Sprintf("access_token:%s:%s", userID.String(), tokenID)
	} else {
		key = fmt.Sprintf("refresh_token:%s:%s", userID.String(), tokenID)
	}

	exists, err := u.redisClient.Exists(ctx, key).Result()
	if err != nil {
		u.log.Warnf("Failed to check token validity: %+v", err)
		return false, err
	}
	return exists > 0, nil
}

func (u *authUsecase) revokeAllUserTokens(ctx context.Context, userID uuid.UUID) error {
	for _, pattern := range []string{
		fmt.Sprintf("access_token:%s:*", userID.String()),
		fmt.Sprintf("refresh_token:%s:*", userID.String()),
	} {
		keys, err := u.redisClient.Keys(ctx, pattern).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := u.redisClient.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
	}
	return nil
}
