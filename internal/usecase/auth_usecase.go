package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/supdesk/supdesk/internal/application/config"
	"github.com/supdesk/supdesk/internal/domain/models"
	"github.com/supdesk/supdesk/internal/infra/adapters/postgres/repository"
)

// ErrInvalidCredentials covers every authentication failure: bad password,
// unknown admin, malformed or expired token, stale room binding. Callers get
// no finer detail.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthUsecase verifies credentials and yields identities. Tokens carry the
// username, the role and, for users, the bound room id; verification always
// re-checks the claims against the store.
type AuthUsecase interface {
	// Login authenticates a user or the admin. An unknown username gets a
	// fresh room created with the presented password (login-or-register).
	Login(ctx context.Context, username, password string) (string, models.Identity, error)

	// AdminToken authenticates the admin only.
	AdminToken(ctx context.Context, username, password string) (string, error)

	VerifyToken(ctx context.Context, credential string) (models.Identity, error)

	GenerateToken(identity models.Identity) (string, error)
}

type accessClaims struct {
	Role   models.Role `json:"role"`
	RoomID *string     `json:"room_id,omitempty"`
	jwt.RegisteredClaims
}

type authUsecase struct {
	jwtSecret []byte
	tokenTTL  time.Duration
	admin     config.AdminConfig

	roomRepo repository.RoomRepository
}

func NewAuthUsecase(cfg *config.Config, roomRepo repository.RoomRepository) AuthUsecase {
	return &authUsecase{
		jwtSecret: []byte(cfg.JWTSecret),
		tokenTTL:  cfg.TokenTTL,
		admin:     cfg.Admin,
		roomRepo:  roomRepo,
	}
}

func (uc *authUsecase) Login(ctx context.Context, username, password string) (string, models.Identity, error) {
	if username == uc.admin.Username {
		if err := bcrypt.CompareHashAndPassword([]byte(uc.admin.PasswordHash), []byte(password)); err != nil {
			return "", models.Identity{}, ErrInvalidCredentials
		}

		return uc.issue(models.Identity{Username: username, Role: models.RoleAdmin})
	}

	room, err := uc.roomRepo.GetByUsername(ctx, username)
	if err != nil {
		return "", models.Identity{}, fmt.Errorf("get room by username: %w", err)
	}

	if room == nil {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return "", models.Identity{}, fmt.Errorf("hash password: %w", err)
		}

		room = models.NewRoom(username, string(hashedPassword))

		if err := uc.roomRepo.Create(ctx, room); err != nil {
			return "", models.Identity{}, fmt.Errorf("create room: %w", err)
		}
	} else if err := bcrypt.CompareHashAndPassword([]byte(room.Password), []byte(password)); err != nil {
		return "", models.Identity{}, ErrInvalidCredentials
	}

	return uc.issue(models.Identity{Username: username, Role: models.RoleUser, RoomID: &room.ID})
}

func (uc *authUsecase) AdminToken(ctx context.Context, username, password string) (string, error) {
	if username != uc.admin.Username {
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(uc.admin.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return uc.GenerateToken(models.Identity{Username: username, Role: models.RoleAdmin})
}

func (uc *authUsecase) VerifyToken(ctx context.Context, credential string) (models.Identity, error) {
	token, err := jwt.ParseWithClaims(credential, &accessClaims{}, func(token *jwt.Token) (any, error) {
		return uc.jwtSecret, nil
	})
	if err != nil {
		return models.Identity{}, ErrInvalidCredentials
	}

	claims, ok := token.Claims.(*accessClaims)
	if !ok || !token.Valid {
		return models.Identity{}, ErrInvalidCredentials
	}

	if claims.Subject == "" || !claims.Role.Valid() {
		return models.Identity{}, ErrInvalidCredentials
	}

	switch claims.Role {
	case models.RoleUser:
		// A user token is only good while the room it names still exists
		// and still belongs to that username.
		if claims.RoomID == nil {
			return models.Identity{}, ErrInvalidCredentials
		}

		room, err := uc.roomRepo.GetByUsername(ctx, claims.Subject)
		if err != nil {
			return models.Identity{}, fmt.Errorf("get room by username: %w", err)
		}

		if room == nil || room.ID != *claims.RoomID {
			return models.Identity{}, ErrInvalidCredentials
		}

	case models.RoleAdmin:
		if claims.Subject != uc.admin.Username {
			return models.Identity{}, ErrInvalidCredentials
		}
	}

	return models.Identity{
		Username: claims.Subject,
		Role:     claims.Role,
		RoomID:   claims.RoomID,
	}, nil
}

func (uc *authUsecase) GenerateToken(identity models.Identity) (string, error) {
	claims := &accessClaims{
		Role:   identity.Role,
		RoomID: identity.RoomID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.Username,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(uc.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(uc.jwtSecret)
}

func (uc *authUsecase) issue(identity models.Identity) (string, models.Identity, error) {
	token, err := uc.GenerateToken(identity)
	if err != nil {
		return "", models.Identity{}, fmt.Errorf("sign token: %w", err)
	}

	return token, identity, nil
}
