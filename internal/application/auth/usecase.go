package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/crm-pipeline-api/internal/application/dto"
	"github.com/jhoicas/crm-pipeline-api/internal/application/filters"
	"github.com/jhoicas/crm-pipeline-api/internal/domain"
	"github.com/jhoicas/crm-pipeline-api/internal/domain/entity"
	"github.com/jhoicas/crm-pipeline-api/internal/domain/repository"
	"github.com/jhoicas/crm-pipeline-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// SessionEnder libera el estado efímero de una sesión (drag en curso).
type SessionEnder interface {
	EndSession(sessionID string)
}

// AuthUseCase casos de uso de autenticación: registro, login, logout y perfil.
// Cada login abre una sesión nueva (claim sid) con su propia selección de filtros.
type AuthUseCase struct {
	userRepo repository.UserRepository
	filters  *filters.Service
	sessions SessionEnder
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth. sessions puede ser nil.
func NewAuthUseCase(userRepo repository.UserRepository, filterSvc *filters.Service, sessions SessionEnder, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, filters: filterSvc, sessions: sessions, jwtCfg: jwtCfg}
}

// RegisterUser crea un usuario: hashea password con bcrypt y persiste.
// El auto-registro no puede crear administradores.
func (uc *AuthUseCase) RegisterUser(in dto.RegisterRequest) (*dto.UserResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || len(in.Password) < 8 {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.userRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	role := in.Role
	if role == "" {
		role = entity.RoleSales
	}
	if !entity.IsValidRole(role) {
		return nil, domain.ErrInvalidInput
	}
	if role == entity.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	name := in.FullName
	if name == "" {
		name = email
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		FullName:     name,
		Role:         role,
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// Login verifica email/password, abre una sesión y retorna token, usuario y filtros.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.FindByEmail(strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if user.Status != entity.UserStatusActive {
		return nil, domain.ErrForbidden
	}
	sessionID := uuid.New().String()
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Role, sessionID, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	f, err := uc.filters.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:   token,
		User:    *toUserResponse(user),
		Filters: f.ToResponse(),
	}, nil
}

// Logout descarta la selección de filtros y el estado de drag de la sesión.
// El token sigue siendo válido hasta su expiración.
func (uc *AuthUseCase) Logout(ctx context.Context, sessionID string) error {
	if uc.sessions != nil {
		uc.sessions.EndSession(sessionID)
	}
	return uc.filters.Reset(ctx, sessionID)
}

// Me perfil del usuario autenticado.
func (uc *AuthUseCase) Me(userID string) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return toUserResponse(user), nil
}

// IsActive indica si la cuenta sigue activa. Un token emitido antes de
// suspender la cuenta sigue siendo válido, así que se consulta en cada petición.
func (uc *AuthUseCase) IsActive(_ context.Context, userID string) (bool, error) {
	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		return false, err
	}
	return user != nil && user.Status == entity.UserStatusActive, nil
}

// Límites de paginación de ListUsers.
const (
	defaultUserPage = 50
	maxUserPage     = 200
)

// ListUsers página de usuarios, más recientes primero. limit<=0 usa el valor
// por defecto y se acota a maxUserPage.
func (uc *AuthUseCase) ListUsers(limit, offset int) (*dto.UserListResponse, error) {
	if limit <= 0 {
		limit = defaultUserPage
	}
	if limit > maxUserPage {
		limit = maxUserPage
	}
	if offset < 0 {
		offset = 0
	}
	list, err := uc.userRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		items = append(items, *toUserResponse(u))
	}
	return &dto.UserListResponse{Items: items, Limit: limit, Offset: offset}, nil
}

// SetStatus activa o suspende una cuenta. Un admin no puede cambiar su propio
// estado. El cambio aplica en la siguiente petición vía IsActive.
func (uc *AuthUseCase) SetStatus(actorID, userID, status string) (*dto.UserResponse, error) {
	if !entity.IsValidUserStatus(status) {
		return nil, domain.ErrInvalidInput
	}
	if actorID == userID {
		return nil, domain.ErrForbidden
	}
	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if user.Status == status {
		return toUserResponse(user), nil
	}
	user.Status = status
	user.UpdatedAt = time.Now()
	if err := uc.userRepo.Update(user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
