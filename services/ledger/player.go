package ledger

import (
	"context"
	"errors"
	"strings"

	constants "ChipBook/constants/ledger"
	models "ChipBook/models/postgres"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// CreatePlayerInput carries the fields an admin sets when registering an
// account. Role defaults to player when empty.
type CreatePlayerInput struct {
	Username string
	Email    string
	FullName string
	Password string
	Role     models.Role
}

// ListPlayers returns every account, newest first. Admin only.
func (s *Service) ListPlayers(ctx context.Context, ident Identity) ([]*models.User, error) {
	if err := s.requireAdmin(ident); err != nil {
		return nil, err
	}
	var users []*models.User
	if err := s.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// CreatePlayer registers a new account with a bcrypt-hashed password.
// Username and email must be unused. Admin only.
func (s *Service) CreatePlayer(ctx context.Context, ident Identity, input CreatePlayerInput) (*models.User, error) {
	if err := s.requireAdmin(ident); err != nil {
		return nil, err
	}

	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)
	if input.Username == "" || input.Email == "" || input.FullName == "" || input.Password == "" {
		return nil, errValidation("INVALID_INPUT", "username, email, full name and password are required")
	}
	if len(input.Password) < 6 {
		return nil, errValidation("INVALID_INPUT", "password must be at least 6 characters")
	}
	if input.Role == "" {
		input.Role = models.RolePlayer
	}
	if !input.Role.Valid() {
		return nil, errValidation("INVALID_ROLE", "role must be player or admin")
	}

	var count int64
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("username = ? OR email = ?", input.Username, input.Email).
		Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errValidation("DUPLICATE_ACCOUNT", "username or email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), constants.BcryptCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     input.Username,
		Email:        input.Email,
		FullName:     input.FullName,
		PasswordHash: string(hash),
		Role:         input.Role,
		IsActive:     true,
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// DeletePlayer removes an account. Deleting your own account is
// rejected. Admin only.
func (s *Service) DeletePlayer(ctx context.Context, ident Identity, playerID uint) error {
	if err := s.requireAdmin(ident); err != nil {
		return err
	}
	if playerID == ident.UserID {
		return errValidation("SELF_DELETE", "cannot delete your own account")
	}

	res := s.db.WithContext(ctx).Delete(&models.User{}, playerID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errNotFound("PLAYER_NOT_FOUND", "player %d not found", playerID)
	}
	return nil
}

// SetPlayerActive flips an account's active flag. Inactive accounts can
// no longer log in. Admin only.
func (s *Service) SetPlayerActive(ctx context.Context, ident Identity, playerID uint, active bool) (*models.User, error) {
	if err := s.requireAdmin(ident); err != nil {
		return nil, err
	}

	user, err := s.findUser(ctx, playerID)
	if err != nil {
		return nil, err
	}
	user.IsActive = active
	if err := s.db.WithContext(ctx).Model(user).Update("is_active", active).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) findUser(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNotFound("PLAYER_NOT_FOUND", "player %d not found", userID)
		}
		return nil, err
	}
	return &user, nil
}
