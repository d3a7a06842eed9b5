// Package users manages application accounts. Roles only drive which
// navigation sections the client renders; authentication itself lives
// in Firebase Auth outside this API.
package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/agroverde/avotrace/internal/models"
	"github.com/agroverde/avotrace/internal/uploads"
)

var (
	// ErrNotFound is returned when no user has the given ID.
	ErrNotFound = errors.New("user not found")
	// ErrValidation marks user-facing validation failures.
	ErrValidation = errors.New("validation")
)

// Store persists user accounts.
type Store interface {
	Get(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
}

// Service applies account rules on top of a Store.
type Service struct {
	store    Store
	uploader uploads.Uploader
}

// NewService wraps a store and the uploader backing personal box files.
func NewService(store Store, uploader uploads.Uploader) *Service {
	return &Service{store: store, uploader: uploader}
}

// UploadBoxFile stores one document in a user's box and returns its
// fetch URL. Box documents carry a higher size ceiling than calibre
// images.
func (s *Service) UploadBoxFile(ctx context.Context, uid, boxID string, f uploads.File) (string, error) {
	if uid == "" || boxID == "" {
		return "", fmt.Errorf("%w: l'utilisateur et la boîte sont obligatoires", ErrValidation)
	}
	if f.Name == "" {
		return "", fmt.Errorf("%w: le nom du fichier est obligatoire", ErrValidation)
	}
	if err := f.CheckSize(uploads.MaxBoxFileBytes); err != nil {
		return "", fmt.Errorf("%w: %v", ErrValidation, err)
	}
	url, err := s.uploader.Upload(ctx, uploads.BuildBoxObjectPath(uid, boxID, f.Name), f)
	if err != nil {
		return "", fmt.Errorf("failed to store box file %s: %w", f.Name, err)
	}
	return url, nil
}

// Create validates and stores a new account.
func (s *Service) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if err := validate(user); err != nil {
		return nil, err
	}
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	if err := s.store.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Update saves edits to an existing account. CreatedAt is preserved.
func (s *Service) Update(ctx context.Context, user *models.User) (*models.User, error) {
	if err := validate(user); err != nil {
		return nil, err
	}
	existing, err := s.store.Get(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	user.CreatedAt = existing.CreatedAt
	if err := s.store.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user %s: %w", user.ID, err)
	}
	return user, nil
}

// Get returns one account.
func (s *Service) Get(ctx context.Context, id string) (*models.User, error) {
	return s.store.Get(ctx, id)
}

// List returns every account.
func (s *Service) List(ctx context.Context) ([]*models.User, error) {
	return s.store.List(ctx)
}

// Delete removes an account.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

func validate(user *models.User) error {
	if user.Email == "" || !strings.Contains(user.Email, "@") {
		return fmt.Errorf("%w: une adresse e-mail valide est obligatoire", ErrValidation)
	}
	if user.FullName == "" {
		return fmt.Errorf("%w: le nom complet est obligatoire", ErrValidation)
	}
	if !user.Role.Valid() {
		return fmt.Errorf("%w: rôle inconnu %q", ErrValidation, user.Role)
	}
	return nil
}

// Navigation section identifiers understood by the client.
const (
	SectionLots      = "lots"
	SectionRapports  = "rapports"
	SectionOrders    = "orders"
	SectionTracking  = "tracking"
	SectionInventory = "inventory"
	SectionUsers     = "users"
)

var sectionsByRole = map[models.Role][]string{
	models.RoleAdmin:      {SectionLots, SectionRapports, SectionOrders, SectionTracking, SectionInventory, SectionUsers},
	models.RoleChief:      {SectionLots, SectionRapports, SectionOrders, SectionTracking, SectionInventory},
	models.RoleController: {SectionLots, SectionRapports, SectionTracking},
	models.RoleLogistics:  {SectionOrders, SectionTracking, SectionInventory},
	models.RoleViewer:     {SectionLots, SectionRapports},
}

// VisibleSections lists the navigation sections a role may see. This is
// a display hint only; the API does not enforce it.
func VisibleSections(role models.Role) []string {
	sections, ok := sectionsByRole[role]
	if !ok {
		return nil
	}
	out := make([]string, len(sections))
	copy(out, sections)
	return out
}
