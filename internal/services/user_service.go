package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"doctrack/backend/internal/apperr"
	"doctrack/backend/internal/models"
	"doctrack/backend/internal/permissions"
	"doctrack/backend/internal/timezone"
)

const passwordCost = 10

type UserService struct {
	users UserRepository
}

func NewUserService(users UserRepository) *UserService {
	return &UserService{users: users}
}

type Registration struct {
	Fullname    string               `json:"fullname"`
	Username    string               `json:"username"`
	Password    string               `json:"password"`
	Designation models.Designation   `json:"designation"`
	Permissions models.PermissionSet `json:"permissions"`
}

// RegisterStaff creates a Staff account with the given individual permissions.
func (s *UserService) RegisterStaff(ctx context.Context, r Registration) (*models.User, error) {
	if strings.TrimSpace(r.Fullname) == "" || strings.TrimSpace(r.Username) == "" || r.Password == "" || r.Designation == "" {
		return nil, apperr.Validation("All fields are required.", "fullname", "username", "password", "designation")
	}
	if !r.Designation.Valid() {
		return nil, apperr.Validation("Invalid designation", "designation")
	}
	return s.create(ctx, r, models.RoleStaff)
}

// CreateAdmin creates an Admin account. Designation is optional for admins.
func (s *UserService) CreateAdmin(ctx context.Context, r Registration) (*models.User, error) {
	if strings.TrimSpace(r.Username) == "" || r.Password == "" {
		return nil, apperr.Validation("Username and password are required.", "username", "password")
	}
	if r.Designation != "" && !r.Designation.Valid() {
		return nil, apperr.Validation("Invalid designation", "designation")
	}
	r.Permissions = models.PermissionSet{View: true, Upload: true, Edit: true, Delete: true}
	return s.create(ctx, r, models.RoleAdmin)
}

func (s *UserService) create(ctx context.Context, r Registration, role models.Role) (*models.User, error) {
	username := strings.TrimSpace(r.Username)
	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return nil, apperr.Conflict("Username already exists.")
	} else if !apperr.Is(err, apperr.KindNotFound) {
		return nil, asPersistence("look up username", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(r.Password), passwordCost)
	if err != nil {
		return nil, apperr.Persistence("hash password", err)
	}
	now := timezone.Now()
	u := &models.User{
		ID:           primitive.NewObjectID(),
		Fullname:     strings.TrimSpace(r.Fullname),
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		Designation:  r.Designation,
		Permissions:  r.Permissions,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Insert(ctx, u); err != nil {
		return nil, asPersistence("create user", err)
	}
	log.Printf("[UserService] Registered %s user %s", role, username)
	return u, nil
}

// Authenticate checks a username and password. Unknown users and wrong
// passwords fail the same way.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, apperr.Validation("Username and password are required.", "username", "password")
	}
	u, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, apperr.Unauthorized("Invalid credentials")
		}
		return nil, asPersistence("look up user", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			log.Printf("[UserService] Stored hash for %s is unusable: %v", u.Username, err)
		}
		return nil, apperr.Unauthorized("Invalid credentials")
	}
	return u, nil
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, asPersistence("list users", err)
	}
	if users == nil {
		users = make([]models.User, 0)
	}
	return users, nil
}

func (s *UserService) Get(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, asPersistence("load user", err)
	}
	return u, nil
}

func (s *UserService) UpdatePermissions(ctx context.Context, userID string, set models.PermissionSet) (*models.User, error) {
	oid, err := parseID(userID, "user")
	if err != nil {
		return nil, err
	}
	u, err := s.users.SetPermissions(ctx, oid, set)
	if err != nil {
		return nil, asPersistence("update permissions", err)
	}
	return u, nil
}

// UpdateDesignationPermissions sets the default permissions of d on every
// user holding that designation and reports how many users hold it.
func (s *UserService) UpdateDesignationPermissions(ctx context.Context, d models.Designation, set models.PermissionSet) (int64, error) {
	if !d.Valid() {
		return 0, apperr.Validation("Invalid designation", "designation")
	}
	n, err := s.users.SetDesignationPermissions(ctx, d, set)
	if err != nil {
		return 0, asPersistence("update designation permissions", err)
	}
	return n, nil
}

// Check resolves permission p for the user with the given id.
func (s *UserService) Check(ctx context.Context, id primitive.ObjectID, p models.Permission) (bool, error) {
	if !p.Valid() {
		return false, apperr.Validation("Unknown permission", "permission")
	}
	u, err := s.Get(ctx, id)
	if err != nil {
		return false, err
	}
	return permissions.HasPermission(u, p), nil
}
