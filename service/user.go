// Package service implements the query/command facade consumed by the
// console UI and the CLI commands.
package service

import (
	"fmt"
	"strings"

	"steamlib/database"
	"steamlib/database/model"
	"steamlib/logger"
	"steamlib/util/crypto"

	"gorm.io/gorm"
)

// UserProfile is the public view of a user handed to the UI layer.
type UserProfile struct {
	Id       int
	Username string
	Access   string
}

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// FindOrCreateAccess looks up a role by name, creating it when missing.
func (s *UserService) FindOrCreateAccess(name string) (*model.Access, error) {
	access := &model.Access{}
	err := s.db.Where("name = ?", name).First(access).Error
	if database.IsNotFound(err) {
		access = &model.Access{Name: name}
		if err := s.db.Create(access).Error; err != nil {
			return nil, err
		}
		logger.Infof("created access role %q", name)
		return access, nil
	}
	if err != nil {
		return nil, err
	}
	return access, nil
}

// CreateUser persists a new user under the named access role. The role is
// created when absent. Unique-constraint violations surface unchanged.
func (s *UserService) CreateUser(username, password, accessName string) error {
	access, err := s.FindOrCreateAccess(accessName)
	if err != nil {
		return err
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return err
	}

	user := &model.User{
		Username:     username,
		Email:        fmt.Sprintf("%s@example.com", username),
		PasswordHash: hash,
		AccessId:     access.Id,
		IsActive:     true,
	}
	return s.db.Create(user).Error
}

// Authenticate verifies the credentials and returns the matching profile,
// or nil when the username is unknown or the password does not match.
func (s *UserService) Authenticate(username, password string) (*UserProfile, error) {
	user := &model.User{}
	err := s.db.Preload("Access").Where("username = ?", username).First(user).Error
	if database.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if !crypto.CheckPassword(user.PasswordHash, password) {
		return nil, nil
	}

	return &UserProfile{
		Id:       user.Id,
		Username: user.Username,
		Access:   user.Access.Name,
	}, nil
}

func (s *UserService) UserExists(username string) (bool, error) {
	var count int64
	err := s.db.Model(&model.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

// DeleteUser removes the user with the given id. Ownership rows go with the
// user; games and publishers the user contributed keep existing with the
// reference nulled. Deleting an unknown id is a no-op.
func (s *UserService) DeleteUser(id int) error {
	user := &model.User{}
	err := s.db.First(user, id).Error
	if database.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return err
	}
	return s.db.Delete(user).Error
}

// ListUsers returns profiles ordered by username. A non-empty filter keeps
// only usernames containing it, case-insensitively.
func (s *UserService) ListUsers(filter string) ([]UserProfile, error) {
	var users []model.User
	q := s.db.Preload("Access").Order("username asc")
	if filter != "" {
		q = q.Where("LOWER(username) LIKE ?", "%"+strings.ToLower(filter)+"%")
	}
	if err := q.Find(&users).Error; err != nil {
		return nil, err
	}

	profiles := make([]UserProfile, 0, len(users))
	for _, user := range users {
		profiles = append(profiles, UserProfile{
			Id:       user.Id,
			Username: user.Username,
			Access:   user.Access.Name,
		})
	}
	return profiles, nil
}

// CountRecords returns row counts for the main tables.
func (s *UserService) CountRecords() (map[string]int64, error) {
	counts := map[string]int64{}
	tables := []struct {
		name   string
		entity any
	}{
		{"Users", &model.User{}},
		{"Games", &model.Game{}},
		{"Publishers", &model.Publisher{}},
		{"UserGame", &model.UserGame{}},
	}
	for _, table := range tables {
		var count int64
		if err := s.db.Model(table.entity).Count(&count).Error; err != nil {
			return nil, err
		}
		counts[table.name] = count
	}
	return counts, nil
}
