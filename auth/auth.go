package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"portfolio/models"
)

var ErrInvalidCredentials = errors.New("invalid login credentials")

// Event is a change of the admin session state.
type Event interface {
	isEvent()
}

type SignedIn struct {
	User models.User
}

type SignedOut struct {
	UserID string
}

func (SignedIn) isEvent()  {}
func (SignedOut) isEvent() {}

// Broker delivers session events to the subscribers registered at the time
// of publication, in registration order.
type Broker struct {
	mu     sync.Mutex
	nextID int
	subs   []subscriber
}

type subscriber struct {
	id int
	fn func(Event)
}

// Subscribe registers fn and returns the function that removes it.
// Calling the returned function more than once is a no-op.
func (b *Broker) Subscribe(fn func(Event)) (unsubscribe func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscriber{id: id, fn: fn})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			for i, s := range b.subs {
				if s.id == id {
					b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Publish calls every subscriber synchronously.
func (b *Broker) Publish(ev Event) {
	b.mu.Lock()
	subs := make([]subscriber, len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	for _, s := range subs {
		s.fn(ev)
	}
}

// Subscribers returns the number of registered subscribers.
func (b *Broker) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Service authenticates the dashboard account.
type Service struct {
	db *gorm.DB
	*Broker
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db, Broker: &Broker{}}
}

// SignIn checks email and password and publishes SignedIn on success.
func (s *Service) SignIn(ctx context.Context, email, password string) (models.User, error) {
	var user models.User
	email = strings.ToLower(strings.TrimSpace(email))
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, fmt.Errorf("find user: %w", err)
	}
	if !CheckPasswordHash(password, user.PasswordHash) {
		return models.User{}, ErrInvalidCredentials
	}
	s.Publish(SignedIn{User: user})
	return user, nil
}

// SignOut publishes SignedOut for userID.
func (s *Service) SignOut(userID string) {
	s.Publish(SignedOut{UserID: userID})
}

// User loads the account behind a session.
func (s *Service) User(ctx context.Context, id string) (models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

// EnsureAdmin creates the dashboard account when no account with email exists.
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil
	}
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return nil
	}
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Create(&models.User{Email: email, PasswordHash: hash}).Error; err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	slog.Info("created admin account", "email", email)
	return nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
