package store

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"portfolio/models"
)

// Role is the credential a Client acts under.
type Role string

const (
	// RoleAnon is the public key. Writes are limited to the tables its policy allows.
	RoleAnon Role = "anon"
	// RoleAuthenticated is a signed-in dashboard user acting through the public key.
	RoleAuthenticated Role = "authenticated"
	// RoleService bypasses row-level policies. Server-side only.
	RoleService Role = "service_role"
)

// permissionDeniedCode is the Postgres SQLSTATE for insufficient_privilege.
const permissionDeniedCode = "42501"

var (
	ErrPermissionDenied = errors.New("permission denied")
	ErrNotFound         = errors.New("record not found")
)

// Client is a credentialed handle on the data store.
type Client struct {
	db       *gorm.DB
	role     Role
	writable map[string]bool
}

type Option func(*Client)

// WithWritableTables lists the tables the anonymous role may insert into,
// update and delete from. It has no effect on other roles.
func WithWritableTables(tables ...string) Option {
	return func(c *Client) {
		for _, t := range tables {
			c.writable[t] = true
		}
	}
}

// New returns a client acting under role.
func New(db *gorm.DB, role Role, opts ...Option) *Client {
	c := &Client{db: db, role: role, writable: map[string]bool{}}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Connect returns a client acting under the role carried by key.
func Connect(db *gorm.DB, key, secret string, opts ...Option) (*Client, error) {
	role, err := RoleFromKey(key, secret)
	if err != nil {
		return nil, err
	}
	return New(db, role, opts...), nil
}

func (c *Client) Role() Role {
	return c.role
}

// Authenticated returns a copy of the client acting for a signed-in user.
func (c *Client) Authenticated() *Client {
	cp := *c
	cp.role = RoleAuthenticated
	return &cp
}

func (c *Client) canRead(table string) bool {
	if c.role != RoleAnon {
		return true
	}
	return table != models.TableMessages && table != models.TableUsers
}

func (c *Client) canWrite(table string) bool {
	switch c.role {
	case RoleService:
		return true
	case RoleAuthenticated:
		return table != models.TableUsers
	default:
		return c.writable[table]
	}
}

// IsPermissionDenied reports whether err is a row-level policy rejection,
// either from this client's own policy or from the database.
func IsPermissionDenied(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrPermissionDenied) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == permissionDeniedCode
}

// IsNotFound reports whether err means the row does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func translate(table string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", table, ErrNotFound)
	case IsPermissionDenied(err):
		return fmt.Errorf("%s: %w: %v", table, ErrPermissionDenied, err)
	default:
		return fmt.Errorf("%s: %w", table, err)
	}
}

type keyClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// RoleFromKey reads the role claim of a store key. When secret is empty the
// signature is not checked.
func RoleFromKey(key, secret string) (Role, error) {
	if key == "" {
		return "", errors.New("store key is empty")
	}
	claims := &keyClaims{}
	if secret == "" {
		if _, _, err := jwt.NewParser().ParseUnverified(key, claims); err != nil {
			return "", fmt.Errorf("parse store key: %w", err)
		}
	} else {
		_, err := jwt.ParseWithClaims(key, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil {
			return "", fmt.Errorf("verify store key: %w", err)
		}
	}
	switch role := Role(claims.Role); role {
	case RoleAnon, RoleAuthenticated, RoleService:
		return role, nil
	default:
		return "", fmt.Errorf("store key has unknown role %q", claims.Role)
	}
}

// IssueKey signs a store key for role with secret.
func IssueKey(role Role, secret string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, keyClaims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer: "portfolio",
		},
	})
	return token.SignedString([]byte(secret))
}
