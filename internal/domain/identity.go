package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"

	RoleClient = "client"
	RoleAdmin  = "admin"
)

// User is a password-authenticated identity.
type User struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"type:text" json:"name"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"type:text;not null" json:"-"`
	Role      string    `gorm:"type:text;not null;default:user" json:"role"`
	Status    string    `gorm:"type:text;not null;default:active" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string { return "users" }

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Status == "" {
		u.Status = StatusActive
	}
	return nil
}

// Client is an identity provisioned by social login; it never holds a password.
type Client struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"type:text" json:"name"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Password  *string   `gorm:"type:text" json:"-"`
	Role      string    `gorm:"type:text;not null;default:client" json:"role"`
	Status    string    `gorm:"type:text;not null;default:active" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Client) TableName() string { return "clients" }

func (c *Client) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Role == "" {
		c.Role = RoleClient
	}
	if c.Status == "" {
		c.Status = StatusActive
	}
	return nil
}

// PublicIdentity is the projection returned to callers.
type PublicIdentity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (u *User) Public() PublicIdentity {
	return PublicIdentity{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

func (c *Client) Public() PublicIdentity {
	return PublicIdentity{ID: c.ID, Name: c.Name, Email: c.Email, Role: c.Role}
}
