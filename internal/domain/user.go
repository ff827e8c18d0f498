package domain

import "time"

// User is the local mirror of an identity provider account.
// ID is the provider's subject and is the only field used for authorization.
type User struct {
	ID        string    `gorm:"type:varchar(255);primaryKey" json:"id"`
	Email     string    `gorm:"type:varchar(255);index:idx_users_email" json:"email"`
	Name      string    `gorm:"type:varchar(255)" json:"name"`
	Image     string    `gorm:"type:text" json:"image"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// Session is the payload an identity provider vouches for
type Session struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

// User builds the row that mirrors this session
func (s Session) User() User {
	return User{
		ID:    s.ID,
		Email: s.Email,
		Name:  s.Name,
		Image: s.Image,
	}
}
