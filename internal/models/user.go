package models

// User represents a registered shopper.
// Password is stored and returned as submitted unless password hashing is enabled.
type User struct {
	ID       string `json:"_id" bson:"_id,omitempty" gorm:"primaryKey;column:id;type:varchar(36)"`
	Username string `json:"username" bson:"username" gorm:"type:varchar(255);not null"`
	Password string `json:"password" bson:"password" gorm:"type:varchar(255);not null"`
	Email    string `json:"email" bson:"email" gorm:"uniqueIndex;type:varchar(255);not null"`
	Img      string `json:"img,omitempty" bson:"img,omitempty" gorm:"type:text"`
}

// RegisterRequest is the body accepted by POST /register.
type RegisterRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Img      string `json:"img"`
}

// LoginRequest is the body accepted by POST /login.
// Username is matched against both the username and the email of stored users.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ForgotPasswordRequest is the body accepted by POST /forgot-password.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}
