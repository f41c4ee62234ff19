package models

const (
	RoleStaff  = "staff"
	RoleDoctor = "doctor"
	RoleAdmin  = "admin"
)

var roleRank = map[string]int{RoleStaff: 1, RoleDoctor: 2, RoleAdmin: 3}

// CanGrant reports whether a caller holding callerRole may create an account
// with role. Anyone may create staff; higher roles need an equal or higher
// caller.
func CanGrant(callerRole, role string) bool {
	if role == RoleStaff {
		return true
	}
	want, ok := roleRank[role]
	return ok && roleRank[callerRole] >= want
}

// User represents the 'users' table. Password holds the bcrypt hash and is
// never serialized.
type User struct {
	ID       uint64 `gorm:"primaryKey" json:"id"`
	Username string `gorm:"uniqueIndex;size:100;not null" json:"username"`
	Password string `gorm:"not null" json:"-"`
	Name     string `gorm:"size:100;not null" json:"name"`
	Email    string `gorm:"size:100;not null" json:"email"`
	Phone    string `gorm:"size:20;not null" json:"phone"`
	Role     string `gorm:"size:20;not null;default:staff" json:"role"`
	FCMToken string `gorm:"column:fcm_token;size:255" json:"-"`
}

// RegisterInput is the body of POST /api/auth/register.
type RegisterInput struct {
	Username string `json:"username" binding:"required,min=3"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"required"`
	Role     string `json:"role" binding:"omitempty,oneof=staff doctor admin"`
}

// LoginInput is the body of POST /api/auth/login.
type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	FCMToken string `json:"fcmToken"`
}
