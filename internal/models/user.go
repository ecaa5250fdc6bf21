package models

import "time"

// Admin roles.
const (
	RoleAdmin      = "admin"
	RoleSuperAdmin = "superadmin"
)

// Account statuses.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
	UserStatusLocked   = "locked"
)

// User is a back-office account.
type User struct {
	BaseModel
	Email               string     `json:"email" gorm:"uniqueIndex;type:varchar(255);not null"`
	Name                string     `json:"name" gorm:"type:varchar(100)"`
	PasswordHash        string     `json:"-" gorm:"type:varchar(255);not null"`
	Role                string     `json:"role" gorm:"type:varchar(20);not null;default:admin"`
	Status              string     `json:"status" gorm:"type:varchar(20);not null;default:active"`
	FailedLoginAttempts int        `json:"failed_login_attempts" gorm:"not null;default:0"`
	LockUntil           *time.Time `json:"lock_until,omitempty"`
	LastLoginAt         *time.Time `json:"last_login_at,omitempty"`
}

// IsLocked reports whether the account is inside its lockout window.
func (u *User) IsLocked(now time.Time) bool {
	return u.LockUntil != nil && now.Before(*u.LockUntil)
}

// RecordFailedLogin applies one failed password check. A lock that has already
// expired is cleared and the counter restarts at 1. Reaching maxAttempts locks
// the account until now+lockFor. It returns true when this attempt locked it.
func (u *User) RecordFailedLogin(now time.Time, maxAttempts int, lockFor time.Duration) bool {
	if u.LockUntil != nil && !now.Before(*u.LockUntil) {
		u.LockUntil = nil
		u.FailedLoginAttempts = 1
		if u.Status == UserStatusLocked {
			u.Status = UserStatusActive
		}
	} else {
		u.FailedLoginAttempts++
	}

	if u.FailedLoginAttempts >= maxAttempts {
		until := now.Add(lockFor)
		u.LockUntil = &until
		u.Status = UserStatusLocked
		return true
	}
	return false
}

// RecordSuccessfulLogin resets the lockout state after a credential match.
func (u *User) RecordSuccessfulLogin(now time.Time) {
	u.FailedLoginAttempts = 0
	u.LockUntil = nil
	if u.Status == UserStatusLocked {
		u.Status = UserStatusActive
	}
	u.LastLoginAt = &now
}

// Unlock clears the lockout explicitly, as done by a superadmin.
func (u *User) Unlock() {
	u.FailedLoginAttempts = 0
	u.LockUntil = nil
	if u.Status == UserStatusLocked {
		u.Status = UserStatusActive
	}
}
