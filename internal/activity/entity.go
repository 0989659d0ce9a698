// AngelaMos | 2026
// entity.go

package activity

import (
	"database/sql"
	"time"
)

// Action values recorded against resources.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionLogin  = "login"
	ActionSignup = "signup"
)

type Log struct {
	ID         string         `db:"id"`
	UserID     sql.NullString `db:"user_id"`
	Action     string         `db:"action"`
	Resource   string         `db:"resource"`
	ResourceID sql.NullString `db:"resource_id"`
	Details    sql.NullString `db:"details"`
	IPAddress  sql.NullString `db:"ip_address"`
	UserAgent  sql.NullString `db:"user_agent"`
	CreatedAt  time.Time      `db:"created_at"`
}

// LogWithUser carries the actor's email and name when the account
// still exists.
type LogWithUser struct {
	Log
	UserEmail sql.NullString `db:"user_email"`
	UserName  sql.NullString `db:"user_name"`
}

type Response struct {
	ID         string    `json:"id"`
	UserID     *string   `json:"userId,omitempty"`
	UserEmail  *string   `json:"userEmail,omitempty"`
	UserName   *string   `json:"userName,omitempty"`
	Action     string    `json:"action"`
	Resource   string    `json:"resource"`
	ResourceID *string   `json:"resourceId,omitempty"`
	Details    *string   `json:"details,omitempty"`
	IPAddress  *string   `json:"ipAddress,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

func ToResponse(l *LogWithUser) *Response {
	return &Response{
		ID:         l.ID,
		UserID:     nullable(l.UserID),
		UserEmail:  nullable(l.UserEmail),
		UserName:   nullable(l.UserName),
		Action:     l.Action,
		Resource:   l.Resource,
		ResourceID: nullable(l.ResourceID),
		Details:    nullable(l.Details),
		IPAddress:  nullable(l.IPAddress),
		CreatedAt:  l.CreatedAt,
	}
}

func nullable(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}
