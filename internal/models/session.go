package models

// Role selects which home flow a signed-in user sees
type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
)

// Session is the signed-in user as derived from the stored auth values
type Session struct {
	Role        Role   `json:"role"`
	DisplayName string `json:"display_name"`
}
