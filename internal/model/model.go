package model

// Environment is the deployment environment.
type Environment string

const (
	EnvironmentDevelopment Environment = "development"
	EnvironmentProduction  Environment = "production"
)

// User is a WhatsApp user's persistent record. The refresh token lives
// in a separate table so it can be invalidated without losing the user.
type User struct {
	ID          string
	PhoneNumber string
	CalendarID  string
	Memory      string
	CreatedAt   string
	UpdatedAt   string
}
