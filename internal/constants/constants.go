package constants

// Context and session keys
const (
	ContextKeyUserID    = "user_id"
	ContextKeyUser      = "current_user"
	ContextKeyRequestID = "request_id"
	SessionKeyToken     = "access_token"
	SessionCookieName   = "task_habit_session"
	RequestIDHeader     = "X-Request-ID"
)

// MaxPasswordLength is the bcrypt input limit in bytes.
const MaxPasswordLength = 72

// Pagination
const (
	DefaultPage     = 1
	MaxPage         = 1_000_000
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// TokenType is returned alongside every issued access token.
const TokenType = "bearer"

// DateLayout is the wire format of calendar days (habit completions).
const DateLayout = "2006-01-02"

// MaxAIGeneratedTasks bounds the number of suggestions accepted from the model.
const MaxAIGeneratedTasks = 20

// Context keys for resources loaded by access middleware
const (
	ContextKeyTask            = "task"
	ContextKeyHabit           = "habit"
	ContextKeyWorkspaceMember = "workspace_member"
)
