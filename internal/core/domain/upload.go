package domain

import "time"

// Upload tracks a file accepted through the upload endpoint from acceptance
// through sorting. SortedPath stays empty until the worker finishes moving
// the file into the sorted tree (spec §4.10).
type Upload struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Filename    string     `json:"filename"`
	SizeBytes   int64      `json:"size_bytes"`
	DropPath    string     `json:"drop_path"`
	SortedPath  string     `json:"sorted_path,omitempty"`
	Status      IngestStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// ChatRole distinguishes the speaker of a chat message.
type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

// ChatMessage is one turn in a chat session.
type ChatMessage struct {
	ID        string       `json:"id"`
	SessionID string       `json:"session_id"`
	Role      ChatRole     `json:"role"`
	Content   string       `json:"content"`
	Result    *QueryResult `json:"result,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

// ChatSession is a user's ongoing conversation against the corpus.
type ChatSession struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
