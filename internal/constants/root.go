package constants

import "time"

// SessionState represents the current screen of the TUI application
type SessionState int

// NoticeLevel classifies a notification shown in the status line
type NoticeLevel int

const (
	AppName            = "daybook"
	DefaultKeyringUser = "device-identity"
	DefaultConfigDir   = "~/.config/daybook"
	DatabaseFileName   = "daybook.db"
	ConfigFileName     = "config.yaml"
	Version            = "v0.1.0"

	// DateFormat is the wire and display format for diary dates (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// Remote API
	DefaultAPIBaseURL     = "http://localhost:8080/api"
	DefaultIdentityHeader = "X-Temp-Id"
	RequestIDHeader       = "X-Request-Id"
	IdentityPathPrefix    = "/users/"
	FilesPath             = "/files"

	// Paging
	DefaultPageSize     = 9
	MaxVisiblePageLinks = 5

	// Attachments
	MaxAttachmentBytes = 5 * 1024 * 1024
	MimeJPEG           = "image/jpeg"
	MimePNG            = "image/png"
	MimeGIF            = "image/gif"

	// Statistics
	DefaultTopWords = 10

	// Notifications stay on screen this long
	NoticeTTL = 4 * time.Second
)

// Notice levels
const (
	NoticeInfo NoticeLevel = iota
	NoticeSuccess
	NoticeError
)

// Session States
const (
	StateBootstrapping SessionState = iota
	StateList
	StateDetail
	StateForm
	StateSearch
	StateStats
)
