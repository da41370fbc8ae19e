package model

import "time"

// User is a platform account.
type User struct {
	ID               string `json:"id"`
	Username         string `json:"username"`
	DisplayName      string `json:"display_name"`
	AvatarURL        string `json:"avatar_url,omitempty"`
	Presence         string `json:"presence,omitempty"`
	CustomStatus     string `json:"custom_status,omitempty"`
	SubscriptionTier string `json:"subscription_tier,omitempty"`
	IsAdmin          bool   `json:"is_admin,omitempty"`
}

// MemberRoleInfo is the abbreviated role record attached to a Member.
type MemberRoleInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Color    *int   `json:"color,omitempty"`
	Position int    `json:"position,omitempty"`
	Hoist    bool   `json:"hoist,omitempty"`
}

// Member is a user within a specific space, with role info.
type Member struct {
	ID               string           `json:"id"`
	Username         string           `json:"username"`
	DisplayName      string           `json:"display_name"`
	AvatarURL        string           `json:"avatar_url,omitempty"`
	Presence         string           `json:"presence,omitempty"`
	CustomStatus     string           `json:"custom_status,omitempty"`
	SubscriptionTier string           `json:"subscription_tier,omitempty"`
	Roles            []MemberRoleInfo `json:"roles,omitempty"`
	JoinedAt         *time.Time       `json:"joined_at,omitempty"`
	SpaceID          string           `json:"space_id,omitempty"`
}

// RolePermission is a single permission grant on a role.
type RolePermission struct {
	Permission string `json:"permission"`
	Granted    bool   `json:"granted"`
}

// Role is a named permission set within a space.
type Role struct {
	ID           string           `json:"id"`
	SpaceID      string           `json:"space_id,omitempty"`
	Name         string           `json:"name"`
	Color        *int             `json:"color,omitempty"`
	Position     int              `json:"position,omitempty"`
	InheritsFrom string           `json:"inherits_from,omitempty"`
	IsDefault    bool             `json:"is_default,omitempty"`
	Hoist        bool             `json:"hoist,omitempty"`
	Permissions  []RolePermission `json:"permissions,omitempty"`
}

// Channel is a sub-division of a space carrying messages.
type Channel struct {
	ID          string `json:"id"`
	SpaceID     string `json:"space_id,omitempty"`
	Name        string `json:"name"`
	ChannelType string `json:"channel_type,omitempty"`
	Topic       string `json:"topic,omitempty"`
	CategoryID  string `json:"category_id,omitempty"`
	Position    int    `json:"position,omitempty"`
}

// ChannelCategory groups channels within a space.
type ChannelCategory struct {
	ID       string `json:"id"`
	SpaceID  string `json:"space_id,omitempty"`
	Name     string `json:"name"`
	Position int    `json:"position,omitempty"`
}

// Attachment is an uploaded file attached to a message.
type Attachment struct {
	ID               string `json:"id"`
	Filename         string `json:"filename"`
	OriginalFilename string `json:"original_filename,omitempty"`
	ContentType      string `json:"content_type,omitempty"`
	SizeBytes        int64  `json:"size_bytes,omitempty"`
	URL              string `json:"url"`
	Width            *int   `json:"width,omitempty"`
	Height           *int   `json:"height,omitempty"`
}

// Embed is an unfurled link preview on a message.
type Embed struct {
	ID           string `json:"id,omitempty"`
	URL          string `json:"url,omitempty"`
	EmbedType    string `json:"embed_type,omitempty"`
	Title        string `json:"title,omitempty"`
	Description  string `json:"description,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	SiteName     string `json:"site_name,omitempty"`
	Color        *int   `json:"color,omitempty"`
	ImageURL     string `json:"image_url,omitempty"`
	VideoURL     string `json:"video_url,omitempty"`
	ProviderName string `json:"provider_name,omitempty"`
}

// Reaction is an aggregated emoji reaction on a message.
type Reaction struct {
	Emoji       string `json:"emoji"`
	Count       int    `json:"count"`
	UserReacted bool   `json:"user_reacted,omitempty"`
}

// Message is a chat message within a channel.
type Message struct {
	ID          string       `json:"id"`
	SpaceID     string       `json:"space_id,omitempty"`
	ChannelID   string       `json:"channel_id"`
	Content     string       `json:"content"`
	Author      User         `json:"author"`
	CreatedAt   *time.Time   `json:"created_at,omitempty"`
	EditedAt    *time.Time   `json:"edited_at,omitempty"`
	ReplyTo     string       `json:"reply_to,omitempty"`
	PingAuthor  bool         `json:"ping_author,omitempty"`
	Embeds      []Embed      `json:"embeds,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
	Reactions   []Reaction   `json:"reactions,omitempty"`
}

// CustomEmoji is a space-scoped uploaded emoji.
type CustomEmoji struct {
	ID         string     `json:"id"`
	SpaceID    string     `json:"space_id,omitempty"`
	Name       string     `json:"name"`
	ImageURL   string     `json:"image_url"`
	UploadedBy string     `json:"uploaded_by,omitempty"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
}

// Space is a top-level community grouping.
//
// Sub-resource slices are nil unless the server included them; fetch
// them on demand via the channel/member/role endpoints.
type Space struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Description  string            `json:"description,omitempty"`
	IconURL      string            `json:"icon_url,omitempty"`
	OwnerID      string            `json:"owner_id,omitempty"`
	IsPublic     bool              `json:"is_public,omitempty"`
	Channels     []Channel         `json:"channels,omitempty"`
	Members      []Member          `json:"members,omitempty"`
	Roles        []Role            `json:"roles,omitempty"`
	Categories   []ChannelCategory `json:"categories,omitempty"`
	CustomEmojis []CustomEmoji     `json:"custom_emojis,omitempty"`
}

// Invite is a join link for a space.
type Invite struct {
	ID        string     `json:"id"`
	SpaceID   string     `json:"space_id,omitempty"`
	Code      string     `json:"code"`
	CreatedBy string     `json:"created_by,omitempty"`
	MaxUses   *int       `json:"max_uses,omitempty"`
	UseCount  int        `json:"use_count,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	URL       string     `json:"url,omitempty"`
}
