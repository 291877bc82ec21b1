package models

// Message is the persisted chat message. MessageID and DateTime are assigned
// server-side at ingestion; DateTime is epoch milliseconds.
type Message struct {
	MessageID      string          `bson:"messageId" json:"messageId"`
	ConversationID string          `bson:"conversationId" json:"conversationId"`
	Username       string          `bson:"username" json:"username"`
	DateTime       int64           `bson:"dateTime" json:"dateTime"`
	Content        string          `bson:"content" json:"content"`
	IsMedia        bool            `bson:"isMedia" json:"isMedia"`
	RootID         string          `bson:"rootId,omitempty" json:"rootId,omitempty"`
	Options        *MessageOptions `bson:"options,omitempty" json:"options,omitempty"`
	MetaData       *MessageMeta    `bson:"metaData,omitempty" json:"metaData,omitempty"`
}

// MessageOptions applies to media messages only.
type MessageOptions struct {
	CanBeSaved  bool   `bson:"canBeSaved,omitempty" json:"canBeSaved,omitempty"`
	IsSensitive bool   `bson:"isSensitive,omitempty" json:"isSensitive,omitempty"`
	AutoPlayOn  bool   `bson:"autoPlayOn,omitempty" json:"autoPlayOn,omitempty"`
	Caption     string `bson:"caption,omitempty" json:"caption,omitempty"`
}

type MessageMeta struct {
	PopupText  string `bson:"popupText,omitempty" json:"popupText,omitempty"`
	IsLocation bool   `bson:"IsLocation,omitempty" json:"IsLocation,omitempty"`
}

// MessageDraft is the client-submitted payload before server-side id and
// timestamp assignment. TempMessageID and TempDateTime are the client's
// tentative values; they are never persisted.
type MessageDraft struct {
	ConversationID string          `json:"conversationId"`
	Username       string          `json:"username"`
	Content        string          `json:"content"`
	IsMedia        bool            `json:"isMedia"`
	RootID         string          `json:"rootId,omitempty"`
	Options        *MessageOptions `json:"options,omitempty"`
	MetaData       *MessageMeta    `json:"metaData,omitempty"`
	TempMessageID  string          `json:"tempMessageId"`
	TempDateTime   int64           `json:"tempDateTime"`
}

type Conversation struct {
	ConversationID   string                 `bson:"conversationId" json:"conversationId"`
	Name             string                 `bson:"name" json:"name"`
	Users            []string               `bson:"users" json:"users"`
	CreationDateTime int64                  `bson:"creationDateTime" json:"creationDateTime"`
	Markers          []Marker               `bson:"markers,omitempty" json:"markers,omitempty"`
	UserSettings     map[string]UserSetting `bson:"userSettings,omitempty" json:"userSettings,omitempty"`
}

type Marker struct {
	UserID    string  `bson:"userId" json:"userId"`
	DateTime  string  `bson:"dateTime" json:"dateTime"`
	Latitude  float64 `bson:"latitude" json:"latitude"`
	Longitude float64 `bson:"longitude" json:"longitude"`
	Duration  string  `bson:"duration" json:"duration"`
}

type UserSetting struct {
	Markers           []Marker `bson:"markers,omitempty" json:"markers,omitempty"`
	LocationPrivacy   string   `bson:"locationPrivacy,omitempty" json:"locationPrivacy,omitempty"`
	LocationShareTime string   `bson:"locationShareTime,omitempty" json:"locationShareTime,omitempty"`
	LocationDuration  string   `bson:"locationDuration,omitempty" json:"locationDuration,omitempty"`
}

// User is keyed by lowercase username. Conversations is a manually maintained
// reverse index from user to conversation ids; Version guards its
// read-modify-write updates.
type User struct {
	Username      string         `bson:"username" json:"username"`
	FirstName     string         `bson:"firstname,omitempty" json:"firstname,omitempty"`
	LastName      string         `bson:"lastname,omitempty" json:"lastname,omitempty"`
	PhoneNumber   string         `bson:"phoneNumber,omitempty" json:"phoneNumber,omitempty"`
	Email         string         `bson:"email,omitempty" json:"email,omitempty"`
	Conversations []string       `bson:"conversations" json:"conversations"`
	TaggedMoments []TaggedMoment `bson:"taggedMoments,omitempty" json:"taggedMoments,omitempty"`
	Version       int64          `bson:"version" json:"-"`
}

type TaggedMoment struct {
	DateTime       string `bson:"dateTime" json:"dateTime"`
	ConversationID string `bson:"conversationId" json:"conversationId"`
}
