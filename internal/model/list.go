package model

import "time"

type ListType string

const (
	ListTypeWatch  ListType = "watch"
	ListTypeRead   ListType = "read"
	ListTypeCustom ListType = "custom"
)

// ListSlot identifies which of a user's default lists a row is. Every user
// owns exactly one list per non-custom slot.
type ListSlot string

const (
	ListSlotWatchTodo ListSlot = "watch_todo"
	ListSlotWatchDone ListSlot = "watch_done"
	ListSlotReadTodo  ListSlot = "read_todo"
	ListSlotReadDone  ListSlot = "read_done"
	ListSlotCustom    ListSlot = "custom"
)

// DefaultSlots is the creation order of the lists every user gets at registration.
var DefaultSlots = []ListSlot{
	ListSlotWatchTodo,
	ListSlotWatchDone,
	ListSlotReadTodo,
	ListSlotReadDone,
}

func (s ListSlot) ListType() ListType {
	switch s {
	case ListSlotWatchTodo, ListSlotWatchDone:
		return ListTypeWatch
	case ListSlotReadTodo, ListSlotReadDone:
		return ListTypeRead
	default:
		return ListTypeCustom
	}
}

// DefaultName is the display name given to a default list at registration.
func (s ListSlot) DefaultName() string {
	switch s {
	case ListSlotWatchTodo:
		return "Movies to Watch"
	case ListSlotWatchDone:
		return "Watched Movies"
	case ListSlotReadTodo:
		return "Books to Read"
	case ListSlotReadDone:
		return "Read Books"
	default:
		return ""
	}
}

func (s ListSlot) IsDefault() bool {
	return s != ListSlotCustom && s != ""
}

type List struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"user_id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	ListType    ListType  `db:"list_type" json:"list_type"`
	Slot        ListSlot  `db:"slot" json:"slot"`
	IsDefault   bool      `db:"is_default" json:"is_default"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Accepts reports whether content of type t may be shelved in the list.
func (l *List) Accepts(t ContentType) bool {
	return l.ListType == ListTypeCustom || l.ListType == t.ListType()
}

type ListItem struct {
	ID        string    `db:"id" json:"id"`
	ListID    string    `db:"list_id" json:"list_id"`
	ContentID string    `db:"content_id" json:"content_id"`
	AddedAt   time.Time `db:"added_at" json:"added_at"`
}

// ListItemDetail is a list item joined with the list it belongs to.
type ListItemDetail struct {
	ListItem
	ListName string   `db:"list_name" json:"list_name"`
	ListSlot ListSlot `db:"list_slot" json:"list_slot"`
	OwnerID  string   `db:"owner_id" json:"owner_id"`
}

// ListEntry is a list item joined with the content it shelves.
type ListEntry struct {
	ListItem
	Title     string      `db:"title" json:"title"`
	Type      ContentType `db:"type" json:"type"`
	PosterURL string      `db:"poster_url" json:"poster_url"`
	Year      *int        `db:"year" json:"year,omitempty"`
}

// ListToggle is the outcome of toggling a content item in a list.
type ListToggle struct {
	ListID    string    `json:"list_id"`
	ContentID string    `json:"content_id"`
	Member    bool      `json:"member"`
	Item      *ListItem `json:"item,omitempty"`
	// Activity is set only when the toggle added the item.
	Activity *Activity `json:"activity,omitempty"`
}

// ListView is a list together with its shelved items.
type ListView struct {
	List  *List        `json:"list"`
	Items []*ListEntry `json:"items"`
}
