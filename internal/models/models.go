// package models defines the data model for the ncmx client
package models

import (
	"fmt"
	"time"
)

// Model defines the base interface for all persistent models.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Profile is the account returned by a successful login.
type Profile struct {
	UserID    int64  `json:"userId"`
	Nickname  string `json:"nickname"`
	AvatarURL string `json:"avatarUrl"`
	Signature string `json:"signature,omitempty"`
}

// Creator is the owner of a playlist or the author of a comment.
type Creator struct {
	UserID    int64  `json:"userId"`
	Nickname  string `json:"nickname"`
	AvatarURL string `json:"avatarUrl"`
}

// Artist represents a NetEase artist.
type Artist struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	PicURL    string `json:"picUrl,omitempty"`
	Img1v1URL string `json:"img1v1Url,omitempty"`
	AlbumSize int    `json:"albumSize,omitempty"`
}

// Album represents a NetEase album.
//
// Songs and Description are only present on detail records.
type Album struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	PicURL      string   `json:"picUrl"`
	Artist      Artist   `json:"artist"`
	Artists     []Artist `json:"artists,omitempty"`
	PublishTime int64    `json:"publishTime"`
	Size        int      `json:"size"`
	Company     string   `json:"company,omitempty"`
	Description string   `json:"description,omitempty"`
	Songs       []Track  `json:"songs,omitempty"`
}

// IsEmpty reports whether the album carries no data, i.e. was never fetched.
func (a Album) IsEmpty() bool {
	return a.ID == 0 && a.Name == ""
}

// Track represents a song.
type Track struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	Artists  []Artist `json:"artists"`
	Album    Album    `json:"album"`
	Duration int      `json:"duration"` // Duration in milliseconds
}

// ArtistNames joins the track's artist names with " / ".
func (t Track) ArtistNames() string {
	names := ""
	for i, a := range t.Artists {
		if i > 0 {
			names += " / "
		}
		names += a.Name
	}
	return names
}

// Playlist represents a NetEase playlist.
//
// Tracks is only present on detail records.
type Playlist struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name"`
	CoverImgURL     string   `json:"coverImgUrl"`
	Description     string   `json:"description,omitempty"`
	PlayCount       int64    `json:"playCount"`
	TrackCount      int      `json:"trackCount"`
	SubscribedCount int      `json:"subscribedCount"`
	Subscribed      bool     `json:"subscribed"`
	Creator         Creator  `json:"creator"`
	Tags            []string `json:"tags,omitempty"`
	Tracks          []Track  `json:"tracks,omitempty"`
}

// IsEmpty reports whether the playlist carries no data, i.e. was never fetched.
func (p Playlist) IsEmpty() bool {
	return p.ID == 0 && p.Name == "" && len(p.Tracks) == 0
}

// Comment is a single playlist comment.
type Comment struct {
	CommentID  int64   `json:"commentId"`
	Content    string  `json:"content"`
	LikedCount int     `json:"likedCount"`
	Time       int64   `json:"time"`
	User       Creator `json:"user"`
}

// CommentThread holds the comments fetched so far for one resource plus its pagination cursor.
type CommentThread struct {
	Comments    []Comment `json:"comments"`
	HotComments []Comment `json:"hotComments"`
	Total       int       `json:"total"`
	Offset      int       `json:"offset"`
	More        bool      `json:"more"`
}

// NewCommentThread returns an empty thread positioned at the first page.
func NewCommentThread() CommentThread {
	return CommentThread{Comments: []Comment{}, HotComments: []Comment{}, More: true}
}

// SearchResults holds search hits. Only the slice matching the searched kind is populated.
type SearchResults struct {
	Songs     []Track    `json:"songs,omitempty"`
	Playlists []Playlist `json:"playlists,omitempty"`
	Artists   []Artist   `json:"artists,omitempty"`
	Albums    []Album    `json:"albums,omitempty"`
}

// Len returns the total number of hits across kinds.
func (r SearchResults) Len() int {
	return len(r.Songs) + len(r.Playlists) + len(r.Artists) + len(r.Albums)
}

// LoginRecord is one successful login persisted to login_history.
type LoginRecord struct {
	id        string
	username  string
	userID    int64
	nickname  string
	createdAt time.Time
}

// NewLoginRecord creates an unsaved [LoginRecord].
func NewLoginRecord(username string, profile Profile) *LoginRecord {
	return &LoginRecord{
		username:  username,
		userID:    profile.UserID,
		nickname:  profile.Nickname,
		createdAt: time.Now(),
	}
}

// RestoreLoginRecord rebuilds a [LoginRecord] from stored columns.
func RestoreLoginRecord(id, username string, userID int64, nickname string, createdAt time.Time) *LoginRecord {
	return &LoginRecord{id: id, username: username, userID: userID, nickname: nickname, createdAt: createdAt}
}

func (r *LoginRecord) ID() string           { return r.id }
func (r *LoginRecord) SetID(id string)      { r.id = id }
func (r *LoginRecord) Username() string     { return r.username }
func (r *LoginRecord) UserID() int64        { return r.userID }
func (r *LoginRecord) Nickname() string     { return r.nickname }
func (r *LoginRecord) CreatedAt() time.Time { return r.createdAt }

// Validate checks that the record names a user.
func (r *LoginRecord) Validate() error {
	if r.username == "" {
		return fmt.Errorf("username is required")
	}
	return nil
}
