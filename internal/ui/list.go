package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/ncmx/internal/models"
	"github.com/desertthunder/ncmx/internal/shared"
)

var (
	_ list.Item = playlistItem{}
	_ list.Item = trackItem{}
	_ list.Item = commentItem{}
)

// playlistItem wraps [models.Playlist] to implement [list.Item].
type playlistItem struct {
	playlist models.Playlist
}

func (i playlistItem) FilterValue() string { return i.playlist.Name }
func (i playlistItem) Title() string       { return i.playlist.Name }
func (i playlistItem) Description() string {
	desc := fmt.Sprintf("%d plays", i.playlist.PlayCount)
	if i.playlist.Creator.Nickname != "" {
		desc = fmt.Sprintf("%s • by %s", desc, i.playlist.Creator.Nickname)
	}
	return desc
}

// trackItem wraps [models.Track] to implement [list.Item].
type trackItem struct {
	track models.Track
}

func (i trackItem) FilterValue() string { return i.track.Name }
func (i trackItem) Title() string       { return i.track.Name }
func (i trackItem) Description() string {
	desc := i.track.ArtistNames()
	if i.track.Album.Name != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.track.Album.Name)
	}
	return fmt.Sprintf("%s • %s", desc, shared.FormatDuration(i.track.Duration))
}

// commentItem wraps [models.Comment] to implement [list.Item].
type commentItem struct {
	comment models.Comment
	hot     bool
}

func (i commentItem) FilterValue() string { return i.comment.Content }
func (i commentItem) Title() string {
	title := strings.ReplaceAll(i.comment.Content, "\n", " ")
	if i.hot {
		title = "★ " + title
	}
	return title
}
func (i commentItem) Description() string {
	return fmt.Sprintf("%s • %d likes", i.comment.User.Nickname, i.comment.LikedCount)
}

func playlistItems(playlists []models.Playlist) []list.Item {
	items := make([]list.Item, len(playlists))
	for i, p := range playlists {
		items[i] = playlistItem{playlist: p}
	}
	return items
}

func trackItems(tracks []models.Track) []list.Item {
	items := make([]list.Item, len(tracks))
	for i, t := range tracks {
		items[i] = trackItem{track: t}
	}
	return items
}

func commentItems(thread models.CommentThread) []list.Item {
	items := make([]list.Item, 0, len(thread.HotComments)+len(thread.Comments))
	for _, c := range thread.HotComments {
		items = append(items, commentItem{comment: c, hot: true})
	}
	for _, c := range thread.Comments {
		items = append(items, commentItem{comment: c})
	}
	return items
}
