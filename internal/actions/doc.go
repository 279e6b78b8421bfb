// Package actions defines the events exchanged between the UI, the tasks runtime, and the state store.
//
// Every event is a tagged record implementing [Action]. Its [Type] is the routing key the
// runtime uses to find watchers and the store uses to pick a reducer.
//
// # Inbound Actions
//
// Requests from the UI that start a task:
//   - [LoginRequested] : user/login
//   - [SearchQueryChanged], [SearchTabChanged] : search/query, search/activeTab
//   - [SearchRequested], [SearchMoreRequested] : search/<kind>, search/<kind>/more
//   - [PlaylistsRefreshRequested], [PlaylistsSyncRequested] : playlists/refresh, playlists/sync
//   - [AlbumsRefreshRequested], [AlbumsSyncRequested], [AlbumDetailRequested]
//   - [PlaylistDetailRequested], [SubscribeToggled], [CommentsSyncRequested]
//
// # Outbound Actions
//
// State patches emitted by tasks: loading markers ([LoadingStarted], [LoadingEnded]),
// saves (*Saved, [LoginSucceeded], [SearchQueryCommitted]) and [Toast] notifications.
//
// [Decode] builds inbound actions from JSON so that they can arrive over HTTP.
package actions
