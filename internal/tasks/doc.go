// Package tasks runs the side effects of the client: every network call, loading flag,
// toast and cache write is performed by a task started in response to an action.
//
// # Runtime
//
// A [Runtime] routes each committed action to the watchers registered for its type. A
// watcher owns one [Policy]:
//
//   - [TakeEvery] starts a task per action.
//   - [TakeLatest] cancels the running task before starting the next.
//   - [TakeLeading] drops actions while a task is running.
//
// Tasks commit through [Runtime.Put], which blocks until the store applied the action and
// then routes it to other watchers, so a task can start follow-up work by putting actions.
// [Runtime.Settle] waits for all of it to finish.
//
// # Engine
//
// [Engine] registers the client tasks (login, search, top playlists, new albums, details,
// subscriptions and comments) against a [services.Client] and a [store.Store]. Loading
// flags are always lowered, even when a task is superseded. Network failures surface as
// error toasts; rejected responses are only logged.
//
// # Exports
//
// [Engine.ExportPlaylists] writes playlist details to disk with a worker pool and reports
// progress on a non-blocking [ProgressUpdate] channel.
package tasks
