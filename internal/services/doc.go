// Package services defines the [Client] interface for the NetEase Cloud Music API and implements it over HTTP.
//
// # Client Interface
//
// Every call the tasks package makes goes through [Client]. Each method returns a typed
// response that embeds [Response], whose Code field carries the API's own status code.
// Tasks decide what a non-200 code means; the client only reports transport failures as errors.
//
// # NetEase Implementation
//
// [NeteaseService] talks to a NeteaseCloudMusicApi-compatible proxy. The proxy handles
// request encryption; this client only sends plain query/form parameters.
//
// The session lives in a cookie jar. [NeteaseService.Cookies] serializes it so the login
// task can persist it, and [NeteaseService.SetCookies] restores it on startup.
//
// Requests are paced with a [rate.Limiter] shared by every method.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrAPIRequest] : transport failure or undecodable body
//   - [shared.ErrInvalidConfig] : bad base URL or options
package services
