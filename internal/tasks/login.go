package tasks

import (
	"context"
	"strings"

	"github.com/desertthunder/ncmx/internal/actions"
)

// login authenticates, stores the profile and persists the session cookie.
//
// On success the order is fixed: profile saved, session persisted, then the success toast.
func (e *Engine) login(ctx context.Context, a actions.Action) {
	req, ok := a.(actions.LoginRequested)
	if !ok {
		return
	}

	username := strings.TrimSpace(req.Username)
	password := strings.TrimSpace(req.Password)
	if username == "" || password == "" {
		e.toast(ctx, actions.ToastWarning, actions.MsgEmptyCredentials)
		return
	}

	e.startLoading(ctx, actions.ScopeLogin)
	resp, err := e.client.Login(ctx, username, password)
	e.endLoading(ctx, actions.ScopeLogin)

	if err != nil {
		e.fail(ctx, "login", err)
		return
	}
	if !resp.OK() {
		e.logger.Warn("login rejected", "code", resp.Code, "message", resp.Message)
		e.toast(ctx, actions.ToastWarning, actions.MsgWrongCredentials)
		return
	}

	e.put(ctx, actions.LoginSucceeded{Username: username, Profile: resp.Profile})

	if e.sessions != nil {
		if err := e.sessions.SaveSession(ctx, username, resp.Profile, e.client.Cookies()); err != nil {
			e.logger.Error("failed to save session", "err", err)
			e.toast(ctx, actions.ToastError, actions.MsgSessionSaveFailed)
			return
		}
	}

	e.toast(ctx, actions.ToastSuccess, actions.MsgLoginSucceeded)
}
