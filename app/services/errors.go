package services

import "errors"

var (
	// ErrEmptyUsername is returned when a session is opened without a username.
	ErrEmptyUsername = errors.New("username must not be empty")
	// ErrNoActiveUser is returned by task operations while nobody is logged in.
	ErrNoActiveUser = errors.New("no active user")
)
