package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates a failed credential or token check.
// Handlers must surface it with a single generic message so that unknown
// emails and wrong passwords are indistinguishable to the caller.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates the identity is known but the account may not be used
// (e.g. disabled). Unlike ErrUnauthorized, the message shown is specific.
var ErrForbidden = errors.New("forbidden")

// ErrRateLimited indicates a cooldown window has not elapsed yet.
var ErrRateLimited = errors.New("rate limited")

// ErrAlreadyVerified indicates a verification flow was started for an
// already-verified channel.
var ErrAlreadyVerified = errors.New("already verified")

// ErrInvalidOrExpired indicates a one-time secret did not match, was already
// used, or has expired. The three cases are deliberately not distinguishable.
var ErrInvalidOrExpired = errors.New("invalid or expired secret")
