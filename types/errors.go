package types

import "errors"

// Admission and passcode failures. All of these are reported to the
// originating connection only, none are fatal to the server.
var (
	ErrRoomNotFound           = errors.New("room does not exist")
	ErrPasscodeMismatch       = errors.New("invalid room passcode")
	ErrEmailInUse             = errors.New("this email is already in use")
	ErrPasscodeExpired        = errors.New("passcode expired")
	ErrPasscodeInvalid        = errors.New("invalid passcode")
	ErrPasscodeNotFound       = errors.New("no passcode requested")
	ErrUnauthorized           = errors.New("only admins can perform this action")
	ErrPasscodeDeliveryFailed = errors.New("failed to send email")
)
