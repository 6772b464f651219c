package constants

const (
	AccountNumberLen = 8
	MaxNameLen       = 255
	MaxPhoneLen      = 15
	MinPasswordLen   = 6
)
