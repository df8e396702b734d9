package domain

// Error is a clan domain failure identified by a stable code.
type Error struct {
	Code string
}

func (e *Error) Error() string {
	return e.Code
}

var (
	ErrCannotCreate  = &Error{Code: "clans.cannot_create"}
	ErrNotFound      = &Error{Code: "clans.not_found"}
	ErrAlreadyInClan = &Error{Code: "clans.already_in_clan"}
	ErrNameExists    = &Error{Code: "clans.name_exists"}
	ErrTagExists     = &Error{Code: "clans.tag_exists"}

	// ErrCreateContended shares the cannot_create code but is retryable: another
	// create for the same owner, name or tag is in flight.
	ErrCreateContended = &Error{Code: "clans.cannot_create"}

	ErrInvalidName       = &Error{Code: "clans.invalid_name"}
	ErrInvalidTag        = &Error{Code: "clans.invalid_tag"}
	ErrInvalidOwner      = &Error{Code: "clans.invalid_owner"}
	ErrInvalidJoinMethod = &Error{Code: "clans.invalid_join_method"}
	ErrInvalidID         = &Error{Code: "clans.invalid_id"}
)
