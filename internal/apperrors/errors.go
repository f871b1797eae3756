package apperrors

import (
	"errors"
	"fmt"
)

// Numeric error codes surfaced in API responses. Grouped by entity:
// 1xxx users and profiles, 2xxx validation and authentication,
// 3xxx workspaces and roles, 4xxx contents.
const (
	CodeUserNotFound              = 1001
	CodeUserDeleted               = 1002
	CodeUserNotActive             = 1003
	CodeInsufficientUserProfile   = 1004
	CodeCantRemoveOwnRole         = 1005
	CodeGenericValidationError    = 2001
	CodeAuthenticationFailed      = 2002
	CodeWorkspaceNotFound         = 3001
	CodeWorkspaceLabelAlreadyUsed = 3002
	CodeInsufficientUserRole      = 3003
	CodeWorkspaceDoNotMatch       = 3004
	CodeUserRoleNotFound          = 3005
	CodeUserRoleAlreadyExist      = 3006
	CodeParentNotFound            = 4001
	CodeContentTypeNotExist       = 4002
	CodeUnallowedSubContent       = 4003
	CodeFilenameAlreadyUsed       = 4004
	CodeContentNotFound           = 4005
)

// Error is a typed domain error carrying the numeric code and HTTP status
// the API layer renders. Match with errors.As.
type Error struct {
	Code    int
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("error %d: %s", e.Code, e.Message)
}

// CodeOf extracts the domain error code from err, or 0 when err is not a
// domain error.
func CodeOf(err error) int {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return 0
}

func WorkspaceNotFound(workspaceID int64) *Error {
	return &Error{
		Code:    CodeWorkspaceNotFound,
		Status:  400,
		Message: fmt.Sprintf("workspace %d not found", workspaceID),
	}
}

func WorkspaceLabelAlreadyUsed(label string) *Error {
	return &Error{
		Code:    CodeWorkspaceLabelAlreadyUsed,
		Status:  400,
		Message: fmt.Sprintf("a workspace labeled %q already exists", label),
	}
}

func WorkspaceDoNotMatch() *Error {
	return &Error{
		Code:    CodeWorkspaceDoNotMatch,
		Status:  400,
		Message: "new parent does not belong to the target workspace",
	}
}

func InsufficientUserRole(workspaceID int64) *Error {
	return &Error{
		Code:    CodeInsufficientUserRole,
		Status:  403,
		Message: fmt.Sprintf("insufficient role in workspace %d for this action", workspaceID),
	}
}

func InsufficientUserProfile() *Error {
	return &Error{
		Code:    CodeInsufficientUserProfile,
		Status:  403,
		Message: "insufficient global profile for this action",
	}
}

func CantRemoveOwnRole(workspaceID int64) *Error {
	return &Error{
		Code:    CodeCantRemoveOwnRole,
		Status:  400,
		Message: fmt.Sprintf("cannot remove own role in workspace %d", workspaceID),
	}
}

func UserNotFound() *Error {
	return &Error{Code: CodeUserNotFound, Status: 400, Message: "user not found"}
}

func UserDeleted(userID int64) *Error {
	return &Error{
		Code:    CodeUserDeleted,
		Status:  400,
		Message: fmt.Sprintf("user %d is deleted", userID),
	}
}

func UserNotActive(userID int64) *Error {
	return &Error{
		Code:    CodeUserNotActive,
		Status:  400,
		Message: fmt.Sprintf("user %d is not active", userID),
	}
}

func UserRoleNotFound(userID, workspaceID int64) *Error {
	return &Error{
		Code:    CodeUserRoleNotFound,
		Status:  400,
		Message: fmt.Sprintf("user %d has no role in workspace %d", userID, workspaceID),
	}
}

func UserRoleAlreadyExist(userID, workspaceID int64) *Error {
	return &Error{
		Code:    CodeUserRoleAlreadyExist,
		Status:  400,
		Message: fmt.Sprintf("user %d already has a role in workspace %d", userID, workspaceID),
	}
}

func ParentNotFound(parentID int64) *Error {
	return &Error{
		Code:    CodeParentNotFound,
		Status:  400,
		Message: fmt.Sprintf("parent %d not found", parentID),
	}
}

func ContentNotFound(contentID int64) *Error {
	return &Error{
		Code:    CodeContentNotFound,
		Status:  400,
		Message: fmt.Sprintf("content %d not found", contentID),
	}
}

func ContentTypeNotExist(slug string) *Error {
	return &Error{
		Code:    CodeContentTypeNotExist,
		Status:  400,
		Message: fmt.Sprintf("content type %q does not exist", slug),
	}
}

func UnallowedSubContent(childType string) *Error {
	return &Error{
		Code:    CodeUnallowedSubContent,
		Status:  400,
		Message: fmt.Sprintf("content type %q is not allowed under this parent", childType),
	}
}

func FilenameAlreadyUsed(label string) *Error {
	return &Error{
		Code:    CodeFilenameAlreadyUsed,
		Status:  400,
		Message: fmt.Sprintf("a content labeled %q of the same type already exists here", label),
	}
}

func Validation(message string) *Error {
	return &Error{Code: CodeGenericValidationError, Status: 400, Message: message}
}

func AuthenticationFailed() *Error {
	return &Error{Code: CodeAuthenticationFailed, Status: 403, Message: "authentication failed"}
}
