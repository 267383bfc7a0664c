package auth

import "errors"

// ErrForbidden means the authenticated user does not own the resource.
var ErrForbidden = errors.New("forbidden")

// AuthorizeOwner is the single ownership policy for mutations on owned
// resources: the resource owner must be the current user.
func AuthorizeOwner(resourceOwnerID, currentUserID int64) error {
	if resourceOwnerID != currentUserID {
		return ErrForbidden
	}
	return nil
}
