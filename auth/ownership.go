package auth

import "github.com/user/conduit-go/apperror"

// AssertOwnership is the single ownership check used by every mutating
// operation on an owned resource (articles, comments). It is a plain field
// comparison on purpose: ownership here is data, not behavior, so it lives
// in one helper instead of being spread across entity methods.
func AssertOwnership(ownerID, requesterID int) error {
	if ownerID != requesterID {
		return apperror.NewUnauthorizedError("you do not own this resource", nil)
	}
	return nil
}
