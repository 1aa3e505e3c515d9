package auth

import "foodgram/internal/model"

// CanModify reports whether requester may update or delete a resource owned
// by ownerID. Authors own their resources; admins may act on any.
func CanModify(requester *model.User, ownerID uint) bool {
	if requester == nil {
		return false
	}
	return requester.ID == ownerID || requester.IsAdmin()
}
