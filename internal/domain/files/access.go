package files

// AnonymousUser is the principal id of an unauthenticated caller.
const AnonymousUser int64 = 0

// CanRead decides whether a principal may read a node's content or detail
// view. Public nodes are readable by anyone, including anonymous callers;
// private nodes only by their owner.
func CanRead(userID int64, f *File) bool {
	if f.IsPublic {
		return true
	}
	return userID != AnonymousUser && userID == f.UserID
}
