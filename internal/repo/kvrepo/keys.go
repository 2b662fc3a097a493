package kvrepo

// Key layout, shared by every repository:
//
//	auth:identity:<userId>   identity record
//	auth:email:<email>       email -> userId index
//	user:<userId>:profile    profile record
//	user:<userId>:note:<id>  note record
//
// The user id segment always comes from the verified token, which is what
// makes ownership a property of the key itself.

func identityKey(userID string) string {
	return "auth:identity:" + userID
}

func emailKey(email string) string {
	return "auth:email:" + email
}

func profileKey(userID string) string {
	return "user:" + userID + ":profile"
}

func noteKey(userID, noteID string) string {
	return "user:" + userID + ":note:" + noteID
}

func notePrefix(userID string) string {
	return "user:" + userID + ":note:"
}
