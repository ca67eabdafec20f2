package entity

// UserProfile is the stored identity preference for a known user.
type UserProfile struct {
	UserId        string
	PreferredName string
	KnownInterest string
}
