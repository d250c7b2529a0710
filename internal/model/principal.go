package model

// Principal is the authenticated identity resolved from a bearer token
// on every request.  It is never persisted by this service; it only
// stamps created_by_* / comment author fields and drives comment
// authorization.  Name is the display form of the account name with
// dot-separated components title-cased ("john.doe" -> "John Doe").
//
// Fields:
//  Email    – account email, the token's lookup key.
//  Name     – formatted display name.
//  Username – login code of the account.
//  Role     – profile name from the user_profile reference table.
type Principal struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Role     string `json:"role"`
}
