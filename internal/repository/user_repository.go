package repository

import (
	"context"
	"database/sql"
	"strings"
)

// UserRepo reads the externally-owned user reference tables.  This
// service never writes them; they exist for credential verification,
// per-request principal resolution and the assignable-executor listing.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo returns a UserRepo bound to the given database.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// Account mirrors the columns of the users table this service reads.
type Account struct {
	Code         string // login code
	Name         string // raw account name (dot-separated)
	Email        string
	PasswordHash string // bcrypt, or legacy md5 hex
}

// GetByCode fetches an account by its login code for credential
// verification.  Returns sql.ErrNoRows when the code is unknown.
func (r *UserRepo) GetByCode(ctx context.Context, code string) (Account, error) {
	var a Account
	err := r.db.QueryRowContext(ctx,
		`SELECT user_code, user_name, user_email, user_password
		 FROM users WHERE user_code = ? LIMIT 1`,
		strings.TrimSpace(code)).
		Scan(&a.Code, &a.Name, &a.Email, &a.PasswordHash)
	return a, err
}

// PrincipalRow is the joined identity the auth middleware resolves for
// every request: account, group membership, profile role.
type PrincipalRow struct {
	Email    string
	Name     string // formatted display name
	Username string
	Role     string
}

// ResolveByEmail joins users, user_group and user_profile to build the
// request principal.  Returns sql.ErrNoRows when the email maps to no
// account or the account carries no profile.
func (r *UserRepo) ResolveByEmail(ctx context.Context, email string) (PrincipalRow, error) {
	const q = `SELECT u.user_name, u.user_code, u.user_email, p.profile_name
		FROM users u
		JOIN user_group g   ON g.user_code = u.user_code
		JOIN user_profile p ON p.profile_code = g.profile_code
		WHERE u.user_email = ? LIMIT 1`
	var row PrincipalRow
	var rawName string
	if err := r.db.QueryRowContext(ctx, q, email).
		Scan(&rawName, &row.Username, &row.Email, &row.Role); err != nil {
		return PrincipalRow{}, err
	}
	row.Name = FormatDisplayName(rawName)
	return row, nil
}

// Executor is one assignable executor in the reference listing.
type Executor struct {
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
}

// ListExecutors returns the accounts holding the NOC OTT profile, the
// pool a ticket's executor is picked from.
func (r *UserRepo) ListExecutors(ctx context.Context) ([]Executor, error) {
	const q = `SELECT u.user_name, u.user_email
		FROM users u
		JOIN user_group g   ON g.user_code = u.user_code
		JOIN user_profile p ON p.profile_code = g.profile_code
		WHERE p.profile_name = 'NOC OTT'
		ORDER BY u.user_name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Executor{}
	for rows.Next() {
		var e Executor
		if err := rows.Scan(&e.UserName, &e.UserEmail); err != nil {
			return nil, err
		}
		e.UserName = FormatDisplayName(e.UserName)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// FormatDisplayName turns a dot-separated account name into its display
// form: "john.doe" -> "John Doe".  Names without dots pass through
// unchanged.
func FormatDisplayName(name string) string {
	if !strings.Contains(name, ".") {
		return name
	}
	parts := strings.Split(name, ".")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}
