package sqlstore

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/aussiebroadwan/bookstore/internal/bookstore/domain"
)

const accountColumns = `id, username, email, password_hash, role, otp_enabled, otp_secret, created_at, updated_at`

type accountsRepo struct {
	q   *Queries
	now func() time.Time
}

func scanAccount(row interface{ Scan(...any) error }) (domain.Account, error) {
	var (
		a      domain.Account
		role   string
		secret sql.NullString
	)
	err := row.Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &role, &a.OTPEnabled, &secret, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return domain.Account{}, err
	}
	a.Role = domain.Role(role)
	a.OTPSecret = stringOf(secret)
	return a, nil
}

func (r *accountsRepo) GetAccountByID(ctx context.Context, id string) (domain.Account, error) {
	a, err := scanAccount(r.q.queryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id))
	if err != nil {
		return domain.Account{}, r.q.mapErr(err)
	}
	return a, nil
}

func (r *accountsRepo) GetAccountByLogin(ctx context.Context, login string) (domain.Account, error) {
	login = strings.TrimSpace(login)
	a, err := scanAccount(r.q.queryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE email = ? OR username = ? ORDER BY created_at LIMIT 1`,
		strings.ToLower(login), login,
	))
	if err != nil {
		return domain.Account{}, r.q.mapErr(err)
	}
	return a, nil
}

func (r *accountsRepo) CreateAccount(ctx context.Context, a domain.Account) error {
	now := r.now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = a.CreatedAt
	}
	_, err := r.q.exec(ctx,
		`INSERT INTO accounts (`+accountColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Username, strings.ToLower(a.Email), a.PasswordHash, string(a.Role),
		a.OTPEnabled, nullString(a.OTPSecret), a.CreatedAt, a.UpdatedAt,
	)
	return err
}

func (r *accountsRepo) SetRole(ctx context.Context, id string, role domain.Role) error {
	now := r.now().UTC()
	if role == domain.RoleAdmin {
		return r.q.execOne(ctx,
			`UPDATE accounts SET role = ?, updated_at = ? WHERE id = ?`,
			string(role), now, id,
		)
	}
	return r.q.execOne(ctx,
		`UPDATE accounts SET role = ?, otp_enabled = ?, otp_secret = NULL, updated_at = ? WHERE id = ?`,
		string(role), false, now, id,
	)
}

func (r *accountsRepo) SetOTP(ctx context.Context, id string, secret string) error {
	return r.q.execOne(ctx,
		`UPDATE accounts SET otp_secret = ?, otp_enabled = ?, updated_at = ? WHERE id = ?`,
		nullString(secret), secret != "", r.now().UTC(), id,
	)
}

func (r *accountsRepo) DeleteAccount(ctx context.Context, id string) error {
	return r.q.execOne(ctx, `DELETE FROM accounts WHERE id = ?`, id)
}

func (r *accountsRepo) ListProfiles(ctx context.Context) ([]domain.AccountProfile, error) {
	rows, err := r.q.query(ctx,
		`SELECT id, username, email, role, otp_enabled, created_at, updated_at FROM accounts ORDER BY created_at, id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.AccountProfile
	for rows.Next() {
		var (
			p    domain.AccountProfile
			role string
		)
		if err := rows.Scan(&p.ID, &p.Username, &p.Email, &role, &p.OTPEnabled, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		p.Role = domain.Role(role)
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *accountsRepo) CountAdmins(ctx context.Context) (int, error) {
	var n int
	if err := r.q.queryRow(ctx, `SELECT COUNT(*) FROM accounts WHERE role = ?`, string(domain.RoleAdmin)).Scan(&n); err != nil {
		return 0, r.q.mapErr(err)
	}
	return n, nil
}
