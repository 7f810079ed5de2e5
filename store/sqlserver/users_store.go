package sqlserver

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/commette/backend/users"
)

// UserStore implements users.Repo against the commette user procedures.
type UserStore struct {
	db *sql.DB
}

var _ users.Repo = (*UserStore)(nil)

// Create runs the create_user procedure and returns the new row id. The
// procedure inserts the profile row, the role link and, for sellers, the
// company row in one transaction on its side; the tx here covers the
// declare/exec/select round trip.
func (s *UserStore) Create(ctx context.Context, reg users.Registration) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, errors.Wrap(err, "[UserStore.Create] begin tx")
	}

	const query = `
		DECLARE @new_user_id BIGINT;
		EXEC commette.create_user
			@email = @p_email,
			@username = @p_username,
			@first_name = @p_first_name,
			@last_name = @p_last_name,
			@company_name = @p_company_name,
			@is_seller = @p_is_seller,
			@new_user_id = @new_user_id OUTPUT;
		SELECT @new_user_id;`

	var newUserID int64
	err = tx.QueryRowContext(ctx, query,
		sql.Named("p_email", reg.Email),
		sql.Named("p_username", reg.Username),
		sql.Named("p_first_name", reg.FirstName),
		sql.Named("p_last_name", reg.LastName),
		sql.Named("p_company_name", reg.CompanyName),
		sql.Named("p_is_seller", reg.IsSeller()),
	).Scan(&newUserID)
	if err != nil {
		_ = tx.Rollback()
		return 0, errors.Wrap(err, "[UserStore.Create] exec create_user")
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "[UserStore.Create] commit")
	}
	return newUserID, nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	const query = `
		SELECT u.id_user, u.username, u.email, u.first_name, u.last_name, r.role_name, u.active
		FROM [commette].[User] u
		JOIN [commette].[UserRole] ur ON ur.id_user = u.id_user
		JOIN [commette].[Role] r ON r.id_role = ur.id_role
		WHERE u.email = @p_email;`

	var user users.User
	err := s.db.QueryRowContext(ctx, query, sql.Named("p_email", email)).Scan(
		&user.ID, &user.Username, &user.Email, &user.FirstName, &user.LastName, &user.Role, &user.Active,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, users.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "[UserStore.GetByEmail]")
	}
	return &user, nil
}

func (s *UserStore) UsernameExists(ctx context.Context, username string) (bool, error) {
	const query = `SELECT COUNT(1) FROM [commette].[User] WHERE username = @p_username;`

	var count int
	if err := s.db.QueryRowContext(ctx, query, sql.Named("p_username", username)).Scan(&count); err != nil {
		return false, errors.Wrap(err, "[UserStore.UsernameExists]")
	}
	return count > 0, nil
}

func (s *UserStore) CompanyExists(ctx context.Context, companyName string) (bool, error) {
	const query = `SELECT COUNT(1) FROM [commette].[Company] WHERE company_name = @p_company_name;`

	var count int
	if err := s.db.QueryRowContext(ctx, query, sql.Named("p_company_name", companyName)).Scan(&count); err != nil {
		return false, errors.Wrap(err, "[UserStore.CompanyExists]")
	}
	return count > 0, nil
}

func (s *UserStore) CreateActivationCode(ctx context.Context, email string, code int) error {
	const query = `
		EXEC commette.generate_activation_code
			@email = @p_email,
			@code = @p_code;`

	_, err := s.db.ExecContext(ctx, query,
		sql.Named("p_email", email),
		sql.Named("p_code", code),
	)
	if err != nil {
		return errors.Wrap(err, "[UserStore.CreateActivationCode]")
	}
	return nil
}

// ActivationCodeStatus reports whether the code is still inside its
// validity window. Codes expire ten minutes after generation.
func (s *UserStore) ActivationCodeStatus(ctx context.Context, email string, code int) (users.ActivationStatus, error) {
	const query = `
		SELECT CASE WHEN ac.expires_at > SYSUTCDATETIME() THEN 'active' ELSE 'expired' END
		FROM [commette].[ActivationCode] ac
		JOIN [commette].[User] u ON u.id_user = ac.id_user
		WHERE u.email = @p_email AND ac.code = @p_code;`

	var status string
	err := s.db.QueryRowContext(ctx, query,
		sql.Named("p_email", email),
		sql.Named("p_code", code),
	).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return "", users.ErrCodeNotFound
	}
	if err != nil {
		return "", errors.Wrap(err, "[UserStore.ActivationCodeStatus]")
	}
	return users.ActivationStatus(status), nil
}

func (s *UserStore) Activate(ctx context.Context, email string) error {
	const query = `
		EXEC commette.activate_user
			@email = @p_email;`

	result, err := s.db.ExecContext(ctx, query, sql.Named("p_email", email))
	if err != nil {
		return errors.Wrap(err, "[UserStore.Activate]")
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return users.ErrNotFound
	}
	return nil
}
