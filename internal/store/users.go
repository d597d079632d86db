package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrUserExists signals the username is already taken.
	ErrUserExists = errors.New("user already exists")
	// ErrUserNotFound signals a missing user record.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidUser indicates validation failure for user data.
	ErrInvalidUser = errors.New("invalid user")
	// ErrInvalidCredentials indicates a login failure.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// Permission enumerates the manager roles.
type Permission string

// Manager roles, least to most privileged for catalogue mutation.
const (
	PermissionViewer Permission = "viewer"
	PermissionEditor Permission = "editor"
	PermissionArtist Permission = "artist"
)

// Valid reports whether the permission is one of the known roles.
func (p Permission) Valid() bool {
	switch p {
	case PermissionViewer, PermissionEditor, PermissionArtist:
		return true
	}
	return false
}

// ManagerProfile is the authorization identity attached to a user. The
// display name is matched against Album.Artist for artist ownership checks.
type ManagerProfile struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"userId"`
	DisplayName string     `json:"displayName"`
	Permission  Permission `json:"permission"`
}

// User is the authentication identity. Profile is nil when no manager
// profile has been attached.
type User struct {
	ID          int64           `json:"id"`
	Username    string          `json:"username"`
	Email       string          `json:"email"`
	IsStaff     bool            `json:"isStaff"`
	IsSuperuser bool            `json:"isSuperuser"`
	Profile     *ManagerProfile `json:"profile"`
}

// ProfilePatch describes a partial update to a manager profile.
type ProfilePatch struct {
	DisplayName *string
	Permission  *Permission
}

// UserPatch describes a partial update to a user. A non-nil Profile upserts
// the manager profile alongside the auth identity.
type UserPatch struct {
	Username     *string
	Email        *string
	PasswordHash []byte
	IsStaff      *bool
	IsSuperuser  *bool
	Profile      *ProfilePatch
}

// CreateUser registers a new auth identity, optionally with a manager
// profile, in a single transaction.
func (s *Store) CreateUser(ctx context.Context, user User, passwordHash []byte, profile *ManagerProfile) (User, error) {
	user.Username = strings.TrimSpace(user.Username)
	if user.Username == "" {
		return User{}, fmt.Errorf("%w: username is required", ErrInvalidUser)
	}
	if profile != nil && !profile.Permission.Valid() {
		return User{}, fmt.Errorf("%w: permission must be one of viewer, editor, artist", ErrInvalidUser)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return User{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO users (username, email, password_hash, is_staff, is_superuser)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, user.Username, user.Email, passwordHash, user.IsStaff, user.IsSuperuser).Scan(&user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return User{}, ErrUserExists
		}
		return User{}, fmt.Errorf("insert user: %w", err)
	}

	if profile != nil {
		p := *profile
		p.UserID = user.ID
		if p.DisplayName == "" {
			p.DisplayName = user.Username
		}
		err = tx.QueryRowContext(ctx, `
			INSERT INTO manager_profiles (user_id, display_name, permission)
			VALUES ($1, $2, $3)
			RETURNING id
		`, p.UserID, p.DisplayName, string(p.Permission)).Scan(&p.ID)
		if err != nil {
			return User{}, fmt.Errorf("insert profile: %w", err)
		}
		user.Profile = &p
	}

	if err := tx.Commit(); err != nil {
		return User{}, fmt.Errorf("commit tx: %w", err)
	}
	tx = nil

	return user, nil
}

// UserByID returns a user with any attached manager profile.
func (s *Store) UserByID(ctx context.Context, id int64) (User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT u.id, u.username, u.email, u.is_staff, u.is_superuser,
			p.id, p.display_name, p.permission
		FROM users u
		LEFT JOIN manager_profiles p ON p.user_id = u.id
		WHERE u.id = $1
	`, id)
	return scanUserRow(row)
}

// Users lists all users with their manager profiles.
func (s *Store) Users(ctx context.Context) ([]User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT u.id, u.username, u.email, u.is_staff, u.is_superuser,
			p.id, p.display_name, p.permission
		FROM users u
		LEFT JOIN manager_profiles p ON p.user_id = u.id
		ORDER BY u.id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("select users: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		user, err := scanUserRow(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	return users, nil
}

// UpdateUser applies a partial update to the auth identity and, when the
// patch carries profile fields, upserts the manager profile.
func (s *Store) UpdateUser(ctx context.Context, id int64, patch UserPatch) (User, error) {
	user, err := s.UserByID(ctx, id)
	if err != nil {
		return User{}, err
	}

	if patch.Username != nil {
		user.Username = strings.TrimSpace(*patch.Username)
		if user.Username == "" {
			return User{}, fmt.Errorf("%w: username is required", ErrInvalidUser)
		}
	}
	if patch.Email != nil {
		user.Email = strings.TrimSpace(*patch.Email)
	}
	if patch.IsStaff != nil {
		user.IsStaff = *patch.IsStaff
	}
	if patch.IsSuperuser != nil {
		user.IsSuperuser = *patch.IsSuperuser
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return User{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, `
		UPDATE users
		SET username = $1, email = $2, is_staff = $3, is_superuser = $4
		WHERE id = $5
	`, user.Username, user.Email, user.IsStaff, user.IsSuperuser, id); err != nil {
		if isUniqueViolation(err) {
			return User{}, ErrUserExists
		}
		return User{}, fmt.Errorf("update user: %w", err)
	}

	if len(patch.PasswordHash) > 0 {
		if _, err := tx.ExecContext(ctx, `
			UPDATE users
			SET password_hash = $1
			WHERE id = $2
		`, patch.PasswordHash, id); err != nil {
			return User{}, fmt.Errorf("update password: %w", err)
		}
	}

	if patch.Profile != nil {
		displayName := user.Username
		permission := PermissionViewer
		if user.Profile != nil {
			displayName = user.Profile.DisplayName
			permission = user.Profile.Permission
		}
		if patch.Profile.DisplayName != nil {
			displayName = *patch.Profile.DisplayName
		}
		if patch.Profile.Permission != nil {
			permission = *patch.Profile.Permission
		}
		if !permission.Valid() {
			return User{}, fmt.Errorf("%w: permission must be one of viewer, editor, artist", ErrInvalidUser)
		}

		var profileID int64
		err = tx.QueryRowContext(ctx, `
			INSERT INTO manager_profiles (user_id, display_name, permission)
			VALUES ($1, $2, $3)
			ON CONFLICT (user_id)
			DO UPDATE SET display_name = EXCLUDED.display_name, permission = EXCLUDED.permission
			RETURNING id
		`, id, displayName, string(permission)).Scan(&profileID)
		if err != nil {
			return User{}, fmt.Errorf("upsert profile: %w", err)
		}
		user.Profile = &ManagerProfile{
			ID:          profileID,
			UserID:      id,
			DisplayName: displayName,
			Permission:  permission,
		}
	}

	if err := tx.Commit(); err != nil {
		return User{}, fmt.Errorf("commit tx: %w", err)
	}
	tx = nil

	return user, nil
}

// DeleteUser removes a user. The manager profile and sessions cascade away.
func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM users
		WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// CredentialsByUsername returns the user id and password hash for a login
// attempt.
func (s *Store) CredentialsByUsername(ctx context.Context, username string) (int64, []byte, error) {
	var (
		id   int64
		hash []byte
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, password_hash
		FROM users
		WHERE username = $1
	`, username).Scan(&id, &hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil, ErrInvalidCredentials
		}
		return 0, nil, fmt.Errorf("lookup user: %w", err)
	}
	return id, hash, nil
}

// CreateSession records an issued token for later lookup and revocation.
func (s *Store) CreateSession(ctx context.Context, token string, userID int64, expiresAt time.Time) error {
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (token, user_id, expires_at)
		VALUES ($1, $2, $3)
	`, token, userID, expiresAt); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

// UserForToken resolves a session token to its user, including any manager
// profile. Missing or expired sessions yield ErrUnauthorized.
func (s *Store) UserForToken(ctx context.Context, token string) (User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT u.id, u.username, u.email, u.is_staff, u.is_superuser,
			p.id, p.display_name, p.permission
		FROM sessions se
		JOIN users u ON u.id = se.user_id
		LEFT JOIN manager_profiles p ON p.user_id = u.id
		WHERE se.token = $1 AND se.expires_at > NOW()
	`, token)

	user, err := scanUserRow(row)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return User{}, ErrUnauthorized
		}
		return User{}, err
	}
	return user, nil
}

type userScanner interface {
	Scan(dest ...any) error
}

func scanUserRow(scanner userScanner) (User, error) {
	var (
		user        User
		profileID   sql.NullInt64
		displayName sql.NullString
		permission  sql.NullString
	)
	err := scanner.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.IsStaff,
		&user.IsSuperuser,
		&profileID,
		&displayName,
		&permission,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, fmt.Errorf("scan user: %w", err)
	}
	if profileID.Valid {
		user.Profile = &ManagerProfile{
			ID:          profileID.Int64,
			UserID:      user.ID,
			DisplayName: displayName.String,
			Permission:  Permission(permission.String),
		}
	}
	return user, nil
}
