package store

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestCreateUserWithProfile(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`
		INSERT INTO users (username, email, password_hash, is_staff, is_superuser)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`)).
		WithArgs("frank", "frank@example.com", []byte("hash"), false, false).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))
	mock.ExpectQuery(regexp.QuoteMeta(`
		INSERT INTO manager_profiles (user_id, display_name, permission)
		VALUES ($1, $2, $3)
		RETURNING id
	`)).
		WithArgs(int64(7), "Frank Ocean", "artist").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))
	mock.ExpectCommit()

	got, err := s.CreateUser(context.Background(), User{
		Username: " frank ",
		Email:    "frank@example.com",
	}, []byte("hash"), &ManagerProfile{
		DisplayName: "Frank Ocean",
		Permission:  PermissionArtist,
	})
	if err != nil {
		t.Fatalf("CreateUser error: %v", err)
	}
	if got.ID != 7 || got.Username != "frank" {
		t.Fatalf("unexpected user: %+v", got)
	}
	if got.Profile == nil || got.Profile.ID != 3 || got.Profile.UserID != 7 {
		t.Fatalf("unexpected profile: %+v", got.Profile)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateUserDefaultsDisplayName(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`
		INSERT INTO users (username, email, password_hash, is_staff, is_superuser)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))
	mock.ExpectQuery(regexp.QuoteMeta(`
		INSERT INTO manager_profiles (user_id, display_name, permission)
		VALUES ($1, $2, $3)
		RETURNING id
	`)).
		WithArgs(int64(7), "vera", "viewer").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(4)))
	mock.ExpectCommit()

	got, err := s.CreateUser(context.Background(), User{Username: "vera"}, []byte("hash"), &ManagerProfile{
		Permission: PermissionViewer,
	})
	if err != nil {
		t.Fatalf("CreateUser error: %v", err)
	}
	if got.Profile.DisplayName != "vera" {
		t.Fatalf("expected display name to default to username, got %q", got.Profile.DisplayName)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`
		INSERT INTO users (username, email, password_hash, is_staff, is_superuser)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`)).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectRollback()

	_, err = s.CreateUser(context.Background(), User{Username: "frank"}, []byte("hash"), nil)
	if !errors.Is(err, ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateUserRejectsUnknownPermission(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	_, err = s.CreateUser(context.Background(), User{Username: "frank"}, []byte("hash"), &ManagerProfile{
		Permission: Permission("admin"),
	})
	if !errors.Is(err, ErrInvalidUser) {
		t.Fatalf("expected ErrInvalidUser, got %v", err)
	}
}

func TestCredentialsByUsernameUnknown(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT id, password_hash
		FROM users
		WHERE username = $1
	`)).
		WithArgs("nobody").
		WillReturnRows(sqlmock.NewRows([]string{"id", "password_hash"}))

	_, _, err = s.CredentialsByUsername(context.Background(), "nobody")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserForTokenExpired(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT u.id, u.username, u.email, u.is_staff, u.is_superuser,
			p.id, p.display_name, p.permission
		FROM sessions se
		JOIN users u ON u.id = se.user_id
		LEFT JOIN manager_profiles p ON p.user_id = u.id
		WHERE se.token = $1 AND se.expires_at > NOW()
	`)).
		WithArgs("stale-token").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "is_staff", "is_superuser", "profile_id", "display_name", "permission"}))

	_, err = s.UserForToken(context.Background(), "stale-token")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserForTokenWithProfile(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT u.id, u.username, u.email, u.is_staff, u.is_superuser,
			p.id, p.display_name, p.permission
		FROM sessions se
		JOIN users u ON u.id = se.user_id
		LEFT JOIN manager_profiles p ON p.user_id = u.id
		WHERE se.token = $1 AND se.expires_at > NOW()
	`)).
		WithArgs("good-token").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "is_staff", "is_superuser", "profile_id", "display_name", "permission"}).
			AddRow(int64(7), "frank", "frank@example.com", false, false, int64(3), "Frank Ocean", "artist"))

	user, err := s.UserForToken(context.Background(), "good-token")
	if err != nil {
		t.Fatalf("UserForToken error: %v", err)
	}
	if user.Profile == nil || user.Profile.Permission != PermissionArtist {
		t.Fatalf("unexpected profile: %+v", user.Profile)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateSession(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)
	expiresAt := time.Now().Add(24 * time.Hour)

	mock.ExpectExec(regexp.QuoteMeta(`
		INSERT INTO sessions (token, user_id, expires_at)
		VALUES ($1, $2, $3)
	`)).
		WithArgs("token", int64(7), expiresAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := s.CreateSession(context.Background(), "token", 7, expiresAt); err != nil {
		t.Fatalf("CreateSession error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
