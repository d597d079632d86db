package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"musicman/internal/auth"
	"musicman/internal/store"
)

// bootstrapDemoData seeds one manager per permission level plus a small
// catalogue. Safe to run on every start: existing rows are left alone.
func bootstrapDemoData(ctx context.Context, db *sql.DB, dataStore *store.Store) error {
	if err := ensureDemoUsers(ctx, dataStore); err != nil {
		return err
	}
	return ensureDemoCatalogue(ctx, db, dataStore)
}

func ensureDemoUsers(ctx context.Context, dataStore *store.Store) error {
	seeds := []struct {
		username    string
		password    string
		displayName string
		permission  store.Permission
		isStaff     bool
	}{
		{"edith", "edith123", "Edith Moore", store.PermissionEditor, true},
		{"vera", "vera123", "Vera Lane", store.PermissionViewer, false},
		{"frank", "frank123", "Frank Ocean", store.PermissionArtist, false},
	}

	for _, seed := range seeds {
		hash, err := auth.HashPassword(seed.password)
		if err != nil {
			return fmt.Errorf("hash demo password for %q: %w", seed.username, err)
		}
		user := store.User{
			Username: seed.username,
			Email:    seed.username + "@example.com",
			IsStaff:  seed.isStaff,
		}
		profile := &store.ManagerProfile{
			DisplayName: seed.displayName,
			Permission:  seed.permission,
		}
		if _, err := dataStore.CreateUser(ctx, user, hash, profile); err != nil && !errors.Is(err, store.ErrUserExists) {
			return fmt.Errorf("bootstrap demo user %q: %w", seed.username, err)
		}
	}
	return nil
}

func ensureDemoCatalogue(ctx context.Context, db *sql.DB, dataStore *store.Store) error {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM albums`).Scan(&count); err != nil {
		return fmt.Errorf("count albums: %w", err)
	}
	if count > 0 {
		return nil
	}

	type seedSong struct {
		title    string
		duration int
	}
	type seedAlbum struct {
		title       string
		artist      string
		description string
		price       string
		format      store.Format
		releaseDate string
		songs       []seedSong
	}

	albums := []seedAlbum{
		{
			title:       "Blonde",
			artist:      "Frank Ocean",
			description: "Frank Ocean's second studio album.",
			price:       "19.99",
			format:      store.FormatVinyl,
			releaseDate: "2016-08-20",
			songs: []seedSong{
				{"Nikes", 314},
				{"Ivy", 249},
				{"Pink + White", 184},
			},
		},
		{
			title:       "In Rainbows",
			artist:      "Radiohead",
			description: "Radiohead's seventh studio album, originally released as a pay-what-you-want download.",
			price:       "9.99",
			format:      store.FormatDigitalDownload,
			releaseDate: "2007-10-10",
			songs: []seedSong{
				{"15 Step", 237},
				{"Nude", 261},
				{"Reckoner", 290},
			},
		},
		{
			title:       "Mezzanine",
			artist:      "Massive Attack",
			description: "Massive Attack's third studio album.",
			price:       "12.50",
			format:      store.FormatCD,
			releaseDate: "1998-04-20",
			songs: []seedSong{
				{"Angel", 379},
				{"Teardrop", 330},
			},
		},
	}

	for _, seed := range albums {
		releaseDate, err := time.Parse("2006-01-02", seed.releaseDate)
		if err != nil {
			return fmt.Errorf("parse seed release date for %q: %w", seed.title, err)
		}
		price, err := decimal.NewFromString(seed.price)
		if err != nil {
			return fmt.Errorf("parse seed price for %q: %w", seed.title, err)
		}

		album, err := dataStore.CreateAlbum(ctx, store.Album{
			Title:       seed.title,
			Description: seed.description,
			Artist:      seed.artist,
			Price:       price,
			Format:      seed.format,
			ReleaseDate: releaseDate,
		})
		if err != nil {
			if errors.Is(err, store.ErrAlbumExists) {
				continue
			}
			return fmt.Errorf("insert demo album %q: %w", seed.title, err)
		}

		for i, track := range seed.songs {
			song, err := dataStore.CreateSong(ctx, store.Song{
				Title:    track.title,
				Artist:   seed.artist,
				Duration: track.duration,
			})
			if err != nil {
				return fmt.Errorf("insert demo song %q: %w", track.title, err)
			}
			position := i + 1
			if _, err := dataStore.AddTrack(ctx, album.ID, song.ID, &position); err != nil {
				return fmt.Errorf("insert demo track %q: %w", track.title, err)
			}
		}
	}
	return nil
}
