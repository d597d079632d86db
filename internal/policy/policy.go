// Package policy holds the authorization rules for catalogue mutation as
// pure functions over (profile, album) pairs. Every decision fails closed: a
// nil profile or an unknown permission always denies. The public catalogue
// listing is the one unauthenticated read path and sits outside this package.
package policy

import "musicman/internal/store"

// CanView reports whether the profile may see the album in the management
// views. Viewers and editors see everything; artists see only their own.
func CanView(profile *store.ManagerProfile, album store.Album) bool {
	if profile == nil {
		return false
	}
	switch profile.Permission {
	case store.PermissionViewer, store.PermissionEditor:
		return true
	case store.PermissionArtist:
		return album.Artist == profile.DisplayName
	}
	return false
}

// CanEdit reports whether the profile may modify the album or its tracklist.
// Editors may edit anything; artists only albums whose artist matches their
// display name.
func CanEdit(profile *store.ManagerProfile, album store.Album) bool {
	if profile == nil {
		return false
	}
	if profile.Permission == store.PermissionEditor {
		return true
	}
	return profile.Permission == store.PermissionArtist && album.Artist == profile.DisplayName
}

// CanDelete reports whether the profile may delete the album. Deliberately
// narrower than CanEdit: only editors, never owning artists.
func CanDelete(profile *store.ManagerProfile, album store.Album) bool {
	return profile != nil && profile.Permission == store.PermissionEditor
}

// CanCreate reports whether the profile may create albums.
func CanCreate(profile *store.ManagerProfile) bool {
	return profile != nil && profile.Permission == store.PermissionEditor
}

// CanManageSongs reports whether the profile may create, update or delete
// songs. Songs have no owner, so only editors qualify.
func CanManageSongs(profile *store.ManagerProfile) bool {
	return profile != nil && profile.Permission == store.PermissionEditor
}

// AlbumScope translates a profile into the album listing filter for the
// management views. The second return is false when the profile sees no
// albums at all.
func AlbumScope(profile *store.ManagerProfile) (store.AlbumFilter, bool) {
	if profile == nil {
		return store.AlbumFilter{}, false
	}
	switch profile.Permission {
	case store.PermissionArtist:
		return store.AlbumFilter{Artist: profile.DisplayName}, true
	case store.PermissionViewer, store.PermissionEditor:
		return store.AlbumFilter{}, true
	}
	return store.AlbumFilter{}, false
}
