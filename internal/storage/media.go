// Package storage locates song media. Uploaded files live under the upload
// directory; media bundled with the application is served from /assets.
package storage

import "strings"

// IsUploaded reports whether a song's media came through the admin upload
// flow. Uploaded cover names carry a "_" separated timestamp, bundled ones do not.
func IsUploaded(coverImage string) bool {
	return strings.Contains(coverImage, "_")
}

// URLBuilder produces public URLs for song media
type URLBuilder struct {
	baseURL string
}

func NewURLBuilder(baseURL string) *URLBuilder {
	return &URLBuilder{baseURL: strings.TrimRight(baseURL, "/")}
}

// Cover returns the public URL of a cover image
func (b *URLBuilder) Cover(coverImage string) string {
	if IsUploaded(coverImage) {
		return b.baseURL + "/uploads/covers/" + coverImage
	}
	return b.baseURL + "/assets/img/" + coverImage
}

// Audio returns the public URL of the audio file. The cover name decides the
// location so both files of a song always come from the same tree.
func (b *URLBuilder) Audio(coverImage, filePath string) string {
	if IsUploaded(coverImage) {
		return b.baseURL + "/uploads/songs/" + filePath
	}
	return b.baseURL + "/assets/audio/" + filePath
}
