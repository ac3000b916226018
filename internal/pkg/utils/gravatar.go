package utils

import (
	"crypto/md5"
	"fmt"
	"strings"
)

// GravatarURL returns the Gravatar for an email, falling back to the
// "mystery person" image. Used when a social login carries no avatar.
func GravatarURL(email string, size int) string {
	if size <= 0 {
		size = 200
	}

	email = strings.ToLower(strings.TrimSpace(email))
	hash := md5.Sum([]byte(email))

	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?s=%d&d=mp", hash, size)
}
