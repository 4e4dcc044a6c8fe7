package common

import "time"

// AuthHeaderName is the HTTP header carrying the bearer credential.
const AuthHeaderName = "Authorization"

// Wall timing rules. The creation window opens 24 hours before the owner's
// birthday instant and closes at the instant itself; the wall then stays
// open for contributions for 48 hours before archival.
const (
	CreationWindow = 24 * time.Hour
	ActiveWindow   = 48 * time.Hour
)

// Upload constraints enforced at the boundary (client-side before any
// network call, and again at presign time on the server).
const MaxUploadBytes = 10 << 20

// AcceptedImageTypes lists the image MIME types a wall accepts.
var AcceptedImageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// IsAcceptedImageType reports whether mime is one of AcceptedImageTypes.
func IsAcceptedImageType(mime string) bool {
	for _, t := range AcceptedImageTypes {
		if t == mime {
			return true
		}
	}
	return false
}

// Emojis available for photo reactions. The set is fixed; anything else is
// rejected with ErrValidation.
var ReactionEmojis = []string{"❤️", "👍", "😊"}

// IsReactionEmoji reports whether emoji belongs to the fixed reaction set.
func IsReactionEmoji(emoji string) bool {
	for _, e := range ReactionEmojis {
		if e == emoji {
			return true
		}
	}
	return false
}
