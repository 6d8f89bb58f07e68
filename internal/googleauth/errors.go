package googleauth

import (
	"errors"
	"strings"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
)

// IsInvalidGrant reports whether err means the stored refresh token was
// revoked or expired. The caller should clear the token and send the
// user back through the consent flow.
func IsInvalidGrant(err error) bool {
	if err == nil {
		return false
	}
	var re *oauth2.RetrieveError
	if errors.As(err, &re) {
		if re.ErrorCode == "invalid_grant" {
			return true
		}
		return strings.Contains(string(re.Body), "invalid_grant")
	}
	return strings.Contains(err.Error(), "invalid_grant")
}

// IsInsufficientPermission reports whether err means the token lacks a
// scope the operation needs. Re-consent with the current scope set
// fixes it.
func IsInsufficientPermission(err error) bool {
	if err == nil {
		return false
	}
	var ge *googleapi.Error
	if errors.As(err, &ge) {
		if ge.Code != 403 {
			return false
		}
		for _, e := range ge.Errors {
			if e.Reason == "insufficientPermissions" || e.Reason == "forbidden" {
				return true
			}
		}
		return strings.Contains(strings.ToLower(ge.Message), "insufficient")
	}
	return false
}

// IsReauthRequired reports whether err is any credential failure that
// the user must resolve by authorizing again.
func IsReauthRequired(err error) bool {
	return IsInvalidGrant(err) || IsInsufficientPermission(err)
}
