package session

import (
	jwtlib "github.com/golang-jwt/jwt/v5"

	conerrors "github.com/athena-gateway/console/internal/errors"
	"github.com/athena-gateway/console/internal/utils"
)

// Claims is the payload decoded from the bearer token. It is never
// cryptographically verified on this side; the values drive UI decisions
// only and the server re-checks authorization on every request.
type Claims struct {
	UserID  string
	Roles   []string
	IsAdmin bool
}

// DecodeClaims extracts claims from a JWT without verifying its signature.
// A malformed token yields an error, which callers treat as absent claims.
func DecodeClaims(rawToken string) (*Claims, error) {
	unverified, _, err := jwtlib.NewParser().ParseUnverified(rawToken, jwtlib.MapClaims{})
	if err != nil {
		return nil, conerrors.Wrapf(conerrors.ErrMalformedToken, "[DecodeClaims] %v", err)
	}

	mapClaims, ok := unverified.Claims.(jwtlib.MapClaims)
	if !ok {
		return nil, conerrors.Wrapf(conerrors.ErrMalformedToken, "[DecodeClaims] unexpected claims type")
	}

	userID, _ := mapClaims["user_id"].(string)
	isAdmin, _ := mapClaims["is_admin"].(bool)

	var roles []string
	if claimRoles, ok := mapClaims["roles"].([]any); ok {
		roles = utils.ToStringSlice(claimRoles)
	}

	return &Claims{
		UserID:  userID,
		Roles:   roles,
		IsAdmin: isAdmin,
	}, nil
}
