package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
)

var errMissingScope = errors.New("token is missing org_id or user_id claims")

// requestScope pulls the org and user identity out of the verified
// token. Handlers pass both down as opaque scope parameters; services
// never see tokens.
func requestScope(r *http.Request) (orgID, userID string, err error) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return "", "", err
	}

	orgID, okOrg := claims["org_id"].(string)
	userID, okUser := claims["user_id"].(string)
	if !okOrg || !okUser || orgID == "" || userID == "" {
		return "", "", errMissingScope
	}

	return orgID, userID, nil
}
