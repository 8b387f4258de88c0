package auth

const bearerPrefix = "Bearer "

// formatAuthorizationHeader builds the header that presents a refresh token to the
// backend's logout endpoint
func formatAuthorizationHeader(token string) string {
	return bearerPrefix + token
}
