package utils

const (
	OrganizationName                      = "Al Mubarak Residences"
	CORSLowSecurityAllowedOriginLocalhost = "http://localhost:*"
	CurrencyCode                          = "KES"
)
